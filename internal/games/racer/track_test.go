package racer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-racer/internal/config"
)

const eps = 1e-9

func near(a, b mgl64.Vec2) bool {
	return a.ApproxEqualThreshold(b, 1e-6)
}

func TestWrap01(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{0.25, 0.25},
		{1, 0},
		{1.75, 0.75},
		{-0.25, 0.75},
		{-1, 0},
		{3, 0},
	}
	for _, tt := range tests {
		got := Wrap01(tt.in)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("Wrap01(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 1 {
			t.Errorf("Wrap01(%v) = %v out of [0,1)", tt.in, got)
		}
	}
}

func TestClosedLoopLength(t *testing.T) {
	circle := NewClosedLoopPath(mgl64.Vec2{}, 100, 100, 10)
	if want := 2 * math.Pi * 100; math.Abs(circle.Length()-want) > 1e-6 {
		t.Errorf("circle length = %f, want %f", circle.Length(), want)
	}

	// Ramanujan's approximation for a 2:1 ellipse is within a hair of the true 96.88
	ellipse := NewClosedLoopPath(mgl64.Vec2{}, 20, 10, 5)
	if math.Abs(ellipse.Length()-96.8845) > 1e-3 {
		t.Errorf("ellipse length = %f, want ~96.8845", ellipse.Length())
	}

	if NewClosedLoopPath(mgl64.Vec2{}, 0, 0, 5).Length() != 0 {
		t.Error("degenerate ellipse should have zero length")
	}
}

func TestClosedLoopSample(t *testing.T) {
	p := NewClosedLoopPath(mgl64.Vec2{5, -5}, 100, 100, 10)

	if got := p.Sample(0, 0); !near(got, mgl64.Vec2{105, -5}) {
		t.Errorf("Sample(0,0) = %v", got)
	}
	if got := p.Sample(0, 1); !near(got, mgl64.Vec2{115, -5}) {
		t.Errorf("Sample(0,1) = %v, want outer edge", got)
	}
	if got := p.Sample(0.25, -1); !near(got, mgl64.Vec2{5, 85}) {
		t.Errorf("Sample(0.25,-1) = %v, want inner edge", got)
	}

	// Progress wraps periodically
	if !near(p.Sample(1.25, 0.3), p.Sample(0.25, 0.3)) {
		t.Error("Sample should wrap progress above 1")
	}
	if !near(p.Sample(-0.75, 0.3), p.Sample(0.25, 0.3)) {
		t.Error("Sample should wrap negative progress")
	}
}

func TestClosedLoopSampleOnEllipseStaysOnNormal(t *testing.T) {
	p := NewClosedLoopPath(mgl64.Vec2{}, 200, 100, 20)
	for _, u := range []float64{0.1, 0.3, 0.6, 0.85} {
		center := p.Sample(u, 0)
		edge := p.Sample(u, 1)
		if d := edge.Sub(center).Len(); math.Abs(d-20) > 1e-6 {
			t.Errorf("u=%v: edge offset %f, want half width 20", u, d)
		}
		// Tangent direction by finite difference must be orthogonal to the offset
		tangent := p.Sample(u+1e-6, 0).Sub(p.Sample(u-1e-6, 0))
		if dot := tangent.Normalize().Dot(edge.Sub(center).Normalize()); math.Abs(dot) > 1e-4 {
			t.Errorf("u=%v: offset not perpendicular to track (dot=%f)", u, dot)
		}
	}
}

func TestClosedLoopProgressDelta(t *testing.T) {
	p := NewClosedLoopPath(mgl64.Vec2{}, 100, 100, 10)
	tests := []struct {
		a, b, want float64
	}{
		{0.2, 0.3, 0.1},
		{0.3, 0.2, -0.1},
		{0.95, 0.05, 0.1},
		{0.05, 0.95, -0.1},
		{0, 0.5, 0.5},
		{1.2, 0.3, 0.1},
	}
	for _, tt := range tests {
		got := p.ProgressDelta(tt.a, tt.b)
		if math.Abs(got-tt.want) > eps {
			t.Errorf("ProgressDelta(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got < -0.5 || got > 0.5 {
			t.Errorf("ProgressDelta(%v,%v) = %v outside [-0.5,0.5]", tt.a, tt.b, got)
		}
	}
}

func TestClosedLoopLapWrap(t *testing.T) {
	p := NewClosedLoopPath(mgl64.Vec2{}, 100, 100, 10)

	if next, crossed := p.LapWrap(0.5); crossed || next != 0.5 {
		t.Errorf("LapWrap(0.5) = %v, %v", next, crossed)
	}
	next, crossed := p.LapWrap(1.004)
	if !crossed || math.Abs(next-0.004) > eps {
		t.Errorf("LapWrap(1.004) = %v, %v; want overflow carried", next, crossed)
	}
	if next, crossed := p.Carry(1.1); !crossed || math.Abs(next-0.1) > eps {
		t.Errorf("Carry(1.1) = %v, %v", next, crossed)
	}
}

func TestStraightPath(t *testing.T) {
	p := NewStraightPath(mgl64.Vec2{0, 100}, mgl64.Vec2{0, -100}, 10)

	if p.Length() != 200 {
		t.Errorf("length = %f, want 200", p.Length())
	}
	if got := p.Sample(0.5, 0); !near(got, mgl64.Vec2{0, 0}) {
		t.Errorf("Sample(0.5,0) = %v", got)
	}
	if got := p.Sample(0.5, 1); math.Abs(got.Len()-10) > 1e-9 || math.Abs(got[1]) > 1e-9 {
		t.Errorf("Sample(0.5,1) = %v, want a half width across the road", got)
	}

	// Out-of-range progress clamps to the anchors
	if !near(p.Sample(-1, 0), p.Sample(0, 0)) {
		t.Error("Sample should clamp below 0")
	}
	if !near(p.Sample(2, 0), p.Sample(1, 0)) {
		t.Error("Sample should clamp above 1")
	}

	if got := p.ProgressDelta(0.95, 0.05); math.Abs(got+0.9) > eps {
		t.Errorf("straight delta should not wrap, got %v", got)
	}

	if next, crossed := p.LapWrap(1.01); !crossed || next != 0 {
		t.Errorf("LapWrap(1.01) = %v, %v; want reset to start", next, crossed)
	}
	if next, crossed := p.Carry(1.3); crossed || next != 1.3 {
		t.Errorf("Carry(1.3) = %v, %v; want unwrapped", next, crossed)
	}
}

func TestStraightPathZeroLength(t *testing.T) {
	p := NewStraightPath(mgl64.Vec2{3, 3}, mgl64.Vec2{3, 3}, 10)
	if got := p.Sample(0.5, 1); !near(got, mgl64.Vec2{3, 3}) {
		t.Errorf("degenerate road should sample its anchor, got %v", got)
	}
}

func TestNewTrackScatter(t *testing.T) {
	path := NewClosedLoopPath(mgl64.Vec2{}, 100, 100, 10)
	track := NewTrack(path, 45, 6, rand.New(rand.NewSource(1)))

	if len(track.Pickups) != 45 || len(track.Obstacles) != 6 {
		t.Fatalf("got %d pickups and %d obstacles", len(track.Pickups), len(track.Obstacles))
	}
	for i, pk := range track.Pickups {
		if pk.Progress < 0 || pk.Progress >= 1 {
			t.Errorf("pickup %d progress %f out of range", i, pk.Progress)
		}
		if want := scatterLanes[i%3]; pk.Lane != want {
			t.Errorf("pickup %d lane %f, want %f", i, pk.Lane, want)
		}
		base := float64(i) / 45
		if pk.Progress < base || pk.Progress > base+0.01 {
			t.Errorf("pickup %d progress %f too far from slot %f", i, pk.Progress, base)
		}
		if pk.Collected {
			t.Errorf("pickup %d starts collected", i)
		}
	}
	for i, ob := range track.Obstacles {
		if ob.Progress < 0 || ob.Progress >= 1 {
			t.Errorf("obstacle %d progress %f out of range", i, ob.Progress)
		}
		if ob.Radius != obstacleRadius {
			t.Errorf("obstacle %d radius %f", i, ob.Radius)
		}
	}
	if track.RemainingPickups() != 45 {
		t.Errorf("remaining = %d", track.RemainingPickups())
	}
}

func TestNewTrackDeterministic(t *testing.T) {
	path := NewStraightPath(mgl64.Vec2{0, 100}, mgl64.Vec2{0, -100}, 10)
	a := NewTrack(path, 20, 5, rand.New(rand.NewSource(7)))
	b := NewTrack(path, 20, 5, rand.New(rand.NewSource(7)))
	for i := range a.Pickups {
		if a.Pickups[i] != b.Pickups[i] {
			t.Fatalf("pickup %d differs with the same seed", i)
		}
	}
	for i := range a.Obstacles {
		if a.Obstacles[i] != b.Obstacles[i] {
			t.Fatalf("obstacle %d differs with the same seed", i)
		}
	}
}

func TestBuildPath(t *testing.T) {
	cfg := config.DefaultRacerConfig().Track

	cfg.Kind = config.TrackStraight
	straight, ok := BuildPath(cfg).(*StraightPath)
	if !ok {
		t.Fatal("expected a straight path")
	}
	if want := 4 * cfg.Radius; math.Abs(straight.Length()-want) > eps {
		t.Errorf("straight length = %f, want %f", straight.Length(), want)
	}
	if straight.HalfWidth() != cfg.RoadWidth/2 {
		t.Errorf("half width = %f", straight.HalfWidth())
	}

	cfg.Kind = config.TrackLoop
	cfg.RadiusY = 0
	loop, ok := BuildPath(cfg).(*ClosedLoopPath)
	if !ok {
		t.Fatal("expected a closed loop")
	}
	if _, ry := loop.Radii(); ry != cfg.Radius {
		t.Errorf("missing radius_y should fall back to radius, got %f", ry)
	}
}

func TestTrackClone(t *testing.T) {
	path := NewClosedLoopPath(mgl64.Vec2{}, 100, 100, 10)
	track := NewTrack(path, 3, 1, rand.New(rand.NewSource(1)))
	clone := track.Clone()
	clone.Pickups[0].Collected = true
	clone.Obstacles[0].Lane = 5
	if track.Pickups[0].Collected || track.Obstacles[0].Lane == 5 {
		t.Error("clone shares item slices with the original")
	}
}

func TestTrackCloneCopiesPath(t *testing.T) {
	paths := []Path{
		NewClosedLoopPath(mgl64.Vec2{1, 2}, 100, 60, 10),
		NewStraightPath(mgl64.Vec2{0, 200}, mgl64.Vec2{0, -200}, 10),
	}
	for _, path := range paths {
		track := NewTrack(path, 2, 0, rand.New(rand.NewSource(1)))
		clone := track.Clone()

		switch c := clone.Path.(type) {
		case *ClosedLoopPath:
			if c == path {
				t.Error("loop clone aliases the original path")
			}
			*c = ClosedLoopPath{}
		case *StraightPath:
			if c == path {
				t.Error("straight clone aliases the original path")
			}
			*c = StraightPath{}
		default:
			t.Fatalf("unexpected path type %T", clone.Path)
		}

		if track.Path.Length() == 0 {
			t.Errorf("%T: wiping the clone changed the original", path)
		}
	}
}
