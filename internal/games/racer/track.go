package racer

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-racer/internal/config"
)

// Lanes pickups and obstacles are placed on.
var scatterLanes = [3]float64{-0.6, 0, 0.6}

const obstacleRadius = 10

// Path is the raceable centerline of a track.
// Progress is the normalized position along it, lateral is the signed
// cross-track offset in [-1, 1].
type Path interface {
	// Length is the centerline length in world units.
	Length() float64
	// HalfWidth is the road half-width in world units.
	HalfWidth() float64
	// Sample maps (progress, lateral) to a world position.
	Sample(progress, lateral float64) mgl64.Vec2
	// ProgressDelta returns the signed shortest distance b - a.
	ProgressDelta(a, b float64) float64
	// LapWrap applies the end-of-lap rule to the player's progress.
	LapWrap(progress float64) (next float64, crossed bool)
	// Carry keeps free-running progress (AI racers) in range.
	Carry(progress float64) (next float64, crossed bool)
}

// ClosedLoopPath is an elliptical circuit.
type ClosedLoopPath struct {
	center  mgl64.Vec2
	radiusX float64
	radiusY float64

	halfWidth float64
	length    float64
}

// NewClosedLoopPath builds an ellipse; the length uses Ramanujan's
// perimeter approximation.
func NewClosedLoopPath(center mgl64.Vec2, radiusX, radiusY, halfWidth float64) *ClosedLoopPath {
	length := 0.0
	if sum := radiusX + radiusY; sum > 0 {
		h := (radiusX - radiusY) * (radiusX - radiusY) / (sum * sum)
		length = math.Pi * sum * (1 + 3*h/(10+math.Sqrt(4-3*h)))
	}
	return &ClosedLoopPath{
		center:    center,
		radiusX:   radiusX,
		radiusY:   radiusY,
		halfWidth: halfWidth,
		length:    length,
	}
}

func (p *ClosedLoopPath) Length() float64    { return p.length }
func (p *ClosedLoopPath) HalfWidth() float64 { return p.halfWidth }
func (p *ClosedLoopPath) Center() mgl64.Vec2 { return p.center }

// Radii returns the ellipse semi-axes along x and y.
func (p *ClosedLoopPath) Radii() (x, y float64) {
	return p.radiusX, p.radiusY
}

// Sample wraps progress periodically and offsets along the outward normal.
func (p *ClosedLoopPath) Sample(progress, lateral float64) mgl64.Vec2 {
	theta := 2 * math.Pi * Wrap01(progress)
	cos, sin := math.Cos(theta), math.Sin(theta)

	point := p.center.Add(mgl64.Vec2{p.radiusX * cos, p.radiusY * sin})
	normal := mgl64.Vec2{p.radiusY * cos, p.radiusX * sin}
	if normal.Len() == 0 {
		return point
	}
	return point.Add(normal.Normalize().Mul(lateral * p.halfWidth))
}

// ProgressDelta is the circular distance, always within [-0.5, 0.5].
func (p *ClosedLoopPath) ProgressDelta(a, b float64) float64 {
	d := Wrap01(b) - Wrap01(a)
	if d > 0.5 {
		d--
	}
	if d < -0.5 {
		d++
	}
	return d
}

// LapWrap carries the overflow past the start line into the next lap.
func (p *ClosedLoopPath) LapWrap(progress float64) (float64, bool) {
	if progress < 1 {
		return progress, false
	}
	return Wrap01(progress), true
}

func (p *ClosedLoopPath) Carry(progress float64) (float64, bool) {
	return p.LapWrap(progress)
}

// StraightPath is a point-to-point boulevard. One traversal is one lap.
type StraightPath struct {
	start mgl64.Vec2
	end   mgl64.Vec2

	halfWidth float64
	length    float64
	perp      mgl64.Vec2
}

// NewStraightPath builds a straight road between two anchors.
func NewStraightPath(start, end mgl64.Vec2, halfWidth float64) *StraightPath {
	dir := end.Sub(start)
	p := &StraightPath{
		start:     start,
		end:       end,
		halfWidth: halfWidth,
		length:    dir.Len(),
	}
	if p.length > 0 {
		unit := dir.Normalize()
		p.perp = mgl64.Vec2{-unit[1], unit[0]}
	}
	return p
}

func (p *StraightPath) Length() float64    { return p.length }
func (p *StraightPath) HalfWidth() float64 { return p.halfWidth }

// Endpoints returns the start and finish anchors.
func (p *StraightPath) Endpoints() (start, end mgl64.Vec2) {
	return p.start, p.end
}

// Sample clamps progress to the road and offsets perpendicular to it.
func (p *StraightPath) Sample(progress, lateral float64) mgl64.Vec2 {
	t := math.Max(0, math.Min(1, progress))
	point := p.start.Add(p.end.Sub(p.start).Mul(t))
	return point.Add(p.perp.Mul(lateral * p.halfWidth))
}

// ProgressDelta is plain subtraction, there is no wraparound on a straight.
func (p *StraightPath) ProgressDelta(a, b float64) float64 {
	return b - a
}

// LapWrap sends the racer back to the start line once the end is reached.
func (p *StraightPath) LapWrap(progress float64) (float64, bool) {
	if progress < 1 {
		return progress, false
	}
	return 0, true
}

// Carry leaves progress unwrapped, so opponents run past 1.0.
func (p *StraightPath) Carry(progress float64) (float64, bool) {
	return progress, false
}

// Pickup is a collectible coin on the track.
type Pickup struct {
	Progress  float64
	Lane      float64
	Collected bool
}

// Obstacle slows down racers passing through it.
type Obstacle struct {
	Progress float64
	Lane     float64
	Radius   float64
}

// Track is a path plus the items scattered on it for one race.
type Track struct {
	Path      Path
	Pickups   []Pickup
	Obstacles []Obstacle
}

// NewTrack scatters pickups and obstacles evenly along the path with a
// little random jitter. There is no minimum spacing between items.
func NewTrack(path Path, pickups, obstacles int, rng *rand.Rand) *Track {
	t := &Track{
		Path:      path,
		Pickups:   make([]Pickup, 0, pickups),
		Obstacles: make([]Obstacle, 0, obstacles),
	}

	for i := 0; i < pickups; i++ {
		u := float64(i)/float64(pickups) + rng.Float64()*0.01
		t.Pickups = append(t.Pickups, Pickup{
			Progress: Wrap01(u),
			Lane:     scatterLanes[i%len(scatterLanes)],
		})
	}

	for i := 0; i < obstacles; i++ {
		u := float64(i)/float64(obstacles) + 0.08 + rng.Float64()*0.01
		t.Obstacles = append(t.Obstacles, Obstacle{
			Progress: Wrap01(u),
			Lane:     scatterLanes[rng.Intn(len(scatterLanes))],
			Radius:   obstacleRadius,
		})
	}

	return t
}

// BuildPath creates the path described by a track config.
// Straight roads run "up" the screen from +2r to -2r on the Y axis.
func BuildPath(cfg config.TrackConfig) Path {
	halfWidth := cfg.RoadWidth / 2
	if cfg.Kind == config.TrackLoop {
		radiusY := cfg.RadiusY
		if radiusY <= 0 {
			radiusY = cfg.Radius
		}
		return NewClosedLoopPath(mgl64.Vec2{}, cfg.Radius, radiusY, halfWidth)
	}
	return NewStraightPath(
		mgl64.Vec2{0, cfg.Radius * 2},
		mgl64.Vec2{0, -cfg.Radius * 2},
		halfWidth,
	)
}

// Clone copies the item lists; the path is immutable and shared.
func (t *Track) Clone() Track {
	return Track{
		Path:      clonePath(t.Path),
		Pickups:   append([]Pickup(nil), t.Pickups...),
		Obstacles: append([]Obstacle(nil), t.Obstacles...),
	}
}

// clonePath copies the known path variants so a clone never aliases
// the engine's geometry. Other implementations are returned as is.
func clonePath(p Path) Path {
	switch v := p.(type) {
	case *ClosedLoopPath:
		c := *v
		return &c
	case *StraightPath:
		c := *v
		return &c
	}
	return p
}

// RemainingPickups counts pickups not yet collected.
func (t Track) RemainingPickups() int {
	n := 0
	for _, p := range t.Pickups {
		if !p.Collected {
			n++
		}
	}
	return n
}

// Wrap01 maps any progress value into [0, 1).
func Wrap01(u float64) float64 {
	u = math.Mod(u, 1)
	if u < 0 {
		u++
	}
	if u >= 1 {
		u = 0
	}
	return u
}
