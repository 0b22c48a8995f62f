package racer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/tui-racer/internal/core"
)

// Minimum playable screen size
const (
	minScreenW = 40
	minScreenH = 12
)

// Visual characters for rendering
const (
	RoadChar     = '░'
	RailChar     = '▒'
	DashChar     = '·'
	FinishChar   = '='
	PickupChar   = '$'
	ObstacleChar = '#'
	PlayerChar   = '@'
	TrailChar    = '~'
)

// Labels for AI racers, by index.
var opponentGlyphs = []rune{'A', 'B', 'C', 'D', 'E', 'F'}

// Chase camera for straight tracks: how much of the road is visible and
// where the player sits on screen.
const (
	chaseSpan   = 0.3
	chaseBehind = 0.2 // fraction of the play area below the player
)

// view maps track coordinates to screen cells.
type view interface {
	point(progress, lateral float64) (x, y int, ok bool)
	racer(r Racer) (x, y int, ok bool)
	// span is the progress range worth drawing.
	span() (from, to float64)
}

// loopView fits the whole circuit on screen. Terminal cells are roughly
// twice as tall as they are wide, so Y is squashed by half.
type loopView struct {
	path   Path
	area   core.Rect
	origin mgl64.Vec2
	scale  float64
	offset mgl64.Vec2
}

func newLoopView(path Path, area core.Rect) *loopView {
	const samples = 64
	lo := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	hi := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for i := 0; i < samples; i++ {
		u := float64(i) / samples
		for _, lat := range []float64{-1, 1} {
			p := path.Sample(u, lat)
			lo = mgl64.Vec2{math.Min(lo[0], p[0]), math.Min(lo[1], p[1])}
			hi = mgl64.Vec2{math.Max(hi[0], p[0]), math.Max(hi[1], p[1])}
		}
	}
	size := hi.Sub(lo)
	scale := 1.0
	if size[0] > 0 && size[1] > 0 {
		scale = math.Min(float64(area.W-1)/size[0], 2*float64(area.H-1)/size[1])
	}
	used := mgl64.Vec2{size[0] * scale, size[1] * scale / 2}
	return &loopView{
		path:   path,
		area:   area,
		origin: lo,
		scale:  scale,
		offset: mgl64.Vec2{
			float64(area.X) + (float64(area.W-1)-used[0])/2,
			float64(area.Y) + (float64(area.H-1)-used[1])/2,
		},
	}
}

func (v *loopView) point(progress, lateral float64) (int, int, bool) {
	w := v.path.Sample(progress, lateral).Sub(v.origin)
	x := int(math.Round(v.offset[0] + w[0]*v.scale))
	y := int(math.Round(v.offset[1] + w[1]*v.scale/2))
	return x, y, v.area.Contains(x, y)
}

func (v *loopView) racer(r Racer) (int, int, bool) {
	return v.point(r.Progress, r.Lane)
}

func (v *loopView) span() (float64, float64) {
	return 0, 1
}

// chaseView follows the player up a straight road.
type chaseView struct {
	area      core.Rect
	player    Racer
	halfCols  float64
	playerRow int
}

func newChaseView(area core.Rect, player Racer) *chaseView {
	half := math.Min(float64(area.W/2-2), 20)
	return &chaseView{
		area:      area,
		player:    player,
		halfCols:  half,
		playerRow: area.Bottom() - 1 - int(float64(area.H)*chaseBehind),
	}
}

// point takes progress in the player's lap; values past 1 are beyond the finish.
func (v *chaseView) point(progress, lateral float64) (int, int, bool) {
	ahead := progress - v.player.Progress
	y := v.playerRow - int(math.Round(ahead/chaseSpan*float64(v.area.H)))
	x := v.area.X + v.area.W/2 + int(math.Round(lateral*v.halfCols))
	return x, y, v.area.Contains(x, y)
}

// racer places opponents by total distance, since their progress runs past 1.
func (v *chaseView) racer(r Racer) (int, int, bool) {
	return v.point(r.Total()-v.player.Total()+v.player.Progress, r.Lane)
}

func (v *chaseView) span() (float64, float64) {
	from := v.player.Progress - chaseSpan*chaseBehind
	to := v.player.Progress + chaseSpan
	return math.Max(0, from), math.Min(1, to)
}

// Render draws the current race to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.engine == nil {
		return
	}
	if dst.Width() < minScreenW || dst.Height() < minScreenH {
		dst.DrawTextCentered(dst.Height()/2, "Screen too small", core.ColorBrightRed)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("need %dx%d", minScreenW, minScreenH), core.ColorGray)
		return
	}

	snap := g.engine.Snapshot()
	area := core.NewRect(0, 1, dst.Width(), dst.Height()-1)

	var v view
	if _, loop := snap.Track.Path.(*ClosedLoopPath); loop {
		v = newLoopView(snap.Track.Path, area)
	} else {
		v = newChaseView(area, snap.Player)
	}

	drawRoad(dst, v, area)
	if _, straight := v.(*chaseView); straight {
		drawFinishLine(dst, v)
	}

	for _, ob := range snap.Track.Obstacles {
		if x, y, ok := v.point(ob.Progress, ob.Lane); ok {
			dst.SetColored(x, y, ObstacleChar, core.ColorObstacle)
		}
	}
	for _, pk := range snap.Track.Pickups {
		if pk.Collected {
			continue
		}
		if x, y, ok := v.point(pk.Progress, pk.Lane); ok {
			dst.SetColored(x, y, PickupChar, core.ColorPickup)
		}
	}

	for i, a := range snap.AI {
		if x, y, ok := v.racer(a); ok {
			dst.SetColored(x, y, opponentGlyphs[i%len(opponentGlyphs)], core.ColorCyan)
		}
	}

	if snap.Player.Boosting() {
		for i := 1; i <= 3; i++ {
			back := snap.Player
			back.Progress -= float64(i) * 0.006
			if x, y, ok := v.racer(back); ok {
				dst.SetColored(x, y, TrailChar, core.ColorBoost)
			}
		}
	}
	if x, y, ok := v.racer(snap.Player); ok {
		dst.SetColored(x, y, PlayerChar, core.ColorPlayer)
	}

	g.drawHUD(dst, snap)

	switch snap.Phase {
	case PhaseCountdown:
		digit := fmt.Sprintf("%d", int(math.Ceil(snap.Countdown)))
		dst.DrawTextCentered(dst.Height()/2, " "+digit+" ", core.ColorBrightYellow)
	case PhaseRacing:
		if snap.Elapsed < g.cfg.Race.Countdown+0.6 {
			dst.DrawTextCentered(dst.Height()/2, " GO! ", core.ColorGreen)
		}
	case PhasePaused:
		drawCenteredMessage(dst, "PAUSED", "Press P to resume", core.ColorBrightWhite)
	case PhaseFinished:
		title := "VICTORY!"
		color := core.ColorGreen
		if snap.LastPlacement != 1 {
			title = fmt.Sprintf("Place %d - Try Again", snap.LastPlacement)
			color = core.ColorBrightRed
		}
		drawCenteredMessage(dst, title,
			fmt.Sprintf("%.2fs  |  %d coins  |  R to restart", snap.Elapsed, snap.Player.Pickups), color)
	}
}

// drawRoad fills the road surface, then the rails and the center dashes.
func drawRoad(dst *core.Screen, v view, area core.Rect) {
	from, to := v.span()
	steps := 4 * (area.W + area.H)
	const lanes = 24
	for i := 0; i <= steps; i++ {
		u := from + (to-from)*float64(i)/float64(steps)
		for j := 1; j < lanes; j++ {
			lat := -1 + 2*float64(j)/lanes
			if x, y, ok := v.point(u, lat); ok && dst.Get(x, y) == ' ' {
				dst.SetColored(x, y, RoadChar, core.ColorRoad)
			}
		}
		if (i/3)%2 == 0 {
			if x, y, ok := v.point(u, 0); ok {
				dst.SetColored(x, y, DashChar, core.ColorRail)
			}
		}
		for _, lat := range []float64{-1, 1} {
			if x, y, ok := v.point(u, lat); ok {
				dst.SetColored(x, y, RailChar, core.ColorRail)
			}
		}
	}
}

func drawFinishLine(dst *core.Screen, v view) {
	const lanes = 40
	for j := 0; j <= lanes; j++ {
		if x, y, ok := v.point(1, -1+2*float64(j)/lanes); ok {
			dst.SetColored(x, y, FinishChar, core.ColorBrightWhite)
		}
	}
}

func (g *Game) drawHUD(dst *core.Screen, snap Snapshot) {
	lap := core.Min(snap.Player.Laps+1, snap.TotalLaps)

	boost := "BOOST!"
	switch {
	case snap.Player.Boosting():
	case snap.Player.BoostCooldown <= 0:
		boost = "boost ready"
	default:
		boost = fmt.Sprintf("boost %.1fs", snap.Player.BoostCooldown)
	}

	hud := fmt.Sprintf(" %s  Lap %d/%d  Coins %d  Place %d/%d  %s  %.1fs ",
		g.title, lap, snap.TotalLaps, snap.Player.Pickups,
		snap.CurrentPlacement(), len(snap.AI)+1, boost, snap.Elapsed)
	dst.DrawTextColored(0, 0, hud, core.ColorBrightWhite)
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string, c core.Color) {
	w := dst.Width()
	h := dst.Height()

	boxW := core.Max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, c)

	dst.DrawTextCentered(boxY+1, title, c)
	dst.DrawTextCentered(boxY+3, subtitle, core.ColorDefault)
}
