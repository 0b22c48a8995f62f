package core

// Color is the foreground color of a screen cell.
// Values map to ANSI 256-color codes in the platform renderer.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
)

// Palette roles used by the racer renderer.
const (
	ColorRoad     = ColorDarkGray
	ColorRail     = ColorGray
	ColorPickup   = ColorBrightYellow
	ColorObstacle = ColorBrightRed
	ColorPlayer   = ColorOrange
	ColorBoost    = ColorYellow
)
