package core

// Color is a foreground colour for a screen cell.
// Frontends map it to ANSI 256-colour codes or RGBA values.
type Color uint8

// Palette used by the flappy frontends.
const (
	ColorDefault Color = iota
	ColorGreen
	ColorBrightGreen
	ColorYellow
	ColorBrightYellow
	ColorCyan
	ColorBlue
	ColorRed
	ColorWhite
	ColorGray
	ColorOrange
)
