package window

// Key names accepted by Backend.Key besides single letters, digits and F1..F12.
const (
	KeyEscape    = "ESCAPE"
	KeyEnter     = "ENTER"
	KeySpace     = "SPACE"
	KeyBackspace = "BACKSPACE"
	KeyTab       = "TAB"
	KeyUp        = "UP"
	KeyDown      = "DOWN"
	KeyLeft      = "LEFT"
	KeyRight     = "RIGHT"
)
