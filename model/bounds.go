package model

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/sheikhrachel/cells/utils"
)

// ErrInvalidSize is wrapped by every SizeError
var ErrInvalidSize = errors.New("invalid grid size")

// DisplayBounds is the room available for rendering, in character cells
type DisplayBounds struct {
	Height int
	Width  int
}

// DefaultDisplayBounds is used when the terminal cannot be queried
var DefaultDisplayBounds = DisplayBounds{Height: 25, Width: 80}

func (b DisplayBounds) String() string {
	return fmt.Sprintf("%dx%d", b.Height, b.Width)
}

// SizeError reports which dimension of a seed does not fit the display.
// Dim is "m", "n", or "m,n" when a dimension is not positive.
type SizeError struct {
	Dim    string
	M, N   int
	Bounds DisplayBounds
}

func (e *SizeError) Error() string {
	switch e.Dim {
	case "m":
		return fmt.Sprintf("size of cell field bigger than terminal size, can't display: choose m <= %d (got %d)", e.Bounds.Height, e.M)
	case "n":
		return fmt.Sprintf("size of cell field bigger than terminal size, can't display: choose n <= %d (got %d)", e.Bounds.Width, e.N)
	default:
		return fmt.Sprintf("M,N must be > 0 and be smaller than terminal dimensions(%s), got %dx%d", e.Bounds, e.M, e.N)
	}
}

func (e *SizeError) Unwrap() error {
	return ErrInvalidSize
}

// ValidateSize checks an m x n seed against the display bounds. Rows are
// limited by the height and columns by the width.
func ValidateSize(m, n int, bounds DisplayBounds) error {
	switch {
	case m <= 0 || n <= 0:
		return &SizeError{Dim: "m,n", M: m, N: n, Bounds: bounds}
	case m > bounds.Height:
		return &SizeError{Dim: "m", M: m, N: n, Bounds: bounds}
	case n > bounds.Width:
		return &SizeError{Dim: "n", M: m, N: n, Bounds: bounds}
	}
	return nil
}

// ScreenBounds reads the size of an already initialised screen
func ScreenBounds(screen tcell.Screen) DisplayBounds {
	width, height := screen.Size()
	return DisplayBounds{Height: height, Width: width}
}

// ProbeBounds initialises the screen just long enough to read its size
func ProbeBounds(screen tcell.Screen) (DisplayBounds, error) {
	if err := screen.Init(); err != nil {
		return DisplayBounds{}, errors.Wrap(err, "[ProbeBounds] failed to initialise screen")
	}
	defer screen.Fini()

	return ScreenBounds(screen), nil
}

// DiscoverBounds resolves the display bounds for a run. Non-zero config
// values win; any dimension left unset comes from probe, or from
// DefaultDisplayBounds when probe is nil or fails.
func DiscoverBounds(config utils.Config, probe func() (DisplayBounds, error)) DisplayBounds {
	bounds := DisplayBounds{Height: config.DisplayHeight, Width: config.DisplayWidth}
	if bounds.Height > 0 && bounds.Width > 0 {
		return bounds
	}

	fallback := DefaultDisplayBounds
	if probe != nil {
		if probed, err := probe(); err == nil && probed.Height > 0 && probed.Width > 0 {
			fallback = probed
		}
	}

	if bounds.Height <= 0 {
		bounds.Height = fallback.Height
	}
	if bounds.Width <= 0 {
		bounds.Width = fallback.Width
	}
	return bounds
}
