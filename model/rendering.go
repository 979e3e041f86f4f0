package model

import (
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
)

const (
	gridPosAlive = "█"
	gridPosDead  = "."
)

// Renderer displays one generation
type Renderer interface {
	Display(g *Grid) error
}

// TextRenderer writes each generation as one line per row followed by a
// blank line
type TextRenderer struct {
	w          io.Writer
	aliveGlyph string
	deadGlyph  string
}

// NewTextRenderer returns a renderer writing to w. Empty glyphs fall back to
// the defaults.
func NewTextRenderer(w io.Writer, aliveGlyph, deadGlyph string) *TextRenderer {
	if aliveGlyph == "" {
		aliveGlyph = gridPosAlive
	}
	if deadGlyph == "" {
		deadGlyph = gridPosDead
	}
	return &TextRenderer{w: w, aliveGlyph: aliveGlyph, deadGlyph: deadGlyph}
}

// Display renders the grid to the underlying writer
func (r *TextRenderer) Display(g *Grid) error {
	var b strings.Builder
	for i := range g.rows {
		for j := range g.cols {
			if g.cells[i][j] {
				b.WriteString(r.aliveGlyph)
			} else {
				b.WriteString(r.deadGlyph)
			}
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return errors.Wrap(err, "[TextRenderer.Display] failed to write grid")
	}
	return nil
}

// ScreenRenderer redraws each generation in place on a terminal screen
type ScreenRenderer struct {
	screen tcell.Screen
	alive  rune
	dead   rune
	style  tcell.Style
}

// NewScreenRenderer draws on an initialised screen using the first rune of
// each glyph
func NewScreenRenderer(screen tcell.Screen, aliveGlyph, deadGlyph string) *ScreenRenderer {
	return &ScreenRenderer{
		screen: screen,
		alive:  firstRune(aliveGlyph, gridPosAlive),
		dead:   firstRune(deadGlyph, gridPosDead),
		style:  tcell.StyleDefault,
	}
}

// Display draws the grid from the top-left corner and flushes the screen
func (r *ScreenRenderer) Display(g *Grid) error {
	r.screen.Clear()
	for i := range g.rows {
		for j := range g.cols {
			ch := r.dead
			if g.cells[i][j] {
				ch = r.alive
			}
			r.screen.SetContent(j, i, ch, nil, r.style)
		}
	}
	r.screen.Show()
	return nil
}

func firstRune(glyph, fallback string) rune {
	for _, r := range glyph {
		return r
	}
	for _, r := range fallback {
		return r
	}
	return ' '
}
