package swipe

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// TextRenderer prints the deck to a terminal.
type TextRenderer struct {
	w io.Writer
	// Sleep, when set, is called with the exit duration so the terminal
	// pauses the way the browser animation does.
	Sleep func(time.Duration)
}

// NewTextRenderer creates a TextRenderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) ShowCard(recipe types.Recipe, position, total int) {
	fmt.Fprintf(r.w, "\n[%d/%d] %s (%s)\n", position, total, recipe.Name, recipe.Cuisine)
	if recipe.Description != "" {
		fmt.Fprintf(r.w, "  %s\n", recipe.Description)
	}
	fmt.Fprintf(r.w, "  Required ingredients: %s\n", strings.Join(recipe.Ingredients, ", "))
	if recipe.Instructions != "" {
		fmt.Fprintln(r.w, "  Instructions:")
		for _, line := range strings.Split(string(recipe.Instructions), "\n") {
			fmt.Fprintf(r.w, "    %s\n", strings.TrimSpace(line))
		}
	}
	if recipe.ImageURL != "" {
		fmt.Fprintf(r.w, "  Image: %s\n", recipe.ImageURL)
	}
}

func (r *TextRenderer) ShowEmpty() {
	fmt.Fprintln(r.w, "\nNo more recipes. Add ingredients or reset to start over.")
}

func (r *TextRenderer) ShowLoading() {
	fmt.Fprintln(r.w, "\nLoading recipes...")
}

func (r *TextRenderer) ShowError(err error) {
	fmt.Fprintf(r.w, "\nCould not load recipes: %v\nType 'retry' to try again.\n", err)
}

func (r *TextRenderer) ApplyTransform(t Transform) {
	fmt.Fprintf(r.w, "  ~ %s\n", CSSTransform(t))
}

func (r *TextRenderer) ResetTransform() {
	fmt.Fprintln(r.w, "  ~ snapped back")
}

func (r *TextRenderer) AnimateExit(exit Exit) {
	fmt.Fprintf(r.w, "  >> %s: %s over %v %s\n", exit.Direction, CSSTransform(exit.Transform), exit.Duration, exit.Easing)
	if r.Sleep != nil {
		r.Sleep(exit.Duration)
	}
}

// CSSTransform renders t as a CSS transform value.
func CSSTransform(t Transform) string {
	return fmt.Sprintf("translate(%gpx, %gpx) rotate(%gdeg)", t.TranslateX, t.TranslateY, t.Rotate)
}
