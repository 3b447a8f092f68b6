package swipe

import (
	"fmt"
	"html"
	"io"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// HTMLRenderer writes card fragments matching the browser markup. Every
// model-generated string passes through a strict bluemonday policy first.
type HTMLRenderer struct {
	w      io.Writer
	policy *bluemonday.Policy
}

// NewHTMLRenderer creates an HTMLRenderer writing to w.
func NewHTMLRenderer(w io.Writer) *HTMLRenderer {
	return &HTMLRenderer{w: w, policy: bluemonday.StrictPolicy()}
}

func (r *HTMLRenderer) ShowCard(recipe types.Recipe, position, total int) {
	fmt.Fprint(r.w, r.CardHTML(recipe, position, total))
}

// CardHTML returns the fragment for one card.
func (r *HTMLRenderer) CardHTML(recipe types.Recipe, position, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"recipe-card\" data-position=\"%d\" data-total=\"%d\">\n", position, total)

	b.WriteString("  <div class=\"recipe-image\">\n")
	if src, ok := safeImageURL(recipe.ImageURL); ok {
		fmt.Fprintf(&b, "    <img src=\"%s\" alt=\"%s\">\n", html.EscapeString(src), r.clean(recipe.Name))
	}
	fmt.Fprintf(&b, "    <div class=\"recipe-title\"><h2>%s</h2></div>\n", r.clean(recipe.Name))
	b.WriteString("  </div>\n")

	b.WriteString("  <div class=\"recipe-content\">\n")
	fmt.Fprintf(&b, "    <p><strong>Cuisine:</strong> %s</p>\n", r.clean(recipe.Cuisine))
	fmt.Fprintf(&b, "    <p>%s</p>\n", r.clean(recipe.Description))
	b.WriteString("    <p><strong>Required Ingredients:</strong></p>\n")
	ingredients := make([]string, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		ingredients = append(ingredients, r.clean(ing))
	}
	fmt.Fprintf(&b, "    <p>%s</p>\n", strings.Join(ingredients, ", "))
	b.WriteString("    <p><strong>Instructions:</strong></p>\n")
	for _, step := range strings.Split(string(recipe.Instructions), "\n") {
		if step = strings.TrimSpace(step); step != "" {
			fmt.Fprintf(&b, "    <p>%s</p>\n", r.clean(step))
		}
	}
	b.WriteString("  </div>\n")
	b.WriteString("</div>\n")
	return b.String()
}

func (r *HTMLRenderer) ShowEmpty() {
	fmt.Fprint(r.w, "<div class=\"no-more-recipes\"><p>No more recipes! Try adding more ingredients.</p></div>\n")
}

func (r *HTMLRenderer) ShowLoading() {
	fmt.Fprint(r.w, "<div class=\"loading\"><p>Loading recipes...</p></div>\n")
}

func (r *HTMLRenderer) ShowError(err error) {
	fmt.Fprintf(r.w, "<div class=\"error\"><p>Could not load recipes: %s</p></div>\n", r.clean(err.Error()))
}

func (r *HTMLRenderer) ApplyTransform(t Transform) {
	fmt.Fprintf(r.w, "<style>.recipe-card{transform: %s}</style>\n", CSSTransform(t))
}

func (r *HTMLRenderer) ResetTransform() {
	fmt.Fprint(r.w, "<style>.recipe-card{transform: none}</style>\n")
}

func (r *HTMLRenderer) AnimateExit(exit Exit) {
	fmt.Fprintf(r.w, "<style>.recipe-card{transition: transform %dms %s; transform: %s}</style>\n",
		exit.Duration.Milliseconds(), exit.Easing, CSSTransform(exit.Transform))
}

func (r *HTMLRenderer) clean(s string) string {
	return r.policy.Sanitize(s)
}

func safeImageURL(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", false
	}
	return u.String(), true
}
