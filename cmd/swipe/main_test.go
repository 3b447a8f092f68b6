package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pageza/swipe-suggest/backend/internal/swipe"
	"github.com/pageza/swipe-suggest/backend/internal/types"
)

type staticFetcher struct{}

func (staticFetcher) Fetch(_ context.Context, _ []string, _ bool) ([]types.Recipe, error) {
	return []types.Recipe{
		{Name: "Omelette", Cuisine: "French", Ingredients: []string{"eggs"}},
		{Name: "Shakshuka", Cuisine: "Middle Eastern", Ingredients: []string{"eggs", "tomato"}},
	}, nil
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	ctrl := swipe.New(swipe.Options{Fetcher: staticFetcher{}, Renderer: swipe.NewTextRenderer(&out)})
	defer ctrl.Close()

	script := strings.Join([]string{
		"add eggs",
		"add eggs",
		"drag 40",
		"drag 150 10",
		"reject",
		"accept",
		"liked",
		"bogus",
		"quit",
		"add never-reached",
	}, "\n")
	run(ctrl, strings.NewReader(script), &out)

	got := out.String()
	assert.Contains(t, got, "[1/2] Omelette (French)")
	assert.Contains(t, got, `"eggs" is empty or already listed`)
	assert.Contains(t, got, "card returned")
	assert.Contains(t, got, "[2/2] Shakshuka (Middle Eastern)")
	assert.Contains(t, got, "no card to accept")
	assert.Contains(t, got, "  Omelette (French)")
	assert.Contains(t, got, `unknown command "bogus"`)
	assert.Equal(t, []string{"eggs"}, ctrl.Ingredients())
}
