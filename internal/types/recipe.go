package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Recipe is a single suggestion as produced by the upstream model.
type Recipe struct {
	Name         string       `json:"name" binding:"required"`
	Cuisine      string       `json:"cuisine" binding:"required"`
	Ingredients  []string     `json:"ingredients" binding:"required,min=1,dive,required"`
	Description  string       `json:"description" binding:"required"`
	Instructions Instructions `json:"instructions" binding:"required"`
	ImageURL     string       `json:"imageUrl,omitempty"`
	ImagePrompt  string       `json:"imagePrompt,omitempty"`
}

// Instructions holds cooking steps as one block of text. Models return it
// either as a string or as a list of steps, so both decode.
type Instructions string

func (i *Instructions) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*i = Instructions(str)
		return nil
	}

	var steps []string
	if err := json.Unmarshal(data, &steps); err == nil {
		*i = Instructions(strings.Join(steps, "\n"))
		return nil
	}

	return fmt.Errorf("invalid instructions format")
}

// SuggestionRequest is the body accepted by the gateway.
type SuggestionRequest struct {
	Ingredients []string `json:"ingredients"`
	CanShop     bool     `json:"canShop"`
}

// SuggestionsResponse is the body returned on success.
type SuggestionsResponse struct {
	Recipes []Recipe `json:"recipes"`
}

// ErrorResponse is the body returned on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// NormalizeIngredient lower-cases and trims a raw ingredient token.
func NormalizeIngredient(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizeIngredients normalizes every token, dropping empties and
// duplicates while keeping first-seen order.
func NormalizeIngredients(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		ing := NormalizeIngredient(r)
		if ing == "" {
			continue
		}
		if _, dup := seen[ing]; dup {
			continue
		}
		seen[ing] = struct{}{}
		out = append(out, ing)
	}
	return out
}
