package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"

	"github.com/pageza/swipe-suggest/backend/internal/types"
)

// DecodeRecipes extracts the JSON object embedded in model output and
// decodes it into validated recipes. Any deviation from the schema is a
// *ParseError.
func DecodeRecipes(text string) ([]types.Recipe, error) {
	payload, ok := extractJSONObject(text)
	if !ok {
		return nil, &ParseError{Reason: "no JSON object in model output"}
	}

	var wrapper struct {
		Recipes []types.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal([]byte(payload), &wrapper); err != nil {
		return nil, &ParseError{Reason: "malformed recipe JSON", Err: err}
	}
	if len(wrapper.Recipes) == 0 {
		return nil, &ParseError{Reason: "no recipes in model output"}
	}

	for i := range wrapper.Recipes {
		if err := binding.Validator.ValidateStruct(&wrapper.Recipes[i]); err != nil {
			return nil, &ParseError{Reason: fmt.Sprintf("recipe %d does not match schema", i+1), Err: err}
		}
	}
	return wrapper.Recipes, nil
}

// extractJSONObject returns the span from the first '{' to the last '}',
// which drops markdown fences and any prose around the object.
func extractJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
