package service

import (
	"fmt"
	"strings"
)

// RecipeCount is how many suggestions each prompt asks for.
const RecipeCount = 5

const recipeFormat = `{
    "recipes": [
        {
            "name": "Recipe Name",
            "cuisine": "Cuisine Type",
            "ingredients": ["ingredient1", "ingredient2"],
            "description": "Brief description",
            "instructions": "Cooking instructions",
            "imagePrompt": "Optional short description of a photo of the finished dish"
        }
    ]
}`

// BuildPrompt embeds the ingredients and shopping allowance into the
// instruction sent upstream.
func BuildPrompt(ingredients []string, canShop bool) string {
	shopping := "Only use the listed ingredients."
	if canShop {
		shopping = "The user can buy additional ingredients if needed."
	}

	return fmt.Sprintf(`Generate %d diverse recipe suggestions based on these ingredients: %s.
%s
Return only JSON, in this exact format:
%s`, RecipeCount, strings.Join(ingredients, ", "), shopping, recipeFormat)
}
