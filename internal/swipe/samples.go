package swipe

import "github.com/pageza/swipe-suggest/backend/internal/types"

// SampleRecipes is the built-in set shown when fallback is enabled and the
// gateway cannot be reached.
func SampleRecipes() []types.Recipe {
	return []types.Recipe{
		{
			Name:         "Pasta Carbonara",
			Cuisine:      "Italian",
			Ingredients:  []string{"pasta", "eggs", "bacon", "parmesan"},
			Description:  "A classic Italian pasta dish with eggs, cheese, and bacon.",
			Instructions: "Cook the pasta. Crisp the bacon. Toss everything off the heat with beaten eggs and parmesan.",
		},
		{
			Name:         "Chicken Stir Fry",
			Cuisine:      "Asian",
			Ingredients:  []string{"chicken", "vegetables", "soy sauce"},
			Description:  "Quick and easy Asian stir fry with chicken and mixed vegetables.",
			Instructions: "Sear sliced chicken in a hot pan, add the vegetables, finish with soy sauce.",
		},
	}
}

// FilterSamples keeps every sample when shopping is allowed, otherwise only
// samples sharing at least one ingredient with the set.
func FilterSamples(samples []types.Recipe, ingredients []string, canShop bool) []types.Recipe {
	if canShop {
		return append([]types.Recipe(nil), samples...)
	}
	have := make(map[string]struct{}, len(ingredients))
	for _, ing := range ingredients {
		have[types.NormalizeIngredient(ing)] = struct{}{}
	}

	var out []types.Recipe
	for _, recipe := range samples {
		for _, ing := range recipe.Ingredients {
			if _, ok := have[types.NormalizeIngredient(ing)]; ok {
				out = append(out, recipe)
				break
			}
		}
	}
	return out
}
