package classification

import "github.com/Veraticus/trendscout/internal/model"

// DefaultRules returns the category rules in evaluation order. Order matters:
// the first rule with a matching keyword wins.
func DefaultRules() []Rule {
	return []Rule{
		{
			Category: model.CategoryPet,
			Keywords: []string{"dog", "cat", "pet", "collar", "leash"},
		},
		{
			Category: model.CategoryKitchen,
			Keywords: []string{"kitchen", "cook", "food", "bowl", "mug", "coffee"},
		},
		{
			Category: model.CategoryHomeGarden,
			Keywords: []string{"home", "decor", "furniture", "lamp", "garden"},
		},
		{
			Category: model.CategoryFitness,
			Keywords: []string{"fitness", "yoga", "exercise", "gym"},
		},
		{
			Category: model.CategoryBaby,
			Keywords: []string{"baby", "infant", "toddler"},
		},
	}
}
