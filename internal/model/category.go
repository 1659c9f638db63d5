package model

// Category is the coarse product category assigned by the categorizer.
type Category string

// Product categories.
const (
	CategoryHomeGarden Category = "Home & Garden"
	CategoryKitchen    Category = "Kitchen"
	CategoryFitness    Category = "Fitness"
	CategoryPet        Category = "Pet Supplies"
	CategoryBaby       Category = "Baby Products"
	CategoryOther      Category = "Other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryHomeGarden,
	CategoryKitchen,
	CategoryFitness,
	CategoryPet,
	CategoryBaby,
	CategoryOther,
}

// ParseCategory maps a stored label back onto the enum. Unknown or empty
// labels fall back to CategoryOther.
func ParseCategory(s string) Category {
	for _, c := range Categories {
		if string(c) == s {
			return c
		}
	}
	return CategoryOther
}
