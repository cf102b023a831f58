package domain

// InterestCategory is the fixed taxonomy interests are grouped under.
type InterestCategory string

const (
	CategoryMusic         InterestCategory = "music"
	CategoryEntertainment InterestCategory = "entertainment"
	CategorySports        InterestCategory = "sports"
	CategoryHobbies       InterestCategory = "hobbies"
)

// Categories returns the taxonomy in its canonical order.
func Categories() []InterestCategory {
	return []InterestCategory{
		CategoryMusic,
		CategoryEntertainment,
		CategorySports,
		CategoryHobbies,
	}
}

// Interest is a named tag shared across all users. Name is unique store-wide;
// the category is assigned when the node is first created and never changes.
type Interest struct {
	Name     string
	Category InterestCategory
	Rating   int
}

// Interests groups interest names by category.
type Interests map[InterestCategory][]string

// OrganizeInterests buckets a flat interest list by category, dropping
// entries without a name (the store returns a single nameless entry when a
// user has no LIKES edges).
func OrganizeInterests(items []Interest) Interests {
	organized := make(Interests, len(Categories()))
	for _, category := range Categories() {
		organized[category] = []string{}
	}
	for _, item := range items {
		if item.Name == "" {
			continue
		}
		organized[item.Category] = append(organized[item.Category], item.Name)
	}
	return organized
}

// Count returns the total number of interests across all categories.
func (in Interests) Count() int {
	total := 0
	for _, names := range in {
		total += len(names)
	}
	return total
}
