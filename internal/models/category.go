package models

import "strings"

type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DefaultCategoryFolder is used for stream URLs when an asset carries a
// category id that is not part of the fixed set.
const DefaultCategoryFolder = "عام"

// Categories is the fixed category set exposed to the studio UI.
var Categories = []Category{
	{ID: "horror_attacks", Label: "هجمات مرعبة"},
	{ID: "true_horror", Label: "رعب حقيقي"},
	{ID: "animal_horror", Label: "رعب الحيوانات"},
	{ID: "dangerous_scenes", Label: "أخطر المشاهد"},
	{ID: "terrifying_horrors", Label: "أهوال مرعبة"},
	{ID: "horror_comedy", Label: "رعب كوميدي"},
	{ID: "scary_moments", Label: "لحظات مرعبة"},
	{ID: "shock", Label: "صدمة"},
}

// CategoryFolder maps a category id to its bucket folder name: the display
// label with whitespace replaced by underscores. Unknown ids fall back to
// DefaultCategoryFolder.
func CategoryFolder(id string) string {
	for _, c := range Categories {
		if c.ID == id {
			return strings.Join(strings.Fields(c.Label), "_")
		}
	}
	return DefaultCategoryFolder
}

// ValidCategory reports whether id belongs to the fixed category set.
func ValidCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}
