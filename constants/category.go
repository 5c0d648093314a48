package constants

import (
	"strings"
)

type Category string

const (
	Meals                Category = "Meals"
	Travel               Category = "Travel"
	Gas                  Category = "Gas"
	OfficeSupplies       Category = "Office Supplies"
	Software             Category = "Software"
	Marketing            Category = "Marketing"
	Utilities            Category = "Utilities"
	ProfessionalServices Category = "Professional Services"
	Equipment            Category = "Equipment"
	Other                Category = "Other"
)

var allCategories = []Category{
	Meals,
	Travel,
	Gas,
	OfficeSupplies,
	Software,
	Marketing,
	Utilities,
	ProfessionalServices,
	Equipment,
	Other,
}

// Categories returns the allowed category enum as strings, in stable order.
func Categories() []string {
	result := make([]string, len(allCategories))
	for i, cat := range allCategories {
		result[i] = string(cat)
	}
	return result
}

// CanonicalizeCategory maps free-form model output onto the enum.
// Returns Other and false when no match is found.
func CanonicalizeCategory(input string) (Category, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]Category{
		"restaurant":    Meals,
		"food":          Meals,
		"groceries":     Meals,
		"fuel":          Gas,
		"gasoline":      Gas,
		"petrol":        Gas,
		"saas":          Software,
		"subscription":  Software,
		"uber":          Travel,
		"lyft":          Travel,
		"airline":       Travel,
		"hotel":         Travel,
		"taxi":          Travel,
		"advertising":   Marketing,
		"ads":           Marketing,
		"electricity":   Utilities,
		"water":         Utilities,
		"internet":      Utilities,
		"phone":         Utilities,
		"legal":         ProfessionalServices,
		"accounting":    ProfessionalServices,
		"consulting":    ProfessionalServices,
		"hardware":      Equipment,
		"stationery":    OfficeSupplies,
		"office supply": OfficeSupplies,
	}

	if cat, ok := synonyms[normalized]; ok {
		return cat, true
	}

	// check if it matches any category string
	for _, cat := range allCategories {
		if normalized == strings.ToLower(string(cat)) {
			return cat, true
		}
	}

	return Other, false
}
