package enums

import "fmt"

// ValuationCategory is the asset class a valuation report covers.
type ValuationCategory string

const (
	ValuationCategoryLand     ValuationCategory = "land"
	ValuationCategoryBuilding ValuationCategory = "building"
	ValuationCategoryVehicle  ValuationCategory = "vehicle"
	ValuationCategoryOther    ValuationCategory = "other"
)

var validValuationCategories = []ValuationCategory{
	ValuationCategoryLand,
	ValuationCategoryBuilding,
	ValuationCategoryVehicle,
	ValuationCategoryOther,
}

// String implements fmt.Stringer.
func (c ValuationCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ValuationCategory.
func (c ValuationCategory) IsValid() bool {
	for _, candidate := range validValuationCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseValuationCategory converts raw input into a ValuationCategory.
func ParseValuationCategory(value string) (ValuationCategory, error) {
	for _, candidate := range validValuationCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid valuation category %q", value)
}
