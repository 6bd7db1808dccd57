package core

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Group labels used by the default mapping.
const (
	GroupTravel        = "travel"
	GroupFood          = "food"
	GroupBills         = "bills"
	GroupPublicTransit = "public transit"
	GroupOther         = "other"
)

// CategoryMap resolves expense categories to spending groups. Lookups are
// exact and case-sensitive.
type CategoryMap map[string]string

// DefaultCategoryMap returns a fresh copy of the built-in mapping.
func DefaultCategoryMap() CategoryMap {
	return CategoryMap{
		"Hotel":         GroupTravel,
		"Airfare":       GroupTravel,
		"Car Rental":    GroupTravel,
		"Lodging":       GroupTravel,
		"Travel":        GroupTravel,
		"Mileage":       GroupTravel,
		"Fuel/Mileage":  GroupTravel,
		"Parking/Tolls": GroupTravel,

		"Business Meals":          GroupFood,
		"Meals and Entertainment": GroupFood,
		"Groceries":               GroupFood,
		"Restaurants":             GroupFood,
		"Coffee":                  GroupFood,

		"Utilities":     GroupBills,
		"Phone":         GroupBills,
		"Internet":      GroupBills,
		"Cell Phone":    GroupBills,
		"Rent":          GroupBills,
		"Insurance":     GroupBills,
		"Subscriptions": GroupBills,
		"Software":      GroupBills,
		"Dues":          GroupBills,

		"Public Transit": GroupPublicTransit,
		"Train":          GroupPublicTransit,
		"Bus":            GroupPublicTransit,
		"Subway":         GroupPublicTransit,
		"Taxi":           GroupPublicTransit,
		"Rideshare":      GroupPublicTransit,

		"Office Supplies":       GroupOther,
		"Equipment":             GroupOther,
		"Entertainment":         GroupOther,
		"Gifts":                 GroupOther,
		"Fees":                  GroupOther,
		"Professional Services": GroupOther,
		"Other":                 GroupOther,
	}
}

// Resolve returns the group for category.
func (m CategoryMap) Resolve(category string) (string, bool) {
	g, ok := m[category]
	return g, ok
}

// Groups returns the distinct group labels, sorted.
func (m CategoryMap) Groups() []string {
	seen := map[string]struct{}{}
	for _, g := range m {
		seen[g] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// categoryFile is the on-disk layout: group label -> categories.
type categoryFile struct {
	Groups map[string][]string `yaml:"groups"`
}

// ParseCategoryMap reads a YAML document of the form
//
//	groups:
//	  travel: [Hotel, Airfare]
//	  food: [Business Meals]
func ParseCategoryMap(data []byte) (CategoryMap, error) {
	var f categoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode category mapping: %w", err)
	}
	groups := make([]string, 0, len(f.Groups))
	for group := range f.Groups {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	m := CategoryMap{}
	for _, group := range groups {
		cats := f.Groups[group]
		if strings.TrimSpace(group) == "" {
			return nil, ErrEmptyGroup
		}
		for _, c := range cats {
			if prev, ok := m[c]; ok && prev != group {
				return nil, fmt.Errorf("%w: %q in %q and %q", ErrDuplicateCategory, c, prev, group)
			}
			m[c] = group
		}
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("category mapping defines no categories")
	}
	return m, nil
}

// LoadCategoryMap reads a mapping file from disk.
func LoadCategoryMap(path string) (CategoryMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileAccessError{Path: path, Err: err}
	}
	m, err := ParseCategoryMap(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
