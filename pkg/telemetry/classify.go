// Package telemetry classifies raw storage operation telemetry into billing
// categories and normalizes observed windows to a monthly basis.
package telemetry

import "strings"

// BillingCategory is the unit over which transaction costs are billed.
type BillingCategory int

const (
	CategoryWrite BillingCategory = iota
	CategoryList
	CategoryRead
	CategoryOther
	CategoryDelete
)

// String returns the human-readable name of the category.
func (c BillingCategory) String() string {
	switch c {
	case CategoryWrite:
		return "write"
	case CategoryList:
		return "list"
	case CategoryRead:
		return "read"
	case CategoryOther:
		return "other"
	case CategoryDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// classRule maps operation-name substrings to a billing category. Rules are
// evaluated in order and the first match wins, so delete and list operations
// are claimed before the broader write and read patterns can see them.
type classRule struct {
	category BillingCategory
	patterns []string
}

var classRules = []classRule{
	{CategoryDelete, []string{"delete"}},
	{CategoryList, []string{"list", "enumerate", "querydirectory", "browse"}},
	// Set-type writes are matched by their full verbs: a bare "set" would
	// also claim session setup operations, which bill as Other.
	{CategoryWrite, []string{"create", "write", "put", "setfile", "setdirectory", "setinfo", "setmetadata", "copy", "lease", "flush", "rename"}},
	{CategoryRead, []string{"read", "get", "download"}},
}

// Classify maps a raw operation name to its billing category. Operation
// names that match no rule (session setup, negotiation, close, keep-alive)
// fall through to CategoryOther.
func Classify(operation string) BillingCategory {
	op := strings.ToLower(operation)
	for _, rule := range classRules {
		for _, p := range rule.patterns {
			if strings.Contains(op, p) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
