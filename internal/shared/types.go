package shared

import (
	"strings"
)

// FilterAll is the sentinel meaning "no restriction"
const FilterAll = "all"

// Tracking scopes
const (
	ScopeAll     = "all"
	ScopeTracked = "tracked"
)

// FilterSelection is an immutable set of global filters applied before aggregation.
// Empty or "all" fields impose no restriction; active fields are ANDed together.
type FilterSelection struct {
	Provider string `json:"provider,omitempty"`
	Prompt   string `json:"prompt,omitempty"`
	Brand    string `json:"brand,omitempty"`
	Scope    string `json:"scope,omitempty"`
	Domain   string `json:"domain,omitempty"`
}

// NoFilters returns a selection that restricts nothing
func NoFilters() FilterSelection {
	return FilterSelection{}
}

// IsActive reports whether a single filter value restricts anything
func IsActive(value string) bool {
	v := strings.TrimSpace(value)
	return v != "" && !strings.EqualFold(v, FilterAll)
}

// HasProvider reports whether the provider filter is active
func (f FilterSelection) HasProvider() bool { return IsActive(f.Provider) }

// HasPrompt reports whether the prompt filter is active
func (f FilterSelection) HasPrompt() bool { return IsActive(f.Prompt) }

// HasBrand reports whether the brand filter is active
func (f FilterSelection) HasBrand() bool { return IsActive(f.Brand) }

// HasDomain reports whether the source domain filter is active
func (f FilterSelection) HasDomain() bool { return IsActive(f.Domain) }

// TrackedOnly reports whether discovered brands are excluded
func (f FilterSelection) TrackedOnly() bool {
	return strings.EqualFold(strings.TrimSpace(f.Scope), ScopeTracked)
}

// WithProvider returns a copy restricted to one provider
func (f FilterSelection) WithProvider(provider string) FilterSelection {
	f.Provider = provider
	return f
}

// WithPrompt returns a copy restricted to one prompt
func (f FilterSelection) WithPrompt(prompt string) FilterSelection {
	f.Prompt = prompt
	return f
}

// WithBrand returns a copy restricted to one brand
func (f FilterSelection) WithBrand(brand string) FilterSelection {
	f.Brand = brand
	return f
}

// BrandKey normalizes a brand name for case-insensitive identity
func BrandKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
