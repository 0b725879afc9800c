package shared

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Dashboard tabs; the first one is the default
var Tabs = []string{"overview", "reference", "competitive", "sentiment", "sources", "responses"}

// Query-string keys used for shareable filter state
const (
	QueryTab    = "tab"
	QueryBrand  = "brand"
	QueryLLM    = "llm"
	QueryPrompt = "prompt"
	QueryScope  = "scope"
	QueryDomain = "domain"
)

// ParseFilterQuery reads the filter selection and active tab from a request's query string
func ParseFilterQuery(c *gin.Context) (string, FilterSelection) {
	return FiltersFromValues(c.Request.URL.Query())
}

// FiltersFromValues maps flat key/value pairs to a tab and filter selection.
// Absent keys fall back to "all" and the first tab.
func FiltersFromValues(values url.Values) (string, FilterSelection) {
	tab := Tabs[0]
	if t := strings.ToLower(strings.TrimSpace(values.Get(QueryTab))); t != "" {
		for _, known := range Tabs {
			if t == known {
				tab = t
				break
			}
		}
	}

	f := FilterSelection{
		Provider: valueOrAll(values.Get(QueryLLM)),
		Prompt:   valueOrAll(values.Get(QueryPrompt)),
		Brand:    valueOrAll(values.Get(QueryBrand)),
		Scope:    ScopeAll,
		Domain:   valueOrAll(values.Get(QueryDomain)),
	}
	if strings.EqualFold(strings.TrimSpace(values.Get(QueryScope)), ScopeTracked) {
		f.Scope = ScopeTracked
	}

	return tab, f
}

// FiltersToValues is the inverse of FiltersFromValues; default values are omitted
func FiltersToValues(tab string, f FilterSelection) url.Values {
	values := url.Values{}
	if tab != "" && tab != Tabs[0] {
		values.Set(QueryTab, tab)
	}
	if f.HasBrand() {
		values.Set(QueryBrand, f.Brand)
	}
	if f.HasProvider() {
		values.Set(QueryLLM, f.Provider)
	}
	if f.HasPrompt() {
		values.Set(QueryPrompt, f.Prompt)
	}
	if f.TrackedOnly() {
		values.Set(QueryScope, ScopeTracked)
	}
	if f.HasDomain() {
		values.Set(QueryDomain, f.Domain)
	}
	return values
}

func valueOrAll(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return FilterAll
	}
	return v
}
