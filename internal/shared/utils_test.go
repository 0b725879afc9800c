package shared

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFiltersFromValuesDefaults(t *testing.T) {
	tab, f := FiltersFromValues(url.Values{})
	assert.Equal(t, "overview", tab)
	assert.Equal(t, FilterAll, f.Provider)
	assert.Equal(t, FilterAll, f.Prompt)
	assert.Equal(t, FilterAll, f.Brand)
	assert.Equal(t, ScopeAll, f.Scope)
	assert.False(t, f.HasProvider())
	assert.False(t, f.TrackedOnly())
}

func TestFiltersFromValues(t *testing.T) {
	values, err := url.ParseQuery("tab=sources&brand=Adidas&llm=openai&prompt=best+running+shoes&scope=TRACKED&domain=runnersworld.com")
	assert.NoError(t, err)

	tab, f := FiltersFromValues(values)
	assert.Equal(t, "sources", tab)
	assert.Equal(t, "Adidas", f.Brand)
	assert.Equal(t, "openai", f.Provider)
	assert.Equal(t, "best running shoes", f.Prompt)
	assert.True(t, f.TrackedOnly())
	assert.Equal(t, "runnersworld.com", f.Domain)

	unknown, _ := FiltersFromValues(url.Values{QueryTab: {"nope"}})
	assert.Equal(t, Tabs[0], unknown)
}

func TestFiltersRoundTrip(t *testing.T) {
	f := NoFilters().WithBrand("Puma").WithProvider("gemini")
	f.Scope = ScopeTracked

	values := FiltersToValues("competitive", f)
	assert.Equal(t, "brand=Puma&llm=gemini&scope=tracked&tab=competitive", values.Encode())

	tab, back := FiltersFromValues(values)
	assert.Equal(t, "competitive", tab)
	assert.Equal(t, "Puma", back.Brand)
	assert.Equal(t, "gemini", back.Provider)
	assert.True(t, back.TrackedOnly())
	assert.False(t, back.HasPrompt())

	assert.Empty(t, FiltersToValues("overview", NoFilters()))
}

func TestParseFilterQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/report?llm=anthropic&tab=sentiment", nil)

	tab, f := ParseFilterQuery(c)
	assert.Equal(t, "sentiment", tab)
	assert.Equal(t, "anthropic", f.Provider)
	assert.False(t, f.HasBrand())
}

func TestBrandKeyAndIsActive(t *testing.T) {
	assert.Equal(t, "new balance", BrandKey("  New Balance "))
	assert.False(t, IsActive(" ALL "))
	assert.False(t, IsActive(""))
	assert.True(t, IsActive("nike"))
}
