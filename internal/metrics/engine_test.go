package metrics

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

func brandRun() models.Run {
	return models.Run{ID: "run-1", Brand: "Nike", SearchType: models.SearchTypeBrand}
}

func fixtureResults() []models.Result {
	return []models.Result{
		{
			ID:                   "r1",
			Provider:             "openai",
			Prompt:               "best running shoes",
			ResponseText:         "Nike leads. Adidas is also popular. Puma trails.",
			Tokens:               100,
			Cost:                 0.01,
			BrandMentioned:       true,
			BrandSentiment:       "strong_endorsement",
			CompetitorsMentioned: []string{"Adidas", "Puma"},
			CompetitorSentiments: map[string]string{"Adidas": "positive_endorsement", "Puma": "neutral_mention"},
			Sources: []models.Source{
				{URL: "https://example.com/a", Title: "Guide"},
				{URL: "https://example.com/a?utm=x"},
				{URL: "https://www.reddit.com/r/running"},
			},
		},
		{
			ID:                   "r2",
			Provider:             "anthropic",
			Prompt:               "best running shoes",
			ResponseText:         "Adidas is the top pick, followed by Nike.",
			Tokens:               200,
			Cost:                 0.02,
			BrandMentioned:       true,
			BrandSentiment:       "positive_endorsement",
			CompetitorsMentioned: []string{"adidas"},
			CompetitorSentiments: map[string]string{"adidas": "strong_endorsement"},
			Sources: []models.Source{
				{URL: "https://reddit.com/r/shoes"},
				{URL: "https://reddit.com/r/shoes"},
			},
		},
		{
			ID:                   "r3",
			Provider:             "gemini",
			Prompt:               "budget running shoes",
			ResponseText:         "Puma and Asics offer value.",
			Tokens:               50,
			Cost:                 0.005,
			BrandSentiment:       "not_mentioned",
			CompetitorsMentioned: []string{"Puma", "Asics"},
			CompetitorSentiments: map[string]string{"Puma": "conditional"},
			Sources:              []models.Source{{URL: "https://example.com/b"}},
		},
		{ID: "r4", Provider: models.ProviderAIOverviews, Prompt: "best running shoes", Error: true},
		{ID: "r5", Provider: "openai", Prompt: "budget running shoes", Error: true},
	}
}

func mentionByBrand(rows []models.BrandMention, brand string) (models.BrandMention, bool) {
	for _, r := range rows {
		if r.Brand == brand {
			return r, true
		}
	}
	return models.BrandMention{}, false
}

func statsByBrand(rows []models.BrandStats, brand string) models.BrandStats {
	for _, r := range rows {
		if r.Brand == brand {
			return r
		}
	}
	return models.BrandStats{}
}

func TestCompute_Summary(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	assert.Equal(t, "run-1", report.RunID)
	assert.Equal(t, "Nike", report.Brand)
	assert.Equal(t, 5, report.Summary.TotalResults)
	assert.Equal(t, 3, report.Summary.InScopeResults)
	assert.Equal(t, 2, report.Summary.ErrorResults)
	assert.Equal(t, 1, report.Summary.AIOverviewsUnavailable)
	assert.Equal(t, 350, report.Summary.TotalTokens)
	assert.InDelta(t, 0.035, report.Summary.TotalCost, 1e-9)
	assert.Equal(t, 3, report.Summary.Providers)
	assert.Equal(t, 2, report.Summary.Prompts)
}

func TestCompute_Mentions(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	require.Len(t, report.Mentions, 4)
	names := []string{}
	for _, m := range report.Mentions {
		names = append(names, m.Brand)
	}
	assert.Equal(t, []string{"Nike", "Adidas", "Puma", "Asics"}, names)

	nike := report.Mentions[0]
	assert.True(t, nike.IsSearchedBrand)
	assert.True(t, nike.IsTracked)
	assert.Equal(t, 2, nike.Count)
	assert.InDelta(t, 2.0/3.0, nike.Rate, 1e-9)

	asics, ok := mentionByBrand(report.Mentions, "Asics")
	require.True(t, ok)
	assert.Equal(t, 1, asics.Count)
	assert.False(t, asics.IsSearchedBrand)
	assert.Empty(t, report.Discovered)
}

func TestCompute_ShareOfVoiceUsesMentionDenominator(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	require.Len(t, report.ShareOfVoice, 4)
	total := 0.0
	for _, s := range report.ShareOfVoice {
		total += s.Percentage
	}
	assert.InDelta(t, 100, total, 1e-9)
	assert.InDelta(t, 2.0/7.0*100, report.ShareOfVoice[0].Percentage, 1e-9)
}

func TestCompute_BrandStats(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	nike := statsByBrand(report.Brands, "Nike")
	assert.InDelta(t, 1.5, nike.AvgRank, 1e-9)
	assert.Equal(t, 2, nike.RankedResponses)
	assert.Equal(t, 1, nike.FirstPositionCount)
	require.NotNil(t, nike.AvgSentiment)
	assert.InDelta(t, 4.5, *nike.AvgSentiment, 1e-9)
	assert.Equal(t, "Strong", nike.SentimentLabel)
	assert.Equal(t, 2, nike.ProviderCount)
	assert.InDelta(t, 200.0/3.0, nike.Visibility, 1e-9)

	puma := statsByBrand(report.Brands, "Puma")
	assert.InDelta(t, 2.0, puma.AvgRank, 1e-9)
	require.NotNil(t, puma.AvgSentiment)
	assert.InDelta(t, 2.5, *puma.AvgSentiment, 1e-9)
	assert.Equal(t, "Neutral", puma.SentimentLabel)

	asics := statsByBrand(report.Brands, "Asics")
	assert.Nil(t, asics.AvgSentiment)
	assert.Equal(t, "N/A", asics.SentimentLabel)
}

func TestCompute_Sources(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())
	src := report.Sources

	require.Len(t, src.PerDomain, 2)
	assert.Equal(t, "example.com", src.PerDomain[0].Domain)
	assert.Equal(t, 3, src.PerDomain[0].Citations)
	assert.Equal(t, 2, src.PerDomain[0].Responses)
	assert.Equal(t, []string{"gemini", "openai"}, src.PerDomain[0].Providers)
	assert.Equal(t, CategoryOther, src.PerDomain[0].Category)

	assert.Equal(t, "reddit.com", src.PerDomain[1].Domain)
	assert.Equal(t, 2, src.PerDomain[1].Citations)
	assert.Equal(t, CategoryForums, src.PerDomain[1].Category)

	require.Len(t, src.KeyInfluencers, 2)
	assert.Equal(t, "example.com", src.KeyInfluencers[0].Domain)

	// Both URL variants stay distinct in the URL lookup
	require.Len(t, src.URLs, 5)
	urls := map[string]models.URLStats{}
	for _, u := range src.URLs {
		urls[u.URL] = u
	}
	assert.Contains(t, urls, "https://example.com/a")
	assert.Contains(t, urls, "https://example.com/a?utm=x")
	assert.Equal(t, "Guide", urls["https://example.com/a"].Title)
	assert.Equal(t, 1, urls["https://reddit.com/r/shoes"].Citations)

	// ...but count once for the brand co-citation of that result
	cell, ok := src.Matrix.Cell("example.com", "Nike")
	require.True(t, ok)
	assert.Equal(t, 1, cell.Citations)

	cell, ok = src.Matrix.Cell("example.com", "Puma")
	require.True(t, ok)
	assert.Equal(t, 2, cell.Citations)

	cell, ok = src.Matrix.Cell("reddit.com", "Nike")
	require.True(t, ok)
	assert.Equal(t, 2, cell.Citations)
	require.NotNil(t, cell.AvgSentiment)
	assert.InDelta(t, 4.5, *cell.AvgSentiment, 1e-9)
	assert.Equal(t, "Strong", cell.SentimentLabel)

	_, ok = src.Matrix.Cell("reddit.com", "Asics")
	assert.False(t, ok)
	assert.Equal(t, []string{"example.com", "reddit.com"}, src.Matrix.Domains)
	assert.Equal(t, []string{"Nike", "Adidas", "Puma", "Asics"}, src.Matrix.Brands)
}

func TestCompute_CoOccurrences(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	require.Len(t, report.CoOccurrences, 4)
	top := report.CoOccurrences[0]
	assert.Equal(t, "Adidas", top.BrandA)
	assert.Equal(t, "Nike", top.BrandB)
	assert.Equal(t, 2, top.Count)
	assert.InDelta(t, 200.0/3.0, top.Percentage, 1e-9)

	assert.Equal(t, "Adidas", report.CoOccurrences[1].BrandA)
	assert.Equal(t, "Puma", report.CoOccurrences[1].BrandB)
	assert.Equal(t, "Asics", report.CoOccurrences[2].BrandA)
	assert.Equal(t, "Nike", report.CoOccurrences[3].BrandA)
}

func TestCompute_ProvidersAndPrompts(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	require.Len(t, report.Providers, 3)
	assert.Equal(t, "anthropic", report.Providers[0].Provider)
	assert.Equal(t, "gemini", report.Providers[1].Provider)
	assert.Equal(t, 0.0, report.Providers[1].Visibility)
	assert.Equal(t, "openai", report.Providers[2].Provider)
	assert.Equal(t, 100.0, report.Providers[2].Visibility)
	assert.Equal(t, 100, report.Providers[2].TotalTokens)

	require.Len(t, report.Prompts, 2)
	assert.Equal(t, "best running shoes", report.Prompts[0].Prompt)
	assert.Equal(t, 2, report.Prompts[0].Mentions)
	assert.Equal(t, 3, report.Prompts[0].BrandsMentioned)
	assert.Equal(t, "budget running shoes", report.Prompts[1].Prompt)
	assert.Equal(t, 0, report.Prompts[1].Mentions)
}

func TestCompute_RankDistribution(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())
	dist := report.RankDistribution

	require.Len(t, dist.Points, 3)
	assert.Equal(t, BandTop, dist.Points[0].Band)
	assert.Equal(t, Band2to3, dist.Points[1].Band)
	assert.Equal(t, BandNotMentioned, dist.Points[2].Band)
	assert.Equal(t, 1, dist.ByProvider["openai"][BandTop])
	assert.Equal(t, 1, dist.ByProvider["gemini"][BandNotMentioned])
	assert.Equal(t, 0, dist.ByProvider["gemini"][BandTop])
}

func TestCompute_Insights(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	require.Len(t, report.Insights, 4)
	assert.Equal(t, InsightVisibility, report.Insights[0].Kind)
	assert.Equal(t, "Nike leads visibility, mentioned in 67% of responses.", report.Insights[0].Text)
	assert.Equal(t, InsightPlatform, report.Insights[1].Kind)
	assert.Equal(t, "Visibility varies widely by platform: 100% on anthropic vs 0% on gemini.", report.Insights[1].Text)
	assert.Equal(t, InsightCoOccurs, report.Insights[2].Kind)
	assert.Equal(t, "Nike is most often mentioned alongside Adidas (2 responses, 67%).", report.Insights[2].Text)
	assert.Equal(t, InsightSource, report.Insights[3].Kind)
}

func TestCompute_Filters(t *testing.T) {
	engine := NewDefault()
	run := brandRun()
	results := fixtureResults()

	t.Run("provider", func(t *testing.T) {
		report := engine.Compute(run, results, shared.NoFilters().WithProvider("OpenAI"))
		assert.Equal(t, 1, report.Summary.InScopeResults)
		assert.Equal(t, 1, report.Summary.ErrorResults)
		assert.Equal(t, 0, report.Summary.AIOverviewsUnavailable)
	})

	t.Run("ai overviews unavailable", func(t *testing.T) {
		report := engine.Compute(run, results, shared.NoFilters().WithProvider(models.ProviderAIOverviews))
		assert.Equal(t, 0, report.Summary.InScopeResults)
		assert.Equal(t, 1, report.Summary.AIOverviewsUnavailable)
		assert.Empty(t, report.Insights)
		nike, ok := mentionByBrand(report.Mentions, "Nike")
		require.True(t, ok)
		assert.Equal(t, 0.0, nike.Rate)
	})

	t.Run("prompt", func(t *testing.T) {
		report := engine.Compute(run, results, shared.NoFilters().WithPrompt("budget running shoes"))
		assert.Equal(t, 1, report.Summary.InScopeResults)
		assert.Equal(t, 1, report.Summary.ErrorResults)
	})

	t.Run("brand", func(t *testing.T) {
		report := engine.Compute(run, results, shared.NoFilters().WithBrand("puma"))
		assert.Equal(t, 2, report.Summary.InScopeResults)
		require.Len(t, report.RankDistribution.Points, 2)
		assert.Equal(t, 3, report.RankDistribution.Points[0].Rank)
		assert.Equal(t, 1, report.RankDistribution.Points[1].Rank)
	})

	t.Run("domain", func(t *testing.T) {
		report := engine.Compute(run, results, shared.FilterSelection{Domain: "www.reddit.com"})
		assert.Equal(t, 2, report.Summary.InScopeResults)
		require.Len(t, report.Sources.PerDomain, 1)
		assert.Equal(t, "reddit.com", report.Sources.PerDomain[0].Domain)
	})

	t.Run("combined filters AND together", func(t *testing.T) {
		f := shared.FilterSelection{Provider: "anthropic", Brand: "Puma"}
		report := engine.Compute(run, results, f)
		assert.Equal(t, 0, report.Summary.InScopeResults)
	})

	t.Run("all means no restriction", func(t *testing.T) {
		f := shared.FilterSelection{Provider: "all", Prompt: "ALL", Brand: "all", Scope: "all", Domain: "all"}
		assert.Equal(t, engine.Compute(run, results, shared.NoFilters()), engine.Compute(run, results, f))
	})
}

func discoveryResults(n, withHoka int) []models.Result {
	results := make([]models.Result, 0, n)
	for i := 0; i < n; i++ {
		r := models.Result{
			ID:           fmt.Sprintf("r%d", i),
			Provider:     "openai",
			Prompt:       "best running shoes",
			ResponseText: "nothing to see here.",
		}
		if i < withHoka {
			r.ResponseText = "Hoka is great."
		}
		results = append(results, r)
	}
	return results
}

func TestCompute_DiscoveryFloor(t *testing.T) {
	engine := NewDefault()

	report := engine.Compute(brandRun(), discoveryResults(10, 2), shared.NoFilters())
	require.Len(t, report.Discovered, 1)
	assert.Equal(t, "Hoka", report.Discovered[0].Brand)
	assert.Equal(t, 2, report.Discovered[0].Responses)

	hoka, ok := mentionByBrand(report.Mentions, "Hoka")
	require.True(t, ok)
	assert.False(t, hoka.IsTracked)
	assert.InDelta(t, 0.2, hoka.Rate, 1e-9)

	require.Len(t, report.ShareOfVoice, 1)
	assert.Equal(t, OtherBucket, report.ShareOfVoice[0].Brand)
	assert.True(t, report.ShareOfVoice[0].IsOther)
	assert.Equal(t, 100.0, report.ShareOfVoice[0].Percentage)

	report = engine.Compute(brandRun(), discoveryResults(30, 2), shared.NoFilters())
	assert.Empty(t, report.Discovered)

	report = engine.Compute(brandRun(), discoveryResults(30, 3), shared.NoFilters())
	assert.Len(t, report.Discovered, 1)
}

func TestCompute_DiscoveryCountsResponsesNotRepeats(t *testing.T) {
	results := discoveryResults(10, 0)
	results[0].ResponseText = "Hoka is great. Hoka is light. Hoka again."

	report := NewDefault().Compute(brandRun(), results, shared.NoFilters())
	assert.Empty(t, report.Discovered)
}

func TestCompute_TrackedScopeDropsDiscovered(t *testing.T) {
	report := NewDefault().Compute(brandRun(), discoveryResults(10, 2), shared.FilterSelection{Scope: shared.ScopeTracked})

	assert.Empty(t, report.Discovered)
	_, ok := mentionByBrand(report.Mentions, "Hoka")
	assert.False(t, ok)
}

func TestCompute_CategoryMode(t *testing.T) {
	run := models.Run{ID: "run-2", Brand: "running shoes", SearchType: models.SearchTypeCategory}
	report := NewDefault().Compute(run, fixtureResults(), shared.NoFilters())

	assert.Empty(t, report.Brand)
	for _, m := range report.Mentions {
		assert.False(t, m.IsSearchedBrand)
	}
	names := []string{}
	for _, m := range report.Mentions {
		names = append(names, m.Brand)
	}
	assert.Equal(t, []string{"Adidas", "Nike", "Puma", "Asics"}, names)

	nike, ok := mentionByBrand(report.Mentions, "Nike")
	require.True(t, ok)
	assert.False(t, nike.IsTracked)
	assert.Empty(t, report.RankDistribution.Points)

	require.NotEmpty(t, report.Insights)
	assert.Equal(t, "Adidas leads the running shoes category, mentioned in 67% of responses.", report.Insights[0].Text)
}

func TestCompute_EmptyInput(t *testing.T) {
	report := NewDefault().Compute(brandRun(), nil, shared.NoFilters())

	assert.Equal(t, 0, report.Summary.InScopeResults)
	require.Len(t, report.Mentions, 1)
	assert.Equal(t, 0.0, report.Mentions[0].Rate)
	assert.Empty(t, report.ShareOfVoice)
	assert.Empty(t, report.CoOccurrences)
	assert.Empty(t, report.Insights)
	assert.NotNil(t, report.Sources.PerDomain)
}

func TestCompute_Bounds(t *testing.T) {
	report := NewDefault().Compute(brandRun(), fixtureResults(), shared.NoFilters())

	inSentimentRange := func(v *float64) {
		if v != nil {
			assert.GreaterOrEqual(t, *v, 0.0)
			assert.LessOrEqual(t, *v, 5.0)
		}
	}
	for _, m := range report.Mentions {
		assert.GreaterOrEqual(t, m.Rate, 0.0)
		assert.LessOrEqual(t, m.Rate, 1.0)
	}
	for _, b := range report.Brands {
		assert.GreaterOrEqual(t, b.Visibility, 0.0)
		assert.LessOrEqual(t, b.Visibility, 100.0)
		inSentimentRange(b.AvgSentiment)
	}
	for _, p := range report.Providers {
		assert.GreaterOrEqual(t, p.MentionRate, 0.0)
		assert.LessOrEqual(t, p.MentionRate, 1.0)
		assert.LessOrEqual(t, p.Visibility, 100.0)
		inSentimentRange(p.AvgSentiment)
	}
	for _, c := range report.Sources.Matrix.Cells {
		inSentimentRange(c.AvgSentiment)
	}
}

func TestCompute_Deterministic(t *testing.T) {
	engine := NewDefault()
	first := engine.Compute(brandRun(), fixtureResults(), shared.NoFilters())
	second := engine.Compute(brandRun(), fixtureResults(), shared.NoFilters())
	assert.Equal(t, first, second)
}

func TestResultRank(t *testing.T) {
	results := fixtureResults()
	run := brandRun()

	assert.Equal(t, 1, ResultRank(run, &results[0]))
	assert.Equal(t, 2, ResultRank(run, &results[1]))
	assert.Equal(t, 0, ResultRank(run, &results[2]))

	category := models.Run{Brand: "Nike", SearchType: models.SearchTypeCategory}
	assert.Equal(t, 0, ResultRank(category, &results[0]))
}

func TestDimensions(t *testing.T) {
	providers, prompts := Dimensions(fixtureResults())
	assert.Equal(t, []string{"anthropic", "gemini", "openai"}, providers)
	assert.Equal(t, []string{"best running shoes", "budget running shoes"}, prompts)
}
