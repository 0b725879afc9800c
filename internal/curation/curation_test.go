package curation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/llm"
	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

type fakeProvider struct {
	text    string
	tokens  int
	errText string
	err     error
	calls   int
	prompt  string
	config  llm.Config
}

func (f *fakeProvider) Name() string                          { return "fake" }
func (f *fakeProvider) Validate(config map[string]string) error { return nil }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, config llm.Config) (*llm.Response, error) {
	f.calls++
	f.prompt = prompt
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &llm.Response{Text: f.text, TokensUsed: f.tokens, Error: f.errText, Provider: "fake"}, nil
}

func (f *fakeProvider) ListModels(ctx context.Context, apiKey, baseURL string) ([]models.ModelInfo, error) {
	return nil, nil
}

func sampleCandidates() map[string][]Quote {
	return map[string][]Quote{
		"Nike": {
			{Text: "Nike leads with the Pegasus line for daily training.", Provider: "openai", Prompt: "best running shoes"},
			{Text: "Nike offers strong cushioning across price points.", Provider: "gemini", Prompt: "best running shoes"},
		},
		"Adidas": {
			{Text: "Adidas Ultraboost remains a comfortable pick.", Provider: "anthropic", Prompt: "best running shoes"},
		},
	}
}

func TestCurateEmptyCandidatesSkipsProvider(t *testing.T) {
	fp := &fakeProvider{text: `{"Nike":[{"index":0,"summary":"x"}]}`}
	c := New(fp, DefaultConfig())

	for _, in := range []map[string][]Quote{nil, {}, {"Nike": nil}, {"  ": {{Text: "x"}}}} {
		res, err := c.Curate(context.Background(), in)
		require.NoError(t, err)
		require.NotNil(t, res.Quotes)
		assert.Empty(t, res.Quotes)
		assert.Zero(t, res.Cost)
	}
	assert.Zero(t, fp.calls)
}

func TestCurateMapsIndicesAndCost(t *testing.T) {
	fp := &fakeProvider{
		text: "```json\n" + `{"Nike":[{"index":1,"summary":"Cushioning at every price"},{"index":7,"summary":"bogus"},{"index":0,"summary":"Pegasus for daily runs"}],
"adidas":[{"index":0,"summary":"Comfortable Ultraboost"}],
"Puma":[{"index":0,"summary":"not a candidate"}]}` + "\n```",
		tokens: 2500,
	}
	cfg := DefaultConfig()
	cfg.CostPer1KTokens = 0.002
	cfg.Model = "gpt-4o-mini"
	c := New(fp, cfg)

	res, err := c.Curate(context.Background(), sampleCandidates())
	require.NoError(t, err)
	assert.Equal(t, 1, fp.calls)
	assert.True(t, fp.config.JSON)
	assert.Equal(t, "gpt-4o-mini", fp.config.Model)
	assert.Contains(t, fp.prompt, "Brand: Adidas")
	assert.Contains(t, fp.prompt, "[1] (gemini) Nike offers strong cushioning")

	require.Len(t, res.Quotes["Nike"], 2)
	assert.Equal(t, 1, res.Quotes["Nike"][0].Index)
	assert.Equal(t, "gemini", res.Quotes["Nike"][0].Provider)
	assert.Equal(t, "Cushioning at every price", res.Quotes["Nike"][0].Summary)
	assert.Equal(t, 0, res.Quotes["Nike"][1].Index)

	require.Len(t, res.Quotes["Adidas"], 1)
	assert.NotContains(t, res.Quotes, "Puma")
	assert.InDelta(t, 0.005, res.Cost, 1e-12)
	assert.Equal(t, 2500, res.TokensUsed)
}

func TestCurateDegradesOnFailures(t *testing.T) {
	tests := []struct {
		name string
		fp   *fakeProvider
	}{
		{"transport error", &fakeProvider{err: errors.New("connection refused")}},
		{"provider error", &fakeProvider{errText: "API error (429)"}},
		{"not json", &fakeProvider{text: "Here are my picks: Nike #1", tokens: 300}},
		{"empty", &fakeProvider{text: "   ", tokens: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CostPer1KTokens = 1
			res, err := New(tt.fp, cfg).Curate(context.Background(), sampleCandidates())
			require.NoError(t, err)
			assert.Empty(t, res.Quotes)
			assert.Zero(t, res.Cost)
		})
	}
}

func TestCurateCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fp := &fakeProvider{text: "{}"}
	cfg := DefaultConfig()
	cfg.RequestsPerMinute = 1
	c := New(fp, cfg)

	_, err := c.Curate(ctx, sampleCandidates())
	require.Error(t, err)
	assert.Zero(t, fp.calls)
}

func TestResolveCapsAndDedupes(t *testing.T) {
	candidates := map[string][]Quote{"Nike": {{Text: "a"}, {Text: "b"}, {Text: "c"}, {Text: "d"}}}
	sel := map[string][]Selection{"NIKE": {{Index: 2}, {Index: 2}, {Index: -1}, {Index: 0}, {Index: 1}, {Index: 3}}}

	out := Resolve(sel, candidates, MaxQuotesPerBrand)
	require.Len(t, out["Nike"], 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{out["Nike"][0].Text, out["Nike"][1].Text, out["Nike"][2].Text})
}

func TestParseSelectionsWrapper(t *testing.T) {
	sel, err := ParseSelections(`{"quotes":{"Nike":[{"index":0,"summary":"s"}],"Adidas":"oops"}}`)
	require.NoError(t, err)
	require.Len(t, sel["Nike"], 1)
	assert.NotContains(t, sel, "Adidas")

	_, err = ParseSelections(`[1,2,3]`)
	assert.Error(t, err)
}

func TestCollectCandidates(t *testing.T) {
	run := models.Run{ID: "run-1", Brand: "Nike", SearchType: models.SearchTypeBrand}
	results := []models.Result{
		{
			ID: "r1", Provider: "openai", Prompt: "best running shoes",
			ResponseText:         "1. **Nike** leads with the Pegasus line for daily training. Adidas Ultraboost remains a comfortable pick! Short.",
			BrandMentioned:       true,
			CompetitorsMentioned: []string{"Adidas"},
		},
		{
			ID: "r2", Provider: "gemini", Prompt: "best running shoes",
			ResponseText:         "<p>Nike offers strong cushioning across price points.</p><p>Nike leads with the Pegasus line for daily training.</p>",
			BrandMentioned:       true,
		},
		{
			ID: "r3", Provider: "anthropic", Prompt: "best running shoes",
			ResponseText: "Nike is missing from this failed answer text.",
			Error:        true,
		},
	}

	got := CollectCandidates(run, results, shared.NoFilters(), 5)
	require.Len(t, got["Nike"], 2)
	assert.Equal(t, "Nike leads with the Pegasus line for daily training.", got["Nike"][0].Text)
	assert.Equal(t, "openai", got["Nike"][0].Provider)
	assert.Equal(t, "Nike offers strong cushioning across price points.", got["Nike"][1].Text)
	assert.Equal(t, "gemini", got["Nike"][1].Provider)

	require.Len(t, got["Adidas"], 1)
	assert.Equal(t, "Adidas Ultraboost remains a comfortable pick!", got["Adidas"][0].Text)

	capped := CollectCandidates(run, results, shared.NoFilters(), 1)
	assert.Len(t, capped["Nike"], 1)

	onlyGemini := CollectCandidates(run, results, shared.NoFilters().WithProvider("gemini"), 5)
	assert.NotContains(t, onlyGemini, "Adidas")
	assert.Len(t, onlyGemini["Nike"], 2)

	category := models.Run{Brand: "running shoes", SearchType: models.SearchTypeCategory}
	assert.NotContains(t, CollectCandidates(category, results, shared.NoFilters(), 5), "running shoes")
}

func TestSentences(t *testing.T) {
	got := Sentences("First sentence is long enough here. Tiny.\n- Second one also has enough text\n\n")
	assert.Equal(t, []string{"First sentence is long enough here.", "Second one also has enough text"}, got)
	assert.False(t, strings.Contains(PlainText("<b>bold</b> text"), "<"))
}
