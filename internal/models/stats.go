package models

// RunSummary holds totals for the filtered result set
type RunSummary struct {
	TotalResults           int     `json:"total_results"`
	InScopeResults         int     `json:"in_scope_results"`
	ErrorResults           int     `json:"error_results"`
	AIOverviewsUnavailable int     `json:"ai_overviews_unavailable"`
	TotalTokens            int     `json:"total_tokens"`
	TotalCost              float64 `json:"total_cost"`
	Providers              int     `json:"providers"`
	Prompts                int     `json:"prompts"`
}

// RankDistribution groups rank bands per provider for scatter and range charts
type RankDistribution struct {
	Points     []RankPoint               `json:"points"`
	ByProvider map[string]map[string]int `json:"by_provider"`
}

// SourceReport is the output of the source aggregator
type SourceReport struct {
	PerDomain      []DomainStats     `json:"per_domain"`
	KeyInfluencers []DomainStats     `json:"key_influencers"`
	URLs           []URLStats        `json:"urls"`
	Matrix         SourceBrandMatrix `json:"matrix"`
}

// Report is the full presentation-ready output of one metrics pass
type Report struct {
	RunID            string               `json:"run_id"`
	Brand            string               `json:"brand"`
	SearchType       string               `json:"search_type"`
	Summary          RunSummary           `json:"summary"`
	Mentions         []BrandMention       `json:"mentions"`
	ShareOfVoice     []ShareOfVoice       `json:"share_of_voice"`
	Brands           []BrandStats         `json:"brands"`
	Providers        []ProviderStats      `json:"providers"`
	Prompts          []PromptStats        `json:"prompts"`
	Sentiment        []SentimentBreakdown `json:"sentiment"`
	Sources          SourceReport         `json:"sources"`
	CoOccurrences    []CoOccurrence       `json:"co_occurrences"`
	Discovered       []DiscoveredBrand    `json:"discovered"`
	RankDistribution RankDistribution     `json:"rank_distribution"`
	Insights         []Insight            `json:"insights"`
}
