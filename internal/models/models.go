package models

// Aggregate rows produced by one metrics pass. Rows are never mutated once built.

// BrandMention is a brand's share of in-scope responses
type BrandMention struct {
	Brand           string  `json:"brand"`
	Count           int     `json:"count"`
	Rate            float64 `json:"rate"`
	IsTracked       bool    `json:"is_tracked"`
	IsSearchedBrand bool    `json:"is_searched_brand"`
}

// ShareOfVoice is a brand's share of all brand mentions (not of responses)
type ShareOfVoice struct {
	Brand      string  `json:"brand"`
	Mentions   int     `json:"mentions"`
	Percentage float64 `json:"percentage"`
	IsOther    bool    `json:"is_other,omitempty"`
}

// BrandStats carries the per-brand mention, rank and sentiment detail
type BrandStats struct {
	Brand              string   `json:"brand"`
	IsSearchedBrand    bool     `json:"is_searched_brand"`
	IsTracked          bool     `json:"is_tracked"`
	Mentions           int      `json:"mentions"`
	MentionRate        float64  `json:"mention_rate"`
	Visibility         float64  `json:"visibility"`
	AvgRank            float64  `json:"avg_rank"`
	RankedResponses    int      `json:"ranked_responses"`
	FirstPositionCount int      `json:"first_position_count"`
	AvgSentiment       *float64 `json:"avg_sentiment"`
	SentimentLabel     string   `json:"sentiment_label"`
	ProviderCount      int      `json:"provider_count"`
}

// ProviderStats is the searched-brand view of one provider
type ProviderStats struct {
	Provider       string   `json:"provider"`
	TotalResponses int      `json:"total_responses"`
	Mentions       int      `json:"mentions"`
	MentionRate    float64  `json:"mention_rate"`
	Visibility     float64  `json:"visibility"`
	AvgRank        float64  `json:"avg_rank"`
	AvgSentiment   *float64 `json:"avg_sentiment"`
	SentimentLabel string   `json:"sentiment_label"`
	TotalTokens    int      `json:"total_tokens"`
	TotalCost      float64  `json:"total_cost"`
}

// PromptStats is the searched-brand view of one prompt
type PromptStats struct {
	Prompt          string   `json:"prompt"`
	TotalResponses  int      `json:"total_responses"`
	Mentions        int      `json:"mentions"`
	MentionRate     float64  `json:"mention_rate"`
	AvgRank         float64  `json:"avg_rank"`
	AvgSentiment    *float64 `json:"avg_sentiment"`
	SentimentLabel  string   `json:"sentiment_label"`
	BrandsMentioned int      `json:"brands_mentioned"`
}

// DomainStats aggregates citations of one source domain
type DomainStats struct {
	Domain        string   `json:"domain"`
	Category      string   `json:"category"`
	Citations     int      `json:"citations"`
	Responses     int      `json:"responses"`
	ProviderCount int      `json:"provider_count"`
	Providers     []string `json:"providers"`
}

// URLStats aggregates citations of one exact URL
type URLStats struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Domain    string `json:"domain"`
	Citations int    `json:"citations"`
}

// SourceBrandCell is one domain x brand co-citation entry
type SourceBrandCell struct {
	Domain         string   `json:"domain"`
	Brand          string   `json:"brand"`
	Citations      int      `json:"citations"`
	SentimentCount int      `json:"sentiment_count"`
	AvgSentiment   *float64 `json:"avg_sentiment"`
	SentimentLabel string   `json:"sentiment_label"`
}

// SourceBrandMatrix is the brand-by-source co-citation matrix.
// Cells holds only non-zero entries, ordered by domain then brand.
type SourceBrandMatrix struct {
	Domains []string          `json:"domains"`
	Brands  []string          `json:"brands"`
	Cells   []SourceBrandCell `json:"cells"`
}

// Cell returns the entry for a domain and brand, if any
func (m *SourceBrandMatrix) Cell(domain, brand string) (SourceBrandCell, bool) {
	for _, c := range m.Cells {
		if c.Domain == domain && c.Brand == brand {
			return c, true
		}
	}
	return SourceBrandCell{}, false
}

// CoOccurrence counts responses in which two brands appear together
type CoOccurrence struct {
	BrandA     string  `json:"brand_a"`
	BrandB     string  `json:"brand_b"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// DiscoveredBrand is an untracked brand promoted by the discovery floor
type DiscoveredBrand struct {
	Brand     string `json:"brand"`
	Responses int    `json:"responses"`
	Mentions  int    `json:"mentions"`
}

// RankPoint is the searched brand's position within one result
type RankPoint struct {
	ResultID  string `json:"result_id"`
	Provider  string `json:"provider"`
	Prompt    string `json:"prompt"`
	Rank      int    `json:"rank"`
	Band      string `json:"band"`
	Mentioned bool   `json:"mentioned"`
}

// SentimentBreakdown counts sentiment labels observed for one brand
type SentimentBreakdown struct {
	Brand        string         `json:"brand"`
	Counts       map[string]int `json:"counts"`
	Observed     int            `json:"observed"`
	AvgSentiment *float64       `json:"avg_sentiment"`
	Label        string         `json:"label"`
}

// Insight is one deterministic bullet derived from the aggregates
type Insight struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}
