package metrics

import (
	"sort"
	"strings"

	"github.com/AI2HU/geolens/internal/models"
)

// focusKey is the brand the per-provider and per-prompt views follow:
// the brand filter when set, otherwise the searched brand (empty in category mode)
func (s *snapshot) focusKey() string {
	if s.filters.HasBrand() {
		return brandKey(s.filters.Brand)
	}
	return s.searchedKey
}

// focus returns whether the entry mentions the focus brand, its rank and sentiment label.
// Without a focus brand any tracked mention counts and sentiment labels are pooled.
func (s *snapshot) focus(en *entry, acc *sentimentAcc) (mentioned bool, rank int) {
	key := s.focusKey()
	if key == "" {
		for _, label := range en.sentiments {
			acc.add(label)
		}
		return len(en.brands) > 0, 0
	}
	if label, ok := en.sentiments[key]; ok {
		acc.add(label)
	}
	return en.mentions(key) || en.discovered[key] > 0, en.rank(key)
}

// providerBreakdown builds one row per provider, ordered by name
func (s *snapshot) providerBreakdown() []models.ProviderStats {
	type agg struct {
		name      string
		total     int
		mentions  int
		rankSum   int
		ranked    int
		tokens    int
		cost      float64
		sentiment sentimentAcc
	}
	byProvider := make(map[string]*agg)
	for _, en := range s.entries {
		key := strings.ToLower(strings.TrimSpace(en.res.Provider))
		a, ok := byProvider[key]
		if !ok {
			a = &agg{name: strings.TrimSpace(en.res.Provider)}
			byProvider[key] = a
		}
		a.total++
		a.tokens += en.res.Tokens
		a.cost += en.res.Cost
		mentioned, rank := s.focus(en, &a.sentiment)
		if mentioned {
			a.mentions++
		}
		if rank > 0 {
			a.rankSum += rank
			a.ranked++
		}
	}

	rows := make([]models.ProviderStats, 0, len(byProvider))
	for _, a := range byProvider {
		avg := a.sentiment.avg()
		rows = append(rows, models.ProviderStats{
			Provider:       a.name,
			TotalResponses: a.total,
			Mentions:       a.mentions,
			MentionRate:    ratio(a.mentions, a.total),
			Visibility:     percent(a.mentions, a.total),
			AvgRank:        mean(float64(a.rankSum), a.ranked),
			AvgSentiment:   avg,
			SentimentLabel: SentimentBucketOf(avg),
			TotalTokens:    a.tokens,
			TotalCost:      finite(a.cost),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		return strings.ToLower(rows[i].Provider) < strings.ToLower(rows[j].Provider)
	})
	return rows
}

// promptBreakdown builds one row per prompt in first-seen order
func (s *snapshot) promptBreakdown() []models.PromptStats {
	type agg struct {
		prompt    string
		total     int
		mentions  int
		rankSum   int
		ranked    int
		brands    map[string]bool
		sentiment sentimentAcc
	}
	byPrompt := make(map[string]*agg)
	var order []string
	for _, en := range s.entries {
		prompt := strings.TrimSpace(en.res.Prompt)
		a, ok := byPrompt[prompt]
		if !ok {
			a = &agg{prompt: prompt, brands: make(map[string]bool)}
			byPrompt[prompt] = a
			order = append(order, prompt)
		}
		a.total++
		for key := range en.keys {
			a.brands[key] = true
		}
		for key := range en.discovered {
			if s.discoveredKey[key] {
				a.brands[key] = true
			}
		}
		mentioned, rank := s.focus(en, &a.sentiment)
		if mentioned {
			a.mentions++
		}
		if rank > 0 {
			a.rankSum += rank
			a.ranked++
		}
	}

	rows := make([]models.PromptStats, 0, len(order))
	for _, p := range order {
		a := byPrompt[p]
		avg := a.sentiment.avg()
		rows = append(rows, models.PromptStats{
			Prompt:          a.prompt,
			TotalResponses:  a.total,
			Mentions:        a.mentions,
			MentionRate:     ratio(a.mentions, a.total),
			AvgRank:         mean(float64(a.rankSum), a.ranked),
			AvgSentiment:    avg,
			SentimentLabel:  SentimentBucketOf(avg),
			BrandsMentioned: len(a.brands),
		})
	}
	return rows
}

// rankDistribution places the focus brand of every in-scope result into a rank band
func (s *snapshot) rankDistribution() models.RankDistribution {
	dist := models.RankDistribution{
		Points:     []models.RankPoint{},
		ByProvider: make(map[string]map[string]int),
	}
	key := s.focusKey()
	if key == "" {
		return dist
	}

	for _, en := range s.entries {
		mentioned := en.mentions(key)
		rank := en.rank(key)
		band := RankBand(rank, mentioned)
		dist.Points = append(dist.Points, models.RankPoint{
			ResultID:  en.res.ID,
			Provider:  en.res.Provider,
			Prompt:    en.res.Prompt,
			Rank:      rank,
			Band:      band,
			Mentioned: mentioned,
		})

		bands, ok := dist.ByProvider[en.res.Provider]
		if !ok {
			bands = make(map[string]int, len(RankBands))
			for _, b := range RankBands {
				bands[b] = 0
			}
			dist.ByProvider[en.res.Provider] = bands
		}
		bands[band]++
	}
	return dist
}

// summary totals the filtered result set
func (s *snapshot) summary() models.RunSummary {
	sum := models.RunSummary{
		TotalResults:           s.totalResults,
		InScopeResults:         s.inScope(),
		ErrorResults:           s.errors,
		AIOverviewsUnavailable: s.unavailable,
	}
	providers := make(map[string]bool)
	prompts := make(map[string]bool)
	for _, en := range s.entries {
		sum.TotalTokens += en.res.Tokens
		sum.TotalCost += en.res.Cost
		providers[strings.ToLower(strings.TrimSpace(en.res.Provider))] = true
		prompts[strings.TrimSpace(en.res.Prompt)] = true
	}
	sum.TotalCost = finite(sum.TotalCost)
	sum.Providers = len(providers)
	sum.Prompts = len(prompts)
	return sum
}
