package metrics

import (
	"fmt"
	"strings"

	"github.com/AI2HU/geolens/internal/models"
)

// Insight kinds
const (
	InsightVisibility = "visibility"
	InsightSentiment  = "sentiment"
	InsightPlatform   = "platform"
	InsightCoOccurs   = "co_occurrence"
	InsightSource     = "source"
	InsightDiscovered = "discovered"
)

const (
	sentimentGapMin    = 0.5
	platformDivergence = 25.0
)

// insightRule returns an insight and true when it applies
type insightRule func(r *models.Report, category string) (models.Insight, bool)

var insightRules = []insightRule{
	visibilityInsight,
	sentimentInsight,
	platformInsight,
	coOccurrenceInsight,
	sourceInsight,
	discoveredInsight,
}

// Insights evaluates the rules in order against a computed report and stops at limit
func Insights(r *models.Report, category string, limit int) []models.Insight {
	out := []models.Insight{}
	if r == nil || r.Summary.InScopeResults == 0 {
		return out
	}
	for _, rule := range insightRules {
		if limit > 0 && len(out) >= limit {
			break
		}
		if in, ok := rule(r, category); ok {
			out = append(out, in)
		}
	}
	return out
}

func searchedIndex(brands []models.BrandStats) int {
	for i, b := range brands {
		if b.IsSearchedBrand {
			return i
		}
	}
	return -1
}

func visibilityInsight(r *models.Report, category string) (models.Insight, bool) {
	if len(r.Brands) == 0 {
		return models.Insight{}, false
	}
	leader := r.Brands[0]

	idx := searchedIndex(r.Brands)
	if idx < 0 {
		if leader.Mentions == 0 {
			return models.Insight{}, false
		}
		label := category
		if label == "" {
			label = "this"
		}
		return models.Insight{
			Kind: InsightVisibility,
			Text: fmt.Sprintf("%s leads the %s category, mentioned in %.0f%% of responses.", leader.Brand, label, leader.Visibility),
		}, true
	}

	me := r.Brands[idx]
	switch {
	case me.Mentions == 0:
		return models.Insight{
			Kind: InsightVisibility,
			Text: fmt.Sprintf("%s was not mentioned in any of the %d responses analyzed.", me.Brand, r.Summary.InScopeResults),
		}, true
	case idx == 0:
		return models.Insight{
			Kind: InsightVisibility,
			Text: fmt.Sprintf("%s leads visibility, mentioned in %.0f%% of responses.", me.Brand, me.Visibility),
		}, true
	case idx < 3:
		return models.Insight{
			Kind: InsightVisibility,
			Text: fmt.Sprintf("%s ranks #%d in visibility at %.0f%%, %.0f points behind %s.", me.Brand, idx+1, me.Visibility, leader.Visibility-me.Visibility, leader.Brand),
		}, true
	default:
		return models.Insight{
			Kind: InsightVisibility,
			Text: fmt.Sprintf("%s has low visibility: #%d at %.0f%% while %s leads at %.0f%%.", me.Brand, idx+1, me.Visibility, leader.Brand, leader.Visibility),
		}, true
	}
}

func sentimentInsight(r *models.Report, _ string) (models.Insight, bool) {
	idx := searchedIndex(r.Brands)
	if idx < 0 || r.Brands[idx].AvgSentiment == nil {
		return models.Insight{}, false
	}
	me := r.Brands[idx]

	var best *models.BrandStats
	for i := range r.Brands {
		b := &r.Brands[i]
		if b.IsSearchedBrand || !b.IsTracked || b.AvgSentiment == nil {
			continue
		}
		if best == nil || *b.AvgSentiment > *best.AvgSentiment {
			best = b
		}
	}
	if best == nil {
		return models.Insight{}, false
	}

	gap := *me.AvgSentiment - *best.AvgSentiment
	switch {
	case gap >= sentimentGapMin:
		return models.Insight{
			Kind: InsightSentiment,
			Text: fmt.Sprintf("%s is framed more favorably than competitors (%.1f vs %.1f for %s).", me.Brand, *me.AvgSentiment, *best.AvgSentiment, best.Brand),
		}, true
	case -gap >= sentimentGapMin:
		return models.Insight{
			Kind: InsightSentiment,
			Text: fmt.Sprintf("Sentiment for %s trails %s (%.1f vs %.1f).", me.Brand, best.Brand, *me.AvgSentiment, *best.AvgSentiment),
		}, true
	}
	return models.Insight{}, false
}

func platformInsight(r *models.Report, _ string) (models.Insight, bool) {
	var hi, lo *models.ProviderStats
	for i := range r.Providers {
		p := &r.Providers[i]
		if p.TotalResponses == 0 {
			continue
		}
		if hi == nil || p.Visibility > hi.Visibility {
			hi = p
		}
		if lo == nil || p.Visibility < lo.Visibility {
			lo = p
		}
	}
	if hi == nil || lo == nil || hi == lo || hi.Visibility-lo.Visibility < platformDivergence {
		return models.Insight{}, false
	}
	return models.Insight{
		Kind: InsightPlatform,
		Text: fmt.Sprintf("Visibility varies widely by platform: %.0f%% on %s vs %.0f%% on %s.", hi.Visibility, hi.Provider, lo.Visibility, lo.Provider),
	}, true
}

func coOccurrenceInsight(r *models.Report, _ string) (models.Insight, bool) {
	if len(r.CoOccurrences) == 0 {
		return models.Insight{}, false
	}
	pair := r.CoOccurrences[0]
	if r.Brand != "" {
		found := false
		for _, c := range r.CoOccurrences {
			if strings.EqualFold(c.BrandA, r.Brand) || strings.EqualFold(c.BrandB, r.Brand) {
				pair, found = c, true
				break
			}
		}
		if found {
			other := pair.BrandB
			if strings.EqualFold(other, r.Brand) {
				other = pair.BrandA
			}
			return models.Insight{
				Kind: InsightCoOccurs,
				Text: fmt.Sprintf("%s is most often mentioned alongside %s (%d responses, %.0f%%).", r.Brand, other, pair.Count, pair.Percentage),
			}, true
		}
	}
	return models.Insight{
		Kind: InsightCoOccurs,
		Text: fmt.Sprintf("%s and %s appear together most often (%d responses, %.0f%%).", pair.BrandA, pair.BrandB, pair.Count, pair.Percentage),
	}, true
}

func sourceInsight(r *models.Report, _ string) (models.Insight, bool) {
	if len(r.Sources.KeyInfluencers) == 0 {
		return models.Insight{}, false
	}
	d := r.Sources.KeyInfluencers[0]
	return models.Insight{
		Kind: InsightSource,
		Text: fmt.Sprintf("%s (%s) is the most influential source, cited %d times by %d providers.", d.Domain, d.Category, d.Citations, d.ProviderCount),
	}, true
}

func discoveredInsight(r *models.Report, _ string) (models.Insight, bool) {
	if len(r.Discovered) == 0 {
		return models.Insight{}, false
	}
	top := r.Discovered[0]
	noun := "brand"
	if len(r.Discovered) > 1 {
		noun = "brands"
	}
	return models.Insight{
		Kind: InsightDiscovered,
		Text: fmt.Sprintf("%d untracked %s surfaced, led by %s (%d responses).", len(r.Discovered), noun, top.Brand, top.Responses),
	}, true
}
