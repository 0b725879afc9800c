package metrics

import (
	"sort"
	"strings"

	"github.com/AI2HU/geolens/internal/models"
)

// OtherBucket is the share-of-voice row that folds discovered brands together
const OtherBucket = "Other"

func sortDiscovered(list []models.DiscoveredBrand) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Responses != list[j].Responses {
			return list[i].Responses > list[j].Responses
		}
		return brandKey(list[i].Brand) < brandKey(list[j].Brand)
	})
}

// mentionCounts counts responses per brand key: the searched brand via brand_mentioned,
// competitors via their presence in the result, discovered brands via response frequency
func (s *snapshot) mentionCounts() map[string]int {
	counts := make(map[string]int)
	for _, en := range s.entries {
		for key := range en.keys {
			counts[key]++
		}
	}
	for _, d := range s.discovered {
		counts[brandKey(d.Brand)] = d.Responses
	}
	return counts
}

// mentions builds the sorted brand mention rows
func (s *snapshot) mentions() []models.BrandMention {
	counts := s.mentionCounts()
	total := s.inScope()

	var rows []models.BrandMention
	for _, key := range s.trackedOrder {
		count := counts[key]
		isSearched := key == s.searchedKey
		if count == 0 && !isSearched {
			continue
		}
		rows = append(rows, models.BrandMention{
			Brand:           s.tracked[key],
			Count:           count,
			Rate:            ratio(count, total),
			IsTracked:       true,
			IsSearchedBrand: isSearched,
		})
	}
	for _, d := range s.discovered {
		rows = append(rows, models.BrandMention{
			Brand: d.Brand,
			Count: d.Responses,
			Rate:  ratio(d.Responses, total),
		})
	}

	sortMentions(rows)
	return rows
}

// sortMentions orders by count desc, then the searched brand, then name
func sortMentions(rows []models.BrandMention) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		if rows[i].IsSearchedBrand != rows[j].IsSearchedBrand {
			return rows[i].IsSearchedBrand
		}
		return brandKey(rows[i].Brand) < brandKey(rows[j].Brand)
	})
}

// shareOfVoice expresses mentions as a share of all brand mentions, not of responses.
// With fold set, discovered brands collapse into a single Other row placed last.
func (s *snapshot) shareOfVoice(mentions []models.BrandMention, fold bool) []models.ShareOfVoice {
	total := 0
	for _, m := range mentions {
		total += m.Count
	}

	var rows []models.ShareOfVoice
	other := 0
	for _, m := range mentions {
		if m.Count == 0 {
			continue
		}
		if fold && !m.IsTracked {
			other += m.Count
			continue
		}
		rows = append(rows, models.ShareOfVoice{
			Brand:      m.Brand,
			Mentions:   m.Count,
			Percentage: percent(m.Count, total),
		})
	}
	if other > 0 {
		rows = append(rows, models.ShareOfVoice{
			Brand:      OtherBucket,
			Mentions:   other,
			Percentage: percent(other, total),
			IsOther:    true,
		})
	}
	return rows
}

// brandStats adds rank, sentiment and provider reach to every mention row
func (s *snapshot) brandStats(mentions []models.BrandMention) []models.BrandStats {
	total := s.inScope()
	rows := make([]models.BrandStats, 0, len(mentions))
	for _, m := range mentions {
		key := brandKey(m.Brand)

		var rankSum, ranked, first int
		var acc sentimentAcc
		providers := make(map[string]bool)
		for _, en := range s.entries {
			if !en.mentions(key) && en.discovered[key] == 0 {
				continue
			}
			providers[strings.ToLower(en.res.Provider)] = true
			if r := en.rank(key); r > 0 {
				rankSum += r
				ranked++
				if r == 1 {
					first++
				}
			}
			if label, ok := en.sentiments[key]; ok {
				acc.add(label)
			}
		}

		avg := acc.avg()
		rows = append(rows, models.BrandStats{
			Brand:              m.Brand,
			IsSearchedBrand:    m.IsSearchedBrand,
			IsTracked:          m.IsTracked,
			Mentions:           m.Count,
			MentionRate:        m.Rate,
			Visibility:         percent(m.Count, total),
			AvgRank:            mean(float64(rankSum), ranked),
			RankedResponses:    ranked,
			FirstPositionCount: first,
			AvgSentiment:       avg,
			SentimentLabel:     SentimentBucketOf(avg),
			ProviderCount:      len(providers),
		})
	}
	return rows
}

// sentimentBreakdown counts sentiment labels per tracked brand in mention order
func (s *snapshot) sentimentBreakdown(mentions []models.BrandMention) []models.SentimentBreakdown {
	var rows []models.SentimentBreakdown
	for _, m := range mentions {
		if !m.IsTracked {
			continue
		}
		key := brandKey(m.Brand)
		counts := make(map[string]int, len(SentimentLabels))
		for _, label := range SentimentLabels {
			counts[label] = 0
		}

		var acc sentimentAcc
		for _, en := range s.entries {
			label, ok := en.sentiments[key]
			if !ok {
				continue
			}
			norm := normalizeSentiment(label)
			if _, scored := SentimentScore(norm); !scored {
				continue
			}
			counts[norm]++
			acc.add(norm)
		}

		avg := acc.avg()
		rows = append(rows, models.SentimentBreakdown{
			Brand:        m.Brand,
			Counts:       counts,
			Observed:     acc.count,
			AvgSentiment: avg,
			Label:        SentimentBucketOf(avg),
		})
	}
	return rows
}
