package metrics

import (
	"sort"
	"strings"
)

// Rank bands used for scatter and range charts
const (
	BandNotMentioned = "Not mentioned"
	BandTop          = "Top (1)"
	Band2to3         = "2-3"
	Band4to5         = "4-5"
	Band6to10        = "6-10"
	Band10Plus       = "10+"
)

// RankBands lists every band in display order
var RankBands = []string{BandTop, Band2to3, Band4to5, Band6to10, Band10Plus, BandNotMentioned}

// RankedBrand is a brand found in text with its first offset and 1-based rank
type RankedBrand struct {
	Brand  string
	Offset int
	Rank   int
}

// RankAll orders the candidates found in text by first character offset.
// Candidates are deduplicated case-insensitively keeping first occurrence;
// brands sharing an offset keep their candidate order, so ranks are distinct 1..k.
// Matching is plain substring search without word boundaries.
func RankAll(text string, candidates []string) []RankedBrand {
	if text == "" || len(candidates) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	seen := make(map[string]bool, len(candidates))
	var found []RankedBrand
	for _, c := range candidates {
		key := brandKey(c)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if idx := strings.Index(lower, key); idx >= 0 {
			found = append(found, RankedBrand{Brand: strings.TrimSpace(c), Offset: idx})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Offset < found[j].Offset
	})
	for i := range found {
		found[i].Rank = i + 1
	}
	return found
}

// Rank returns the 1-based position of brand among the candidates found in text, or 0.
// The brand is always considered even if missing from candidates.
func Rank(text, brand string, candidates []string) int {
	key := brandKey(brand)
	if key == "" {
		return 0
	}
	list := make([]string, 0, len(candidates)+1)
	list = append(list, brand)
	list = append(list, candidates...)
	for _, rb := range RankAll(text, list) {
		if brandKey(rb.Brand) == key {
			return rb.Rank
		}
	}
	return 0
}

// RankBand discretizes a rank into one of six bands
func RankBand(rank int, mentioned bool) string {
	switch {
	case !mentioned || rank <= 0:
		return BandNotMentioned
	case rank == 1:
		return BandTop
	case rank <= 3:
		return Band2to3
	case rank <= 5:
		return Band4to5
	case rank <= 10:
		return Band6to10
	default:
		return Band10Plus
	}
}
