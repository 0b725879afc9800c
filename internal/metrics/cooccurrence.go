package metrics

import (
	"sort"

	"github.com/AI2HU/geolens/internal/models"
)

type pairKey struct {
	a, b string
}

// coOccurrences counts unordered brand pairs mentioned in the same result.
// Keys are sorted so {A,B} and {B,A} collapse; percentage is over in-scope results.
func (s *snapshot) coOccurrences(topN int) []models.CoOccurrence {
	counts := make(map[pairKey]int)
	for _, en := range s.entries {
		keys := make([]string, 0, len(en.brands))
		for _, b := range en.brands {
			keys = append(keys, brandKey(b))
		}
		sort.Strings(keys)
		for i := 0; i < len(keys); i++ {
			for j := i + 1; j < len(keys); j++ {
				counts[pairKey{a: keys[i], b: keys[j]}]++
			}
		}
	}

	total := s.inScope()
	rows := make([]models.CoOccurrence, 0, len(counts))
	for k, n := range counts {
		rows = append(rows, models.CoOccurrence{
			BrandA:     s.displayName(k.a),
			BrandB:     s.displayName(k.b),
			Count:      n,
			Percentage: percent(n, total),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		ai, aj := brandKey(rows[i].BrandA), brandKey(rows[j].BrandA)
		if ai != aj {
			return ai < aj
		}
		return brandKey(rows[i].BrandB) < brandKey(rows[j].BrandB)
	})

	if topN > 0 && len(rows) > topN {
		rows = rows[:topN]
	}
	return rows
}
