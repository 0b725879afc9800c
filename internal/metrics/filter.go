package metrics

import (
	"strings"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

// entry is one in-scope result with its brand signals resolved once per pass
type entry struct {
	res *models.Result

	// brands are the display names mentioned (searched-if-mentioned plus competitors), first-seen order
	brands []string
	keys   map[string]bool
	// sentiments holds the label per brand key, when the result carries one
	sentiments map[string]string
	// ranks holds the text position of every candidate brand found
	ranks map[string]int
	// urls are the result's sources deduplicated by URL, in original order
	urls []models.Source
	// discovered holds the candidate keys found by the detector in this result
	discovered map[string]int
}

func (e *entry) mentions(key string) bool {
	return e.keys[key]
}

// snapshot is the filtered view one pass aggregates over
type snapshot struct {
	run         models.Run
	filters     shared.FilterSelection
	category    bool
	searched    string
	searchedKey string

	entries []*entry

	totalResults int
	errors       int
	unavailable  int

	// display names of tracked brands by key, first-seen order in trackedOrder
	tracked      map[string]string
	trackedOrder []string

	discovered    []models.DiscoveredBrand
	discoveredKey map[string]bool
}

func (s *snapshot) inScope() int {
	return len(s.entries)
}

func (s *snapshot) displayName(key string) string {
	if name, ok := s.tracked[key]; ok {
		return name
	}
	for _, d := range s.discovered {
		if brandKey(d.Brand) == key {
			return d.Brand
		}
	}
	return key
}

// buildSnapshot applies the filter selection and resolves brand signals for every kept result.
// Provider and prompt filters apply before error accounting so the ai_overviews counter follows them.
func (e *Engine) buildSnapshot(run models.Run, results []models.Result, f shared.FilterSelection) *snapshot {
	s := &snapshot{
		run:           run,
		filters:       f,
		category:      run.IsCategory(),
		totalResults:  len(results),
		tracked:       make(map[string]string),
		discoveredKey: make(map[string]bool),
	}
	if !s.category {
		s.searched = strings.TrimSpace(run.Brand)
		s.searchedKey = brandKey(run.Brand)
	}

	// Tracked identity comes from the whole input so filters never change display names
	if s.searchedKey != "" {
		s.addTracked(s.searched)
	}
	for i := range results {
		for _, c := range results[i].CompetitorsMentioned {
			s.addTracked(c)
		}
	}
	trackedAll := make(map[string]bool, len(s.tracked))
	for k := range s.tracked {
		trackedAll[k] = true
	}
	for i := range results {
		for _, b := range results[i].AllBrandsMentioned {
			if k := brandKey(b); k != "" {
				trackedAll[k] = true
			}
		}
	}
	if k := brandKey(run.CategoryLabel()); k != "" && s.category {
		trackedAll[k] = true
	}

	brandFilter := brandKey(f.Brand)
	domainFilter := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(f.Domain)), "www.")

	for i := range results {
		r := &results[i]
		if f.HasProvider() && !strings.EqualFold(strings.TrimSpace(r.Provider), strings.TrimSpace(f.Provider)) {
			continue
		}
		if f.HasPrompt() && strings.TrimSpace(r.Prompt) != strings.TrimSpace(f.Prompt) {
			continue
		}
		if r.Failed() {
			s.errors++
			if strings.EqualFold(r.Provider, models.ProviderAIOverviews) {
				s.unavailable++
			}
			continue
		}

		en := s.resolve(r)
		if f.HasBrand() && !s.resultMentions(en, brandFilter, trackedAll) {
			continue
		}
		if f.HasDomain() && !citesDomain(en, domainFilter) {
			continue
		}
		s.entries = append(s.entries, en)
	}

	if !f.TrackedOnly() {
		s.discover(e.detector, trackedAll)
	}
	return s
}

func (s *snapshot) addTracked(name string) {
	key := brandKey(name)
	if key == "" {
		return
	}
	if _, ok := s.tracked[key]; ok {
		return
	}
	s.tracked[key] = strings.TrimSpace(name)
	s.trackedOrder = append(s.trackedOrder, key)
}

// resolve computes the per-result brand set, sentiments, ranks and unique sources
func (s *snapshot) resolve(r *models.Result) *entry {
	en := &entry{
		res:        r,
		keys:       make(map[string]bool),
		sentiments: make(map[string]string),
	}

	add := func(name, sentiment string) {
		key := brandKey(name)
		if key == "" || en.keys[key] {
			return
		}
		en.keys[key] = true
		en.brands = append(en.brands, s.tracked[key])
		if sentiment != "" {
			en.sentiments[key] = sentiment
		}
	}

	if s.searchedKey != "" && r.BrandMentioned {
		add(s.searched, r.BrandSentiment)
	}
	for _, c := range r.CompetitorsMentioned {
		add(c, r.CompetitorSentiment(c))
	}

	candidates := make([]string, 0, 1+len(r.CompetitorsMentioned)+len(r.AllBrandsMentioned))
	if s.searchedKey != "" {
		candidates = append(candidates, s.searched)
	}
	candidates = append(candidates, r.CompetitorsMentioned...)
	candidates = append(candidates, r.AllBrandsMentioned...)
	ranked := RankAll(r.ResponseText, candidates)
	en.ranks = make(map[string]int, len(ranked))
	for _, rb := range ranked {
		en.ranks[brandKey(rb.Brand)] = rb.Rank
	}

	seen := make(map[string]bool, len(r.Sources))
	for _, src := range r.Sources {
		u := strings.TrimSpace(src.URL)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		en.urls = append(en.urls, models.Source{URL: u, Title: strings.TrimSpace(src.Title)})
	}

	return en
}

// rank returns the text position of a brand within the entry, 0 when not mentioned or not found
func (e *entry) rank(key string) int {
	if !e.keys[key] {
		return 0
	}
	return e.ranks[key]
}

// resultMentions decides the brand filter: the brand set, the full brand list,
// and for untracked names the raw text
func (s *snapshot) resultMentions(en *entry, key string, trackedAll map[string]bool) bool {
	if en.mentions(key) {
		return true
	}
	for _, b := range en.res.AllBrandsMentioned {
		if brandKey(b) == key {
			return true
		}
	}
	if trackedAll[key] {
		return false
	}
	return strings.Contains(strings.ToLower(en.res.ResponseText), key)
}

func citesDomain(en *entry, domain string) bool {
	for _, src := range en.urls {
		if ExtractDomain(src.URL) == domain {
			return true
		}
	}
	return false
}

// discover scans every in-scope result and promotes candidates whose response frequency meets the floor
func (s *snapshot) discover(d *Detector, trackedAll map[string]bool) {
	if d == nil || len(s.entries) == 0 {
		return
	}

	type agg struct {
		display   string
		responses int
		mentions  int
	}
	found := make(map[string]*agg)
	category := s.run.CategoryLabel()
	for _, en := range s.entries {
		cands := d.Scan(en.res.ResponseText, trackedAll, category)
		if len(cands) == 0 {
			continue
		}
		en.discovered = make(map[string]int, len(cands))
		for _, c := range cands {
			en.discovered[c.Key] = c.Count
			a, ok := found[c.Key]
			if !ok {
				a = &agg{display: c.Display}
				found[c.Key] = a
			}
			a.responses++
			a.mentions += c.Count
		}
	}

	n := len(s.entries)
	for key, a := range found {
		if !d.Promoted(a.responses, n) {
			continue
		}
		s.discovered = append(s.discovered, models.DiscoveredBrand{
			Brand:     a.display,
			Responses: a.responses,
			Mentions:  a.mentions,
		})
		s.discoveredKey[key] = true
	}
	sortDiscovered(s.discovered)
}
