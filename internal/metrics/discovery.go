package metrics

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// DefaultBrandPattern matches runs of capitalized words, digits allowed after the first letter
const DefaultBrandPattern = `\b[A-Z][a-zA-Z0-9]*(?:\s+[A-Z][a-zA-Z0-9]*)*\b`

// DiscoveryConfig tunes the untracked brand detector
type DiscoveryConfig struct {
	// Pattern is the token regex; empty means DefaultBrandPattern
	Pattern string
	// Stopwords replaces the curated list when non-nil
	Stopwords []string
	// ExtraStopwords are added on top of the list in use
	ExtraStopwords []string
	// MinOccurrences is the absolute floor for promotion
	MinOccurrences int
	// SampleFraction scales the floor with sample size
	SampleFraction float64
}

// DefaultDiscoveryConfig returns the tuned defaults: floor = max(2, floor(0.1 * n))
func DefaultDiscoveryConfig() DiscoveryConfig {
	return DiscoveryConfig{
		Pattern:        DefaultBrandPattern,
		MinOccurrences: 2,
		SampleFraction: 0.1,
	}
}

// Detector finds capitalized tokens that behave like brand names but were never tracked.
// It is best-effort: stylized or non-Latin names are missed and uncommon capitalized nouns
// may slip through.
type Detector struct {
	pattern        *regexp.Regexp
	stopwords      map[string]struct{}
	minOccurrences int
	sampleFraction float64
}

// Candidate is one discovered token with its display form and occurrence count
type Candidate struct {
	Key     string
	Display string
	Count   int
}

// NewDetector builds a detector from a config
func NewDetector(cfg DiscoveryConfig) (*Detector, error) {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = DefaultBrandPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile brand pattern: %w", err)
	}

	words := cfg.Stopwords
	if words == nil {
		words = defaultStopwords
	}
	stop := make(map[string]struct{}, len(words)+len(cfg.ExtraStopwords))
	for _, w := range words {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	for _, w := range cfg.ExtraStopwords {
		stop[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	minOcc := cfg.MinOccurrences
	if minOcc <= 0 {
		minOcc = 2
	}
	frac := cfg.SampleFraction
	if frac < 0 || math.IsNaN(frac) {
		frac = 0
	}

	return &Detector{
		pattern:        re,
		stopwords:      stop,
		minOccurrences: minOcc,
		sampleFraction: frac,
	}, nil
}

// MustDetector is like NewDetector but panics on an invalid pattern
func MustDetector(cfg DiscoveryConfig) *Detector {
	d, err := NewDetector(cfg)
	if err != nil {
		panic(err)
	}
	return d
}

// Floor returns the promotion threshold for a sample of n responses
func (d *Detector) Floor(n int) int {
	scaled := int(math.Floor(d.sampleFraction*float64(n) + 1e-9))
	if scaled > d.minOccurrences {
		return scaled
	}
	return d.minOccurrences
}

// Promoted reports whether a candidate seen f times in a sample of n meets the floor.
// f counts responses containing the candidate; repeats within one response count once.
func (d *Detector) Promoted(f, n int) bool {
	return f >= d.Floor(n)
}

// Discover returns candidate brand keys in text, most frequent first (ties by key)
func (d *Detector) Discover(text string, tracked map[string]bool, category string) []string {
	cands := d.Scan(text, tracked, category)
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Key
	}
	return out
}

// Scan counts candidate brands in text. Matches are lower-cased; tracked brands,
// stopwords, the category label and its naive plural/singular forms are skipped.
func (d *Detector) Scan(text string, tracked map[string]bool, category string) []Candidate {
	if text == "" {
		return nil
	}

	excluded := categoryVariants(category)
	counts := make(map[string]*Candidate)
	for _, match := range d.pattern.FindAllString(text, -1) {
		display := d.trimStopwords(match)
		key := strings.ToLower(display)
		if len(key) < 2 {
			continue
		}
		if tracked[key] || excluded[key] {
			continue
		}
		if _, stop := d.stopwords[key]; stop {
			continue
		}
		if extendsTracked(key, tracked) {
			continue
		}

		if c, ok := counts[key]; ok {
			c.Count++
			continue
		}
		counts[key] = &Candidate{Key: key, Display: display, Count: 1}
	}

	out := make([]Candidate, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// trimStopwords drops stopword tokens from both ends of a match ("The Nike" -> "Nike")
func (d *Detector) trimStopwords(match string) string {
	fields := strings.Fields(match)
	for len(fields) > 0 {
		if _, stop := d.stopwords[strings.ToLower(fields[0])]; !stop {
			break
		}
		fields = fields[1:]
	}
	for len(fields) > 0 {
		if _, stop := d.stopwords[strings.ToLower(fields[len(fields)-1])]; !stop {
			break
		}
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

// extendsTracked reports whether a multi-word match starts with a tracked brand ("nike air max")
func extendsTracked(key string, tracked map[string]bool) bool {
	fields := strings.Fields(key)
	for i := 1; i < len(fields); i++ {
		if tracked[strings.Join(fields[:i], " ")] {
			return true
		}
	}
	return false
}

func categoryVariants(category string) map[string]bool {
	cat := strings.ToLower(strings.TrimSpace(category))
	if cat == "" {
		return nil
	}
	variants := map[string]bool{
		cat:        true,
		cat + "s":  true,
		cat + "es": true,
	}
	if strings.HasSuffix(cat, "es") {
		variants[strings.TrimSuffix(cat, "es")] = true
	}
	if strings.HasSuffix(cat, "s") {
		variants[strings.TrimSuffix(cat, "s")] = true
	}
	return variants
}
