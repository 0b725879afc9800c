package curation

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AI2HU/geolens/internal/models"
	"github.com/AI2HU/geolens/internal/shared"
)

const (
	minSentenceLen = 20
	maxSentenceLen = 400
)

var (
	sentenceBreak = regexp.MustCompile(`(?:[.!?]+["')\]]?\s+)|\n+`)
	markdownNoise = regexp.MustCompile("[*_`#>]+")
	whitespace    = regexp.MustCompile(`\s+`)
	listMarker    = regexp.MustCompile(`^(?:[-•]|\d+[.)])\s+`)
)

// PlainText strips markup from a response so quotes read as prose
func PlainText(text string) string {
	if strings.ContainsAny(text, "<>") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			doc.Find("script, style, noscript").Remove()
			text = blockText(doc.Selection)
		}
	}
	text = markdownNoise.ReplaceAllString(text, "")
	return text
}

// blockText keeps paragraph boundaries as newlines so sentence splitting still works
func blockText(sel *goquery.Selection) string {
	sel.Find("p, li, br, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})
	return sel.Text()
}

// Sentences splits plain text into trimmed sentences of quotable length
func Sentences(text string) []string {
	var out []string
	for _, part := range splitKeep(text) {
		s := strings.TrimSpace(whitespace.ReplaceAllString(part, " "))
		s = listMarker.ReplaceAllString(s, "")
		if len(s) < minSentenceLen || len(s) > maxSentenceLen {
			continue
		}
		out = append(out, s)
	}
	return out
}

// splitKeep splits on sentence breaks while keeping the terminal punctuation
func splitKeep(text string) []string {
	var parts []string
	last := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		parts = append(parts, text[last:loc[1]])
		last = loc[1]
	}
	if last < len(text) {
		parts = append(parts, text[last:])
	}
	return parts
}

// CollectCandidates gathers, per brand, sentences from non-error results that name it.
// Brands are the searched brand (brand mode) and every competitor mentioned; at most
// perBrand quotes are kept per brand, in result order, without duplicates.
func CollectCandidates(run models.Run, results []models.Result, f shared.FilterSelection, perBrand int) map[string][]Quote {
	candidates := make(map[string][]Quote)
	if perBrand <= 0 {
		return candidates
	}

	seen := make(map[string]map[string]bool)
	display := make(map[string]string)

	for i := range results {
		r := &results[i]
		if r.Failed() || strings.TrimSpace(r.ResponseText) == "" {
			continue
		}
		if f.HasProvider() && r.Provider != f.Provider {
			continue
		}
		if f.HasPrompt() && r.Prompt != f.Prompt {
			continue
		}

		var brands []string
		if !run.IsCategory() && r.BrandMentioned && strings.TrimSpace(run.Brand) != "" {
			brands = append(brands, run.Brand)
		}
		brands = append(brands, r.CompetitorsMentioned...)
		if len(brands) == 0 {
			continue
		}

		sentences := Sentences(PlainText(r.ResponseText))
		for _, brand := range brands {
			key := shared.BrandKey(brand)
			if key == "" {
				continue
			}
			if f.HasBrand() && key != shared.BrandKey(f.Brand) {
				continue
			}
			if _, ok := display[key]; !ok {
				display[key] = strings.TrimSpace(brand)
			}
			name := display[key]
			if len(candidates[name]) >= perBrand {
				continue
			}
			if seen[key] == nil {
				seen[key] = make(map[string]bool)
			}
			for _, s := range sentences {
				if len(candidates[name]) >= perBrand {
					break
				}
				if seen[key][s] || !strings.Contains(strings.ToLower(s), key) {
					continue
				}
				seen[key][s] = true
				candidates[name] = append(candidates[name], Quote{
					Text:     s,
					Provider: r.Provider,
					Prompt:   r.Prompt,
				})
			}
		}
	}

	return candidates
}
