package metrics

import (
	"sort"
	"strings"

	"github.com/AI2HU/geolens/internal/models"
)

type domainAgg struct {
	citations int
	responses int
	providers map[string]bool
}

type cellAgg struct {
	citations int
	sentiment sentimentAcc
}

type cellKey struct {
	domain string
	brand  string
}

// sources groups citations by domain and builds the brand-by-source matrix.
// A result's repeated URLs collapse to one; the same URL across results accumulates.
// Each (domain, brand, result) triple counts at most once in the matrix.
func (s *snapshot) sources(keyInfluencers int) models.SourceReport {
	domainFilter := ""
	if s.filters.HasDomain() {
		domainFilter = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s.filters.Domain)), "www.")
	}

	domains := make(map[string]*domainAgg)
	urls := make(map[string]*models.URLStats)
	cells := make(map[cellKey]*cellAgg)
	brandSeen := make(map[string]bool)

	for _, en := range s.entries {
		resultDomains := make(map[string]bool)
		var ordered []string
		for _, src := range en.urls {
			domain := ExtractDomain(src.URL)
			if domain == "" || (domainFilter != "" && domain != domainFilter) {
				continue
			}

			u, ok := urls[src.URL]
			if !ok {
				u = &models.URLStats{URL: src.URL, Domain: domain}
				urls[src.URL] = u
			}
			u.Citations++
			if u.Title == "" {
				u.Title = src.Title
			}

			d, ok := domains[domain]
			if !ok {
				d = &domainAgg{providers: make(map[string]bool)}
				domains[domain] = d
			}
			d.citations++
			if !resultDomains[domain] {
				resultDomains[domain] = true
				ordered = append(ordered, domain)
				d.responses++
				d.providers[strings.ToLower(strings.TrimSpace(en.res.Provider))] = true
			}
		}

		for _, domain := range ordered {
			for _, brand := range en.brands {
				key := brandKey(brand)
				ck := cellKey{domain: domain, brand: key}
				c, ok := cells[ck]
				if !ok {
					c = &cellAgg{}
					cells[ck] = c
				}
				c.citations++
				if label, ok := en.sentiments[key]; ok {
					c.sentiment.add(label)
				}
				brandSeen[key] = true
			}
		}
	}

	report := models.SourceReport{
		PerDomain:      make([]models.DomainStats, 0, len(domains)),
		KeyInfluencers: []models.DomainStats{},
		URLs:           make([]models.URLStats, 0, len(urls)),
	}

	for domain, d := range domains {
		providers := make([]string, 0, len(d.providers))
		for p := range d.providers {
			providers = append(providers, p)
		}
		sort.Strings(providers)
		report.PerDomain = append(report.PerDomain, models.DomainStats{
			Domain:        domain,
			Category:      ClassifyDomain(domain),
			Citations:     d.citations,
			Responses:     d.responses,
			ProviderCount: len(providers),
			Providers:     providers,
		})
	}
	sort.Slice(report.PerDomain, func(i, j int) bool {
		a, b := report.PerDomain[i], report.PerDomain[j]
		if a.Citations != b.Citations {
			return a.Citations > b.Citations
		}
		if a.Responses != b.Responses {
			return a.Responses > b.Responses
		}
		return a.Domain < b.Domain
	})

	report.KeyInfluencers = keyInfluencerDomains(report.PerDomain, keyInfluencers)

	for _, u := range urls {
		report.URLs = append(report.URLs, *u)
	}
	sort.Slice(report.URLs, func(i, j int) bool {
		if report.URLs[i].Citations != report.URLs[j].Citations {
			return report.URLs[i].Citations > report.URLs[j].Citations
		}
		return report.URLs[i].URL < report.URLs[j].URL
	})

	report.Matrix = s.matrix(report.PerDomain, cells, brandSeen)
	return report
}

// keyInfluencerDomains keeps domains cited by at least two providers,
// ordered by provider count, then citations, then name
func keyInfluencerDomains(perDomain []models.DomainStats, limit int) []models.DomainStats {
	out := []models.DomainStats{}
	for _, d := range perDomain {
		if d.ProviderCount >= 2 {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ProviderCount != out[j].ProviderCount {
			return out[i].ProviderCount > out[j].ProviderCount
		}
		if out[i].Citations != out[j].Citations {
			return out[i].Citations > out[j].Citations
		}
		return out[i].Domain < out[j].Domain
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *snapshot) matrix(perDomain []models.DomainStats, cells map[cellKey]*cellAgg, brandSeen map[string]bool) models.SourceBrandMatrix {
	m := models.SourceBrandMatrix{
		Domains: make([]string, 0, len(perDomain)),
		Brands:  []string{},
		Cells:   make([]models.SourceBrandCell, 0, len(cells)),
	}

	var brandKeys []string
	for _, key := range s.trackedOrder {
		if brandSeen[key] {
			brandKeys = append(brandKeys, key)
			m.Brands = append(m.Brands, s.tracked[key])
		}
	}

	for _, d := range perDomain {
		m.Domains = append(m.Domains, d.Domain)
		for _, key := range brandKeys {
			c, ok := cells[cellKey{domain: d.Domain, brand: key}]
			if !ok {
				continue
			}
			avg := c.sentiment.avg()
			m.Cells = append(m.Cells, models.SourceBrandCell{
				Domain:         d.Domain,
				Brand:          s.tracked[key],
				Citations:      c.citations,
				SentimentCount: c.sentiment.count,
				AvgSentiment:   avg,
				SentimentLabel: SentimentBucketOf(avg),
			})
		}
	}
	return m
}
