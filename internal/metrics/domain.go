package metrics

import (
	"net/url"
	"strings"
)

// Source categories
const (
	CategorySocial     = "Social Media"
	CategoryVideo      = "Video"
	CategoryReference  = "Reference"
	CategoryNews       = "News"
	CategoryEcommerce  = "E-commerce"
	CategoryReviews    = "Reviews"
	CategoryForums     = "Forums"
	CategoryGovernment = "Government"
	CategoryBlogs      = "Blogs"
	CategoryOther      = "Other"
)

// domainRule matches a host by keyword substring, exact host (or subdomain) or suffix
type domainRule struct {
	category string
	keywords []string
	hosts    []string
	suffixes []string
}

// Rules are evaluated in order; the first match wins
var domainRules = []domainRule{
	{
		category: CategorySocial,
		keywords: []string{"facebook", "instagram", "twitter", "linkedin", "tiktok", "pinterest", "snapchat", "threads.net", "mastodon"},
		hosts:    []string{"x.com", "fb.com", "t.co"},
	},
	{
		category: CategoryVideo,
		keywords: []string{"youtube", "youtu.be", "vimeo", "twitch", "dailymotion"},
	},
	{
		category: CategoryReference,
		keywords: []string{"wikipedia", "wikimedia", "britannica", "investopedia", "dictionary", "merriam-webster", "encyclopedia", "wiki"},
	},
	{
		category: CategoryNews,
		keywords: []string{"news", "cnn", "bbc", "nytimes", "reuters", "forbes", "bloomberg", "theguardian", "washingtonpost", "wsj", "cnbc", "techcrunch", "theverge", "apnews", "businessinsider", "usatoday", "npr.org"},
	},
	{
		category: CategoryEcommerce,
		keywords: []string{"amazon", "ebay", "walmart", "etsy", "aliexpress", "bestbuy", "shopify", "shop", "store"},
		hosts:    []string{"target.com"},
	},
	{
		category: CategoryReviews,
		keywords: []string{"review", "yelp", "trustpilot", "capterra", "rtings", "consumerreports", "tripadvisor", "wirecutter", "tomsguide", "pcmag", "cnet"},
		hosts:    []string{"g2.com"},
	},
	{
		category: CategoryForums,
		keywords: []string{"reddit", "quora", "stackoverflow", "stackexchange", "forum", "community", "discourse"},
	},
	{
		category: CategoryGovernment,
		hosts:    []string{"gov.uk", "europa.eu"},
		suffixes: []string{".gov", ".mil", ".gov.uk", ".gov.au", ".gc.ca"},
	},
	{
		category: CategoryBlogs,
		keywords: []string{"blog", "medium", "substack", "wordpress", "blogspot", "tumblr", "ghost.io"},
	},
}

func (r domainRule) match(host string) bool {
	for _, h := range r.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	for _, s := range r.suffixes {
		if strings.HasSuffix(host, s) {
			return true
		}
	}
	for _, k := range r.keywords {
		if strings.Contains(host, k) {
			return true
		}
	}
	return false
}

// ClassifyDomain maps a hostname to a source category
func ClassifyDomain(domain string) string {
	host := strings.ToLower(strings.TrimSpace(domain))
	if host == "" {
		return CategoryOther
	}
	for _, rule := range domainRules {
		if rule.match(host) {
			return rule.category
		}
	}
	return CategoryOther
}

// ExtractDomain returns the lower-cased host of a URL without a leading "www.".
// Unparseable input falls back to the raw string.
func ExtractDomain(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Hostname() == "" {
		return raw
	}

	host := strings.ToLower(u.Hostname())
	return strings.TrimPrefix(host, "www.")
}
