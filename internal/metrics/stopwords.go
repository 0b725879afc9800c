package metrics

// defaultStopwords are capitalized words that commonly start sentences or headings
// in AI answers but are never brand names
var defaultStopwords = []string{
	// articles, pronouns, conjunctions, prepositions
	"a", "an", "the", "and", "or", "but", "nor", "so", "yet", "for", "of", "in", "on", "at", "to", "by",
	"with", "from", "into", "onto", "over", "under", "about", "above", "below", "after", "before", "between",
	"through", "during", "without", "within", "across", "against", "among", "around", "behind", "beyond",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them", "my", "your", "his",
	"its", "our", "their", "mine", "yours", "ours", "theirs", "this", "that", "these", "those", "there",
	"here", "what", "which", "who", "whom", "whose", "when", "where", "why", "how", "if", "then", "than",
	"because", "while", "although", "though", "unless", "until", "since", "whether", "as", "also", "both",
	"either", "neither", "each", "every", "all", "any", "some", "many", "much", "more", "most", "few",
	"fewer", "less", "least", "other", "others", "another", "such", "same", "own", "only", "just", "even",
	"still", "very", "too", "not", "no", "yes", "can", "could", "will", "would", "shall", "should", "may",
	"might", "must", "do", "does", "did", "done", "is", "are", "was", "were", "be", "been", "being", "have",
	"has", "had", "get", "gets", "got", "make", "makes", "made", "let", "lets", "see", "look", "keep",
	"consider", "choose", "use", "try", "check", "find", "note", "remember", "ultimately", "overall",
	"however", "additionally", "furthermore", "moreover", "finally", "first", "second", "third", "next",
	"last", "lastly", "now", "today", "always", "often", "sometimes", "usually", "generally",
	"typically", "well", "really", "quite", "rather", "maybe", "perhaps", "instead", "otherwise", "therefore",
	"thus", "hence", "for example", "for instance", "in summary", "in conclusion", "in short",

	// calendar
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
	"january", "february", "march", "april", "may", "june", "july", "august", "september", "october",
	"november", "december", "jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "sept", "oct", "nov",
	"dec", "spring", "summer", "fall", "autumn", "winter", "year", "years", "month", "months", "week",
	"weeks", "day", "days",

	// generic commerce and marketing vocabulary
	"best", "top", "good", "better", "great", "excellent", "popular", "leading", "premium", "budget",
	"cheap", "affordable", "expensive", "price", "prices", "pricing", "cost", "costs", "value", "deal",
	"deals", "sale", "sales", "discount", "discounts", "offer", "offers", "free", "shipping", "delivery",
	"returns", "warranty", "quality", "features", "feature", "benefits", "pros", "cons", "pros and cons",
	"comparison", "compare", "review", "reviews", "rating", "ratings", "recommendation", "recommendations",
	"recommended", "options", "option", "alternatives", "alternative", "choice", "choices", "brand",
	"brands", "product", "products", "service", "services", "company", "companies", "customer",
	"customers", "support", "performance", "design", "style", "comfort", "durability", "fit", "size",
	"sizes", "material", "materials", "technology", "innovation", "sustainability", "market", "industry",
	"online", "store", "stores", "shop", "shops", "website", "app", "apps", "platform", "platforms",
	"plan", "plans", "pro", "plus", "basic", "standard", "enterprise", "business", "personal", "team",
	"teams", "user", "users", "experience", "guide", "tips", "summary", "conclusion", "introduction",
	"overview", "key", "key features", "key takeaways", "bottom line", "verdict", "winner",
	"ideal", "perfect", "new", "latest", "classic", "original", "official", "available",
	"important", "disclaimer", "source", "sources", "update", "updated", "edition", "series",
	"model", "models", "version", "versions", "category", "categories", "type", "types", "level",
	"beginner", "beginners", "intermediate", "advanced", "professional", "professionals", "expert", "experts",

	// places and common proper nouns that are not brands
	"usa", "uk", "eu", "europe", "america", "american", "north america", "asia", "china", "japan",
	"germany", "france", "canada", "australia", "india", "united states", "united kingdom",

	// markdown and formatting artefacts
	"faq", "faqs", "table", "step", "steps", "option a", "option b", "q", "a:", "tl", "dr", "tldr",
	"ai", "llm", "n/a", "na", "etc", "vs", "ok",
}

// DefaultStopwords returns a fresh copy of the curated stopword list
func DefaultStopwords() []string {
	out := make([]string, len(defaultStopwords))
	copy(out, defaultStopwords)
	return out
}
