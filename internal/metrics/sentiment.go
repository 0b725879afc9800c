package metrics

import (
	"strings"
)

// Sentiment labels emitted by the upstream analysis step
const (
	SentimentStrongEndorsement   = "strong_endorsement"
	SentimentPositiveEndorsement = "positive_endorsement"
	SentimentNeutralMention      = "neutral_mention"
	SentimentConditional         = "conditional"
	SentimentNegativeComparison  = "negative_comparison"
	SentimentNotMentioned        = "not_mentioned"
)

// SentimentLabels lists the scored labels from best to worst
var SentimentLabels = []string{
	SentimentStrongEndorsement,
	SentimentPositiveEndorsement,
	SentimentNeutralMention,
	SentimentConditional,
	SentimentNegativeComparison,
}

var sentimentScores = map[string]float64{
	SentimentStrongEndorsement:   5,
	SentimentPositiveEndorsement: 4,
	SentimentNeutralMention:      3,
	SentimentConditional:         2,
	SentimentNegativeComparison:  1,
	SentimentNotMentioned:        0,
}

// SentimentScore maps a label to its 0-5 score.
// ok is false for absent, unknown and not_mentioned labels, which are not observations.
func SentimentScore(label string) (score float64, ok bool) {
	key := normalizeSentiment(label)
	score, known := sentimentScores[key]
	if !known || key == SentimentNotMentioned {
		return 0, false
	}
	return score, true
}

// SentimentBucket labels an averaged score
func SentimentBucket(avg float64) string {
	switch {
	case avg >= 4.5:
		return "Strong"
	case avg >= 3.5:
		return "Positive"
	case avg >= 2.5:
		return "Neutral"
	case avg >= 1.5:
		return "Conditional"
	case avg >= 0.5:
		return "Negative"
	default:
		return "N/A"
	}
}

// SentimentBucketOf labels an optional average; nil means no data
func SentimentBucketOf(avg *float64) string {
	if avg == nil {
		return "N/A"
	}
	return SentimentBucket(*avg)
}

func normalizeSentiment(label string) string {
	s := strings.ToLower(strings.TrimSpace(label))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// sentimentAcc accumulates (sum, count) of scored observations
type sentimentAcc struct {
	sum   float64
	count int
}

func (a *sentimentAcc) add(label string) {
	if score, ok := SentimentScore(label); ok {
		a.sum += score
		a.count++
	}
}

func (a *sentimentAcc) avg() *float64 {
	if a == nil || a.count == 0 {
		return nil
	}
	v := clamp(a.sum/float64(a.count), 0, 5)
	return &v
}
