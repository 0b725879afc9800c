package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentimentScore(t *testing.T) {
	tests := []struct {
		label string
		score float64
		ok    bool
	}{
		{"strong_endorsement", 5, true},
		{"positive_endorsement", 4, true},
		{"Positive Endorsement", 4, true},
		{"neutral_mention", 3, true},
		{"conditional", 2, true},
		{"negative_comparison", 1, true},
		{"not_mentioned", 0, false},
		{"", 0, false},
		{"ecstatic", 0, false},
	}

	for _, tt := range tests {
		score, ok := SentimentScore(tt.label)
		assert.Equal(t, tt.ok, ok, tt.label)
		assert.Equal(t, tt.score, score, tt.label)
	}
}

func TestSentimentBucket(t *testing.T) {
	tests := []struct {
		avg  float64
		want string
	}{
		{5, "Strong"},
		{4.5, "Strong"},
		{4.49, "Positive"},
		{3.5, "Positive"},
		{3.49, "Neutral"},
		{2.5, "Neutral"},
		{1.5, "Conditional"},
		{0.5, "Negative"},
		{0.49, "N/A"},
		{0, "N/A"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SentimentBucket(tt.avg), "avg=%v", tt.avg)
	}
	assert.Equal(t, "N/A", SentimentBucketOf(nil))
}

func TestSentimentAcc(t *testing.T) {
	var acc sentimentAcc
	assert.Nil(t, acc.avg())

	acc.add("not_mentioned")
	acc.add("")
	assert.Nil(t, acc.avg())

	acc.add("strong_endorsement")
	acc.add("conditional")
	avg := acc.avg()
	require.NotNil(t, avg)
	assert.InDelta(t, 3.5, *avg, 1e-9)
	assert.Equal(t, 2, acc.count)
}
