package cli

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI2HU/geolens/internal/config"
	"github.com/AI2HU/geolens/internal/models"
)

func TestValidateCronExpression(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"0 8 * * *", false},
		{"@daily", false},
		{"*/15 * * * 1-5", false},
		{"", true},
		{"0 8 * *", true},
		{"61 * * * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := validateCronExpression(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateChoiceAndScope(t *testing.T) {
	got, err := validateChoice(" MongoDB ", []string{"sqlite", "mongodb"}, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, "mongodb", got)

	got, err = validateChoice("", []string{"sqlite", "mongodb"}, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", got)

	_, err = validateChoice("postgres", []string{"sqlite", "mongodb"}, "sqlite")
	assert.Error(t, err)

	scope, err := validateScope("tracked")
	require.NoError(t, err)
	assert.Equal(t, "tracked", scope)
	_, err = validateScope("everything")
	assert.Error(t, err)
}

func TestValidateNumberAndBaseURL(t *testing.T) {
	n, err := validateNumber("", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = validateNumber("11", 1, 10)
	assert.Error(t, err)
	_, err = validateNumber("abc", 1, 10)
	assert.Error(t, err)

	_, err = validateBaseURL("localhost:11434")
	assert.Error(t, err)
	u, err := validateBaseURL("http://localhost:11434")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", u)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "(not set)", maskSensitiveData(""))
	assert.Equal(t, "sk-1...7890", maskSensitiveData("sk-1234567890"))
	assert.Equal(t, "999", formatCount(999))
	assert.Equal(t, "1.5K", formatCount(1500))
	assert.Equal(t, "2.0M", formatCount(2000000))
	assert.Equal(t, "short", truncateMiddle("short", 10))
	assert.Equal(t, "abc...xyz", truncateMiddle("abcdefghijklmnopqrstuvwxyz", 9))
}

func TestFindMatches(t *testing.T) {
	result := &models.Result{
		ID:           "r1",
		Provider:     "openai",
		Prompt:       "best running shoes",
		ResponseText: "Nike is popular. Many runners also like nike trail models.",
	}

	matches := findMatches(result, regexp.MustCompile("(?i)nike"))
	require.Len(t, matches, 2)
	assert.Equal(t, "openai", matches[0].Provider)
	assert.Contains(t, matches[0].Context, FormatHighlight("Nike"))
	assert.Contains(t, matches[1].Context, FormatHighlight("nike"))

	assert.Len(t, findMatches(result, regexp.MustCompile("nike")), 1)
}

func TestNewProvider(t *testing.T) {
	for _, name := range supportedProviders {
		p, err := newProvider(name, "key", "")
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
	}
	_, err := newProvider("cohere", "key", "")
	assert.Error(t, err)
}

func TestNewCurator(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	c := config.DefaultConfig()
	c.Curation.Provider = "none"
	curator, err := newCurator(c, newRegistry(c))
	assert.Nil(t, curator)
	assert.Error(t, err)

	c.Curation.Provider = "openai"
	curator, err = newCurator(c, newRegistry(c))
	assert.Nil(t, curator)
	assert.ErrorContains(t, err, "not usable")

	c.Curation.APIKey = "sk-test-key"
	curator, err = newCurator(c, newRegistry(c))
	require.NoError(t, err)
	assert.NotNil(t, curator)

	c.Curation.Provider = "ollama"
	curator, err = newCurator(c, newRegistry(c))
	require.NoError(t, err)
	assert.NotNil(t, curator)
}
