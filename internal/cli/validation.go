package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/AI2HU/geolens/internal/shared"
)

// validateChoice accepts one of choices case-insensitively; empty input yields defaultValue
func validateChoice(input string, choices []string, defaultValue string) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return defaultValue, nil
	}
	for _, c := range choices {
		if input == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid choice: %s (must be one of %s)", input, strings.Join(choices, ", "))
}

// validateCronExpression checks a standard 5-field cron expression or descriptor
func validateCronExpression(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("cron expression is required")
	}
	if _, err := cron.ParseStandard(input); err != nil {
		return "", fmt.Errorf("invalid cron expression: %s (%v)", input, err)
	}
	return input, nil
}

// validateBaseURL validates base URL input
func validateBaseURL(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", nil
	}
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		return "", fmt.Errorf("base URL must start with http:// or https://")
	}
	return input, nil
}

// validateNumber validates numeric input within a range
func validateNumber(input string, min, max int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return min, nil
	}

	num, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s (enter a positive integer)", input)
	}

	if num < min || num > max {
		return 0, fmt.Errorf("number must be between %d and %d, got: %d", min, max, num)
	}

	return num, nil
}

// validateScope accepts the tracking scope values
func validateScope(input string) (string, error) {
	return validateChoice(input, []string{shared.ScopeAll, shared.ScopeTracked}, shared.ScopeAll)
}

// maskSensitiveData masks sensitive data for display
func maskSensitiveData(data string) string {
	if data == "" {
		return "(not set)"
	}
	if len(data) <= 8 {
		return "***"
	}
	return data[:4] + "..." + data[len(data)-4:]
}

// formatCount formats a count for display
func formatCount(count int) string {
	if count < 1000 {
		return fmt.Sprintf("%d", count)
	}
	if count < 1000000 {
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	}
	return fmt.Sprintf("%.1fM", float64(count)/1000000)
}

// truncateMiddle keeps the start and end of long text
func truncateMiddle(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max || max < 7 {
		return text
	}
	half := (max - 3) / 2
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}
