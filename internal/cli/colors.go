package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ANSI color codes shared by every command
const (
	Reset = "\033[0m"

	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
	Gray    = "\033[90m"

	Bold = "\033[1m"
	Dim  = "\033[2m"
)

var (
	HeaderStyle = Cyan + Bold
	TitleStyle  = Magenta + Bold

	SuccessStyle = Green + Bold
	ErrorStyle   = Red + Bold
	WarningStyle = Yellow + Bold
	InfoStyle    = Blue + Bold

	LabelStyle     = Cyan
	ValueStyle     = White + Bold
	DimStyle       = Dim
	CountStyle     = Yellow + Bold
	MetaStyle      = Gray
	HighlightStyle = "\033[41m" + White + Bold
)

func FormatHeader(text string) string {
	return HeaderStyle + text + Reset
}

func FormatTitle(text string) string {
	return TitleStyle + text + Reset
}

func FormatValue(text string) string {
	return ValueStyle + text + Reset
}

func FormatCount(count int) string {
	return CountStyle + fmt.Sprintf("%d", count) + Reset
}

func FormatHighlight(text string) string {
	return HighlightStyle + text + Reset
}

func FormatMeta(text string) string {
	return MetaStyle + text + Reset
}

// FormatPercent renders a 0..1 rate as a percentage
func FormatPercent(rate float64) string {
	return CountStyle + fmt.Sprintf("%.1f%%", rate*100) + Reset
}

// FormatSentiment colors a 0..5 sentiment score by band
func FormatSentiment(score float64) string {
	style := Yellow
	switch {
	case score >= 3.5:
		style = Green
	case score < 2.5:
		style = Red
	}
	return style + fmt.Sprintf("%.2f", score) + Reset
}

// FormatCost renders a dollar amount
func FormatCost(cost float64) string {
	return MetaStyle + fmt.Sprintf("$%.4f", cost) + Reset
}

// FormatLabelValue formats a label-value pair
func FormatLabelValue(label, value string) string {
	return LabelStyle + label + Reset + " " + ValueStyle + value + Reset
}

func printHeader(title string) {
	fmt.Printf("%s%s%s\n", HeaderStyle, title, Reset)
	fmt.Printf("%s%s%s\n", DimStyle, underline(title), Reset)
	fmt.Println()
}

func underline(title string) string {
	return strings.Repeat("=", utf8.RuneCountInString(title))
}
