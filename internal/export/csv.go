package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AI2HU/geolens/internal/metrics"
	"github.com/AI2HU/geolens/internal/models"
)

// Header is the fixed column order of the results export
var Header = []string{
	"Prompt",
	"Provider",
	"Model",
	"Temperature",
	"Brand Mentioned",
	"Competitors",
	"Rank",
	"Response Type",
	"Tokens",
	"Cost",
	"Sources",
	"Response",
}

// alwaysQuoted marks the free-text columns that are quoted even when not required
var alwaysQuoted = map[int]bool{0: true, 5: true, 10: true, 11: true}

// WriteCSV writes one row per non-error result. Output is byte-stable for identical input.
func WriteCSV(w io.Writer, run models.Run, results []models.Result) (int, error) {
	bw := bufio.NewWriter(w)

	if err := writeRow(bw, Header, nil); err != nil {
		return 0, fmt.Errorf("failed to write header: %w", err)
	}

	rows := 0
	for i := range results {
		r := &results[i]
		if r.Failed() {
			continue
		}
		if err := writeRow(bw, Row(run, r), alwaysQuoted); err != nil {
			return rows, fmt.Errorf("failed to write row %s: %w", r.ID, err)
		}
		rows++
	}

	if err := bw.Flush(); err != nil {
		return rows, fmt.Errorf("failed to flush csv: %w", err)
	}
	return rows, nil
}

// Row renders the export columns for one result
func Row(run models.Run, r *models.Result) []string {
	mentioned := "No"
	if r.BrandMentioned {
		mentioned = "Yes"
	}

	rank := ""
	if n := metrics.ResultRank(run, r); n > 0 {
		rank = strconv.Itoa(n)
	}

	urls := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		if u := strings.TrimSpace(s.URL); u != "" {
			urls = append(urls, u)
		}
	}

	return []string{
		r.Prompt,
		r.Provider,
		r.Model,
		formatFloat(r.Temperature),
		mentioned,
		strings.Join(r.CompetitorsMentioned, ", "),
		rank,
		r.ResponseType,
		strconv.Itoa(r.Tokens),
		formatFloat(r.Cost),
		strings.Join(urls, ", "),
		r.ResponseText,
	}
}

func writeRow(w *bufio.Writer, fields []string, quoted map[int]bool) error {
	for i, field := range fields {
		if i > 0 {
			if err := w.WriteByte(','); err != nil {
				return err
			}
		}
		if quoted[i] || needsQuotes(field) {
			field = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
		}
		if _, err := w.WriteString(field); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

func needsQuotes(field string) bool {
	if field == "" {
		return false
	}
	if strings.ContainsAny(field, ",\"\r\n") {
		return true
	}
	return field[0] == ' ' || field[0] == '\t'
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
