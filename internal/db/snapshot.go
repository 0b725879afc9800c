package db

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AI2HU/geolens/internal/models"
)

// Snapshot is one run with its recorded results, as exchanged in import files
type Snapshot struct {
	Run     models.Run      `json:"run"`
	Results []models.Result `json:"results"`
}

// DecodeSnapshot reads either {"run": {...}, "results": [...]} or a bare results array.
// Fields missing from the file are taken from fallback; missing ids get UUIDs and
// missing counters are derived from the results.
func DecodeSnapshot(r io.Reader, fallback models.Run) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("snapshot is empty")
	}

	var snap Snapshot
	if data[0] == '[' {
		if err := json.Unmarshal(data, &snap.Results); err != nil {
			return nil, fmt.Errorf("failed to parse results array: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot: %w", err)
		}
	}

	mergeRun(&snap.Run, fallback)
	if err := snap.normalize(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func mergeRun(run *models.Run, fallback models.Run) {
	if run.ID == "" {
		run.ID = fallback.ID
	}
	if run.Brand == "" {
		run.Brand = fallback.Brand
	}
	if run.SearchType == "" {
		run.SearchType = fallback.SearchType
	}
	if run.Category == "" {
		run.Category = fallback.Category
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = fallback.CreatedAt
	}
}

func (s *Snapshot) normalize() error {
	run := &s.Run
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.SearchType == "" {
		run.SearchType = models.SearchTypeBrand
	}
	if strings.TrimSpace(run.Brand) == "" && run.CategoryLabel() == "" {
		return fmt.Errorf("run %s has no brand or category", run.ID)
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	var cost float64
	completed := 0
	seen := make(map[string]bool, len(s.Results))
	for i := range s.Results {
		res := &s.Results[i]
		if res.ID == "" || seen[res.ID] {
			res.ID = uuid.New().String()
		}
		seen[res.ID] = true
		res.RunID = run.ID
		res.Position = i
		cost += res.Cost
		if !res.Failed() {
			completed++
		}
	}

	if run.TotalCalls == 0 {
		run.TotalCalls = len(s.Results)
	}
	if run.CompletedCalls == 0 {
		run.CompletedCalls = completed
	}
	if run.TotalCost == 0 {
		run.TotalCost = cost
	}
	return nil
}
