package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Core domain models

// Search types carried by a run descriptor
const (
	SearchTypeBrand    = "brand"
	SearchTypeCategory = "category"
)

// ProviderAIOverviews is tracked separately: a missing AI summary is a signal, not a failure
const ProviderAIOverviews = "ai_overviews"

// Run describes one querying run: the brand (or category) searched and its cost counters
type Run struct {
	ID             string    `json:"id" bson:"_id"`
	Brand          string    `json:"brand" bson:"brand"`
	SearchType     string    `json:"search_type" bson:"search_type"`
	Category       string    `json:"category,omitempty" bson:"category,omitempty"`
	TotalCost      float64   `json:"total_cost" bson:"total_cost"`
	TotalCalls     int       `json:"total_calls" bson:"total_calls"`
	CompletedCalls int       `json:"completed_calls" bson:"completed_calls"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// IsCategory reports whether the run searched a product category instead of one brand
func (r *Run) IsCategory() bool {
	return strings.EqualFold(r.SearchType, SearchTypeCategory)
}

// CategoryLabel returns the label used to filter category words out of brand discovery
func (r *Run) CategoryLabel() string {
	if r.Category != "" {
		return r.Category
	}
	if r.IsCategory() {
		return r.Brand
	}
	return ""
}

// Source is a citation attached to a result
type Source struct {
	URL   string `json:"url" bson:"url"`
	Title string `json:"title,omitempty" bson:"title,omitempty"`
}

// Segment is the span of response text a grounding support refers to
type Segment struct {
	StartIndex int    `json:"start_index,omitempty" bson:"start_index,omitempty"`
	EndIndex   int    `json:"end_index,omitempty" bson:"end_index,omitempty"`
	Text       string `json:"text,omitempty" bson:"text,omitempty"`
}

// GroundingSupport links a text segment to grounding confidence scores
type GroundingSupport struct {
	Segment          Segment   `json:"segment" bson:"segment"`
	ConfidenceScores []float64 `json:"confidence_scores,omitempty" bson:"confidence_scores,omitempty"`
}

// GroundingMetadata is optional provider-specific grounding data
type GroundingMetadata struct {
	Supports []GroundingSupport `json:"supports,omitempty" bson:"supports,omitempty"`
}

// Flag is a boolean that also accepts the string and null forms upstream producers emit.
// A non-empty string other than "false"/"0" decodes as true.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler
func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		s = strings.TrimSpace(strings.ToLower(s))
		*f = Flag(s != "" && s != "false" && s != "0")
		return nil
	}

	// Objects and numbers still signal a failure
	*f = Flag(!bytes.Equal(data, []byte("0")))
	return nil
}

// Result represents one recorded AI response to one prompt from one provider
type Result struct {
	ID                   string             `json:"id" bson:"result_id"`
	RunID                string             `json:"run_id,omitempty" bson:"run_id"`
	Position             int                `json:"-" bson:"position"`
	Provider             string             `json:"provider" bson:"provider"`
	Prompt               string             `json:"prompt" bson:"prompt"`
	Temperature          float64            `json:"temperature" bson:"temperature"`
	Model                string             `json:"model" bson:"model"`
	ResponseText         string             `json:"response_text" bson:"response_text"`
	Tokens               int                `json:"tokens" bson:"tokens"`
	Cost                 float64            `json:"cost" bson:"cost"`
	ResponseType         string             `json:"response_type,omitempty" bson:"response_type,omitempty"`
	BrandMentioned       bool               `json:"brand_mentioned" bson:"brand_mentioned"`
	BrandSentiment       string             `json:"brand_sentiment,omitempty" bson:"brand_sentiment,omitempty"`
	CompetitorsMentioned []string           `json:"competitors_mentioned,omitempty" bson:"competitors_mentioned,omitempty"`
	AllBrandsMentioned   []string           `json:"all_brands_mentioned,omitempty" bson:"all_brands_mentioned,omitempty"`
	CompetitorSentiments map[string]string  `json:"competitor_sentiments,omitempty" bson:"competitor_sentiments,omitempty"`
	Sources              []Source           `json:"sources,omitempty" bson:"sources,omitempty"`
	GroundingMetadata    *GroundingMetadata `json:"grounding_metadata,omitempty" bson:"grounding_metadata,omitempty"`
	Error                Flag               `json:"error,omitempty" bson:"error,omitempty"`
}

// Failed reports whether the result is an error record
func (r *Result) Failed() bool {
	return bool(r.Error)
}

// CompetitorSentiment looks up a competitor's sentiment label case-insensitively
func (r *Result) CompetitorSentiment(brand string) string {
	if label, ok := r.CompetitorSentiments[brand]; ok {
		return label
	}
	for name, label := range r.CompetitorSentiments {
		if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(brand)) {
			return label
		}
	}
	return ""
}

// ModelInfo represents information about an available model from a provider
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}
