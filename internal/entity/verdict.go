package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/Fr3nn3r/ZurichInnovation/constants"
)

// ExtractionVerdict is the quality gate's classification of a single page.
type ExtractionVerdict struct {
	PageIndex  int                  `json:"page_index"`
	Status     constants.PageStatus `json:"status"`
	Confidence float64              `json:"confidence"` // 0-1
	Reason     string               `json:"reason"`     // short reason code, e.g. "low_alnum"
	Fallback   bool                 `json:"fallback"`   // text was replaced by the fallback extractor
}

// Evidence records what triggered a flag so a reviewer can audit it
// without re-reading the whole document.
type Evidence struct {
	Phrase   string `json:"phrase,omitempty"`   // matched phrase or number
	Location int    `json:"location"`           // rune offset in normalized document text, -1 when n/a
	Detail   string `json:"detail,omitempty"`   // human-readable explanation
}

// CriterionResult is produced per (document, criterion) pair.
type CriterionResult struct {
	CriterionID int                `json:"criterion_id"`
	Name        string             `json:"name"`
	Severity    constants.Severity `json:"severity"`
	Flag        constants.Flag     `json:"flag"`
	Evidence    Evidence           `json:"evidence"`
	Confidence  float64            `json:"confidence"` // fuzzy score, signal value or extracted number; 0 when n/a
}

// Finding is one non-green criterion, ranked for operator review order.
type Finding struct {
	CriterionID int                `json:"criterion_id"`
	Name        string             `json:"name"`
	Severity    constants.Severity `json:"severity"`
	Flag        constants.Flag     `json:"flag"`
	Rank        int                `json:"rank"` // severity weight x flag weight
}

// DocumentVerdict aggregates all criterion results for one document.
// Created once per run over a document; immutable afterwards.
type DocumentVerdict struct {
	DocumentID uuid.UUID           `json:"document_id"`
	Name       string              `json:"name"`
	Overall    constants.Flag      `json:"overall_flag"`
	Criteria   []CriterionResult   `json:"criteria"`
	Findings   []Finding           `json:"findings"`         // non-green, most severe first
	Unknown    []int               `json:"unknown_criteria"` // criterion IDs without relevant signal
	Pages      []ExtractionVerdict `json:"pages"`            // per-page audit log
	Notes      []string            `json:"notes,omitempty"`  // e.g. unrecoverable page gaps
	Elapsed    time.Duration       `json:"elapsed"`
}
