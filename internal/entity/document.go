package entity

import "github.com/google/uuid"

// Signals are numeric quality measurements supplied alongside the document
// text by the extraction collaborator. Nil means the signal was not measured,
// which evaluators surface as UNKNOWN rather than guessing.
type Signals struct {
	OCRConfidence *float64 `json:"ocr_confidence,omitempty"` // percent, 0-100
	GrammarIssues *int     `json:"grammar_issues,omitempty"` // counted issues
}

// DocumentInput is everything the screening core needs for one document.
type DocumentInput struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	FileExt string    `json:"file_ext"` // declared file type, e.g. "pdf"
	Pages   []Page    `json:"pages"`
	Signals Signals   `json:"signals"`
}
