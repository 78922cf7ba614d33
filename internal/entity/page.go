package entity

// Page is one ordered unit of a document as produced by the extraction
// collaborator. Immutable once produced; consumed once by the quality gate.
type Page struct {
	Index              int    `json:"index"`
	Text               string `json:"text"`
	HasImage           bool   `json:"has_image"`
	HasExtractableText bool   `json:"has_extractable_text"`
	ByteSize           int    `json:"byte_size"`
}
