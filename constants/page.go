package constants

// PageStatus is the quality gate's per-page classification.
type PageStatus string

const (
	PageUsable        PageStatus = "USABLE"        // extracted text may be trusted
	PageScanLikely    PageStatus = "SCAN_LIKELY"   // image-only page, fallback extraction required
	PageGibberish     PageStatus = "GIBBERISH"     // text present but fails legibility heuristics
	PageUnrecoverable PageStatus = "UNRECOVERABLE" // fallback also failed, page excluded
)

// NeedsFallback reports whether the status escalates the page to the
// alternative extraction strategy.
func (s PageStatus) NeedsFallback() bool {
	return s == PageScanLikely || s == PageGibberish
}
