package doc

import "errors"

var (
	// ErrSectionNotFound indicates a section start marker matched no paragraph.
	ErrSectionNotFound = errors.New("doc: section not found")

	// ErrKeywordNotFound indicates a keyword matched no paragraph.
	ErrKeywordNotFound = errors.New("doc: keyword not found")

	// ErrAmbiguous indicates multiple matches where exactly one was required.
	ErrAmbiguous = errors.New("doc: ambiguous match")

	// ErrInvalidMergeRegion indicates a merge region that is not an
	// axis-aligned rectangle of unmerged cells.
	ErrInvalidMergeRegion = errors.New("doc: invalid merge region")

	// ErrOutOfRange indicates a block, paragraph, table, row, column or
	// text offset outside the valid bounds.
	ErrOutOfRange = errors.New("doc: index out of range")

	// ErrMalformedDocument indicates a tree invariant violation, such as an
	// inconsistent table grid.
	ErrMalformedDocument = errors.New("doc: malformed document")

	// ErrNoDocument indicates an operation was invoked with no open document.
	ErrNoDocument = errors.New("doc: no document is open")

	// ErrStaleAddress indicates a node address resolved against an older
	// revision of the document tree.
	ErrStaleAddress = errors.New("doc: stale node address")
)

// ErrorKind maps a typed failure to its wire-level kind identifier.
// Unrecognized errors map to "Internal".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrSectionNotFound):
		return "SectionNotFound"
	case errors.Is(err, ErrKeywordNotFound):
		return "KeywordNotFound"
	case errors.Is(err, ErrAmbiguous):
		return "Ambiguous"
	case errors.Is(err, ErrInvalidMergeRegion):
		return "InvalidMergeRegion"
	case errors.Is(err, ErrOutOfRange):
		return "OutOfRange"
	case errors.Is(err, ErrMalformedDocument):
		return "MalformedDocument"
	case errors.Is(err, ErrNoDocument):
		return "NoDocument"
	case errors.Is(err, ErrStaleAddress):
		return "StaleAddress"
	default:
		return "Internal"
	}
}
