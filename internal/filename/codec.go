// Package filename implements the encoding scheme that maps extracted invoice
// fields onto the stored filename stem and back. The stem doubles as the
// storage key for the document, its preview and its JSON sidecar, so the
// delimiter and sanitization rules here must stay stable across releases or
// previously stored files become unreadable.
package filename

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SentinelDate is substituted when the extractor returns a date that does not
// parse as YYYY-MM-DD. Encoding never fails on a bad date.
const SentinelDate = "RRRR-MM-DD"

// suffixTag terminates every encoded stem. It carries no meaning beyond
// marking the stem as one of ours and is stripped again on decode.
const suffixTag = "E F ZAP"

// reservedChars are stripped from the composed stem so it is always a valid
// filename on common filesystems. Note that the structural delimiters
// '(' ')' ',' are deliberately not in this set.
const reservedChars = `/\:*?"<>|`

// Decode errors. Callers are expected to degrade gracefully (placeholder
// fields) rather than fail a whole listing over one bad name.
var (
	ErrMissingSuffix    = errors.New("stem does not end with the expected suffix tag")
	ErrMissingDelimiter = errors.New("stem is missing an expected field delimiter")
	ErrShortDate        = errors.New("stem date part is shorter than six characters")
)

// Fields is the triple of values embedded in an encoded stem.
type Fields struct {
	// IssueDate in canonical YYYY-MM-DD form.
	IssueDate string
	// Supplier is the issuing company name.
	Supplier string
	// Description is a short summary of the invoiced goods or services.
	Description string
}

// Encode composes the filename stem for the given fields:
//
//	"{YYMMDD} ({supplier}), ({description}), E F ZAP"
//
// The date is compacted to its last six digits. A date that does not parse as
// YYYY-MM-DD is replaced with SentinelDate instead of producing an error, so
// ingestion is never blocked by a bad extraction result. The sweep for
// filesystem-reserved characters runs over the whole composed string, not the
// individual fields, which means supplier names or descriptions containing
// literal parentheses or ", (" sequences make the stem ambiguous to decode.
// That is accepted behavior inherited from the stored-file format.
func Encode(f Fields) string {
	date := f.IssueDate
	if _, err := time.Parse("2006-01-02", date); err != nil {
		date = SentinelDate
	}

	// "2024-03-07" -> "20240307" -> "240307"
	compact := strings.ReplaceAll(date, "-", "")[2:]

	stem := fmt.Sprintf("%s (%s), (%s), %s", compact, f.Supplier, f.Description, suffixTag)

	for _, r := range reservedChars {
		stem = strings.ReplaceAll(stem, string(r), "")
	}

	return strings.TrimSpace(stem)
}

// Decode recovers the encoded fields from a stem produced by Encode. The
// two-digit year is re-expanded by prefixing "20"; the hardcoded century is a
// known limitation of the stored format and is preserved as-is.
//
// Decode never panics. A stem that does not follow the expected layout
// returns one of the package errors together with zero Fields.
func Decode(stem string) (Fields, error) {
	rest, ok := strings.CutSuffix(stem, ", "+suffixTag)
	if !ok {
		return Fields{}, ErrMissingSuffix
	}

	// First occurrence wins: a supplier containing the delimiter sequence
	// itself mis-splits here, see Encode.
	datePart, rest, ok := strings.Cut(rest, " (")
	if !ok {
		return Fields{}, ErrMissingDelimiter
	}
	if len(datePart) < 6 {
		return Fields{}, ErrShortDate
	}

	supplier, remainder, ok := strings.Cut(rest, "), (")
	if !ok {
		return Fields{}, ErrMissingDelimiter
	}

	description, ok := strings.CutSuffix(remainder, ")")
	if !ok {
		return Fields{}, ErrMissingDelimiter
	}

	return Fields{
		IssueDate:   "20" + datePart[0:2] + "-" + datePart[2:4] + "-" + datePart[4:6],
		Supplier:    supplier,
		Description: description,
	}, nil
}
