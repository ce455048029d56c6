// Package oracle integrates the external language-model completion service
// used for anchor-date resolution and clause keyword normalization.
//
// The oracle is untrusted: every response is sanitized and validated before
// anything downstream sees it. The two prompt contracts have different output
// invariants and are never merged into one call. Tests substitute stub
// implementations; the live service is never called from unit tests.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
	"github.com/fyrsmithlabs/nominationd/internal/docx"
)

// ErrUnresolvedDate indicates the oracle response did not contain a valid
// Y/m/d date. It forces zero records for the document; the pipeline never
// falls back to a guessed date.
var ErrUnresolvedDate = errors.New("oracle: response is not a valid Y/m/d date")

// FallbackKeyword is stored when the oracle cannot infer a keyword for a clause.
const FallbackKeyword = "TBD"

// DateResolver resolves the delivery-window anchor date from a contract table.
type DateResolver interface {
	ResolveArrivalDate(ctx context.Context, table docx.Table) (contract.CivilDate, error)
}

// KeywordExtractor normalizes a clause's full context into a short
// "<Label> as <Value>" keyword.
type KeywordExtractor interface {
	ExtractKeyword(ctx context.Context, clauseContext string) (string, error)
}

// Oracle bundles both prompt contracts.
type Oracle interface {
	DateResolver
	KeywordExtractor
}

var embeddedDate = regexp.MustCompile(`(\d{4}/\d{1,2}/\d{1,2})`)

// ParseDateResponse sanitizes a raw oracle response and validates it as a
// Y/m/d civil date. Wrapping quotes are stripped and a date embedded in
// narrative prose is extracted; anything that still fails the strict format
// check yields ErrUnresolvedDate.
func ParseDateResponse(raw string) (contract.CivilDate, error) {
	cleaned := stripQuotes(strings.TrimSpace(raw))
	if m := embeddedDate.FindString(cleaned); m != "" {
		cleaned = m
	}
	d, err := contract.ParseYMD(cleaned)
	if err != nil {
		return contract.CivilDate{}, fmt.Errorf("%w: %q", ErrUnresolvedDate, raw)
	}
	return d, nil
}

// ParseKeywordResponse sanitizes a raw keyword response. Only the first line
// is kept and wrapping quotes are stripped; an empty result falls back to the
// placeholder.
func ParseKeywordResponse(raw string) string {
	line := strings.TrimSpace(raw)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	line = strings.TrimSpace(stripQuotes(line))
	if line == "" {
		return FallbackKeyword
	}
	return line
}

func stripQuotes(s string) string {
	return strings.Trim(s, `"'`+"“”‘’")
}
