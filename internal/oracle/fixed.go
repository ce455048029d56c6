package oracle

import (
	"context"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
	"github.com/fyrsmithlabs/nominationd/internal/docx"
)

// DefaultFixedDate is the arrival period the fixed oracle reports.
var DefaultFixedDate = contract.CivilDate{Year: 2025, Month: 6, Day: 18}

// Fixed is an offline oracle for development and tests. It resolves every
// document to a constant arrival date and every clause to the fallback
// keyword, without any network access. It is selected explicitly through
// configuration (oracle.provider: fixed), never silently.
type Fixed struct {
	// Date is the arrival date to report; zero means DefaultFixedDate.
	Date contract.CivilDate
	// Keyword is the keyword to report; empty means FallbackKeyword.
	Keyword string
}

func (f *Fixed) ResolveArrivalDate(ctx context.Context, table docx.Table) (contract.CivilDate, error) {
	if f.Date.IsZero() {
		return DefaultFixedDate, nil
	}
	return f.Date, nil
}

func (f *Fixed) ExtractKeyword(ctx context.Context, clauseContext string) (string, error) {
	if f.Keyword == "" {
		return FallbackKeyword, nil
	}
	return f.Keyword, nil
}

var _ Oracle = (*Fixed)(nil)
