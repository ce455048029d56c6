package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
)

// ErrInvalidFilter indicates an unrecognized status filter.
var ErrInvalidFilter = errors.New("store: invalid status filter")

// Status filters for listing nominations. Pending filters exclude records
// already marked sent or received.
const (
	StatusAll          = "all"
	StatusSentReceived = "sent_received"
	StatusThisMonth    = "this_month"
	StatusThisWeek     = "this_week"
	StatusOnToday      = "on_today"
	// StatusOverdue selects pending nominations whose date is strictly
	// before today: deadlines already missed. See DESIGN.md for why this
	// diverges from a variant that read "overdue" as future-dated.
	StatusOverdue = "overdue"
)

// ListFilter controls the nomination listing.
type ListFilter struct {
	Status    string
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
	// Today anchors the relative status windows; zero means the current day.
	Today contract.CivilDate
}

// ListResult is one page of nominations.
type ListResult struct {
	Total       int           `json:"total"`
	Page        int           `json:"page"`
	Limit       int           `json:"limit"`
	Nominations []*Nomination `json:"nominations"`
}

// Stats summarizes nomination counts per status window.
type Stats struct {
	All          int `json:"all"`
	ThisMonth    int `json:"this_month"`
	ThisWeek     int `json:"this_week"`
	OnToday      int `json:"on_today"`
	SentReceived int `json:"sent_received"`
	Overdue      int `json:"overdue"`
}

var sortColumns = map[string]string{
	"contract_name":   "contract_name",
	"buyer":           "buyer",
	"seller":          "seller",
	"arrival_period":  "arrival_period",
	"nomination_date": "nomination_date",
	"created_at":      "created_at",
}

// List returns a page of nominations matching the filter.
func (s *Store) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}

	where, args, err := statusClause(f.Status, f.today())
	if err != nil {
		return nil, err
	}

	result := &ListResult{Page: f.Page, Limit: f.Limit, Nominations: []*Nomination{}}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM nominations `+where, args...).Scan(&result.Total); err != nil {
		return nil, fmt.Errorf("counting nominations: %w", err)
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "contract_name"
	}
	order := "ASC"
	if strings.EqualFold(f.SortOrder, "desc") {
		order = "DESC"
	}

	query := fmt.Sprintf(`%s FROM nominations %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		selectColumns, where, column, order)
	rows, err := s.db.QueryContext(ctx, query, append(args, f.Limit, (f.Page-1)*f.Limit)...)
	if err != nil {
		return nil, fmt.Errorf("listing nominations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		n, err := scanNomination(rows)
		if err != nil {
			return nil, err
		}
		result.Nominations = append(result.Nominations, n)
	}
	return result, rows.Err()
}

// StatsSummary counts nominations per status window.
func (s *Store) StatsSummary(ctx context.Context, today contract.CivilDate) (*Stats, error) {
	if today.IsZero() {
		today = contract.DateOf(time.Now())
	}

	stats := &Stats{}
	for _, c := range []struct {
		status string
		dest   *int
	}{
		{StatusAll, &stats.All},
		{StatusThisMonth, &stats.ThisMonth},
		{StatusThisWeek, &stats.ThisWeek},
		{StatusOnToday, &stats.OnToday},
		{StatusSentReceived, &stats.SentReceived},
		{StatusOverdue, &stats.Overdue},
	} {
		where, args, err := statusClause(c.status, today)
		if err != nil {
			return nil, err
		}
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM nominations `+where, args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", c.status, err)
		}
	}
	return stats, nil
}

func (f ListFilter) today() contract.CivilDate {
	if f.Today.IsZero() {
		return contract.DateOf(time.Now())
	}
	return f.Today
}

// statusClause builds the WHERE clause for a status window. Date windows are
// inclusive of today and exclude records already sent or received.
func statusClause(status string, today contract.CivilDate) (string, []any, error) {
	const pending = "sent = 0 AND received = 0"
	switch status {
	case "", StatusAll:
		return "", nil, nil
	case StatusSentReceived:
		return "WHERE sent = 1 OR received = 1", nil, nil
	case StatusThisMonth:
		start := contract.CivilDate{Year: today.Year, Month: today.Month, Day: 1}
		return "WHERE nomination_date >= ? AND nomination_date <= ? AND " + pending,
			[]any{isoDate(start), isoDate(today)}, nil
	case StatusThisWeek:
		start := startOfWeek(today)
		return "WHERE nomination_date >= ? AND nomination_date <= ? AND " + pending,
			[]any{isoDate(start), isoDate(today)}, nil
	case StatusOnToday:
		return "WHERE nomination_date = ? AND " + pending, []any{isoDate(today)}, nil
	case StatusOverdue:
		return "WHERE nomination_date < ? AND " + pending, []any{isoDate(today)}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidFilter, status)
	}
}

// startOfWeek returns the most recent Sunday on or before the date.
func startOfWeek(d contract.CivilDate) contract.CivilDate {
	return d.AddDays(-int(d.Time().Weekday()))
}
