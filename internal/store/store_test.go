package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/nominationd/internal/contract"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testRecord(contractName string, due contract.CivilDate) contract.Record {
	return contract.Record{
		ID:             contractName + "-" + due.String(),
		ContractName:   contractName,
		Buyer:          "Acme Co",
		Seller:         "Globex Inc",
		ArrivalPeriod:  contract.CivilDate{Year: 2025, Month: 8, Day: 16},
		NominationDate: due,
		Type:           "Cargo Quantity",
		Keyword:        "Cargo Quantity as 130,000 m3",
		Description:    "Declare no later than 20 days prior to delivery",
		Party:          contract.PartyBuyer,
	}
}

func TestInsertBatchAndExists(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exists, err := s.Exists(ctx, "SPA-1")
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := s.InsertBatch(ctx, []contract.Record{
		testRecord("SPA-1", contract.CivilDate{Year: 2025, Month: 7, Day: 27}),
		testRecord("SPA-1", contract.CivilDate{Year: 2025, Month: 8, Day: 6}),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	exists, err = s.Exists(ctx, "SPA-1")
	require.NoError(t, err)
	assert.True(t, exists)

	// empty batch is a no-op
	n, err = s.InsertBatch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetUpdateDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord("SPA-2", contract.CivilDate{Year: 2025, Month: 7, Day: 27})
	_, err := s.InsertBatch(ctx, []contract.Record{rec})
	require.NoError(t, err)

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "SPA-2", got.ContractName)
	assert.Equal(t, contract.CivilDate{Year: 2025, Month: 7, Day: 27}, got.NominationDate)
	assert.Equal(t, contract.CivilDate{Year: 2025, Month: 8, Day: 16}, got.ArrivalPeriod)
	assert.False(t, got.Sent)
	assert.False(t, got.CreatedAt.IsZero())

	got.Sent = true
	got.Keyword = "Cargo Quantity as 140,000 m3"
	require.NoError(t, s.Update(ctx, got))

	got, err = s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.Sent)
	assert.Equal(t, "Cargo Quantity as 140,000 m3", got.Keyword)

	require.NoError(t, s.Delete(ctx, rec.ID))
	_, err = s.Get(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, rec.ID), ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, got), ErrNotFound)
}

func TestListStatusFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	today := contract.CivilDate{Year: 2025, Month: 8, Day: 20} // a Wednesday

	_, err := s.InsertBatch(ctx, []contract.Record{
		testRecord("overdue", contract.CivilDate{Year: 2025, Month: 8, Day: 10}),
		testRecord("today", today),
		testRecord("this-week", contract.CivilDate{Year: 2025, Month: 8, Day: 18}),
		testRecord("this-month", contract.CivilDate{Year: 2025, Month: 8, Day: 2}),
		testRecord("future", contract.CivilDate{Year: 2025, Month: 9, Day: 1}),
	})
	require.NoError(t, err)

	list := func(status string) []string {
		res, err := s.List(ctx, ListFilter{Status: status, Today: today, Limit: 100})
		require.NoError(t, err)
		names := make([]string, 0, len(res.Nominations))
		for _, n := range res.Nominations {
			names = append(names, n.ContractName)
		}
		return names
	}

	assert.Len(t, list(StatusAll), 5)
	assert.Equal(t, []string{"today"}, list(StatusOnToday))
	// week of Sunday 2025/8/17 through today
	assert.ElementsMatch(t, []string{"today", "this-week"}, list(StatusThisWeek))
	// month-to-date, not future
	assert.ElementsMatch(t, []string{"overdue", "today", "this-week", "this-month"}, list(StatusThisMonth))
	// overdue means strictly before today and still pending
	assert.ElementsMatch(t, []string{"overdue", "this-week", "this-month"}, list(StatusOverdue))
	assert.Empty(t, list(StatusSentReceived))

	_, err = s.List(ctx, ListFilter{Status: "bogus"})
	assert.Error(t, err)
}

func TestListPaginationAndSort(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.InsertBatch(ctx, []contract.Record{
		testRecord("c-charlie", contract.CivilDate{Year: 2025, Month: 7, Day: 1}),
		testRecord("a-alpha", contract.CivilDate{Year: 2025, Month: 7, Day: 2}),
		testRecord("b-bravo", contract.CivilDate{Year: 2025, Month: 7, Day: 3}),
	})
	require.NoError(t, err)

	res, err := s.List(ctx, ListFilter{Page: 1, Limit: 2, SortBy: "contract_name", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	require.Len(t, res.Nominations, 2)
	assert.Equal(t, "a-alpha", res.Nominations[0].ContractName)
	assert.Equal(t, "b-bravo", res.Nominations[1].ContractName)

	res, err = s.List(ctx, ListFilter{Page: 2, Limit: 2, SortBy: "contract_name"})
	require.NoError(t, err)
	require.Len(t, res.Nominations, 1)
	assert.Equal(t, "c-charlie", res.Nominations[0].ContractName)

	res, err = s.List(ctx, ListFilter{SortBy: "nomination_date", SortOrder: "desc", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "b-bravo", res.Nominations[0].ContractName)
}

func TestBulkSetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := testRecord("bulk-1", contract.CivilDate{Year: 2025, Month: 7, Day: 1})
	r2 := testRecord("bulk-2", contract.CivilDate{Year: 2025, Month: 7, Day: 2})
	_, err := s.InsertBatch(ctx, []contract.Record{r1, r2})
	require.NoError(t, err)

	affected, err := s.BulkSetStatus(ctx, []string{r1.ID, r2.ID}, "sent")
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	// marking received clears sent
	_, err = s.BulkSetStatus(ctx, []string{r1.ID}, "received")
	require.NoError(t, err)

	n, err := s.Get(ctx, r1.ID)
	require.NoError(t, err)
	assert.True(t, n.Received)
	assert.False(t, n.Sent)

	_, err = s.BulkSetStatus(ctx, []string{r1.ID}, "archived")
	assert.Error(t, err)

	affected, err = s.BulkSetStatus(ctx, nil, "sent")
	require.NoError(t, err)
	assert.Zero(t, affected)
}

func TestStatsSummary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	today := contract.CivilDate{Year: 2025, Month: 8, Day: 20}

	r1 := testRecord("s-overdue", contract.CivilDate{Year: 2025, Month: 8, Day: 10})
	r2 := testRecord("s-today", today)
	r3 := testRecord("s-done", contract.CivilDate{Year: 2025, Month: 8, Day: 11})
	_, err := s.InsertBatch(ctx, []contract.Record{r1, r2, r3})
	require.NoError(t, err)

	_, err = s.BulkSetStatus(ctx, []string{r3.ID}, "sent")
	require.NoError(t, err)

	stats, err := s.StatsSummary(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.All)
	assert.Equal(t, 1, stats.OnToday)
	assert.Equal(t, 1, stats.SentReceived)
	// the sent record is no longer overdue even though its date passed
	assert.Equal(t, 1, stats.Overdue)
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetSetting(ctx, SettingCompanyName)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetSetting(ctx, SettingCompanyName, "Acme Co"))
	v, err := s.GetSetting(ctx, SettingCompanyName)
	require.NoError(t, err)
	assert.Equal(t, "Acme Co", v)

	require.NoError(t, s.SetSetting(ctx, SettingCompanyName, "Globex Inc"))
	v, err = s.GetSetting(ctx, SettingCompanyName)
	require.NoError(t, err)
	assert.Equal(t, "Globex Inc", v)
}

func TestBackup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.InsertBatch(ctx, []contract.Record{testRecord("b-1", contract.CivilDate{Year: 2025, Month: 7, Day: 1})})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "backups")
	path, err := s.Backup(ctx, dir)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	// the snapshot is a usable database
	copied, err := New(path, nil)
	require.NoError(t, err)
	defer copied.Close()

	exists, err := copied.Exists(ctx, "b-1")
	require.NoError(t, err)
	assert.True(t, exists)
}
