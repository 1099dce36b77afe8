package ledger

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func historyFixture() []Transaction {
	return []Transaction{
		{ID: "t1", Date: "2026-03-01T09:00:00Z", Amount: 100, Source: "Login"},
		{ID: "t2", Date: "2026-03-02T09:00:00Z", Amount: -900, Source: "Box Draw (10)"},
		{ID: "t3", Date: "2026-03-03T09:00:00Z", Amount: 50, Source: "Event Reward"},
		{ID: "t4", Date: "2026-03-04T09:00:00Z", Amount: 10, Source: "Ads"},
		{ID: "t5", Date: "not a date", Amount: 1500, Source: "Ads"},
	}
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestQuery_Pagination(t *testing.T) {
	txs := historyFixture()

	first, err := Query(txs, 1, 2, HistoryFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"t4", "t3"}, ids(first.Transactions))
	assert.Equal(t, 5, first.TotalTransactions)
	assert.Equal(t, 3, first.TotalPages)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Equal(t, int64(1660), first.TotalEarned)
	assert.Equal(t, int64(-900), first.TotalSpent)

	last, err := Query(txs, 3, 2, HistoryFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"t5"}, ids(last.Transactions))

	past, err := Query(txs, 4, 2, HistoryFilters{})
	require.NoError(t, err)
	assert.Empty(t, past.Transactions)
	assert.NotNil(t, past.Transactions)
	assert.Equal(t, 4, past.CurrentPage)
	assert.Equal(t, 5, past.TotalTransactions)
}

func TestQuery_PagesCoverEverythingOnce(t *testing.T) {
	txs := historyFixture()
	want := ids(SortNewestFirst(txs))

	for limit := 1; limit <= len(txs)+1; limit++ {
		first, err := Query(txs, 1, limit, HistoryFilters{})
		require.NoError(t, err)

		var got []string
		for page := 1; page <= first.TotalPages; page++ {
			result, err := Query(txs, page, limit, HistoryFilters{})
			require.NoError(t, err)
			require.NotEmpty(t, result.Transactions, "limit=%d page=%d", limit, page)
			got = append(got, ids(result.Transactions)...)
		}

		assert.Equal(t, want, got, "limit=%d", limit)

		after, err := Query(txs, first.TotalPages+1, limit, HistoryFilters{})
		require.NoError(t, err)
		assert.Empty(t, after.Transactions, "limit=%d", limit)
	}
}

func TestQuery_HugePageAndLimit(t *testing.T) {
	txs := historyFixture()

	all, err := Query(txs, 1, math.MaxInt, HistoryFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, all.TotalPages)
	assert.Len(t, all.Transactions, 5)

	for _, page := range []int{2, 3, math.MaxInt} {
		result, err := Query(txs, page, math.MaxInt, HistoryFilters{})
		require.NoError(t, err)
		assert.Empty(t, result.Transactions, "page=%d", page)
		assert.Equal(t, 1, result.TotalPages)
	}

	far, err := Query(txs, math.MaxInt, 2, HistoryFilters{})
	require.NoError(t, err)
	assert.Empty(t, far.Transactions)
	assert.Equal(t, 3, far.TotalPages)
}

func TestQuery_InvalidPagination(t *testing.T) {
	_, err := Query(historyFixture(), 0, 20, HistoryFilters{})
	assert.ErrorIs(t, err, ErrInvalidPagination)

	_, err = Query(historyFixture(), 1, 0, HistoryFilters{})
	assert.ErrorIs(t, err, ErrInvalidPagination)
}

func TestQuery_DateBounds(t *testing.T) {
	page, err := Query(historyFixture(), 1, 20, HistoryFilters{
		DateFrom: day(2026, 3, 2),
		DateTo:   day(2026, 3, 3),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"t3", "t2"}, ids(page.Transactions))
	assert.Equal(t, int64(50), page.TotalEarned)
	assert.Equal(t, int64(-900), page.TotalSpent)
	assert.Equal(t, []string{"t5"}, page.Skipped)
}

func TestQuery_DateFromAfterEverything(t *testing.T) {
	page, err := Query(historyFixture(), 1, 20, HistoryFilters{DateFrom: day(2027, 1, 1)})
	require.NoError(t, err)

	assert.Equal(t, 0, page.TotalTransactions)
	assert.Equal(t, 0, page.TotalPages)
	assert.Empty(t, page.Transactions)
	assert.Equal(t, int64(0), page.TotalEarned)
}

func TestQuery_SourceAndSearch(t *testing.T) {
	txs := historyFixture()

	tests := []struct {
		name    string
		filters HistoryFilters
		want    []string
	}{
		{name: "exact source keeps undated", filters: HistoryFilters{Source: "Ads"}, want: []string{"t4", "t5"}},
		{name: "source is case sensitive", filters: HistoryFilters{Source: "ads"}, want: []string{}},
		{name: "search folds case", filters: HistoryFilters{Search: "BOX"}, want: []string{"t2"}},
		{name: "search matches amount", filters: HistoryFilters{Search: "150"}, want: []string{"t5"}},
		{name: "search matches negative amount digits", filters: HistoryFilters{Search: "900"}, want: []string{"t2"}},
		{name: "filters combine", filters: HistoryFilters{Source: "Ads", Search: "10"}, want: []string{"t4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Query(txs, 1, 20, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(page.Transactions))
			assert.Empty(t, page.Skipped)
		})
	}
}
