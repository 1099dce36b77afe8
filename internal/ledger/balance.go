package ledger

import (
	"sort"
	"time"
)

// datedTransaction pairs a transaction with its parsed date for ordering.
type datedTransaction struct {
	tx Transaction
	at time.Time
	ok bool
}

// chronologicallyBefore orders by absolute instant. Unparsable dates sort
// before every parsable one and among themselves by their raw text.
func chronologicallyBefore(a, b datedTransaction) bool {
	switch {
	case !a.ok && !b.ok:
		return a.tx.Date < b.tx.Date
	case !a.ok:
		return true
	case !b.ok:
		return false
	}
	return a.at.Before(b.at)
}

func sortByDate(txs []Transaction, newestFirst bool) []Transaction {
	dated := make([]datedTransaction, len(txs))
	for i, t := range txs {
		at, ok := ParseTimestamp(t.Date)
		dated[i] = datedTransaction{tx: t, at: at, ok: ok}
	}

	sort.SliceStable(dated, func(i, j int) bool {
		if newestFirst {
			return chronologicallyBefore(dated[j], dated[i])
		}
		return chronologicallyBefore(dated[i], dated[j])
	})

	sorted := make([]Transaction, len(dated))
	for i, d := range dated {
		sorted[i] = d.tx
	}
	return sorted
}

// SortChronological returns a copy ordered oldest first. Equal dates keep
// their input order.
func SortChronological(txs []Transaction) []Transaction {
	return sortByDate(txs, false)
}

// SortNewestFirst returns a copy ordered newest first. Equal dates keep
// their input order.
func SortNewestFirst(txs []Transaction) []Transaction {
	return sortByDate(txs, true)
}

// Recalculate returns the ledger in chronological order with every
// PreviousBalance set to the sum of all earlier amounts. It must run before
// every save.
func Recalculate(txs []Transaction) []Transaction {
	sorted := SortChronological(txs)

	var running int64
	for i := range sorted {
		sorted[i].PreviousBalance = running
		running += sorted[i].Amount
	}
	return sorted
}
