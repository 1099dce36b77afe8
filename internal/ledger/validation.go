package ledger

import (
	"github.com/google/uuid"
)

// Validate normalizes a ledger before use: every transaction gets an ID and
// absent quick actions are reset to the defaults. Nothing else is touched;
// malformed dates and amounts are dealt with by the computations that read
// them. Calling Validate on already valid data changes nothing.
func Validate(txs []Transaction, settings Settings) ([]Transaction, Settings) {
	for i := range txs {
		if txs[i].ID == "" {
			txs[i].ID = uuid.NewString()
		}
	}
	if settings.QuickActions == nil {
		settings.QuickActions = DefaultQuickActions()
	}
	return txs, settings
}
