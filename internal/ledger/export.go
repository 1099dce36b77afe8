package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Export is the import/export interchange shape of one profile.
type Export struct {
	Transactions []Transaction `json:"transactions"`
	Settings     Settings      `json:"settings"`
}

// ParseExport decodes an import document. The document must be a JSON object
// carrying transactions, settings or both; a missing transactions list means
// an empty ledger and missing settings mean the defaults. Transactions are
// not filtered.
func ParseExport(data []byte) (*Export, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidImport)
	}

	rawTxs, hasTxs := raw["transactions"]
	rawSettings, hasSettings := raw["settings"]
	if !hasTxs && !hasSettings {
		return nil, fmt.Errorf("%w: transactions or settings required", ErrInvalidImport)
	}

	exp := &Export{
		Transactions: []Transaction{},
		Settings:     DefaultSettings(),
	}

	if hasTxs && !isNull(rawTxs) {
		if err := json.Unmarshal(rawTxs, &exp.Transactions); err != nil {
			return nil, fmt.Errorf("%w: transactions: %v", ErrInvalidImport, err)
		}
		if exp.Transactions == nil {
			exp.Transactions = []Transaction{}
		}
	}

	if hasSettings && !isNull(rawSettings) {
		var settings Settings
		if err := json.Unmarshal(rawSettings, &settings); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		exp.Settings = settings
	}

	return exp, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
