package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExport(t *testing.T) {
	t.Run("transactions and settings", func(t *testing.T) {
		exp, err := ParseExport([]byte(`{
			"transactions": [{"id": "a", "date": "2026-01-01T00:00:00Z", "amount": 50, "source": "Login"}],
			"settings": {"goal": 500}
		}`))
		require.NoError(t, err)
		require.Len(t, exp.Transactions, 1)
		assert.Equal(t, int64(500), exp.Settings.Goal)
		assert.Nil(t, exp.Settings.QuickActions)
	})

	t.Run("settings only", func(t *testing.T) {
		exp, err := ParseExport([]byte(`{"settings": {"goal": 42}}`))
		require.NoError(t, err)
		assert.Empty(t, exp.Transactions)
		assert.NotNil(t, exp.Transactions)
	})

	t.Run("transactions only uses default settings", func(t *testing.T) {
		exp, err := ParseExport([]byte(`{"transactions": null}`))
		require.NoError(t, err)
		assert.Equal(t, DefaultSettings(), exp.Settings)
	})

	t.Run("malformed transactions are kept", func(t *testing.T) {
		exp, err := ParseExport([]byte(`{"transactions": [{"date": "bad", "amount": 1}]}`))
		require.NoError(t, err)
		assert.Equal(t, "bad", exp.Transactions[0].Date)
	})

	invalid := map[string]string{
		"not json":         `{`,
		"array":            `[]`,
		"null":             `null`,
		"no known keys":    `{"foo": 1}`,
		"bad transactions": `{"transactions": "nope"}`,
		"bad settings":     `{"settings": {"goal": "x"}}`,
	}
	for name, body := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := ParseExport([]byte(body))
			assert.ErrorIs(t, err, ErrInvalidImport)
		})
	}
}
