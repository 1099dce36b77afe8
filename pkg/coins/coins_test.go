package coins

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "0", Format(0))
	assert.Equal(t, "950", Format(950))
	assert.Equal(t, "13,500", Format(13500))
	assert.Equal(t, "1,000,000", Format(1000000))
	assert.Equal(t, "-2,500", Format(-2500))
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "50", want: 50},
		{input: "+50", want: 50},
		{input: "-900", want: -900},
		{input: " 1,500 ", want: 1500},
		{input: "", wantErr: true},
		{input: "1.5", wantErr: true},
		{input: "ten", wantErr: true},
		{input: "99999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	var body struct {
		Amount Amount `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 120}`), &body))
	assert.Equal(t, int64(120), body.Amount.Int64())

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "-45"}`), &body))
	assert.Equal(t, int64(-45), body.Amount.Int64())

	require.NoError(t, json.Unmarshal([]byte(`{"amount": null}`), &body))
	assert.Equal(t, int64(0), body.Amount.Int64())

	assert.ErrorIs(t, json.Unmarshal([]byte(`{"amount": 1.5}`), &body), ErrInvalidAmount)
	assert.ErrorIs(t, json.Unmarshal([]byte(`{"amount": "abc"}`), &body), ErrInvalidAmount)
	assert.Error(t, json.Unmarshal([]byte(`{"amount": true}`), &body))
}
