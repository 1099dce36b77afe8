package ledger

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_UnmarshalSuppliesDefaults(t *testing.T) {
	var p Profile
	require.NoError(t, json.Unmarshal([]byte(`{}`), &p))

	assert.Equal(t, DefaultGoal, p.Settings.Goal)
	assert.NotNil(t, p.Transactions)
}

func TestUserData_UnmarshalProfiles(t *testing.T) {
	var d UserData
	require.NoError(t, json.Unmarshal([]byte(`{
		"profiles": {"Main": {"transactions": [], "settings": {"goal": 100}}, "Gone": null},
		"last_active_profile": "Main"
	}`), &d))

	assert.Equal(t, []string{"Main"}, d.ProfileNames())
	assert.Equal(t, "Main", d.LastActiveProfile)
	assert.Equal(t, int64(100), d.Profile("Main").Settings.Goal)
	assert.Nil(t, d.Profile("Gone"))
}

func TestUserData_UnmarshalLegacyDocument(t *testing.T) {
	var d UserData
	require.NoError(t, json.Unmarshal([]byte(`{
		"transactions": [{"id": "old", "date": "2025-05-01", "amount": 70, "source": "Ads"}],
		"settings": {"goal": 900}
	}`), &d))

	legacy := d.Profile(DefaultProfile)
	require.NotNil(t, legacy)
	assert.Equal(t, "old", legacy.Transactions[0].ID)
	assert.Equal(t, int64(900), legacy.Settings.Goal)
}

func TestUserData_Put(t *testing.T) {
	d := &UserData{}
	d.Put("B", NewProfile())
	d.Put("A", NewProfile())

	assert.Equal(t, []string{"A", "B"}, d.ProfileNames())
	assert.Equal(t, "A", d.LastActiveProfile)

	var nilData *UserData
	assert.Nil(t, nilData.Profile("A"))
}

func TestTransaction_Helpers(t *testing.T) {
	earn := Transaction{Amount: 50, PreviousBalance: 100}
	spend := Transaction{Amount: -20}

	assert.Equal(t, int64(150), earn.BalanceAfter())
	assert.True(t, earn.IsEarning())
	assert.True(t, spend.IsSpending())
	assert.False(t, Transaction{}.IsEarning() || Transaction{}.IsSpending())
	assert.Equal(t, int64(30), Balance([]Transaction{earn, spend}))
}
