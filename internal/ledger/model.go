package ledger

import (
	"encoding/json"
	"sort"
	"time"
)

// DefaultProfile is the profile every user has, even before anything is saved to it.
const DefaultProfile = "Default"

// Transaction is a single coin event. Positive amounts are earnings, negative
// amounts are spending.
type Transaction struct {
	ID     string `json:"id"`
	Date   string `json:"date"` // ISO-8601, kept exactly as supplied
	Amount int64  `json:"amount"`
	Source string `json:"source"`

	// PreviousBalance is derived by Recalculate and never accepted from clients
	PreviousBalance int64 `json:"previous_balance"`
}

// BalanceAfter returns the running balance immediately after this transaction.
func (t Transaction) BalanceAfter() int64 {
	return t.PreviousBalance + t.Amount
}

// IsEarning reports whether the transaction adds coins
func (t Transaction) IsEarning() bool {
	return t.Amount > 0
}

// IsSpending reports whether the transaction removes coins
func (t Transaction) IsSpending() bool {
	return t.Amount < 0
}

// TransactionInput carries the client-settable fields of a transaction.
type TransactionInput struct {
	Amount int64
	Source string
	Date   string
}

// Profile is a named ledger together with its settings.
type Profile struct {
	Transactions []Transaction `json:"transactions"`
	Settings     Settings      `json:"settings"`
	LastUpdated  time.Time     `json:"last_updated"`
}

// NewProfile returns an empty profile with default settings
func NewProfile() *Profile {
	return &Profile{
		Transactions: []Transaction{},
		Settings:     DefaultSettings(),
	}
}

// UnmarshalJSON decodes a profile, supplying default settings when the
// document has none.
func (p *Profile) UnmarshalJSON(data []byte) error {
	type profileAlias Profile
	decoded := profileAlias{Settings: Settings{Goal: DefaultGoal}}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	if decoded.Transactions == nil {
		decoded.Transactions = []Transaction{}
	}
	*p = Profile(decoded)
	return nil
}

// Balance returns the signed sum of all amounts.
func Balance(txs []Transaction) int64 {
	var total int64
	for _, t := range txs {
		total += t.Amount
	}
	return total
}

// UserData is the per-user persistence unit: every profile a user owns plus
// the profile they last worked in.
type UserData struct {
	Profiles          map[string]*Profile `json:"profiles"`
	LastActiveProfile string              `json:"last_active_profile,omitempty"`
}

// NewUserData returns an empty document
func NewUserData() *UserData {
	return &UserData{Profiles: make(map[string]*Profile)}
}

// UnmarshalJSON decodes a user document. Documents written before profiles
// existed keep transactions and settings at the top level; those are read as
// the Default profile so the next save migrates them.
func (d *UserData) UnmarshalJSON(data []byte) error {
	var doc struct {
		Profiles          map[string]*Profile `json:"profiles"`
		LastActiveProfile string              `json:"last_active_profile"`
		Transactions      []Transaction       `json:"transactions"`
		Settings          json.RawMessage     `json:"settings"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	profiles := doc.Profiles
	if profiles == nil {
		profiles = make(map[string]*Profile)
		if doc.Transactions != nil || len(doc.Settings) > 0 {
			legacy := NewProfile()
			if doc.Transactions != nil {
				legacy.Transactions = doc.Transactions
			}
			if len(doc.Settings) > 0 {
				if err := json.Unmarshal(doc.Settings, &legacy.Settings); err != nil {
					return err
				}
			}
			profiles[DefaultProfile] = legacy
		}
	}
	for name, p := range profiles {
		if p == nil {
			delete(profiles, name)
		}
	}

	d.Profiles = profiles
	d.LastActiveProfile = doc.LastActiveProfile
	return nil
}

// Profile returns the named profile or nil.
func (d *UserData) Profile(name string) *Profile {
	if d == nil || d.Profiles == nil {
		return nil
	}
	return d.Profiles[name]
}

// Put stores a profile under name and marks it as the active one.
func (d *UserData) Put(name string, p *Profile) {
	if d.Profiles == nil {
		d.Profiles = make(map[string]*Profile)
	}
	d.Profiles[name] = p
	d.LastActiveProfile = name
}

// ProfileNames returns the stored profile names in sorted order
func (d *UserData) ProfileNames() []string {
	names := make([]string, 0, len(d.Profiles))
	for name := range d.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
