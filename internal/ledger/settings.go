package ledger

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultGoal is the target balance used when a profile has none.
const DefaultGoal int64 = 13500

// QuickAction is a preset transaction template shown as a one-tap button.
type QuickAction struct {
	Text       string `json:"text"`
	Value      int64  `json:"value"`
	IsPositive bool   `json:"is_positive"`
}

// Amount returns the signed amount the action records.
func (q QuickAction) Amount() int64 {
	if q.IsPositive {
		return q.Value
	}
	return -q.Value
}

// Validate checks a quick action before it is appended to settings
func (q QuickAction) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidQuickAction)
	}
	if q.Value < 0 {
		return fmt.Errorf("%w: value cannot be negative", ErrInvalidQuickAction)
	}
	return nil
}

// DefaultQuickActions returns a fresh copy of the canonical quick action list.
func DefaultQuickActions() []QuickAction {
	return []QuickAction{
		{Text: "Event Reward", Value: 50, IsPositive: true},
		{Text: "Ads", Value: 10, IsPositive: true},
		{Text: "Daily Games", Value: 100, IsPositive: true},
		{Text: "Login", Value: 50, IsPositive: true},
		{Text: "Campaign Reward", Value: 50, IsPositive: true},
		{Text: "Box Draw (Single)", Value: 100, IsPositive: false},
		{Text: "Box Draw (10)", Value: 900, IsPositive: false},
	}
}

// Settings is the per-profile configuration bundle.
//
// Keys the application does not know about are kept in Extra and written
// back unchanged, so older or newer clients never lose data on a save.
// A nil QuickActions means the list was absent; Validate replaces it with
// the defaults. An empty, non-nil list is a user choice and is kept.
type Settings struct {
	Goal         int64
	DarkMode     bool
	QuickActions []QuickAction
	Extra        map[string]json.RawMessage
}

// DefaultSettings returns the settings a brand new profile starts with
func DefaultSettings() Settings {
	return Settings{
		Goal:         DefaultGoal,
		DarkMode:     false,
		QuickActions: DefaultQuickActions(),
	}
}

// MarshalJSON writes known fields over any pass-through keys.
func (s Settings) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Extra)+3)
	for key, value := range s.Extra {
		out[key] = value
	}
	out["goal"] = s.Goal
	out["dark_mode"] = s.DarkMode
	if s.QuickActions != nil {
		out["quick_actions"] = s.QuickActions
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads known fields and keeps the rest in Extra. An absent
// goal decodes to DefaultGoal.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := Settings{Goal: DefaultGoal}
	for key, value := range raw {
		var err error
		switch key {
		case "goal":
			err = json.Unmarshal(value, &decoded.Goal)
		case "dark_mode":
			err = json.Unmarshal(value, &decoded.DarkMode)
		case "quick_actions":
			err = json.Unmarshal(value, &decoded.QuickActions)
		default:
			if decoded.Extra == nil {
				decoded.Extra = make(map[string]json.RawMessage)
			}
			decoded.Extra[key] = value
		}
		if err != nil {
			return fmt.Errorf("settings.%s: %w", key, err)
		}
	}

	*s = decoded
	return nil
}

// SettingsPatch lists the settings a client may change directly. Anything
// else in an update request is ignored.
type SettingsPatch struct {
	Goal     *int64 `json:"goal"`
	DarkMode *bool  `json:"dark_mode"`
}

// Validate checks the patch values
func (p SettingsPatch) Validate() error {
	if p.Goal != nil && *p.Goal <= 0 {
		return ErrInvalidGoal
	}
	return nil
}

// Apply overwrites the fields set in the patch
func (s *Settings) Apply(p SettingsPatch) {
	if p.Goal != nil {
		s.Goal = *p.Goal
	}
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
}
