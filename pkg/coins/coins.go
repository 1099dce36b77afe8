package coins

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ErrInvalidAmount is returned for a value that is not a whole number of coins
var ErrInvalidAmount = errors.New("invalid coin amount")

var printer = message.NewPrinter(language.English)

// Format renders an amount with thousands separators, e.g. 13500 → "13,500"
func Format(amount int64) string {
	return printer.Sprintf("%d", amount)
}

// Parse reads a whole coin amount. A leading sign and thousands separators
// are accepted: "1,500", "+50" and "-900" are all valid.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	cleaned := strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return n, nil
}

// Amount is a coin amount that decodes from a JSON number or a numeric
// string. Clients send either.
type Amount int64

// Int64 returns the amount as int64
func (a Amount) Int64() int64 {
	return int64(a)
}

// UnmarshalJSON implements json.Unmarshaler
// Supports: 123, "123", "1,234", null (zero)
func (a *Amount) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n, err := Parse(s)
		if err != nil {
			return err
		}
		*a = Amount(n)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, string(data))
	}
	i, err := n.Int64()
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, n.String())
	}
	*a = Amount(i)
	return nil
}
