package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a price as sent by the API. It may arrive as a number, a numeric
// string, an empty string or null. Strings keep their leading number
// ("50.99 EGP" is 50.99); anything without one decodes to zero.
type Amount struct {
	decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{Decimal: decimal.NewFromFloat(value)}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := unquote(data)
	if raw == "" {
		a.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		d, err = decimal.NewFromString(numericPrefix(raw))
	}
	if err != nil {
		a.Decimal = decimal.Zero
		return nil
	}
	a.Decimal = d
	return nil
}

// MarshalJSON writes the amount as a bare JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}

// FlexInt is an integer that tolerates strings and fractions ("2", 2.0, "2.7" -> 2).
type FlexInt int

func (n *FlexInt) UnmarshalJSON(data []byte) error {
	raw := unquote(data)
	if raw == "" {
		*n = 0
		return nil
	}
	if i, err := strconv.Atoi(raw); err == nil {
		*n = FlexInt(i)
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = FlexInt(int(f))
	return nil
}

func (n FlexInt) Int() int {
	return int(n)
}

// numericPrefix returns the leading decimal number of s, like "12.5" of "12.5kg".
func numericPrefix(s string) string {
	end := 0
	if end < len(s) && s[end] == '-' {
		end++
	}
	digits, dot := 0, false
	for end < len(s) {
		c := s[end]
		if c >= '0' && c <= '9' {
			digits++
		} else if c == '.' && !dot {
			dot = true
		} else {
			break
		}
		end++
	}
	if digits == 0 {
		return ""
	}
	return strings.TrimSuffix(s[:end], ".")
}

func unquote(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(trimmed)
}
