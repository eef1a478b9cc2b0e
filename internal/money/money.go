// Package money parses user-typed amount shorthand ("50k", "1.5m", "2tr")
// into integer VND and formats integer VND back into the shorthand.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kilo = 1_000
	mega = 1_000_000
	giga = 1_000_000_000
)

// suffixes maps each recognized token suffix to its multiplier. Longer
// suffixes are listed first so "tr" is not misread as a bare prefix ending
// in a stray rune. Each token carries exactly one suffix or none.
var suffixes = []struct {
	text string
	mult int64
}{
	{"triệu", mega},
	{"trieu", mega},
	{"tr", mega},
	{"tỷ", giga},
	{"ty", giga},
	{"k", kilo},
	{"m", mega},
}

// ParseError reports a token that does not match the amount grammar.
type ParseError struct {
	Token string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid amount token %q", e.Token)
}

// Parse converts an amount token into integer VND. The token is lowercased
// and stripped of internal whitespace before matching. allowBare controls
// the per-deployment policy for suffixless digit tokens: when false a
// recognized suffix is mandatory.
//
// The prefix of a suffixed token may be decimal ("1.5m" -> 1500000); any
// fraction finer than the suffix resolves is truncated toward zero.
func Parse(token string, allowBare bool) (int64, error) {
	t := strings.ToLower(strings.Join(strings.Fields(token), ""))
	if t == "" {
		return 0, &ParseError{Token: token}
	}

	for _, s := range suffixes {
		if !strings.HasSuffix(t, s.text) {
			continue
		}
		amount, err := applyMultiplier(strings.TrimSuffix(t, s.text), s.mult)
		if err != nil {
			return 0, &ParseError{Token: token}
		}
		return amount, nil
	}

	if !allowBare {
		return 0, &ParseError{Token: token}
	}
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil || n < 0 {
		return 0, &ParseError{Token: token}
	}
	return n, nil
}

// applyMultiplier computes prefix*mult using integer arithmetic only, so the
// truncation rule is exact regardless of magnitude.
func applyMultiplier(prefix string, mult int64) (int64, error) {
	intPart, fracPart, err := splitDecimal(prefix)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, err
	}
	const maxInt64 = 1<<63 - 1
	if n > maxInt64/mult {
		return 0, fmt.Errorf("amount overflows")
	}
	value := n * mult
	scale := mult
	for i := 0; i < len(fracPart); i++ {
		scale /= 10
		if scale == 0 {
			break
		}
		value += int64(fracPart[i]-'0') * scale
	}
	return value, nil
}

func splitDecimal(s string) (intPart, fracPart string, err error) {
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return "", "", fmt.Errorf("multiple decimal points")
	}
	intPart = parts[0]
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return "", "", fmt.Errorf("empty number")
	}
	if s == "" {
		return "", "", fmt.Errorf("empty number")
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return "", "", fmt.Errorf("non-digit in number")
		}
	}
	return intPart, fracPart, nil
}

// Format renders integer VND as display shorthand. It is lossy: values are
// truncated to the shorthand's resolution and do not round-trip through
// Parse for non-round inputs.
func Format(amount int64) string {
	if amount >= mega {
		if amount%mega == 0 {
			return fmt.Sprintf("%dm", amount/mega)
		}
		return fmt.Sprintf("%.1fm", float64(amount)/float64(mega))
	}
	if amount >= kilo {
		return fmt.Sprintf("%dk", amount/kilo)
	}
	return strconv.FormatInt(amount, 10)
}
