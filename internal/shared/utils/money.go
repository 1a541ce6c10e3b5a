package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// zeroDecimalCurrencies have no minor unit.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true, "KRW": true, "VND": true, "CLP": true, "ISK": true,
}

// MinorUnitMultiplier returns how many minor units make one major unit.
func MinorUnitMultiplier(currency string) int64 {
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		return 1
	}
	return 100
}

// ParseAmount converts an admin-entered decimal ("9.99", "1,000.50", "10")
// into hundredths. Empty input is zero.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimLeft(s, "$€£¥")
	if s == "" {
		return 0, nil
	}

	negative := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 || !IsDigits(whole) || (frac != "" && !IsDigits(frac)) {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if units > (math.MaxInt64-99)/100 {
		return 0, fmt.Errorf("amount %q is too large", s)
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)

	total := units*100 + cents
	if negative {
		total = -total
	}
	return total, nil
}

// FormatAmount renders hundredths as a plain decimal string ("9.99").
func FormatAmount(hundredths int64) string {
	sign := ""
	if hundredths < 0 {
		sign = "-"
		hundredths = -hundredths
	}
	return fmt.Sprintf("%s%d.%02d", sign, hundredths/100, hundredths%100)
}

// FormatPrice formats hundredths for display in the given currency.
func FormatPrice(hundredths int64, currency string) string {
	symbols := map[string]struct {
		symbol string
		after  bool
	}{
		"USD": {"$", false},
		"GBP": {"£", false},
		"EUR": {"€", true},
		"JPY": {"¥", false},
	}

	amount := FormatAmount(hundredths)
	if zeroDecimalCurrencies[strings.ToUpper(currency)] {
		amount = strconv.FormatInt(hundredths/100, 10)
	}

	format, ok := symbols[strings.ToUpper(currency)]
	if !ok {
		return fmt.Sprintf("%s %s", strings.ToUpper(currency), amount)
	}
	if format.after {
		return amount + format.symbol
	}
	return format.symbol + amount
}
