package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// currencySymbol prefixes currency display values. The canonical value is
// the bare amount; the symbol is display-only and stripped on parse.
const currencySymbol = "₩"

var printer = message.NewPrinter(language.Korean)

func formatNumber(value any) string {
	f, ok := asFloat(value)
	if !ok {
		return ""
	}
	return printer.Sprintf("%v", number.Decimal(f))
}

func formatCurrency(value any) string {
	f, ok := asFloat(value)
	if !ok {
		return ""
	}
	return currencySymbol + printer.Sprintf("%v", number.Decimal(f))
}

func formatPercent(value any) string {
	f, ok := asFloat(value)
	if !ok {
		return ""
	}
	return printer.Sprintf("%v", number.Decimal(f)) + "%"
}

// parseNumber strips locale formatting characters (grouping separators, the
// currency symbol, the percent sign) and re-derives the numeric value.
func parseNumber(text string) (float64, error) {
	cleaned := strings.NewReplacer(
		",", "",
		currencySymbol, "",
		"%", "",
		" ", "",
		" ", "",
	).Replace(text)

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNumberParse, text)
	}
	return f, nil
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := parseNumber(strings.TrimSpace(v))
		return f, err == nil
	default:
		return 0, false
	}
}
