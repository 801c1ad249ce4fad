// Package format converts canonical record values to spreadsheet display
// strings and back. Formatting is stateless; every function here satisfies
// the round-trip law parse(format(v)) == v, except where display truncates
// precision (datetime is minute-precision, a documented lossy boundary).
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
)

var (
	// ErrInvalidOption is returned when a dropdown cell is edited to a
	// value outside the column's options.
	ErrInvalidOption = errors.New("value is not an allowed option")

	// ErrNumberParse is returned when a numeric cell is edited to
	// something that cannot be parsed as a number.
	ErrNumberParse = errors.New("not a numeric value")
)

// Localized boolean labels used in sheet cells.
const (
	LabelTrue  = "예"
	LabelFalse = "아니오"
)

// Format renders a canonical value as the display string for col. A custom
// formatter on the column takes precedence over the type-based one. Dropdown
// output is membership-checked: a produced value outside the column's
// options formats to the empty string so invalid data never reaches the
// sheet's validation rule.
func Format(value any, col schema.Column) string {
	if value == nil {
		if col.Type == schema.TypeBoolean {
			return LabelFalse
		}
		return ""
	}

	var s string
	if col.Formatter != nil {
		s = col.Formatter(value)
	} else {
		s = formatByType(value, col)
	}

	if col.Type == schema.TypeDropdown && s != "" && !col.HasOption(s) {
		return ""
	}
	return s
}

func formatByType(value any, col schema.Column) string {
	switch col.Type {
	case schema.TypeBoolean:
		if asBool(value) {
			return LabelTrue
		}
		return LabelFalse
	case schema.TypeNumber:
		return formatNumber(value)
	case schema.TypeCurrency:
		return formatCurrency(value)
	case schema.TypePercent:
		return formatPercent(value)
	case schema.TypeDate:
		return formatTime(value, layoutDate)
	case schema.TypeDateTime:
		return formatTime(value, layoutDateTime)
	case schema.TypeTime:
		return formatTime(value, layoutTime)
	case schema.TypeDropdown:
		return fmt.Sprint(value)
	default: // schema.TypeText
		return fmt.Sprint(value)
	}
}

// Parse converts an edited display string back to a canonical value for col.
// A custom parser on the column takes precedence; columns with a custom
// formatter but no parser are display-only and never reach this function on
// the webhook path. The empty string parses to nil (cleared cell) for every
// type except boolean, which parses to false.
func Parse(text string, col schema.Column) (any, error) {
	if col.Parser != nil {
		return col.Parser(text)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" && col.Type != schema.TypeBoolean {
		return nil, nil
	}

	switch col.Type {
	case schema.TypeBoolean:
		return parseBool(trimmed), nil
	case schema.TypeNumber, schema.TypeCurrency, schema.TypePercent:
		return parseNumber(trimmed)
	case schema.TypeDate:
		return parseTime(trimmed, layoutDate)
	case schema.TypeDateTime:
		return parseTime(trimmed, layoutDateTime)
	case schema.TypeTime:
		return parseTime(trimmed, layoutTime)
	case schema.TypeDropdown:
		if !col.HasOption(trimmed) {
			return nil, fmt.Errorf("%w: %q not in %v", ErrInvalidOption, trimmed, col.Options)
		}
		return trimmed, nil
	default: // schema.TypeText
		return text, nil
	}
}

// parseBool accepts the localized labels and the literals "true"/"false"
// case-insensitively, defaulting to false. It never fails.
func parseBool(text string) bool {
	switch strings.ToLower(text) {
	case strings.ToLower(LabelTrue), "true":
		return true
	default:
		return false
	}
}

func asBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return parseBool(strings.TrimSpace(v))
	default:
		return false
	}
}
