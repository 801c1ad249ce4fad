package format

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
)

func col(t schema.ColumnType) schema.Column {
	return schema.Column{Key: "field", Header: "필드", Type: t}
}

func dropdownCol(options ...string) schema.Column {
	return schema.Column{Key: "field", Header: "필드", Type: schema.TypeDropdown, Options: options}
}

func TestFormat_Boolean(t *testing.T) {
	c := col(schema.TypeBoolean)

	assert.Equal(t, LabelTrue, Format(true, c))
	assert.Equal(t, LabelFalse, Format(false, c))
	// Missing booleans display as "no", not empty.
	assert.Equal(t, LabelFalse, Format(nil, c))
}

func TestParse_Boolean(t *testing.T) {
	c := col(schema.TypeBoolean)

	tests := []struct {
		text string
		want bool
	}{
		{LabelTrue, true},
		{"true", true},
		{"TRUE", true},
		{LabelFalse, false},
		{"false", false},
		{"", false},
		{"whatever", false}, // never fails, defaults to no
	}
	for _, tt := range tests {
		got, err := Parse(tt.text, c)
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestFormat_Dropdown(t *testing.T) {
	c := dropdownCol("예", "아니오")

	assert.Equal(t, "예", Format("예", c))
	// Non-member values are silently dropped so invalid data never reaches
	// the sheet's validation rule.
	assert.Equal(t, "", Format("maybe", c))
	assert.Equal(t, "", Format(nil, c))
}

func TestParse_Dropdown(t *testing.T) {
	c := dropdownCol("예", "아니오")

	got, err := Parse("아니오", c)
	require.NoError(t, err)
	assert.Equal(t, "아니오", got)

	_, err = Parse("maybe", c)
	assert.True(t, errors.Is(err, ErrInvalidOption))

	// Clearing the cell is allowed.
	got, err = Parse("", c)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFormat_Numbers(t *testing.T) {
	assert.Equal(t, "1,234.5", Format(1234.5, col(schema.TypeNumber)))
	assert.Equal(t, "0", Format(0.0, col(schema.TypeNumber)))
	assert.Equal(t, "-42", Format(-42.0, col(schema.TypeNumber)))
	assert.Equal(t, "₩50,000", Format(50000.0, col(schema.TypeCurrency)))
	assert.Equal(t, "87.5%", Format(87.5, col(schema.TypePercent)))
}

func TestParse_Numbers(t *testing.T) {
	for _, tt := range []struct {
		typ  schema.ColumnType
		text string
		want float64
	}{
		{schema.TypeNumber, "1,234.5", 1234.5},
		{schema.TypeNumber, "-42", -42},
		{schema.TypeCurrency, "₩50,000", 50000},
		{schema.TypeCurrency, "50000", 50000},
		{schema.TypePercent, "87.5%", 87.5},
	} {
		got, err := Parse(tt.text, col(tt.typ))
		require.NoError(t, err, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}

	_, err := Parse("not a number", col(schema.TypeNumber))
	assert.True(t, errors.Is(err, ErrNumberParse))
	_, err = Parse("12x", col(schema.TypeCurrency))
	assert.True(t, errors.Is(err, ErrNumberParse))
}

func TestFormat_DateTime(t *testing.T) {
	// 2026-03-01 00:30 UTC is 09:30 in the fixed display timezone.
	instant := time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-01", Format(instant, col(schema.TypeDate)))
	assert.Equal(t, "2026-03-01 09:30", Format(instant, col(schema.TypeDateTime)))
	assert.Equal(t, "09:30", Format(instant, col(schema.TypeTime)))

	// Store round trips leave fields as RFC3339 strings.
	assert.Equal(t, "2026-03-01 09:30", Format("2026-03-01T00:30:00Z", col(schema.TypeDateTime)))
}

func TestParse_DateTime(t *testing.T) {
	got, err := Parse("2026-03-01 09:30", col(schema.TypeDateTime))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 30, 0, 0, time.UTC), got)

	_, err = Parse("not a date", col(schema.TypeDate))
	assert.Error(t, err)
}

func TestFormat_DateTimeTruncatesSeconds(t *testing.T) {
	// Display is minute-precision: the documented lossy boundary.
	instant := time.Date(2026, 3, 1, 0, 30, 45, 0, time.UTC)
	displayed := Format(instant, col(schema.TypeDateTime))
	assert.Equal(t, "2026-03-01 09:30", displayed)

	parsed, err := Parse(displayed, col(schema.TypeDateTime))
	require.NoError(t, err)
	assert.Equal(t, instant.Truncate(time.Minute), parsed)
}

func TestFormat_CustomFormatterPrecedence(t *testing.T) {
	c := schema.Column{
		Key:     "isPaid",
		Header:  "참가비 납부",
		Type:    schema.TypeDropdown,
		Options: []string{"예", "아니오"},
		Formatter: func(v any) string {
			if b, ok := v.(bool); ok && b {
				return "예"
			}
			return "아니오"
		},
	}

	assert.Equal(t, "예", Format(true, c))
	assert.Equal(t, "아니오", Format(false, c))
}

func TestFormat_CustomFormatterMembershipStillEnforced(t *testing.T) {
	c := dropdownCol("예", "아니오")
	c.Formatter = func(any) string { return "글쎄" }

	assert.Equal(t, "", Format("anything", c))
}

func TestParse_CustomParserPrecedence(t *testing.T) {
	c := dropdownCol("예", "아니오")
	c.Parser = func(text string) (any, error) { return text == "예", nil }

	got, err := Parse("예", c)
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestFormat_Text(t *testing.T) {
	assert.Equal(t, "Kim", Format("Kim", col(schema.TypeText)))
	assert.Equal(t, "", Format(nil, col(schema.TypeText)))

	got, err := Parse("  Kim  ", col(schema.TypeText))
	require.NoError(t, err)
	assert.Equal(t, "  Kim  ", got) // text parse is identity, no trimming
}
