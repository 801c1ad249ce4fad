package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSchema() *Schema {
	return &Schema{
		Name:             "registrations",
		DefaultSheetName: "신청현황",
		SequenceColumn:   "순번",
		Columns: []Column{
			{Key: "name", Header: "이름", Type: TypeText},
			{Key: "isPaid", Header: "참가비 납부", Type: TypeDropdown, Options: []string{"예", "아니오"}},
			{Key: "createdAt", Header: "등록일시", Type: TypeDateTime},
		},
	}
}

func TestSchema_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Schema)
		wantErr string
	}{
		{
			name:   "valid schema",
			mutate: func(s *Schema) {},
		},
		{
			name:    "missing name",
			mutate:  func(s *Schema) { s.Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "no columns",
			mutate:  func(s *Schema) { s.Columns = nil },
			wantErr: "no columns",
		},
		{
			name:    "duplicate key",
			mutate:  func(s *Schema) { s.Columns[1].Key = "name" },
			wantErr: "duplicate column key",
		},
		{
			name:    "duplicate header",
			mutate:  func(s *Schema) { s.Columns[1].Header = "이름" },
			wantErr: "duplicate column header",
		},
		{
			name:    "header collides with sequence column",
			mutate:  func(s *Schema) { s.Columns[0].Header = "순번" },
			wantErr: "collides with sequence column",
		},
		{
			name:    "dropdown without options",
			mutate:  func(s *Schema) { s.Columns[1].Options = nil },
			wantErr: "has no options",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSchema()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSchema_ColumnByHeader(t *testing.T) {
	s := validSchema()

	col, ok := s.ColumnByHeader("참가비 납부")
	require.True(t, ok)
	assert.Equal(t, "isPaid", col.Key)

	// Matching is exact and case-sensitive: headers are localized labels.
	_, ok = s.ColumnByHeader("참가비납부")
	assert.False(t, ok)
	_, ok = s.ColumnByHeader("name")
	assert.False(t, ok)
}

func TestSchema_Headers(t *testing.T) {
	s := validSchema()
	assert.Equal(t, []string{"순번", "이름", "참가비 납부", "등록일시"}, s.Headers())

	s.SequenceColumn = ""
	assert.Equal(t, []string{"이름", "참가비 납부", "등록일시"}, s.Headers())
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("registrations")
	assert.True(t, errors.Is(err, ErrSchemaNotFound))

	require.NoError(t, r.Register(validSchema()))

	s, err := r.Get("registrations")
	require.NoError(t, err)
	assert.Equal(t, "registrations", s.Name)

	// Invalid schemas are refused.
	bad := validSchema()
	bad.Columns[0].Key = ""
	assert.Error(t, r.Register(bad))
}

func TestColumn_ReadOnly(t *testing.T) {
	formatted := Column{
		Key:       "isPaid",
		Header:    "참가비 납부",
		Type:      TypeDropdown,
		Options:   []string{"예", "아니오"},
		Formatter: func(any) string { return "예" },
	}
	assert.True(t, formatted.ReadOnly())

	formatted.Parser = func(string) (any, error) { return true, nil }
	assert.False(t, formatted.ReadOnly())

	assert.False(t, Column{Key: "name", Header: "이름"}.ReadOnly())
}

func TestParseColumnType(t *testing.T) {
	for want, name := range columnTypeNames {
		got, err := ParseColumnType(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseColumnType("decimal")
	assert.Error(t, err)
}
