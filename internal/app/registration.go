package app

import (
	"github.com/OhMinsSup/jwc-platform-sub000/internal/format"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
)

// RegistrationSchemaName is the name the registration schema is registered
// under.
const RegistrationSchemaName = "registrations"

// RegistrationSchema describes the registration-entry table synced to the
// staff spreadsheet. Headers are the Korean labels staff see; the webhook
// path matches them exactly.
func RegistrationSchema() *schema.Schema {
	return &schema.Schema{
		Name:             RegistrationSchemaName,
		Description:      "수련회 신청 현황",
		DefaultSheetName: "신청현황",
		SequenceColumn:   "순번",
		Columns: []schema.Column{
			{Key: "name", Header: "이름", Type: schema.TypeText, Width: 12, Required: true},
			{Key: "contact.phone", Header: "연락처", Type: schema.TypeText, Width: 16},
			{Key: "birthDate", Header: "생년월일", Type: schema.TypeDate, Width: 14},
			{Key: "department", Header: "부서", Type: schema.TypeDropdown, Width: 12,
				Options: []string{"유치부", "초등부", "중등부", "고등부", "청년부"}},
			{Key: "isPaid", Header: "참가비 납부", Type: schema.TypeDropdown, Width: 12,
				Options:   []string{format.LabelTrue, format.LabelFalse},
				Formatter: paidLabel,
				Parser:    parsePaidLabel,
			},
			{Key: "fee", Header: "참가비", Type: schema.TypeCurrency, Width: 12},
			{Key: "attendanceRate", Header: "참석률", Type: schema.TypePercent, Width: 10},
			{Key: "memo", Header: "비고", Type: schema.TypeText, Width: 24},
			{Key: "createdAt", Header: "등록일시", Type: schema.TypeDateTime, Width: 18},
		},
	}
}

// paidLabel renders the boolean paid flag as its dropdown label.
func paidLabel(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return format.LabelTrue
		}
		return format.LabelFalse
	case string:
		return v
	default:
		return format.LabelFalse
	}
}

// parsePaidLabel inverts paidLabel so staff edits to the dropdown fold back
// into the canonical boolean field.
func parsePaidLabel(text string) (any, error) {
	return text == format.LabelTrue, nil
}
