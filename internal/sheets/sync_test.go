package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

const testDoc = "doc-123"

func syncSchema() *schema.Schema {
	return &schema.Schema{
		Name:             "registrations",
		DefaultSheetName: "신청현황",
		Columns: []schema.Column{
			{Key: "name", Header: "이름", Type: schema.TypeText},
			{Key: "department", Header: "부서", Type: schema.TypeDropdown,
				Options: []string{"유치부", "초등부"}},
		},
	}
}

func syncRecords(names ...string) []store.Record {
	records := make([]store.Record, len(names))
	for i, name := range names {
		records[i] = store.Record{"id": name, "name": name, "department": "유치부"}
	}
	return records
}

func TestSyncFullReplace_FirstSyncCreatesSheetAndTable(t *testing.T) {
	fake := NewFake()
	m := NewSyncManager(fake)

	result, err := m.SyncFullReplace(context.Background(), syncSchema(), syncRecords("Kim", "Lee"), Target{SpreadsheetID: testDoc})
	require.NoError(t, err)

	assert.True(t, result.CreatedSheet)
	assert.True(t, result.CreatedTable)
	assert.Equal(t, 2, result.RecordCount)
	assert.NotEmpty(t, result.TableID)
	assert.Contains(t, result.URL, testDoc)

	values := fake.Values("신청현황")
	require.Len(t, values, 3)
	assert.Equal(t, []string{"이름", "부서"}, values[0])
	assert.Equal(t, []string{"Kim", "유치부"}, values[1])

	table, ok := fake.TableFor("신청현황")
	require.True(t, ok)
	assert.Equal(t, GridRange{StartRow: 0, EndRow: 3, StartCol: 0, EndCol: 2}, table.Range)
	require.Len(t, table.Columns, 2)
	assert.Equal(t, "DROPDOWN", table.Columns[1].Type)
	assert.Equal(t, []string{"유치부", "초등부"}, table.Columns[1].Options)
}

func TestSyncFullReplace_Idempotent(t *testing.T) {
	fake := NewFake()
	m := NewSyncManager(fake)
	target := Target{SpreadsheetID: testDoc}
	records := syncRecords("Kim", "Lee")

	first, err := m.SyncFullReplace(context.Background(), syncSchema(), records, target)
	require.NoError(t, err)
	valuesAfterFirst := fake.Values("신청현황")
	tableAfterFirst, _ := fake.TableFor("신청현황")

	second, err := m.SyncFullReplace(context.Background(), syncSchema(), records, target)
	require.NoError(t, err)

	// Externally observable state is identical after both calls.
	assert.Equal(t, valuesAfterFirst, fake.Values("신청현황"))
	tableAfterSecond, _ := fake.TableFor("신청현황")
	assert.Equal(t, tableAfterFirst, tableAfterSecond)
	assert.Equal(t, first.SheetID, second.SheetID)
	assert.Equal(t, first.TableID, second.TableID)
	assert.False(t, second.CreatedSheet)
	assert.False(t, second.CreatedTable)
}

func TestSyncFullReplace_ShrinkLeavesNoResidualRows(t *testing.T) {
	fake := NewFake()
	m := NewSyncManager(fake)
	target := Target{SpreadsheetID: testDoc}

	_, err := m.SyncFullReplace(context.Background(), syncSchema(), syncRecords("Kim", "Lee", "Park", "Choi"), target)
	require.NoError(t, err)
	require.Len(t, fake.Values("신청현황"), 5)

	_, err = m.SyncFullReplace(context.Background(), syncSchema(), syncRecords("Kim"), target)
	require.NoError(t, err)

	// No row beyond the new record count survives, and the table range is
	// recomputed to the shrunken extent.
	values := fake.Values("신청현황")
	assert.Len(t, values, 2)

	table, ok := fake.TableFor("신청현황")
	require.True(t, ok)
	assert.Equal(t, int64(2), table.Range.EndRow)
}

func TestSyncFullReplace_UpdatesTableInPlace(t *testing.T) {
	fake := NewFake()
	m := NewSyncManager(fake)
	target := Target{SpreadsheetID: testDoc}

	first, err := m.SyncFullReplace(context.Background(), syncSchema(), syncRecords("Kim"), target)
	require.NoError(t, err)

	second, err := m.SyncFullReplace(context.Background(), syncSchema(), syncRecords("Kim", "Lee", "Park"), target)
	require.NoError(t, err)

	// The table object keeps its identity; only its range moves.
	assert.Equal(t, first.TableID, second.TableID)
	table, _ := fake.TableFor("신청현황")
	assert.Equal(t, int64(4), table.Range.EndRow)
}

// racingAPI simulates losing the sheet-creation race: the sheet does not
// resolve on the first lookup, creation then collides, and the retry lookup
// finds the winner's sheet.
type racingAPI struct {
	*Fake
	misses int
}

func (r *racingAPI) SheetByTitle(ctx context.Context, spreadsheetID, title string) (SheetMeta, bool, error) {
	if r.misses > 0 {
		r.misses--
		return SheetMeta{}, false, nil
	}
	return r.Fake.SheetByTitle(ctx, spreadsheetID, title)
}

func TestSyncFullReplace_ToleratesSheetCreationRace(t *testing.T) {
	fake := NewFake()
	_, err := fake.CreateSheet(context.Background(), testDoc, "신청현황")
	require.NoError(t, err)

	m := NewSyncManager(&racingAPI{Fake: fake, misses: 1})
	result, err := m.SyncFullReplace(context.Background(), syncSchema(), syncRecords("Kim"), Target{SpreadsheetID: testDoc})
	require.NoError(t, err)

	assert.False(t, result.CreatedSheet)
	assert.Len(t, fake.Values("신청현황"), 2)
}

// failingAPI fails a single named operation to exercise error wrapping.
type failingAPI struct {
	*Fake
	failOn string
}

var errProvider = errors.New("provider unavailable")

func (f *failingAPI) Clear(ctx context.Context, spreadsheetID, title string) error {
	if f.failOn == "clear" {
		return errProvider
	}
	return f.Fake.Clear(ctx, spreadsheetID, title)
}

func (f *failingAPI) CreateTable(ctx context.Context, spreadsheetID string, table Table) (string, error) {
	if f.failOn == "create table" {
		return "", errProvider
	}
	return f.Fake.CreateTable(ctx, spreadsheetID, table)
}

func TestSyncFullReplace_WrapsProviderErrors(t *testing.T) {
	for _, step := range []string{"clear", "create table"} {
		m := NewSyncManager(&failingAPI{Fake: NewFake(), failOn: step})

		_, err := m.SyncFullReplace(context.Background(), syncSchema(), syncRecords("Kim"), Target{SpreadsheetID: testDoc})
		require.Error(t, err, step)

		var syncErr *SyncError
		require.True(t, errors.As(err, &syncErr), step)
		assert.Equal(t, step, syncErr.Step)
		// The original cause stays attached for diagnosis.
		assert.True(t, errors.Is(err, errProvider), step)
	}
}

func TestSyncFullReplace_TargetSheetNameOverride(t *testing.T) {
	fake := NewFake()
	m := NewSyncManager(fake)

	_, err := m.SyncFullReplace(context.Background(), syncSchema(), nil, Target{SpreadsheetID: testDoc, SheetName: "백업"})
	require.NoError(t, err)

	assert.NotNil(t, fake.Values("백업"))
	assert.Nil(t, fake.Values("신청현황"))
}
