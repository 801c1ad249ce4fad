package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/sheets"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

func newExportServer(t *testing.T) (*httptest.Server, *sheets.Fake) {
	t.Helper()

	st := &stubStore{records: []store.Record{
		{"id": "1", "name": "Kim", "memo": "A"},
		{"id": "2", "name": "Lee", "memo": "B"},
	}}
	fake := sheets.NewFake()
	manager := sheets.NewSyncManager(fake)
	target := sheets.Target{SpreadsheetID: testSpreadsheetID}

	handler := DefaultMiddleware()(NewExportHandler(testSchema(), st, manager, target, 0))
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, fake
}

func TestExportHandler_ExcelDownload(t *testing.T) {
	srv, _ := newExportServer(t)

	resp, err := http.Get(srv.URL + "?format=excel&download=true")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `attachment; filename="registrations-`)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `.xlsx"`)

	// The body must be a readable workbook with headers plus one row per
	// record.
	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("신청현황")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"이름", "비고"}, rows[0])
	assert.Equal(t, []string{"Kim", "A"}, rows[1])
}

func TestExportHandler_GoogleSync(t *testing.T) {
	srv, fake := newExportServer(t)

	resp, err := http.Get(srv.URL + "?format=google")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope SuccessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)

	result, ok := envelope.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), result["recordCount"])
	assert.NotEmpty(t, result["url"])

	values := fake.Values("신청현황")
	require.Len(t, values, 3)
	assert.Equal(t, []string{"Kim", "A"}, values[1])
}

func TestExportHandler_LimitParameter(t *testing.T) {
	srv, fake := newExportServer(t)

	resp, err := http.Get(srv.URL + "?format=google&limit=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, fake.Values("신청현황"), 2)
}

func TestExportHandler_InvalidLimit(t *testing.T) {
	srv, _ := newExportServer(t)

	resp, err := http.Get(srv.URL + "?format=google&limit=abc")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportHandler_UnsupportedFormat(t *testing.T) {
	srv, _ := newExportServer(t)

	resp, err := http.Get(srv.URL + "?format=csv")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportHandler_ExcelCountOnly(t *testing.T) {
	srv, _ := newExportServer(t)

	resp, err := http.Get(srv.URL + "?format=excel")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope SuccessResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	result, ok := envelope.Result.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), result["recordCount"])
}

func TestExportHandler_MethodNotAllowed(t *testing.T) {
	srv, _ := newExportServer(t)

	resp, err := http.Post(srv.URL, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
