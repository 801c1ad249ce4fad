package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/excel"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/format"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/schema"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/sheets"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

// Export formats.
const (
	formatExcel  = "excel"
	formatGoogle = "google"
	formatBoth   = "both"
)

// ExportHandler handles GET /export requests: one-shot xlsx download,
// full-replace sync to the live sheet, or both.
type ExportHandler struct {
	schema       *schema.Schema
	store        store.Store
	sync         *sheets.SyncManager
	target       sheets.Target
	defaultLimit int
}

// NewExportHandler creates an export handler.
func NewExportHandler(s *schema.Schema, st store.Store, sync *sheets.SyncManager, target sheets.Target, defaultLimit int) *ExportHandler {
	return &ExportHandler{
		schema:       s,
		store:        st,
		sync:         sync,
		target:       target,
		defaultLimit: defaultLimit,
	}
}

// ServeHTTP dispatches on the format parameter. format=excel with
// download=true streams the workbook; format=google syncs and returns a
// status JSON with record count and sheet URL; format=both does both.
func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", requestID)
		return
	}

	exportFormat := r.URL.Query().Get("format")
	if exportFormat == "" {
		exportFormat = formatExcel
	}
	download := r.URL.Query().Get("download") == "true"

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw), requestID)
			return
		}
		limit = n
	}

	records, err := h.store.FindAll(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to load records: %v", err), requestID)
		return
	}

	switch exportFormat {
	case formatExcel:
		if !download {
			writeJSON(w, http.StatusOK, map[string]any{"recordCount": len(records)})
			return
		}
		h.streamWorkbook(w, records, requestID)

	case formatGoogle:
		result, err := h.sync.SyncFullReplace(r.Context(), h.schema, records, h.target)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), requestID)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case formatBoth:
		result, err := h.sync.SyncFullReplace(r.Context(), h.schema, records, h.target)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error(), requestID)
			return
		}
		if download {
			h.streamWorkbook(w, records, requestID)
			return
		}
		writeJSON(w, http.StatusOK, result)

	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", exportFormat), requestID)
	}
}

func (h *ExportHandler) streamWorkbook(w http.ResponseWriter, records []store.Record, requestID string) {
	filename := fmt.Sprintf("%s-%s.xlsx", h.schema.Name, time.Now().In(format.Location()).Format("20060102"))
	w.Header().Set("Content-Type", excel.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := excel.Write(w, h.schema, records); err != nil {
		// Headers are already on the wire; the truncated body is the best
		// signal we can still give.
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to generate workbook: %v", err), requestID)
	}
}
