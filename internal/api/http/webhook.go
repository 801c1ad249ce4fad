package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/OhMinsSup/jwc-platform-sub000/internal/reconcile"
	"github.com/OhMinsSup/jwc-platform-sub000/internal/store"
)

// supported inbound event type; anything else is rejected.
const eventTypeEdit = "EDIT"

// WebhookHandler handles POST /webhook/sheets requests carrying one
// cell-edit event from the live spreadsheet.
type WebhookHandler struct {
	reconciler *reconcile.Reconciler
}

// NewWebhookHandler creates a webhook handler.
func NewWebhookHandler(reconciler *reconcile.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// ServeHTTP applies the event: 200 on accept, 4xx on validation/parse
// rejection, 500 on downstream sync failure.
func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := GetRequestID(r.Context())

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", requestID)
		return
	}

	var ev reconcile.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), requestID)
		return
	}

	if ev.EventType != eventTypeEdit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported event type %q", ev.EventType), requestID)
		return
	}

	result, err := h.reconciler.Apply(r.Context(), ev)
	if err != nil {
		writeError(w, statusFor(err), err.Error(), requestID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// statusFor maps reconciliation errors onto the response contract.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrUnauthorizedSource):
		return http.StatusForbidden
	case errors.Is(err, store.ErrRecordNotFound):
		return http.StatusNotFound
	case reconcile.IsRejection(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
