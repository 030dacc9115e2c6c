// Package handlers implements the dashboard's JSON API over the in-memory
// batch store. Display surfaces get read-only views plus exactly two
// mutation entry points: replace the batch via upload, and set one
// transaction's status by ID.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dicefinance/expense-dashboard/internal/api/middleware"
	"github.com/dicefinance/expense-dashboard/internal/insights"
	"github.com/dicefinance/expense-dashboard/internal/logger"
	"github.com/dicefinance/expense-dashboard/internal/pipeline"
	"github.com/dicefinance/expense-dashboard/internal/state"
)

// uploadEnvelopeSlack is headroom on top of the file-size limit for the
// multipart boundary and part headers, so a file just under the limit is not
// rejected by the body cap before the file-size gate can see it.
const uploadEnvelopeSlack = 64 * 1024

// ExpenseHandler serves uploads, batch views, and transaction mutations.
type ExpenseHandler struct {
	store          *state.Store
	maxUploadBytes int64
}

// NewExpenseHandler creates the batch-facing handler set.
func NewExpenseHandler(store *state.Store, maxUploadBytes int64) *ExpenseHandler {
	return &ExpenseHandler{
		store:          store,
		maxUploadBytes: maxUploadBytes,
	}
}

func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// Upload handles POST /api/upload. The multipart "file" part is validated,
// parsed, mapped, and aggregated; on success the whole batch is replaced.
// A failed upload leaves the previous batch untouched.
func (h *ExpenseHandler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+uploadEnvelopeSlack)

	file, header, err := r.FormFile("file")
	if err != nil {
		if bodyTooLarge(err) {
			middleware.WriteError(w, http.StatusBadRequest, "File size must be less than 10MB")
			return
		}
		middleware.WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		if bodyTooLarge(err) {
			middleware.WriteError(w, http.StatusBadRequest, "File size must be less than 10MB")
			return
		}
		log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to read uploaded file")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to read uploaded file")
		return
	}

	info := &pipeline.FileInfo{Name: header.Filename, Size: header.Size}
	result, err := pipeline.ImportCSV(info, string(content))
	if err != nil {
		var validationErr *pipeline.ValidationError
		var formatErr *pipeline.FormatError
		switch {
		case errors.As(err, &validationErr), errors.As(err, &formatErr):
			middleware.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			log.Error().Err(err).Str("filename", header.Filename).Msg("CSV import failed")
			middleware.WriteError(w, http.StatusInternalServerError, "Failed to process CSV file")
		}
		return
	}

	h.store.ReplaceBatch(result.Transactions, result.Analytics)

	log.Info().
		Str("filename", header.Filename).
		Int("transactions", len(result.Transactions)).
		Int("dropped_rows", result.DroppedRows).
		Msg("CSV batch imported")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": result.Transactions,
		"analytics":    result.Analytics,
		"droppedRows":  result.DroppedRows,
		"count":        len(result.Transactions),
	})
}

// ListTransactions handles GET /api/transactions.
func (h *ExpenseHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := h.store.Transactions()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// GetAnalytics handles GET /api/analytics. With no batch loaded it returns
// the canonical empty snapshot rather than an error.
func (h *ExpenseHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, ok := h.store.Analytics()
	if !ok {
		analytics = pipeline.CalculateAnalytics(nil)
	}
	middleware.WriteJSON(w, http.StatusOK, analytics)
}

// UpdateStatus handles PATCH /api/transactions/{id}/status. Free-text status
// input is folded into the closed vocabulary before it is stored.
func (h *ExpenseHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, transactionID string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status := pipeline.NormalizeStatus(req.Status)
	if err := h.store.UpdateStatus(transactionID, status); err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"id":     transactionID,
		"status": status,
	})
}

// Clear handles POST /api/clear: the batch, analytics, and cached
// recommendations are emptied in one step.
func (h *ExpenseHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// DownloadSample handles GET /api/sample.csv.
func (h *ExpenseHandler) DownloadSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sample-expenses.csv"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, pipeline.SampleCSV())
}

// Export handles GET /api/export.csv, rendering the current batch back into
// the canonical eight-column form.
func (h *ExpenseHandler) Export(w http.ResponseWriter, r *http.Request) {
	if !h.store.HasBatch() {
		middleware.WriteError(w, http.StatusBadRequest, "No CSV data uploaded")
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.csv"`)
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, pipeline.ExportCSV(h.store.Transactions()))
}

// InsightsHandler serves recommendation generation and the chat assistant.
type InsightsHandler struct {
	store     *state.Store
	generator insights.Generator
}

// NewInsightsHandler creates the insight-facing handler set.
func NewInsightsHandler(store *state.Store, generator insights.Generator) *InsightsHandler {
	return &InsightsHandler{
		store:     store,
		generator: generator,
	}
}

// GenerateRecommendations handles POST /api/recommendations: the current
// batch is summarized for the model and the parsed records are cached.
func (h *InsightsHandler) GenerateRecommendations(w http.ResponseWriter, r *http.Request) {
	analytics, ok := h.store.Analytics()
	if !ok {
		middleware.WriteError(w, http.StatusBadRequest, "No CSV data uploaded")
		return
	}

	recommendations := h.generator.AnalyzeBatch(r.Context(), analytics, h.store.Transactions())
	h.store.SetRecommendations(recommendations)

	log := logger.FromContext(r.Context())
	log.Info().
		Int("recommendations", len(recommendations)).
		Msg("Recommendations generated")

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// ListRecommendations handles GET /api/recommendations, returning the cached
// list from the latest generation.
func (h *InsightsHandler) ListRecommendations(w http.ResponseWriter, r *http.Request) {
	recommendations := h.store.Recommendations()
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"recommendations": recommendations,
		"count":           len(recommendations),
	})
}

// Chat handles POST /api/chat.
func (h *InsightsHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Message is required")
		return
	}

	reply := h.generator.Chat(r.Context(), req.Message, h.store.ChatContext())
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
