package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dicefinance/expense-dashboard/internal/insights"
	"github.com/dicefinance/expense-dashboard/internal/logger"
	"github.com/dicefinance/expense-dashboard/internal/pipeline"
	"github.com/dicefinance/expense-dashboard/internal/state"
	"github.com/rs/zerolog"
)

// MockGenerator is a mock implementation of insights.Generator for testing.
type MockGenerator struct {
	AnalyzeBatchFunc func(ctx context.Context, analytics pipeline.AnalyticsSnapshot, transactions []pipeline.Transaction) []insights.Recommendation
	ChatFunc         func(ctx context.Context, message string, chatCtx insights.ChatContext) string
}

func (m *MockGenerator) AnalyzeBatch(ctx context.Context, analytics pipeline.AnalyticsSnapshot, transactions []pipeline.Transaction) []insights.Recommendation {
	if m.AnalyzeBatchFunc != nil {
		return m.AnalyzeBatchFunc(ctx, analytics, transactions)
	}
	return insights.FallbackRecommendations()
}

func (m *MockGenerator) Chat(ctx context.Context, message string, chatCtx insights.ChatContext) string {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, message, chatCtx)
	}
	return "mock reply"
}

func testHandlers(t *testing.T) (*ExpenseHandler, *InsightsHandler, *state.Store, *MockGenerator) {
	t.Helper()
	store := state.NewStore()
	generator := &MockGenerator{}
	return NewExpenseHandler(store, pipeline.MaxCSVFileSize),
		NewInsightsHandler(store, generator),
		store, generator
}

// withTestLogger attaches a discarding context logger, standing in for the
// Logger middleware when handlers are invoked directly.
func withTestLogger(r *http.Request) *http.Request {
	return r.WithContext(logger.WithContext(r.Context(), zerolog.New(io.Discard)))
}

// multipartCSV builds a multipart request body carrying one CSV file part.
func multipartCSV(t *testing.T, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	if _, err := io.WriteString(part, content); err != nil {
		t.Fatalf("writing file part failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}
	return body, writer.FormDataContentType()
}

func uploadCSV(t *testing.T, h *ExpenseHandler, filename, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartCSV(t, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.Upload(rec, withTestLogger(req))
	return rec
}

func uploadSample(t *testing.T, h *ExpenseHandler) {
	t.Helper()
	if rec := uploadCSV(t, h, "expenses.csv", pipeline.SampleCSV()); rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestUpload_ReplacesBatch(t *testing.T) {
	expenseHandler, _, store, _ := testHandlers(t)

	rec := uploadCSV(t, expenseHandler, "expenses.csv", pipeline.SampleCSV())
	if rec.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Count       int                        `json:"count"`
		DroppedRows int                        `json:"droppedRows"`
		Analytics   pipeline.AnalyticsSnapshot `json:"analytics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if resp.Count != 8 {
		t.Errorf("count = %d, want 8", resp.Count)
	}
	if resp.DroppedRows != 0 {
		t.Errorf("droppedRows = %d, want 0", resp.DroppedRows)
	}
	if resp.Analytics.TransactionCount != 8 {
		t.Errorf("analytics.transactionCount = %d, want 8", resp.Analytics.TransactionCount)
	}
	if got := store.Transactions(); len(got) != 8 {
		t.Errorf("store holds %d transactions, want 8", len(got))
	}
}

func TestUpload_RejectsNonCSV(t *testing.T) {
	expenseHandler, _, store, _ := testHandlers(t)

	rec := uploadCSV(t, expenseHandler, "expenses.txt", pipeline.SampleCSV())

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "File must be a CSV file") {
		t.Errorf("body = %s, want CSV type error", rec.Body.String())
	}
	if store.HasBatch() {
		t.Error("failed upload must not touch the batch")
	}
}

func TestUpload_FormatErrorLeavesBatchUntouched(t *testing.T) {
	expenseHandler, _, store, _ := testHandlers(t)
	uploadSample(t, expenseHandler)

	rec := uploadCSV(t, expenseHandler, "broken.csv", "date,amount\n")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := store.Transactions(); len(got) != 8 {
		t.Errorf("prior batch size = %d, want 8 (failed upload must not replace it)", len(got))
	}
}

func TestUpload_AllRowsMalformedYieldsEmptyBatch(t *testing.T) {
	expenseHandler, _, store, _ := testHandlers(t)

	rec := uploadCSV(t, expenseHandler, "odd.csv", "date,amount\n2024-01-01,5.00,extra\n")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s (rows filtered for arity are not an error)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Count     int                        `json:"count"`
		Analytics pipeline.AnalyticsSnapshot `json:"analytics"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response failed: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
	if resp.Analytics.TotalSpend != 0 || resp.Analytics.TransactionCount != 0 {
		t.Errorf("analytics = %+v, want the empty snapshot", resp.Analytics)
	}
	if !store.HasBatch() {
		t.Error("an empty batch is still a loaded batch")
	}
}

func TestUpload_OversizedBody(t *testing.T) {
	expenseHandler, _, store, _ := testHandlers(t)

	content := "date,amount\n" + strings.Repeat("2024-01-01,5.00\n", (11*1024*1024)/16)
	rec := uploadCSV(t, expenseHandler, "big.csv", content)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "File size must be less than 10MB") {
		t.Errorf("body = %s, want the size-limit message", rec.Body.String())
	}
	if store.HasBatch() {
		t.Error("oversized upload must not touch the batch")
	}
}

func TestUpload_MissingFilePart(t *testing.T) {
	expenseHandler, _, _, _ := testHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader("not multipart"))
	rec := httptest.NewRecorder()

	expenseHandler.Upload(rec, withTestLogger(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No file provided") {
		t.Errorf("body = %s, want missing-file error", rec.Body.String())
	}
}

func TestGetAnalytics_EmptyStore(t *testing.T) {
	expenseHandler, _, _, _ := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	expenseHandler.GetAnalytics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snapshot pipeline.AnalyticsSnapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decoding snapshot failed: %v", err)
	}
	if snapshot.TotalSpend != 0 || snapshot.TransactionCount != 0 {
		t.Errorf("expected the canonical empty snapshot, got %+v", snapshot)
	}
	if snapshot.Categories == nil || len(snapshot.Categories) != 0 {
		t.Errorf("categories should decode as an empty list, got %#v", snapshot.Categories)
	}
}

func TestUpdateStatus(t *testing.T) {
	expenseHandler, _, store, _ := testHandlers(t)
	uploadSample(t, expenseHandler)

	id := store.Transactions()[0].ID
	body := strings.NewReader(`{"status":"Rejected"}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/transactions/"+id+"/status", body)
	rec := httptest.NewRecorder()

	expenseHandler.UpdateStatus(rec, req, id)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := store.Transactions()[0].Status; got != pipeline.StatusRejected {
		t.Errorf("stored status = %q, want %q", got, pipeline.StatusRejected)
	}
}

func TestUpdateStatus_UnknownID(t *testing.T) {
	expenseHandler, _, _, _ := testHandlers(t)

	req := httptest.NewRequest(http.MethodPatch, "/api/transactions/nope/status", strings.NewReader(`{"status":"approved"}`))
	rec := httptest.NewRecorder()

	expenseHandler.UpdateStatus(rec, req, "nope")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestClear(t *testing.T) {
	expenseHandler, _, store, _ := testHandlers(t)
	uploadSample(t, expenseHandler)

	req := httptest.NewRequest(http.MethodPost, "/api/clear", nil)
	rec := httptest.NewRecorder()
	expenseHandler.Clear(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if store.HasBatch() {
		t.Error("batch should be empty after clear")
	}
}

func TestDownloadSample(t *testing.T) {
	expenseHandler, _, _, _ := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/sample.csv", nil)
	rec := httptest.NewRecorder()
	expenseHandler.DownloadSample(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Errorf("Content-Type = %q, want text/csv", got)
	}
	if rec.Body.String() != pipeline.SampleCSV() {
		t.Error("sample body does not match the template")
	}
}

func TestExport_RequiresBatch(t *testing.T) {
	expenseHandler, _, _, _ := testHandlers(t)

	req := httptest.NewRequest(http.MethodGet, "/api/export.csv", nil)
	rec := httptest.NewRecorder()
	expenseHandler.Export(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateRecommendations(t *testing.T) {
	expenseHandler, insightsHandler, store, generator := testHandlers(t)
	uploadSample(t, expenseHandler)

	generator.AnalyzeBatchFunc = func(ctx context.Context, analytics pipeline.AnalyticsSnapshot, transactions []pipeline.Transaction) []insights.Recommendation {
		if analytics.TransactionCount != 8 {
			t.Errorf("generator saw %d transactions, want 8", analytics.TransactionCount)
		}
		return []insights.Recommendation{{Type: "savings", Title: "Test", Priority: "high"}}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", nil)
	rec := httptest.NewRecorder()
	insightsHandler.GenerateRecommendations(rec, withTestLogger(req))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := store.Recommendations(); len(got) != 1 || got[0].Title != "Test" {
		t.Errorf("cached recommendations = %+v", got)
	}
}

func TestGenerateRecommendations_RequiresBatch(t *testing.T) {
	_, insightsHandler, _, _ := testHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", nil)
	rec := httptest.NewRecorder()
	insightsHandler.GenerateRecommendations(rec, withTestLogger(req))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestChat(t *testing.T) {
	expenseHandler, insightsHandler, _, generator := testHandlers(t)
	uploadSample(t, expenseHandler)

	generator.ChatFunc = func(ctx context.Context, message string, chatCtx insights.ChatContext) string {
		if !chatCtx.HasCSVData || chatCtx.CSVTransactionCount != 8 {
			t.Errorf("chat context = %+v, want CSV data with 8 transactions", chatCtx)
		}
		return "you spent a lot on travel"
	}

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"travel spend?"}`))
	rec := httptest.NewRecorder()
	insightsHandler.Chat(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "you spent a lot on travel") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestChat_RequiresMessage(t *testing.T) {
	_, insightsHandler, _, _ := testHandlers(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	insightsHandler.Chat(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
