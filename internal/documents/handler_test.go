package documents

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newHandlerRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _, _, _ := newTestService(t)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func seedDocument(t *testing.T, svc *Service, loanID, conditionID string, body []byte) Document {
	t.Helper()
	scope := conditionID
	if scope == "" {
		scope = "unassigned"
	}
	key := loanID + "/" + scope + "/seed.pdf"
	url, err := svc.Documents.Put(context.Background(), key, "application/pdf", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	doc, err := svc.Record(context.Background(), RecordInput{
		LoanID:      loanID,
		ConditionID: conditionID,
		Name:        "seed.pdf",
		MimeType:    "application/pdf",
		SizeBytes:   int64(len(body)),
		PageCount:   2,
		FileURL:     url,
		FileKey:     key,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	return doc
}

func TestListDocumentsByLoan(t *testing.T) {
	router, svc := newHandlerRouter(t)
	seedDocument(t, svc, "loan-1", "cond-1", []byte("%PDF-1.4"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/loans/loan-1/documents", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var list []DocumentResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].LoanID != "loan-1" {
		t.Fatalf("unexpected list: %s", resp.Body.String())
	}
}

func TestGetDocument(t *testing.T) {
	router, svc := newHandlerRouter(t)
	doc := seedDocument(t, svc, "loan-1", "", []byte("%PDF-1.4"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/unknown", nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestDownloadDocumentStreamsAsset(t *testing.T) {
	router, svc := newHandlerRouter(t)
	body := []byte("%PDF-1.4 download me")
	doc := seedDocument(t, svc, "loan-1", "", body)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+doc.ID+"/download", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Equal(resp.Body.Bytes(), body) {
		t.Fatalf("downloaded bytes differ from stored asset")
	}
	if cd := resp.Header().Get("Content-Disposition"); cd == "" {
		t.Fatalf("expected Content-Disposition header")
	}
}

func TestDeleteDocumentEndpoint(t *testing.T) {
	router, svc := newHandlerRouter(t)
	doc := seedDocument(t, svc, "loan-1", "cond-1", []byte("%PDF-1.4"))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+doc.ID, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodDelete, "/api/v1/documents/"+doc.ID, nil))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", resp.Code)
	}
}
