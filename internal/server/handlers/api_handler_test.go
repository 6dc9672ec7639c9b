package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stayledger/internal/domain/models"
	"stayledger/internal/repository/memory"
	"stayledger/internal/server/handlers"
	"stayledger/internal/server/router"
	"stayledger/internal/service/assistant"
	"stayledger/internal/service/books"
	"stayledger/internal/service/importer"
)

const testOwner = "owner-1"

var testMonths = models.FinancialYearMonths(time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC))

func newTestServer(t *testing.T) (http.Handler, *memory.Repository, *books.ProjectionBuffer) {
	t.Helper()

	repo := memory.New()
	booksSvc := books.NewService(repo, testOwner, testMonths, nil)
	importerSvc := importer.NewService(booksSvc, nil)
	assistantSvc := assistant.NewService(nil, booksSvc, nil)
	buffer := books.NewProjectionBuffer(booksSvc, time.Hour, nil)
	view := books.NewLiveView(repo, booksSvc, nil)
	t.Cleanup(view.Close)

	handler := handlers.NewAPIHandler(booksSvc, importerSvc, assistantSvc, buffer, view, nil)
	return router.New(handler, nil), repo, buffer
}

func TestSaveProjectionRejectsUnknownMonth(t *testing.T) {
	engine, repo, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"misspelled month", `{"month":"Marchh 2026","projectedIncome":1000}`},
		{"outside the year window", `{"month":"March 2020","projectedIncome":1000}`},
		{"empty month", `{"projectedIncome":1000}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPut, "/api/units/u1/projections", strings.NewReader(tc.body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d, want 400", tc.name, rec.Code)
		}
	}

	stored, err := repo.ListProjections(context.Background(), testOwner, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 0 {
		t.Fatalf("rejected edits must not persist, found %d", len(stored))
	}
}

func TestSaveProjectionAcceptsDomainMonth(t *testing.T) {
	engine, repo, buffer := newTestServer(t)

	body := `{"month":"March 2026","projectedIncome":40000}`
	req := httptest.NewRequest(http.MethodPut, "/api/units/u1/projections", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status %d, want 202", rec.Code)
	}

	if err := buffer.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	stored, err := repo.ListProjections(context.Background(), testOwner, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Month != "March 2026" || stored[0].ProjectedIncome != 40000 {
		t.Fatalf("stored projections %+v", stored)
	}
}
