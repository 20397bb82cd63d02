package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"grana/internal/advisor"
	"grana/internal/core"
	"grana/internal/ledger/memory"
	"grana/internal/services"
)

func newTestServer(t *testing.T, requestReport func(context.Context, string) error) (*Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	insights := services.NewInsightService(store)
	clock := func() time.Time {
		return time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	}

	s := NewServer("127.0.0.1:0", Options{
		Ledger:        store,
		Insights:      insights,
		Advisor:       advisor.NewContextBuilder(insights, 6),
		RequestReport: requestReport,
		Now:           clock,
	})
	t.Cleanup(func() {
		_ = s.Shutdown(context.Background())
	})
	return s, store
}

func do(s *Server, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(w, r)
	return w
}

func TestServer_CreateAndListTransactions(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, "POST", "/api/transactions",
		`{"type":"expense","category":"food","amount":"45,50","date":"2025-06-10","description":"mercado"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body.String())
	}

	var created transactionCreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(created.IDs) != 1 || created.IDs[0] == "" {
		t.Fatalf("ids = %v", created.IDs)
	}

	w = do(s, "GET", "/api/transactions", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var list transactionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Transactions) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(list.Transactions))
	}
	if list.Transactions[0].Month != "2025-06" {
		t.Errorf("month = %q", list.Transactions[0].Month)
	}
}

func TestServer_CreateInstallments(t *testing.T) {
	s, _ := newTestServer(t, nil)

	w := do(s, "POST", "/api/transactions",
		`{"type":"expense","category":"shopping","amount":"900,00","date":"2025-01-31","description":"tv","installments":3}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body.String())
	}

	var created transactionCreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(created.IDs) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(created.IDs))
	}

	w = do(s, "GET", "/api/transactions", "")
	var list transactionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}

	months := map[string]bool{}
	var total int64
	for _, tx := range list.Transactions {
		months[tx.Month] = true
		total += tx.Amount.Cents
	}
	for _, m := range []string{"2025-01", "2025-02", "2025-03"} {
		if !months[m] {
			t.Errorf("missing installment month %s (have %v)", m, months)
		}
	}
	if total != 90000 {
		t.Errorf("installments sum to %d cents, want 90000", total)
	}
}

func TestServer_MonthFilter(t *testing.T) {
	s, store := newTestServer(t, nil)
	store.Seed([]core.Transaction{
		{ID: "a", Type: core.Expense, Category: "food", Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 6, 1)},
		{ID: "b", Type: core.Expense, Category: "food", Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 7, 1)},
	}, nil, nil)

	w := do(s, "GET", "/api/transactions?month=2025-07", "")
	var list transactionsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list.Transactions) != 1 || list.Transactions[0].ID != "b" {
		t.Errorf("unexpected filter result: %+v", list.Transactions)
	}

	if w := do(s, "GET", "/api/transactions?month=junho", ""); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad month filter status = %d", w.Code)
	}
}

func TestServer_DeleteTransaction(t *testing.T) {
	s, store := newTestServer(t, nil)
	store.Seed([]core.Transaction{
		{ID: "gone", Type: core.Expense, Category: "food", Amount: core.Money{Cents: 100}, Date: core.NewDate(2025, 6, 1)},
	}, nil, nil)

	if w := do(s, "DELETE", "/api/transactions/gone", ""); w.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", w.Code)
	}
	if w := do(s, "DELETE", "/api/transactions/gone", ""); w.Code != http.StatusNotFound {
		t.Fatalf("second DELETE status = %d, want 404", w.Code)
	}
}

func TestServer_Config(t *testing.T) {
	s, _ := newTestServer(t, nil)

	if w := do(s, "GET", "/api/config", ""); w.Code != http.StatusNotFound {
		t.Fatalf("GET before save status = %d, want 404", w.Code)
	}

	w := do(s, "PUT", "/api/config",
		`{"income":"6000,00","fixed_expenses":"2500,00","category_budgets":{"food":"800,00"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", w.Code, w.Body.String())
	}

	w = do(s, "GET", "/api/config", "")
	if w.Code != http.StatusOK {
		t.Fatalf("GET after save status = %d", w.Code)
	}
	var cfg configResponse
	if err := json.Unmarshal(w.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Income.Cents != 600000 {
		t.Errorf("income = %d", cfg.Income.Cents)
	}
	if cfg.CategoryBudgets["food"].Cents != 80000 {
		t.Errorf("food budget = %d", cfg.CategoryBudgets["food"].Cents)
	}
}

func TestServer_InsightEndpoints(t *testing.T) {
	s, store := newTestServer(t, nil)
	store.Seed([]core.Transaction{
		{ID: "i1", Type: core.Income, Category: "other", Amount: core.Money{Cents: 500000}, Date: core.NewDate(2025, 6, 1)},
		{ID: "e1", Type: core.Expense, Category: "housing", Amount: core.Money{Cents: 180000}, Date: core.NewDate(2025, 6, 5), IsFixed: true},
	}, &core.ManualConfig{Invested: core.Money{Cents: 1000000}}, nil)

	for _, target := range []string{
		"/api/score",
		"/api/summary",
		"/api/alerts",
		"/api/projection",
		"/api/projection?months=12",
		"/api/networth",
		"/api/overview?month=2025-06",
		"/api/advisor/context",
	} {
		if w := do(s, "GET", target, ""); w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, body %s", target, w.Code, w.Body.String())
		}
	}

	var score scoreResponse
	w := do(s, "GET", "/api/score", "")
	if err := json.Unmarshal(w.Body.Bytes(), &score); err != nil {
		t.Fatalf("decode score: %v", err)
	}
	if score.Score < 0 || score.Score > 100 {
		t.Errorf("score out of range: %d", score.Score)
	}

	if w := do(s, "GET", "/api/projection?months=0", ""); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("months=0 status = %d", w.Code)
	}
	if w := do(s, "GET", "/api/projection?months=25", ""); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("months=25 status = %d", w.Code)
	}
}

func TestServer_Reports(t *testing.T) {
	var requested []string
	s, _ := newTestServer(t, func(_ context.Context, month string) error {
		requested = append(requested, month)
		return nil
	})

	if w := do(s, "POST", "/api/reports/2025-06", ""); w.Code != http.StatusAccepted {
		t.Fatalf("POST report status = %d", w.Code)
	}
	if len(requested) != 1 || requested[0] != "2025-06" {
		t.Errorf("requested = %v", requested)
	}

	if w := do(s, "POST", "/api/reports/june", ""); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad month status = %d", w.Code)
	}

	noSink, _ := newTestServer(t, nil)
	if w := do(noSink, "POST", "/api/reports/2025-06", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("no sink status = %d", w.Code)
	}
}

func TestServer_HealthAndSecurity(t *testing.T) {
	s, _ := newTestServer(t, nil)

	if w := do(s, "GET", "/healthz", ""); w.Code != http.StatusOK {
		t.Errorf("healthz status = %d", w.Code)
	}
	if w := do(s, "GET", "/readyz", ""); w.Code != http.StatusOK {
		t.Errorf("readyz status = %d", w.Code)
	}

	w := do(s, "GET", "/api/score", "")
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := w.Header().Get("Content-Security-Policy"); got == "" {
		t.Error("missing Content-Security-Policy header")
	}
}

func TestServer_RateLimitsMutations(t *testing.T) {
	s, _ := newTestServer(t, nil)

	var limited bool
	for i := 0; i < 70; i++ {
		w := do(s, "DELETE", "/api/transactions/nope", "")
		if w.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("expected a 429 after exhausting the per-minute budget")
	}

	// Reads stay unthrottled
	if w := do(s, "GET", "/api/transactions", ""); w.Code != http.StatusOK {
		t.Errorf("GET after limit status = %d", w.Code)
	}
}
