package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"urbanpark/internal/log"
	"urbanpark/internal/lot"
	"urbanpark/internal/passes"
	"urbanpark/internal/services"
	"urbanpark/internal/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := services.NewParkingService(lot.New(2), passes.NewRegistry(), memory.New(), nil, log.New(log.DefaultConfig()))
	srv := NewServer(":0", svc, log.New(log.DefaultConfig()))
	ts := httptest.NewServer(srv.Server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, into any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSellPassValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"unknown kind", `{"kind":"yearly","plate":"ABC123","price":"50.00"}`, http.StatusUnprocessableEntity},
		{"bad price", `{"kind":"weekly","plate":"ABC123","valid_from":"2026-01-05","valid_to":"2026-01-11","price":"-5"}`, http.StatusUnprocessableEntity},
		{"inverted period", `{"kind":"weekly","plate":"ABC123","valid_from":"2026-01-11","valid_to":"2026-01-05","price":"50.00"}`, http.StatusUnprocessableEntity},
		{"bad date format", `{"kind":"weekly","plate":"ABC123","valid_from":"05/01/2026","valid_to":"2026-01-11","price":"50.00"}`, http.StatusBadRequest},
		{"garbage body", `{"kind":`, http.StatusBadRequest},
		{"valid single", `{"kind":"single","plate":"ABC123","price":"8.00"}`, http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts, "/api/passes", tt.body)
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestEntryExitFlowWithSinglePass(t *testing.T) {
	ts := newTestServer(t)

	var pass passResponse
	decodeJSON(t, postJSON(t, ts, "/api/passes", `{"kind":"single","plate":"ABC123","price":"8.00"}`), &pass)
	if pass.ID == "" || pass.Kind != "SingleEntryPass" {
		t.Fatalf("unexpected pass: %+v", pass)
	}

	var session sessionResponse
	resp := postJSON(t, ts, "/api/entry", `{"category":"standard","plate":"abc123","pass_id":"`+pass.ID+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("entry status = %d", resp.StatusCode)
	}
	decodeJSON(t, resp, &session)
	if session.Plate != "ABC123" || session.SpotID != 1 {
		t.Fatalf("unexpected session: %+v", session)
	}

	var receipt receiptResponse
	resp = postJSON(t, ts, "/api/exit", `{"identifier":"`+session.TicketID+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("exit status = %d", resp.StatusCode)
	}
	decodeJSON(t, resp, &receipt)
	if receipt.FeeCents != 0 {
		t.Fatalf("fee = %d, want 0 (waived)", receipt.FeeCents)
	}
	if receipt.Rule != "SingleEntryPass Applied" {
		t.Fatalf("rule = %q", receipt.Rule)
	}

	// The receipt is retrievable afterwards.
	getResp, err := http.Get(ts.URL + "/api/receipts/" + session.TicketID)
	if err != nil {
		t.Fatalf("GET receipt: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("receipt status = %d", getResp.StatusCode)
	}
}

func TestEntryConflicts(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/entry", `{"category":"standard","plate":"AAA111"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first entry status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/api/entry", `{"category":"standard","plate":"AAA111"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate plate status = %d, want 409", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/api/entry", `{"category":"light","plate":"BBB222"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("second entry status = %d", resp.StatusCode)
	}

	// Capacity 2 is exhausted.
	resp = postJSON(t, ts, "/api/entry", `{"category":"heavy","plate":"CCC333"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("full lot status = %d, want 409", resp.StatusCode)
	}
}

func TestExitUnknownIdentifier(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/exit", `{"identifier":"T-MISSING1"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	resp = postJSON(t, ts, "/api/exit", `{}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestFinanceEndpoints(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/finance/expenses", `{"date":"2026-01-07","amount":"20.00","label":"Maintenance"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expense status = %d", resp.StatusCode)
	}

	var pass passResponse
	decodeJSON(t, postJSON(t, ts, "/api/passes", `{"kind":"monthly","plate":"ABC123","valid_from":"2026-01-01","valid_to":"2026-01-31","price":"150.00"}`), &pass)

	var summary map[string]string
	sumResp, err := http.Get(ts.URL + "/api/finance/summary")
	if err != nil {
		t.Fatalf("GET summary: %v", err)
	}
	decodeJSON(t, sumResp, &summary)
	if summary["total_revenue"] != "150.00" || summary["total_expenses"] != "20.00" || summary["profit"] != "130.00" {
		t.Fatalf("summary = %+v", summary)
	}

	profResp, err := http.Get(ts.URL + "/api/reports/profit")
	if err != nil {
		t.Fatalf("GET profit: %v", err)
	}
	var rows []map[string]string
	decodeJSON(t, profResp, &rows)
	if len(rows) != 1 || rows[0]["month"] != "2026-01" || rows[0]["profit"] != "130.00" {
		t.Fatalf("profit rows = %+v", rows)
	}
}

func TestDebtorsAndCreditors(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/finance/debtors", `{"name":"Old","amount":"100.00","due_date":"2020-01-01"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("debtor status = %d", resp.StatusCode)
	}
	resp = postJSON(t, ts, "/api/finance/creditors", `{"name":"Acme","amount":"99.00","payable_date":"2026-04-01"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("creditor status = %d", resp.StatusCode)
	}

	overdueResp, err := http.Get(ts.URL + "/api/finance/debtors/overdue")
	if err != nil {
		t.Fatalf("GET overdue: %v", err)
	}
	var overdue []map[string]string
	decodeJSON(t, overdueResp, &overdue)
	if len(overdue) != 1 || overdue[0]["name"] != "Old" {
		t.Fatalf("overdue = %+v", overdue)
	}

	credResp, err := http.Get(ts.URL + "/api/finance/creditors")
	if err != nil {
		t.Fatalf("GET creditors: %v", err)
	}
	var creditors []map[string]string
	decodeJSON(t, credResp, &creditors)
	if len(creditors) != 1 || creditors[0]["name"] != "Acme" {
		t.Fatalf("creditors = %+v", creditors)
	}
}

func TestLotStatusEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts, "/api/entry", `{"category":"standard","plate":"AAA111"}`)
	resp.Body.Close()

	statusResp, err := http.Get(ts.URL + "/api/lot")
	if err != nil {
		t.Fatalf("GET lot: %v", err)
	}
	var status map[string]int
	decodeJSON(t, statusResp, &status)
	if status["capacity"] != 2 || status["available"] != 1 || status["occupied"] != 1 {
		t.Fatalf("status = %+v", status)
	}
}
