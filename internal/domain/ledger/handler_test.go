package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/cihwallet/wallet-api/internal/domain/account"
)

type apiResponse struct {
	Success bool            `json:"success"`
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func performRequest(t *testing.T, h http.Handler, method, path string, payload interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, &body))

	var out apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v; body=%s", err, rec.Body.String())
	}
	return rec, out
}

func newTestRouter(h *harness) http.Handler {
	handler := NewHandler(h.svc)
	r := chi.NewRouter()
	r.Mount("/operations", handler.OperationRoutes())
	r.Get("/wallets/{contractID}/balance", handler.Balance)
	r.Get("/wallets/{contractID}/transactions", handler.Transactions)
	r.Get("/analytics/{contractID}/spending", handler.Spending)
	r.Get("/analytics/{contractID}/transactions", handler.TransactionSummary)
	r.Post("/demo/purchase", handler.Purchase)
	return r
}

func TestOperationEndpoints(t *testing.T) {
	h := newHarness(t, nil)
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 100000)
	h.wallet(t, "LANB", "212600000002", account.WalletTypeCustomer, 0)
	r := newTestRouter(h)

	rec, resp := performRequest(t, r, http.MethodPost, "/operations/w2w/simulate", map[string]string{
		"source_contract_id": "LANA",
		"destination_phone":  "212600000002",
		"amount":             "200.00",
	})
	if rec.Code != http.StatusOK || resp.Status != "000" {
		t.Fatalf("simulate: %d %s", rec.Code, rec.Body.String())
	}
	var quote QuoteResponse
	if err := json.Unmarshal(resp.Data, &quote); err != nil {
		t.Fatalf("decode quote: %v", err)
	}
	if quote.Fee != "6.00" || quote.Total != "206.00" || quote.Kind != "W2W" || len(quote.Fees) != 2 {
		t.Fatalf("unexpected quote: %+v", quote)
	}

	rec, resp = performRequest(t, r, http.MethodPost, "/operations/confirm", map[string]string{
		"token": quote.Token,
		"otp":   quote.OTPCode,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: %d %s", rec.Code, rec.Body.String())
	}
	var receipt ReceiptResponse
	if err := json.Unmarshal(resp.Data, &receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if receipt.NewBalance != "794.00" || receipt.Status != "000" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	rec, resp = performRequest(t, r, http.MethodPost, "/operations/confirm", map[string]string{
		"token": quote.Token,
		"otp":   quote.OTPCode,
	})
	if rec.Code != http.StatusConflict || resp.Error == nil || resp.Error.Code != "ALREADY_CONSUMED" || resp.Status != "004" {
		t.Fatalf("reconfirm: %d %s", rec.Code, rec.Body.String())
	}

	rec, resp = performRequest(t, r, http.MethodGet, "/wallets/LANB/balance", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("balance: %d", rec.Code)
	}
	var bal BalanceResponse
	_ = json.Unmarshal(resp.Data, &bal)
	if bal.Balance != "200.00" || bal.Currency != "MAD" {
		t.Fatalf("unexpected balance: %+v", bal)
	}

	rec, resp = performRequest(t, r, http.MethodGet, "/wallets/LANB/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("transactions: %d", rec.Code)
	}
	var txs []TransactionResponse
	_ = json.Unmarshal(resp.Data, &txs)
	if len(txs) != 1 || txs[0].Effect != "200.00" {
		t.Fatalf("unexpected transactions: %+v", txs)
	}
}

func TestOperationEndpointErrors(t *testing.T) {
	h := newHarness(t, nil)
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 1000)
	r := newTestRouter(h)

	cases := []struct {
		name   string
		path   string
		body   map[string]string
		status int
		code   string
	}{
		{"unknown kind", "/operations/wire/simulate", map[string]string{"source_contract_id": "LANA", "amount": "1.00"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"too precise", "/operations/co/simulate", map[string]string{"source_contract_id": "LANA", "amount": "1.001"}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"no source", "/operations/co/simulate", map[string]string{"amount": "1.00"}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{"insufficient", "/operations/co/simulate", map[string]string{"source_contract_id": "LANA", "amount": "10.01"}, http.StatusConflict, "INSUFFICIENT_FUNDS"},
		{"missing wallet", "/operations/co/simulate", map[string]string{"source_contract_id": "LAN404", "amount": "1.00"}, http.StatusNotFound, "NOT_FOUND"},
		{"unknown token", "/operations/confirm", map[string]string{"token": "NOPE", "otp": "123456"}, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, resp := performRequest(t, r, http.MethodPost, tc.path, tc.body)
			if rec.Code != tc.status || resp.Error == nil || resp.Error.Code != tc.code {
				t.Fatalf("got %d %s", rec.Code, rec.Body.String())
			}
			if resp.Success || resp.Status == "000" {
				t.Fatalf("failure envelope marked as success: %+v", resp)
			}
		})
	}
}

func TestBalanceEndpointNotFound(t *testing.T) {
	h := newHarness(t, nil)
	rec, resp := performRequest(t, newTestRouter(h), http.MethodGet, "/wallets/LAN404/balance", nil)
	if rec.Code != http.StatusNotFound || resp.Status != "001" {
		t.Fatalf("got %d %s", rec.Code, rec.Body.String())
	}
}

func TestPurchaseAndSummaryEndpoints(t *testing.T) {
	h := newHarness(t, nil)
	h.wallet(t, "LANA", "212600000001", account.WalletTypeCustomer, 50000)
	r := newTestRouter(h)

	rec, resp := performRequest(t, r, http.MethodPost, "/demo/purchase", map[string]string{
		"contract_id":   "LANA",
		"amount":        "45.50",
		"merchant_name": "Café Atlas",
		"category":      CategoryFood,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("purchase: %d %s", rec.Code, rec.Body.String())
	}
	var receipt ReceiptResponse
	if err := json.Unmarshal(resp.Data, &receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if receipt.NewBalance != "454.50" || receipt.Transaction.Type != "TM" || receipt.Transaction.DestinationName != "Café Atlas" {
		t.Fatalf("unexpected receipt: %+v", receipt)
	}

	rec, resp = performRequest(t, r, http.MethodPost, "/demo/purchase", map[string]string{
		"contract_id": "LANA",
		"amount":      "1000.00",
	})
	if rec.Code != http.StatusConflict || resp.Error == nil || resp.Error.Code != "INSUFFICIENT_FUNDS" {
		t.Fatalf("overspend: %d %s", rec.Code, rec.Body.String())
	}

	rec, resp = performRequest(t, r, http.MethodGet, "/analytics/LANA/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary: %d %s", rec.Code, rec.Body.String())
	}
	var summary TransactionSummaryResponse
	if err := json.Unmarshal(resp.Data, &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalSpent != "45.50" || summary.TotalReceived != "500.00" || len(summary.Transactions) != 2 || len(summary.Categories) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	rec, _ = performRequest(t, r, http.MethodGet, "/analytics/LAN404/transactions", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown wallet: %d", rec.Code)
	}
}
