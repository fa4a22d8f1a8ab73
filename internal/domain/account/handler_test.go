package account

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
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

func newTestRouter() http.Handler {
	svc, _ := newTestService()
	h := NewHandler(svc, true)

	r := chi.NewRouter()
	r.Post("/wallets/precreate", h.Precreate)
	r.Post("/wallets/activate", h.Activate)
	r.Post("/wallets/clientinfo", h.ClientInfo)
	r.Mount("/merchants", h.MerchantRoutes())
	return r
}

func TestWalletOnboardingEndpoints(t *testing.T) {
	r := newTestRouter()

	rec, resp := performRequest(t, r, http.MethodPost, "/wallets/precreate", map[string]string{
		"phone_number": "212600000020",
		"first_name":   "Omar",
	})
	if rec.Code != http.StatusCreated || resp.Status != "000" {
		t.Fatalf("precreate: %d %+v", rec.Code, resp)
	}
	var pre PrecreateResponse
	_ = json.Unmarshal(resp.Data, &pre)

	rec, resp = performRequest(t, r, http.MethodPost, "/wallets/activate", map[string]string{
		"token": pre.Token,
		"otp":   pre.Code,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("activate: %d %+v", rec.Code, resp)
	}
	var wallet WalletResponse
	_ = json.Unmarshal(resp.Data, &wallet)
	if wallet.Balance != "0.00" {
		t.Fatalf("balance = %s", wallet.Balance)
	}

	rec, resp = performRequest(t, r, http.MethodPost, "/wallets/activate", map[string]string{
		"token": pre.Token,
		"otp":   pre.Code,
	})
	if rec.Code != http.StatusBadRequest || resp.Error == nil || resp.Error.Code != "INVALID_CODE" {
		t.Fatalf("second activate: %d %+v", rec.Code, resp)
	}

	rec, resp = performRequest(t, r, http.MethodPost, "/wallets/clientinfo", map[string]string{
		"phone_number": "212600000020",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("clientinfo: %d %+v", rec.Code, resp)
	}
}

func TestPrecreateValidation(t *testing.T) {
	r := newTestRouter()
	rec, resp := performRequest(t, r, http.MethodPost, "/wallets/precreate", map[string]string{"phone_number": "abc"})
	if rec.Code != http.StatusUnprocessableEntity || resp.Status == "000" {
		t.Fatalf("expected validation failure, got %d %+v", rec.Code, resp)
	}
}

func TestClientInfoNotFound(t *testing.T) {
	r := newTestRouter()
	rec, _ := performRequest(t, r, http.MethodPost, "/wallets/clientinfo", map[string]string{"phone_number": "212600000099"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
