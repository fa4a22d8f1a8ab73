package otp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/cihwallet/wallet-api/internal/pkg/codehash"
)

type issueAPIResponse struct {
	Success bool          `json:"success"`
	Status  string        `json:"status"`
	Data    IssueResponse `json:"data"`
}

func TestIssueHandlerEchoesCode(t *testing.T) {
	reg := NewRegistry(NewMemoryRepository(), codehash.New(bcrypt.MinCost), nil, Config{})
	h := NewHandler(reg, true)

	body, _ := json.Marshal(map[string]string{"phone": "212600000001", "purpose": "w2w"})
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	var out issueAPIResponse
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "000" || len(out.Data.Code) != 6 {
		t.Fatalf("unexpected response: %+v", out)
	}
}

func TestIssueHandlerRejectsBadPurpose(t *testing.T) {
	reg := NewRegistry(NewMemoryRepository(), codehash.New(bcrypt.MinCost), nil, Config{})
	h := NewHandler(reg, false)

	body, _ := json.Marshal(map[string]string{"phone": "212600000001", "purpose": "nope"})
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}
