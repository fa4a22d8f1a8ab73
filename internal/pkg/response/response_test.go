package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func TestOKCarriesSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"a": "b"})

	resp := decode(t, rec)
	if rec.Code != http.StatusOK || !resp.Success || resp.Status != StatusSuccess {
		t.Fatalf("unexpected response: %d %+v", rec.Code, resp)
	}
}

func TestErrorCarriesNonSuccessStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusConflict, CodeInsufficientFunds, "insufficient funds")

	resp := decode(t, rec)
	if resp.Success || resp.Status == StatusSuccess {
		t.Fatalf("error response reported success: %+v", resp)
	}
	if resp.Status != "002" || resp.Error.Code != CodeInsufficientFunds {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestStatusForUnknownCode(t *testing.T) {
	if got := StatusFor("SOMETHING_ELSE"); got == StatusSuccess {
		t.Fatal("unknown code must not map to success")
	}
}
