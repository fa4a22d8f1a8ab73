package seed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/cihwallet/wallet-api/internal/domain/account"
	"github.com/cihwallet/wallet-api/internal/domain/ledger"
	"github.com/cihwallet/wallet-api/internal/domain/otp"
	"github.com/cihwallet/wallet-api/internal/domain/pending"
	"github.com/cihwallet/wallet-api/internal/pkg/codehash"
)

func TestDemoEndpoints(t *testing.T) {
	ctx := context.Background()
	store := account.NewMemoryRepository()
	registry := otp.NewRegistry(otp.NewMemoryRepository(), codehash.New(bcrypt.MinCost), nil, otp.Config{})
	ledgerSvc := ledger.NewService(store, registry, pending.NewMemoryRepository(), ledger.NewMemoryJournal(), ledger.Config{})
	if _, err := Run(ctx, account.NewService(store, registry), ledgerSvc); err != nil {
		t.Fatalf("Run: %v", err)
	}

	router := NewHandler(store).Routes(ledger.NewHandler(ledgerSvc).Purchase)

	get := func(path string) map[string][]WalletResponse {
		t.Helper()
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s = %d", path, rec.Code)
		}
		var body struct {
			Data map[string][]WalletResponse `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return body.Data
	}

	users := get("/users")["users"]
	if len(users) != len(DemoCustomers) {
		t.Fatalf("users = %d", len(users))
	}
	byPhone := map[string]WalletResponse{}
	for _, u := range users {
		byPhone[u.Phone] = u
	}
	if ahmed := byPhone["212600000001"]; ahmed.Name != "Ahmed Benali" || ahmed.Balance != "5000.00" {
		t.Fatalf("ahmed = %+v", ahmed)
	}

	merchants := get("/merchants")["merchants"]
	if len(merchants) != len(DemoMerchants) {
		t.Fatalf("merchants = %d", len(merchants))
	}
	for _, m := range merchants {
		if m.MCC == "" {
			t.Fatalf("merchant without mcc: %+v", m)
		}
	}
}
