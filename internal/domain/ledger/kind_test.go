package ledger

import "testing"

func TestFeeRuleCompute(t *testing.T) {
	cases := []struct {
		kind   Kind
		amount int64
		want   int64
	}{
		{KindCashIn, 100000, 0},
		{KindCashOut, 100000, 0},
		{KindWalletToWallet, 20000, 600},
		{KindWalletToWallet, 1, 600},
		{KindWalletToMerchant, 4550, 0},
		{KindMerchantToMerchant, 1250, 50},
		{KindMerchantToMerchant, 1, 0},
		{KindMerchantToMerchant, 13, 1},
		{KindATM, 10000, 300},
		{KindMerchantToWallet, 10000, 0},
		{KindPurchase, 10000, 0},
	}
	policies := DefaultPolicies()
	for _, tc := range cases {
		if got := policies[tc.kind].Fee.Compute(tc.amount); got != tc.want {
			t.Errorf("%s fee(%d) = %d, want %d", tc.kind, tc.amount, got, tc.want)
		}
	}
}

func TestFeeBreakdownSumsToFee(t *testing.T) {
	for _, fee := range []int64{0, 1, 50, 300, 600, 999, 123457} {
		lines := FeeBreakdown(fee)
		if len(lines) != 2 || lines[0].Name != "COM" || lines[1].Name != "TVA" {
			t.Fatalf("unexpected lines: %+v", lines)
		}
		if lines[0].Value+lines[1].Value != fee {
			t.Errorf("fee %d: lines sum to %d", fee, lines[0].Value+lines[1].Value)
		}
	}
	lines := FeeBreakdown(600)
	if lines[0].Value != 498 || lines[1].Value != 102 {
		t.Errorf("600 split into %d/%d", lines[0].Value, lines[1].Value)
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind(" w2w "); !ok || k != KindWalletToWallet {
		t.Fatalf("ParseKind(w2w) = %q, %v", k, ok)
	}
	if _, ok := ParseKind("wire"); ok {
		t.Fatal("unknown kind accepted")
	}
}

func TestPolicyShape(t *testing.T) {
	p := DefaultPolicies()
	for _, k := range []Kind{KindCashOut, KindWalletToWallet, KindWalletToMerchant, KindMerchantToMerchant, KindMerchantToWallet, KindATM} {
		if p[k].OTPPurpose == "" {
			t.Errorf("%s must require a code", k)
		}
	}
	if p[KindCashIn].OTPPurpose != "" || !p[KindCashIn].CreditsSource {
		t.Error("cash-in must credit without a code")
	}
	if !p[KindBNPL].Direct || !p[KindLoan].Direct || !p[KindPurchase].Direct {
		t.Error("bnpl, loan and purchase must be direct")
	}
}
