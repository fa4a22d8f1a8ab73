package creditscore

import "testing"

func TestCompute(t *testing.T) {
	cases := []struct {
		name  string
		in    Inputs
		score int
		grade string
	}{
		{"new user", Inputs{}, 600, GradeBuilding},
		{"age capped", Inputs{AccountAgeMonths: 100}, 650, GradeFair},
		{"transactions capped", Inputs{TransactionCount: 30}, 680, GradeFair},
		{"balance floors", Inputs{TotalBalance: 99999}, 601, GradeBuilding},
		{"balance capped", Inputs{TotalBalance: 100_000_00}, 640, GradeBuilding},
		{"plans", Inputs{CompletedPlans: 2, TotalPlans: 3}, 620, GradeBuilding},
		{"good", Inputs{AccountAgeMonths: 12, TransactionCount: 10, TotalBalance: 12500_00}, 689, GradeFair},
		{"clamped", Inputs{AccountAgeMonths: 50, TransactionCount: 50, TotalBalance: 1_000_000_00, CompletedPlans: 10}, 850, GradeExcellent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Compute(tc.in)
			if s.Score != tc.score || s.Grade != tc.grade {
				t.Fatalf("got %d %s, want %d %s", s.Score, s.Grade, tc.score, tc.grade)
			}
		})
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	in := Inputs{AccountAgeMonths: 7, TransactionCount: 9, TotalBalance: 875000, CompletedPlans: 1, TotalPlans: 2}
	a, b := Compute(in), Compute(in)
	if a.Score != b.Score || a.Factors != b.Factors || a.Eligibility != b.Eligibility || len(a.Insights) != len(b.Insights) {
		t.Fatalf("snapshots differ: %+v vs %+v", a, b)
	}
	for i := range a.Insights {
		if a.Insights[i] != b.Insights[i] {
			t.Fatalf("insights differ: %v vs %v", a.Insights, b.Insights)
		}
	}
}

func TestGradeBands(t *testing.T) {
	cases := map[int]string{649: GradeBuilding, 650: GradeFair, 699: GradeFair, 700: GradeGood, 749: GradeGood, 750: GradeExcellent}
	for score, want := range cases {
		if got := Grade(score); got != want {
			t.Errorf("Grade(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestEligibility(t *testing.T) {
	low := Compute(Inputs{})
	if low.Eligibility.CreditCard || low.Eligibility.PersonalLoan || low.Eligibility.BNPLLimit != 500000 {
		t.Fatalf("unexpected eligibility for 600: %+v", low.Eligibility)
	}

	// 600 + 50 + 40 = 690
	mid := Compute(Inputs{AccountAgeMonths: 25, TransactionCount: 10})
	if mid.Score != 690 || !mid.Eligibility.CreditCard || mid.Eligibility.PersonalLoan || mid.Eligibility.BNPLLimit != 690*5000 {
		t.Fatalf("unexpected eligibility for %d: %+v", mid.Score, mid.Eligibility)
	}

	high := Compute(Inputs{AccountAgeMonths: 25, TransactionCount: 20})
	if high.Score != 730 || !high.Eligibility.PersonalLoan {
		t.Fatalf("unexpected eligibility for %d: %+v", high.Score, high.Eligibility)
	}
}

func TestFactorsAndInsights(t *testing.T) {
	s := Compute(Inputs{TransactionCount: 2, TotalBalance: 50000, TotalPlans: 0})
	if s.Factors.PaymentHistory != 56 || s.Factors.TransactionDiversity != 40 || s.Factors.BNPLReliability != 50 {
		t.Fatalf("unexpected factors: %+v", s.Factors)
	}
	if s.Factors.CreditUtilization != 49.5 {
		t.Fatalf("credit utilization = %v", s.Factors.CreditUtilization)
	}
	want := []string{"Make more transactions to build your score", "Maintain a higher balance", "Try BNPL to build credit history"}
	for i := range want {
		if s.Insights[i] != want[i] {
			t.Fatalf("insights = %v", s.Insights)
		}
	}

	s = Compute(Inputs{TransactionCount: 8, TotalBalance: 200000, CompletedPlans: 2, TotalPlans: 2})
	if s.Factors.BNPLReliability != 90 || s.Insights[2] != "2 BNPL plans completed on time" || s.Insights[1] != "Healthy account balance" {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
}
