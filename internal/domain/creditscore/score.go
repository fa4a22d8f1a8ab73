package creditscore

import (
	"fmt"
	"math"
)

const (
	BaseScore = 600
	MaxScore  = 850

	creditCardThreshold   = 680
	personalLoanThreshold = 700
	bnplThreshold         = 650

	// BNPL limits in minor units.
	bnplLimitPerPoint = 50 * 100
	bnplFloorLimit    = 5000 * 100
)

const (
	GradeExcellent = "Excellent"
	GradeGood      = "Good"
	GradeFair      = "Fair"
	GradeBuilding  = "Building"
)

// Inputs is everything the score depends on. Balance is in minor units.
type Inputs struct {
	AccountAgeMonths int
	TransactionCount int
	TotalBalance     int64
	CompletedPlans   int
	TotalPlans       int
}

type Factors struct {
	PaymentHistory       float64 `json:"payment_history"`
	CreditUtilization    float64 `json:"credit_utilization"`
	AccountAge           float64 `json:"account_age"`
	TransactionDiversity float64 `json:"transaction_diversity"`
	SocialTrust          float64 `json:"social_trust"`
	BNPLReliability      float64 `json:"bnpl_reliability"`
}

type Eligibility struct {
	CreditCard   bool
	PersonalLoan bool
	BNPLLimit    int64
}

type Snapshot struct {
	Score       int
	Grade       string
	Factors     Factors
	Insights    []string
	Eligibility Eligibility
}

// Compute derives a snapshot from in. The same inputs always give the same snapshot.
func Compute(in Inputs) Snapshot {
	age := max(in.AccountAgeMonths, 0)
	txCount := max(in.TransactionCount, 0)
	balance := max(in.TotalBalance, 0)
	completed := max(in.CompletedPlans, 0)

	score := BaseScore
	score += min(age*2, 50)
	score += min(txCount*4, 80)
	score += int(min(balance/(500*100), 40))
	score += completed * 10
	score = min(score, MaxScore)

	balanceUnits := float64(balance) / 100

	s := Snapshot{
		Score: score,
		Grade: Grade(score),
		Factors: Factors{
			PaymentHistory:       math.Min(85, float64(50+txCount*3)),
			CreditUtilization:    math.Max(10, 50-balanceUnits/1000),
			AccountAge:           math.Min(100, float64(age*4)),
			TransactionDiversity: math.Min(80, float64(30+txCount*5)),
			SocialTrust:          math.Min(90, float64(60+completed*10)),
			BNPLReliability:      50,
		},
		Eligibility: Eligibility{
			CreditCard:   score >= creditCardThreshold,
			PersonalLoan: score >= personalLoanThreshold,
			BNPLLimit:    bnplFloorLimit,
		},
	}
	if completed > 0 {
		s.Factors.BNPLReliability = math.Min(100, float64(70+completed*10))
	}
	if score >= bnplThreshold {
		s.Eligibility.BNPLLimit = int64(score) * bnplLimitPerPoint
	}

	if txCount < 5 {
		s.Insights = append(s.Insights, "Make more transactions to build your score")
	} else {
		s.Insights = append(s.Insights, "Good transaction history")
	}
	if balance < 1000*100 {
		s.Insights = append(s.Insights, "Maintain a higher balance")
	} else {
		s.Insights = append(s.Insights, "Healthy account balance")
	}
	if in.TotalPlans == 0 {
		s.Insights = append(s.Insights, "Try BNPL to build credit history")
	} else {
		s.Insights = append(s.Insights, fmt.Sprintf("%d BNPL plans completed on time", completed))
	}

	return s
}

func Grade(score int) string {
	switch {
	case score >= 750:
		return GradeExcellent
	case score >= 700:
		return GradeGood
	case score >= 650:
		return GradeFair
	default:
		return GradeBuilding
	}
}
