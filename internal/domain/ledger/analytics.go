package ledger

import (
	"context"
	"math"
	"sort"
)

type CategorySpend struct {
	Category string
	Amount   int64
	Count    int
	Percent  float64
}

type SpendingReport struct {
	ContractID string
	TotalSpent int64
	Categories []CategorySpend
}

var knownCategories = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// SpendingByCategory groups outgoing amounts for contractID by category.
// Cash-ins and incoming transfers are not spending.
func (s *Service) SpendingByCategory(ctx context.Context, contractID string) (*SpendingReport, error) {
	if _, err := s.accounts.GetWalletByContractID(ctx, contractID); err != nil {
		return nil, err
	}
	txs, err := s.journal.ListByContract(ctx, contractID, 0)
	if err != nil {
		return nil, err
	}
	return summarizeSpending(contractID, txs), nil
}

func summarizeSpending(contractID string, txs []Transaction) *SpendingReport {
	report := &SpendingReport{ContractID: contractID, Categories: []CategorySpend{}}
	byCategory := make(map[string]*CategorySpend)

	for _, tx := range txs {
		if tx.Type.Credits() || tx.EffectOn(contractID) >= 0 {
			continue
		}
		category := tx.Category
		if !knownCategories[category] {
			category = CategoryOther
		}
		cs, ok := byCategory[category]
		if !ok {
			cs = &CategorySpend{Category: category}
			byCategory[category] = cs
		}
		cs.Amount += tx.Amount
		cs.Count++
		report.TotalSpent += tx.Amount
	}

	for _, cs := range byCategory {
		if report.TotalSpent > 0 {
			cs.Percent = math.Round(float64(cs.Amount)*1000/float64(report.TotalSpent)) / 10
		}
		report.Categories = append(report.Categories, *cs)
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		a, b := report.Categories[i], report.Categories[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})
	return report
}

type CategoryTotal struct {
	Category string
	Amount   int64
	Count    int
}

// TransactionSummary groups every record touching a wallet by category, in
// both directions.
type TransactionSummary struct {
	ContractID    string
	TotalSpent    int64
	TotalReceived int64
	Categories    []CategoryTotal
	Recent        []Transaction
}

// CategorySummary totals money in and out of contractID. Cash-ins and incoming
// transfers count as received; Recent holds the newest records, capped like
// ListTransactions.
func (s *Service) CategorySummary(ctx context.Context, contractID string) (*TransactionSummary, error) {
	if _, err := s.accounts.GetWalletByContractID(ctx, contractID); err != nil {
		return nil, err
	}
	txs, err := s.journal.ListByContract(ctx, contractID, 0)
	if err != nil {
		return nil, err
	}
	return summarizeTransactions(contractID, txs), nil
}

func summarizeTransactions(contractID string, txs []Transaction) *TransactionSummary {
	summary := &TransactionSummary{ContractID: contractID, Categories: []CategoryTotal{}}
	byCategory := make(map[string]*CategoryTotal)

	for _, tx := range txs {
		if tx.EffectOn(contractID) > 0 {
			summary.TotalReceived += tx.Amount
		} else {
			summary.TotalSpent += tx.Amount
		}

		category := tx.Category
		if !knownCategories[category] {
			category = CategoryOther
		}
		ct, ok := byCategory[category]
		if !ok {
			ct = &CategoryTotal{Category: category}
			byCategory[category] = ct
		}
		ct.Amount += tx.Amount
		ct.Count++
	}

	for _, ct := range byCategory {
		summary.Categories = append(summary.Categories, *ct)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})

	summary.Recent = txs
	if len(summary.Recent) > TransactionListLimit {
		summary.Recent = summary.Recent[:TransactionListLimit]
	}
	if summary.Recent == nil {
		summary.Recent = []Transaction{}
	}
	return summary
}
