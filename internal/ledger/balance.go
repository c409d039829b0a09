package ledger

// BalancesOf folds the debt set into each identity's net position. Every
// unpaid debt adds its amount to the creditor and subtracts it from the
// debtor; paid debts contribute nothing. Identities with no unpaid debts have
// no entry, so callers treat a missing key as zero.
//
// The fold is commutative over debts: the result does not depend on ordering
// or on whether it is recomputed incrementally or from scratch.
func BalancesOf(debts []Debt) map[string]float64 {
	balances := make(map[string]float64)
	for _, d := range debts {
		if d.IsPaid {
			continue
		}
		balances[d.CreditorID] += d.Amount
		balances[d.DebtorID] -= d.Amount
	}
	return balances
}

// WithBalances returns a copy of friends with Balance populated from the debt
// set. Friends absent from the balance map get zero.
func WithBalances(friends []Friend, debts []Debt) []Friend {
	balances := BalancesOf(debts)
	out := make([]Friend, len(friends))
	for i, f := range friends {
		f.Balance = balances[f.ID]
		out[i] = f
	}
	return out
}

// DebtsInvolving filters debts to those where id is creditor or debtor. An
// empty id returns every debt.
func DebtsInvolving(debts []Debt, id string) []Debt {
	if id == "" {
		return debts
	}
	out := make([]Debt, 0, len(debts))
	for _, d := range debts {
		if d.Involves(id) {
			out = append(out, d)
		}
	}
	return out
}
