package core

// NetWorth is the display-only capital figure: manual invested base plus
// investment-category transactions plus goal contributions. It is wider than
// the reserve balance on purpose; the reserve sub-score stays
// transaction-only (see reserveScore).
func NetWorth(txs []Transaction, cfg *ManualConfig, goals []Goal) Money {
	var total Money
	if cfg != nil {
		total.Cents += cfg.Invested.Cents
	}
	for _, tx := range txs {
		if NormalizeCategory(tx.Category) == CategoryInvestment {
			total.Cents += tx.Amount.Cents
		}
	}
	for _, g := range goals {
		total.Cents += g.Current.Cents
	}
	return total
}
