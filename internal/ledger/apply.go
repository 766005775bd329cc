// Package ledger applies committed transactions to the inventory state.
package ledger

import (
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

// Outcome reports what Apply could not do.
type Outcome struct {
	// SkippedLines holds the product ids of lines whose product is not in the catalogue.
	SkippedLines []string
}

// Apply returns a new state with tx at the head of the log and every line's quantity added
// (inward) or subtracted (outward) from its product's stock. state is not modified.
//
// Stock is not capped and applying the same transaction twice counts it twice.
// Lines referencing an unknown product have no stock effect; the transaction is still
// logged with its original total.
func Apply(state models.AppData, tx models.Transaction) (models.AppData, Outcome) {
	next := state.Clone()

	logged := tx
	logged.Items = append([]models.TransactionLine(nil), tx.Items...)
	next.Transactions = append([]models.Transaction{logged}, next.Transactions...)

	var outcome Outcome
	sign := tx.Type.Sign()
	for _, line := range tx.Items {
		if !next.AdjustStock(line.ProductID, sign*line.Quantity) {
			outcome.SkippedLines = append(outcome.SkippedLines, line.ProductID)
		}
	}
	return next, outcome
}
