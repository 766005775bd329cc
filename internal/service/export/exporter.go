package export

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	repo "github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository/sheets"
)

const (
	transactionsRange = "Transactions!A:G"
	idColumnRange     = "Transactions!A:A"
	dateLayout        = "2006-01-02 15:04"
)

// Exporter mirrors the transaction log into a spreadsheet, one row per transaction line.
type Exporter struct {
	repo   repo.Repository
	logger *zap.Logger
}

// NewExporter wires a new exporter.
func NewExporter(repository repo.Repository, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{repo: repository, logger: logger}
}

// ExportTransactions appends the transactions whose id is not yet in column A and returns how many were exported.
// Rows are written oldest first so the sheet reads chronologically.
func (e *Exporter) ExportTransactions(ctx context.Context, data models.AppData) (int, error) {
	existing, err := e.exportedIDs(ctx)
	if err != nil {
		return 0, err
	}

	var rows [][]interface{}
	exported := 0
	for _, tx := range slices.Backward(data.Transactions) {
		if _, ok := existing[tx.ID]; ok || len(tx.Items) == 0 {
			continue
		}
		exported++
		for _, item := range tx.Items {
			rows = append(rows, []interface{}{
				tx.ID,
				tx.Date.UTC().Format(dateLayout),
				string(tx.Type),
				tx.ContactName,
				item.ProductName,
				item.Quantity,
				item.PriceAtTransaction.String(),
			})
		}
	}

	if len(rows) == 0 {
		e.logger.Debug("nothing to export")
		return 0, nil
	}
	if err := e.repo.AppendRows(ctx, transactionsRange, rows); err != nil {
		return 0, fmt.Errorf("export transactions: %w", err)
	}

	e.logger.Info("transactions exported", zap.Int("transactions", exported), zap.Int("rows", len(rows)))
	return exported, nil
}

func (e *Exporter) exportedIDs(ctx context.Context) (map[string]struct{}, error) {
	values, err := e.repo.ReadRange(ctx, idColumnRange)
	if err != nil {
		return nil, fmt.Errorf("load exported ids: %w", err)
	}
	ids := make(map[string]struct{}, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		ids[fmt.Sprint(row[0])] = struct{}{}
	}
	return ids, nil
}
