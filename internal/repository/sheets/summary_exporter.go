package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"stayledger/internal/config"
	"stayledger/internal/domain/models"
)

const summaryRange = "Summary!A:I"

// Exporter appends summary snapshots to an external spreadsheet so the
// owner keeps a history outside the database.
type Exporter interface {
	AppendSnapshot(ctx context.Context, snapshot models.SummarySnapshot) error
}

// GoogleSheetExporter implements Exporter using the official Google Sheets
// API.
type GoogleSheetExporter struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetExporter builds a Google Sheets backed exporter instance.
func NewGoogleSheetExporter(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (Exporter, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetExporter{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// AppendSnapshot appends one summary row per unit snapshot.
func (e *GoogleSheetExporter) AppendSnapshot(ctx context.Context, snapshot models.SummarySnapshot) error {
	roi := ""
	if snapshot.ROIMeasured {
		roi = fmt.Sprintf("%.2f%%", snapshot.ROI)
	}

	values := []interface{}{
		snapshot.CreatedAt.Format("2006-01-02"),
		snapshot.UnitName,
		snapshot.UnitID,
		snapshot.TotalIncome,
		snapshot.TotalExpenses,
		snapshot.NetProfit,
		snapshot.TotalCapital,
		roi,
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := e.service.Spreadsheets.Values.Append(e.spreadsheetID, summaryRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append summary row for unit %s: %w", snapshot.UnitID, err)
	}

	e.logger.Debug("summary row appended to sheet", zap.String("unit_id", snapshot.UnitID))
	return nil
}
