// Package importer turns uploaded booking CSV files into tariff
// transactions.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"stayledger/internal/domain/models"
	"stayledger/internal/service/books"
)

// Required CSV header columns, matched by exact name.
const (
	colDate        = "Date"
	colGuestName   = "GuestName"
	colNights      = "Nights"
	colDailyTariff = "DailyTariff"
)

// ErrMissingHeader is returned when the CSV header row lacks a required
// column.
var ErrMissingHeader = errors.New("csv is missing a required header column")

// Result reports how an import went. Skipped rows are not errors: invalid
// rows are dropped silently by contract.
type Result struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Service parses booking exports and persists them as tariff transactions.
type Service struct {
	books  *books.Service
	logger *zap.Logger
}

// NewService wires a CSV import service.
func NewService(books *books.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{books: books, logger: logger}
}

// ImportTariffCSV reads a CSV with the header
// Date,GuestName,Nights,DailyTariff and creates one tariff transaction per
// valid row. Rows with an unparseable date or a missing guest, nights or
// tariff value are skipped without failing the import.
func (s *Service) ImportTariffCSV(ctx context.Context, unitID string, r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Result{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colDate, colGuestName, colNights, colDailyTariff} {
		if _, ok := cols[required]; !ok {
			return Result{}, fmt.Errorf("%w: %s", ErrMissingHeader, required)
		}
	}

	var (
		result Result
		batch  []models.DailyTransaction
	)

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read csv row: %w", err)
		}

		field := func(name string) string {
			idx := cols[name]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}

		guest := field(colGuestName)
		nights := field(colNights)
		tariff := field(colDailyTariff)
		if guest == "" || nights == "" || tariff == "" {
			result.Skipped++
			continue
		}

		t, err := s.books.TariffTransaction(unitID, books.TariffInput{
			Date:        field(colDate),
			GuestName:   guest,
			Nights:      models.ParseNum(nights),
			DailyTariff: models.ParseNum(tariff),
		})
		if err != nil {
			result.Skipped++
			continue
		}

		batch = append(batch, t)
		result.Imported++
	}

	if err := s.books.AddTransactions(ctx, batch); err != nil {
		return Result{}, fmt.Errorf("persist import batch: %w", err)
	}

	s.logger.Info("csv import completed",
		zap.String("unit_id", unitID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))

	return result, nil
}
