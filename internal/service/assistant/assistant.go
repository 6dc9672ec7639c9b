// Package assistant answers natural-language questions about a unit's
// finances through a hosted LLM, feeding it a compact snapshot of the raw
// records' rollups.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"stayledger/internal/domain/models"
	"stayledger/internal/service/aggregation"
	"stayledger/internal/service/books"
	"stayledger/pkg/clients/gemini"
)

// ErrDisabled is returned when no API key is configured. It is detected
// before any network call is attempted.
var ErrDisabled = errors.New("assistant disabled: no api key configured")

// User-visible replies for the two failure modes. The conversation stays
// usable either way; failures never propagate as raw errors to the user.
const (
	DisabledReply = "The AI assistant is not configured. Add a Gemini API key to enable it."
	FailureReply  = "Sorry, I'm having trouble connecting. Please check the API key and try again."
)

const promptTemplate = `You are a helpful financial assistant for an Airbnb host.
Analyze the following financial data for one of their rental properties and answer the user's question.
Provide concise, insightful answers based ONLY on the data provided. Format numbers as Indian Rupees (₹) where appropriate.

Here is the financial data in JSON format:
%s

User's Question: %q`

// CapitalExpenseSummary is the reduced capital-expense view handed to the
// model.
type CapitalExpenseSummary struct {
	Item          string  `json:"item"`
	ActualExpense float64 `json:"actualExpense"`
}

// Snapshot is the compact financial payload submitted with each question.
// Stored projections are included with their internal identifier fields
// stripped.
type Snapshot struct {
	CapitalExpenses    []CapitalExpenseSummary    `json:"capitalExpenses"`
	MonthlyActuals     []aggregation.MonthSummary `json:"monthlyActuals"`
	MonthlyProjections []models.MonthlyProjection `json:"monthlyProjections"`
}

// Service builds snapshots and relays questions to the LLM.
type Service struct {
	client gemini.Client
	books  *books.Service
	logger *zap.Logger
}

// NewService wires the assistant. A nil client produces a disabled assistant
// whose Ask short-circuits with a configuration warning.
func NewService(client gemini.Client, books *books.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, books: books, logger: logger}
}

// Enabled reports whether an API key was configured.
func (s *Service) Enabled() bool {
	return s.client != nil
}

// BuildSnapshot projects the raw record sets into the LLM payload.
func BuildSnapshot(months []string, capital []models.CapitalExpense, transactions []models.DailyTransaction, projections []models.MonthlyProjection) Snapshot {
	capEx := make([]CapitalExpenseSummary, 0, len(capital))
	for _, item := range capital {
		capEx = append(capEx, CapitalExpenseSummary{
			Item:          item.Item,
			ActualExpense: models.Num(item.ActualExpense),
		})
	}

	stripped := make([]models.MonthlyProjection, 0, len(projections))
	for _, p := range projections {
		p.ID = ""
		p.UnitID = ""
		p.OwnerID = ""
		p.LastUpdated = time.Time{}
		stripped = append(stripped, p)
	}

	return Snapshot{
		CapitalExpenses:    capEx,
		MonthlyActuals:     aggregation.MonthlyActuals(months, transactions),
		MonthlyProjections: stripped,
	}
}

// Ask answers a free-text question about one unit's finances. The returned
// string is always safe to show the user; the error (when non-nil) carries
// the distinguishable failure for logging.
func (s *Service) Ask(ctx context.Context, unitID, question string) (string, error) {
	if !s.Enabled() {
		return DisabledReply, ErrDisabled
	}

	capital, err := s.books.CapitalExpenses(ctx, unitID)
	if err != nil {
		return FailureReply, fmt.Errorf("load capital expenses: %w", err)
	}
	transactions, err := s.books.Transactions(ctx, unitID)
	if err != nil {
		return FailureReply, fmt.Errorf("load transactions: %w", err)
	}
	projections, err := s.books.Projections(ctx, unitID)
	if err != nil {
		return FailureReply, fmt.Errorf("load projections: %w", err)
	}

	snapshot := BuildSnapshot(s.books.Months(), capital, transactions, projections)
	payload, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return FailureReply, fmt.Errorf("marshal snapshot: %w", err)
	}

	prompt := fmt.Sprintf(promptTemplate, payload, question)

	answer, err := s.client.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("assistant request failed", zap.Error(err), zap.String("unit_id", unitID))
		return FailureReply, err
	}

	return answer, nil
}
