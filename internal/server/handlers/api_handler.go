package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stayledger/internal/domain/models"
	"stayledger/internal/repository/mongodb"
	"stayledger/internal/service/assistant"
	"stayledger/internal/service/books"
	"stayledger/internal/service/importer"
)

// APIHandler adapts the bookkeeping services to the JSON API.
type APIHandler struct {
	books       *books.Service
	importer    *importer.Service
	assistant   *assistant.Service
	projections *books.ProjectionBuffer
	view        *books.LiveView
	logger      *zap.Logger
}

// NewAPIHandler constructs the HTTP handler adapter.
func NewAPIHandler(booksSvc *books.Service, importerSvc *importer.Service, assistantSvc *assistant.Service, projections *books.ProjectionBuffer, view *books.LiveView, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		books:       booksSvc,
		importer:    importerSvc,
		assistant:   assistantSvc,
		projections: projections,
		view:        view,
		logger:      logger,
	}
}

// CreateUnit registers a new rental property.
func (h *APIHandler) CreateUnit(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	unit, err := h.books.CreateUnit(c.Request.Context(), req.Name)
	if err != nil {
		h.fail(c, "failed to create unit", err)
		return
	}
	c.JSON(http.StatusCreated, unit)
}

// ListUnits returns the owner's units.
func (h *APIHandler) ListUnits(c *gin.Context) {
	units, err := h.books.Units(c.Request.Context())
	if err != nil {
		h.fail(c, "failed to list units", err)
		return
	}
	if units == nil {
		units = []models.Unit{}
	}
	c.JSON(http.StatusOK, units)
}

// ListCapitalExpenses returns a unit's capital expense records.
func (h *APIHandler) ListCapitalExpenses(c *gin.Context) {
	items, err := h.books.CapitalExpenses(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		h.fail(c, "failed to list capital expenses", err)
		return
	}
	if items == nil {
		items = []models.CapitalExpense{}
	}
	c.JSON(http.StatusOK, items)
}

// CreateCapitalExpense records a new capital expenditure.
func (h *APIHandler) CreateCapitalExpense(c *gin.Context) {
	var in books.CapitalExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capital expense payload"})
		return
	}

	item, err := h.books.AddCapitalExpense(c.Request.Context(), c.Param("unitID"), in)
	if err != nil {
		h.fail(c, "failed to create capital expense", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateCapitalExpense replaces the editable fields of a record.
func (h *APIHandler) UpdateCapitalExpense(c *gin.Context) {
	var in books.CapitalExpenseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid capital expense payload"})
		return
	}

	item, err := h.books.UpdateCapitalExpense(c.Request.Context(), c.Param("unitID"), c.Param("id"), in)
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "capital expense not found"})
		return
	}
	if err != nil {
		h.fail(c, "failed to update capital expense", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteCapitalExpense removes a record.
func (h *APIHandler) DeleteCapitalExpense(c *gin.Context) {
	err := h.books.DeleteCapitalExpense(c.Request.Context(), c.Param("id"))
	if errors.Is(err, mongodb.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "capital expense not found"})
		return
	}
	if err != nil {
		h.fail(c, "failed to delete capital expense", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListTransactions returns a unit's daily transactions, optionally filtered
// to one month of the financial year via ?month=.
func (h *APIHandler) ListTransactions(c *gin.Context) {
	ts, err := h.books.Transactions(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		h.fail(c, "failed to list transactions", err)
		return
	}

	if month := c.Query("month"); month != "" {
		filtered := make([]models.DailyTransaction, 0, len(ts))
		for _, t := range ts {
			if t.MonthYear == month {
				filtered = append(filtered, t)
			}
		}
		ts = filtered
	}
	if ts == nil {
		ts = []models.DailyTransaction{}
	}
	c.JSON(http.StatusOK, ts)
}

// CreateTariff records a guest-stay income entry.
func (h *APIHandler) CreateTariff(c *gin.Context) {
	var in books.TariffInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tariff payload"})
		return
	}

	t, err := h.books.AddTariff(c.Request.Context(), c.Param("unitID"), in)
	if errors.Is(err, books.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable date"})
		return
	}
	if err != nil {
		h.fail(c, "failed to create tariff entry", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// CreateTransaction records a non-tariff income or expense entry.
func (h *APIHandler) CreateTransaction(c *gin.Context) {
	var in books.OtherTransactionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction payload"})
		return
	}

	t, err := h.books.AddTransaction(c.Request.Context(), c.Param("unitID"), in)
	if errors.Is(err, books.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable date"})
		return
	}
	if err != nil {
		h.fail(c, "failed to create transaction", err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// ImportCSV ingests a booking CSV upload as tariff transactions.
func (h *APIHandler) ImportCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "csv file upload is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.fail(c, "failed to open csv upload", err)
		return
	}
	defer file.Close()

	result, err := h.importer.ImportTariffCSV(c.Request.Context(), c.Param("unitID"), file)
	if errors.Is(err, importer.ErrMissingHeader) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.fail(c, "failed to import csv", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListProjections returns the stored projection records for a unit.
func (h *APIHandler) ListProjections(c *gin.Context) {
	ps, err := h.books.Projections(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		h.fail(c, "failed to list projections", err)
		return
	}
	if ps == nil {
		ps = []models.MonthlyProjection{}
	}
	c.JSON(http.StatusOK, ps)
}

// SaveProjection buffers a projection edit; the buffer persists it after
// the quiescence interval. Clients call FlushProjections when navigating
// away.
func (h *APIHandler) SaveProjection(c *gin.Context) {
	var p models.MonthlyProjection
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid projection payload"})
		return
	}
	if !h.books.ValidMonth(p.Month) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month is not part of the financial year"})
		return
	}

	p.UnitID = c.Param("unitID")
	h.projections.Put(p)
	c.Status(http.StatusAccepted)
}

// FlushProjections persists all buffered projection edits immediately.
func (h *APIHandler) FlushProjections(c *gin.Context) {
	if err := h.projections.Flush(c.Request.Context()); err != nil {
		h.fail(c, "failed to flush projections", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MonthlySummary returns the 12-row actuals table and year totals.
func (h *APIHandler) MonthlySummary(c *gin.Context) {
	rows, totals, err := h.books.MonthlySummary(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		h.fail(c, "failed to compute monthly summary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": rows, "yearTotal": totals})
}

// ProjectionSummary returns the 12-row projection table and year totals.
func (h *APIHandler) ProjectionSummary(c *gin.Context) {
	rows, totals, err := h.books.ProjectionSummary(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		h.fail(c, "failed to compute projection summary", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"months": rows, "yearTotal": totals})
}

// CapitalSummary returns the capital expense totals.
func (h *APIHandler) CapitalSummary(c *gin.Context) {
	totals, err := h.books.CapitalSummary(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		h.fail(c, "failed to compute capital totals", err)
		return
	}
	c.JSON(http.StatusOK, totals)
}

// ROI returns the return-on-investment report. When no capital actuals
// exist the report carries measured=false and the note explains that ROI is
// not yet meaningful.
func (h *APIHandler) ROI(c *gin.Context) {
	report, err := h.books.ROI(c.Request.Context(), c.Param("unitID"))
	if err != nil {
		h.fail(c, "failed to compute roi", err)
		return
	}

	resp := gin.H{"report": report}
	if !report.Measured {
		resp["note"] = "ROI cannot be calculated until capital expense actuals are added."
	}
	c.JSON(http.StatusOK, resp)
}

// Chat answers a free-text question about the unit's finances. Assistant
// failures surface as an in-conversation reply, never as an error status.
func (h *APIHandler) Chat(c *gin.Context) {
	var req struct {
		Question string `json:"question" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	reply, err := h.assistant.Ask(c.Request.Context(), c.Param("unitID"), req.Question)
	if err != nil {
		h.logger.Warn("assistant failure", zap.Error(err), zap.String("unit_id", c.Param("unitID")))
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// SelectViewUnit switches the live dashboard view to a unit, tearing down
// the previous unit's subscriptions first.
func (h *APIHandler) SelectViewUnit(c *gin.Context) {
	var req struct {
		UnitID string `json:"unitId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unitId is required"})
		return
	}

	if err := h.view.SelectUnit(c.Request.Context(), req.UnitID); err != nil {
		h.fail(c, "failed to select unit", err)
		return
	}
	c.JSON(http.StatusOK, h.view.Snapshot())
}

// View returns the current live dashboard state.
func (h *APIHandler) View(c *gin.Context) {
	c.JSON(http.StatusOK, h.view.Snapshot())
}

func (h *APIHandler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err), zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
