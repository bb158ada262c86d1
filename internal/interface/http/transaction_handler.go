package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/moneta-app/moneta-server/internal/application"
	"github.com/moneta-app/moneta-server/internal/domain/entity"
	"github.com/moneta-app/moneta-server/internal/domain/repository"
	"github.com/moneta-app/moneta-server/internal/interface/middleware"
	"github.com/moneta-app/moneta-server/pkg/helpers"
	"github.com/moneta-app/moneta-server/pkg/response"
	"github.com/moneta-app/moneta-server/pkg/validation"
)

type TransactionHandler struct {
	Svc    *application.TransactionService
	Logger *logrus.Logger
}

func NewTransactionHandler(svc *application.TransactionService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Logger: logger}
}

type recurringPayload struct {
	Enabled   bool   `json:"enabled"`
	Frequency string `json:"frequency"`
}

type createTransactionRequest struct {
	Title     string            `json:"title"`
	Amount    *decimal.Decimal  `json:"amount"`
	Type      string            `json:"type"`
	Category  string            `json:"category"`
	Date      string            `json:"date"`
	Notes     string            `json:"notes"`
	Recurring *recurringPayload `json:"recurring"`
}

type updateTransactionRequest struct {
	Title     *string           `json:"title"`
	Amount    *decimal.Decimal  `json:"amount"`
	Type      *string           `json:"type"`
	Category  *string           `json:"category"`
	Date      *string           `json:"date"`
	Notes     *string           `json:"notes"`
	Recurring *recurringPayload `json:"recurring"`
}

func transactionJSON(t *entity.Transaction) gin.H {
	return gin.H{
		"id":       t.ID,
		"title":    t.Title,
		"amount":   t.Amount,
		"type":     t.Type,
		"category": t.Category,
		"date":     helpers.FormatDate(t.Date),
		"notes":    t.Notes,
		"recurring": gin.H{
			"enabled":   t.Recurring.Enabled,
			"frequency": t.Recurring.Frequency,
		},
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}
}

func (h *TransactionHandler) fail(c *gin.Context, err error) {
	var ve *application.ValidationError
	switch {
	case errors.As(err, &ve):
		response.Error(c, http.StatusBadRequest, response.KindValidation, "invalid payload", ve.Fields)
	case errors.Is(err, repository.ErrNotFound):
		response.Error(c, http.StatusNotFound, response.KindNotFound, "transaction not found", nil)
	default:
		h.Logger.WithError(err).Error("transaction operation failed")
		response.Error(c, http.StatusInternalServerError, response.KindInternal, "unexpected error", nil)
	}
}

// dateFilters parses optional start/end query params, reporting every
// malformed one before any query runs.
func dateFilters(c *gin.Context) (start, end *time.Time, details map[string]string) {
	details = map[string]string{}
	if s := c.Query("start"); s != "" {
		d, err := helpers.ParseDate(s)
		if err != nil {
			details["start"] = "must be a valid date (YYYY-MM-DD)"
		} else {
			start = &d
		}
	}
	if e := c.Query("end"); e != "" {
		d, err := helpers.ParseDate(e)
		if err != nil {
			details["end"] = "must be a valid date (YYYY-MM-DD)"
		} else {
			end = &d
		}
	}
	return start, end, details
}

// List GET /api/transactions?category=&start=&end=
func (h *TransactionHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	start, end, details := dateFilters(c)
	if len(details) > 0 {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "invalid filters", details)
		return
	}
	filter := repository.TransactionFilter{
		Category: c.Query("category"),
		Start:    start,
		End:      end,
	}

	res, err := h.Svc.List(c.Request.Context(), uid, filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, t := range res.Items {
		items = append(items, transactionJSON(t))
	}
	response.Success(c, http.StatusOK, gin.H{
		"items": items,
		"totals": gin.H{
			"income":  res.Totals.Income,
			"expense": res.Totals.Expense,
			"balance": res.Totals.Balance,
		},
	}, "transactions", nil)
}

// Breakdown GET /api/transactions/breakdown?start=&end=
func (h *TransactionHandler) Breakdown(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	start, end, details := dateFilters(c)
	if len(details) > 0 {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "invalid filters", details)
		return
	}

	rows, err := h.Svc.Breakdown(c.Request.Context(), uid, start, end)
	if err != nil {
		h.fail(c, err)
		return
	}
	items := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		items = append(items, gin.H{"category": r.Category, "total": r.Total})
	}
	response.Success(c, http.StatusOK, gin.H{"items": items}, "expense breakdown", nil)
}

// Get GET /api/transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	t, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, transactionJSON(t), "transaction", nil)
}

// Create POST /api/transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.CreateTransactionInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Date:     req.Date,
		Notes:    req.Notes,
	}
	if req.Recurring != nil {
		in.Recurring = &application.RecurringInput{Enabled: req.Recurring.Enabled, Frequency: req.Recurring.Frequency}
	}
	t, err := h.Svc.Create(c.Request.Context(), uid, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, transactionJSON(t), "transaction created", nil)
}

// Update PUT /api/transactions/:id
func (h *TransactionHandler) Update(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.KindValidation, "invalid payload", validation.ToDetails(err))
		return
	}
	in := application.UpdateTransactionInput{
		Title:    req.Title,
		Amount:   req.Amount,
		Type:     req.Type,
		Category: req.Category,
		Date:     req.Date,
		Notes:    req.Notes,
	}
	if req.Recurring != nil {
		in.Recurring = &application.RecurringInput{Enabled: req.Recurring.Enabled, Frequency: req.Recurring.Frequency}
	}
	t, err := h.Svc.Update(c.Request.Context(), uid, c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, transactionJSON(t), "transaction updated", nil)
}

// Delete DELETE /api/transactions/:id
func (h *TransactionHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"success": true}, "transaction deleted", nil)
}
