package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/pagination"
	"mykhata/internal/services"
)

// TransactionHandler handles transaction-related requests.
type TransactionHandler struct {
	ledgerService services.LedgerServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerService services.LedgerServicer) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// CreateTransactionRequest represents the request payload for creating a transaction
type CreateTransactionRequest struct {
	Date     string           `json:"date" example:"2024-04-01"`
	Type     string           `json:"type" binding:"required,transaction_type" example:"Expense"`
	Category string           `json:"category" binding:"max=100" example:"Food"`
	Amount   *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number" example:"250.50"`
	Note     string           `json:"note" binding:"max=500"`
}

// CreateTransaction records a transaction for the logged-in user
// @Summary     Add a transaction
// @Description Append an Income, Expense, Loan or EMI entry to the caller's ledger. A missing date means today.
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseFlexibleTime(req.Date)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	tx, err := h.ledgerService.AddTransaction(sess, services.TransactionInput{
		Date:     date,
		Type:     req.Type,
		Category: req.Category,
		Amount:   *req.Amount,
		Note:     req.Note,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"transaction": tx})
}

// ListTransactions returns the caller's ledger, or a sub-user's
// @Summary     List transactions
// @Description Get a paginated list of transactions in the order they were recorded, with optional filters
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       owner     query string false "Sub-user whose ledger to read (default: caller)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       from_date query string false "Filter by start date (YYYY-MM-DD)"
// @Param       to_date   query string false "Filter by end date (YYYY-MM-DD)"
// @Param       type      query string false "Filter by transaction type (Income, Expense, Loan, EMI)"
// @Param       category  query string false "Filter by category"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Paginated transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Owner is not a sub-user of the caller"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	sess, err := getSession(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.ledgerService.ListTransactions(sess, c.Query("owner"), page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
