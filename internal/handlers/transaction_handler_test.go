package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/models"
	"mykhata/internal/pagination"
	"mykhata/internal/services"
	"mykhata/internal/session"
)

type mockLedgerService struct {
	addTransactionFn   func(sess session.Context, input services.TransactionInput) (*models.Transaction, error)
	listTransactionsFn func(sess session.Context, owner string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	loadTransactionsFn func(sess session.Context, owner string, filter services.TransactionFilter) ([]models.Transaction, error)
}

func (m *mockLedgerService) AddTransaction(sess session.Context, input services.TransactionInput) (*models.Transaction, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(sess, input)
	}
	return &models.Transaction{Owner: sess.Username, Amount: input.Amount}, nil
}

func (m *mockLedgerService) ListTransactions(sess session.Context, owner string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(sess, owner, page, filter)
	}
	resp := pagination.Slice([]models.Transaction{}, page)
	return &resp, nil
}

func (m *mockLedgerService) LoadTransactions(sess session.Context, owner string, filter services.TransactionFilter) ([]models.Transaction, error) {
	if m.loadTransactionsFn != nil {
		return m.loadTransactionsFn(sess, owner, filter)
	}
	return nil, nil
}

func setupTransactionRouter(svc services.LedgerServicer) *gin.Engine {
	h := NewTransactionHandler(svc)
	r := gin.New()
	r.POST("/transactions", injectSession("Asha"), h.CreateTransaction)
	r.GET("/transactions", injectSession("Asha"), h.ListTransactions)
	return r
}

func TestTransactionHandler_Create(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		svc := &mockLedgerService{
			addTransactionFn: func(sess session.Context, input services.TransactionInput) (*models.Transaction, error) {
				got = input
				return &models.Transaction{Owner: sess.Username, Type: models.TransactionTypeExpense, Amount: input.Amount}, nil
			},
		}

		rec := doRequest(setupTransactionRouter(svc), http.MethodPost, "/transactions",
			`{"date":"2024-04-01","type":"Expense","category":"Food","amount":"250.50"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Amount.Equal(decimal.RequireFromString("250.50")) {
			t.Errorf("expected amount 250.50, got %s", got.Amount)
		}
		if got.Date.Format(models.DateLayout) != "2024-04-01" {
			t.Errorf("expected parsed date, got %s", got.Date)
		}
	})

	t.Run("missing date is passed as zero", func(t *testing.T) {
		var got services.TransactionInput
		svc := &mockLedgerService{
			addTransactionFn: func(_ session.Context, input services.TransactionInput) (*models.Transaction, error) {
				got = input
				return &models.Transaction{}, nil
			},
		}

		rec := doRequest(setupTransactionRouter(svc), http.MethodPost, "/transactions", `{"type":"income","amount":5000}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if !got.Date.IsZero() {
			t.Errorf("expected zero date, got %s", got.Date)
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"unknown type", `{"type":"Transfer","amount":10}`},
		{"missing amount", `{"type":"Expense"}`},
		{"bad date", `{"type":"Expense","amount":10,"date":"yesterday"}`},
		{"non numeric amount", `{"type":"Expense","amount":"ten"}`},
	}
	for _, tt := range tests {
		t.Run("returns 400 for "+tt.name, func(t *testing.T) {
			rec := doRequest(setupTransactionRouter(&mockLedgerService{}), http.MethodPost, "/transactions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	t.Run("maps service errors", func(t *testing.T) {
		svc := &mockLedgerService{
			addTransactionFn: func(session.Context, services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidAmount
			},
		}

		rec := doRequest(setupTransactionRouter(svc), http.MethodPost, "/transactions", `{"type":"Expense","amount":-5}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})
}

func TestTransactionHandler_List(t *testing.T) {
	t.Run("passes owner page and filters", func(t *testing.T) {
		var (
			gotOwner  string
			gotPage   pagination.PageRequest
			gotFilter services.TransactionFilter
		)
		svc := &mockLedgerService{
			listTransactionsFn: func(_ session.Context, owner string, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				gotOwner, gotPage, gotFilter = owner, page, filter
				resp := pagination.Slice([]models.Transaction{{Owner: owner}}, page)
				return &resp, nil
			},
		}

		rec := doRequest(setupTransactionRouter(svc), http.MethodGet,
			"/transactions?owner=Anu&page=1&page_size=5&from_date=2024-01-01&to_date=2024-01-31&type=emi&category=Rent", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotOwner != "Anu" || gotPage.PageSize != 5 {
			t.Errorf("unexpected owner/page %q %+v", gotOwner, gotPage)
		}
		if gotFilter.Type == nil || *gotFilter.Type != models.TransactionTypeEMI {
			t.Errorf("expected EMI filter, got %v", gotFilter.Type)
		}
		if gotFilter.FromDate == nil || gotFilter.ToDate == nil || gotFilter.Category != "Rent" {
			t.Errorf("unexpected filter %+v", gotFilter)
		}
		if parseJSON(t, rec)["total_items"].(float64) != 1 {
			t.Error("expected total_items 1")
		}
	})

	t.Run("returns 400 for inverted date range", func(t *testing.T) {
		rec := doRequest(setupTransactionRouter(&mockLedgerService{}), http.MethodGet,
			"/transactions?from_date=2024-02-01&to_date=2024-01-01", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 400 for page size over limit", func(t *testing.T) {
		rec := doRequest(setupTransactionRouter(&mockLedgerService{}), http.MethodGet, "/transactions?page_size=500", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 403 for foreign owner", func(t *testing.T) {
		svc := &mockLedgerService{
			listTransactionsFn: func(session.Context, string, pagination.PageRequest, services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				return nil, apperrors.ErrForbidden
			},
		}

		rec := doRequest(setupTransactionRouter(svc), http.MethodGet, "/transactions?owner=Zed", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "FORBIDDEN")
	})
}
