package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "mykhata/internal/errors"
	"mykhata/internal/logger"
	"mykhata/internal/middleware"
	"mykhata/internal/models"
	"mykhata/internal/services"
	"mykhata/internal/session"
)

// getSession returns the logged-in session of the request.
// Returns ErrUnauthorized for anonymous requests.
func getSession(c *gin.Context) (session.Context, error) {
	sess := middleware.Session(c)
	if !sess.LoggedIn() {
		return sess, apperrors.ErrUnauthorized
	}
	return sess, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"request_id", middleware.RequestID(c),
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"request_id", middleware.RequestID(c),
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
}

// flexibleLayouts are tried in order by parseFlexibleTime.
var flexibleLayouts = []string{
	models.DateLayout,
	time.RFC3339,
	"02-01-2006",
	"02/01/2006",
}

// parseFlexibleTime accepts a bare date, an RFC3339 timestamp or a
// day-first date as typed in the forms.
func parseFlexibleTime(s string) (time.Time, error) {
	for _, layout := range flexibleLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
}

// parseTransactionFilter reads from_date, to_date, type and category.
func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid from_date format, use YYYY-MM-DD")
		}
		filter.FromDate = &t
	}

	if v := c.Query("to_date"); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid to_date format, use YYYY-MM-DD")
		}
		filter.ToDate = &t
	}

	if filter.FromDate != nil && filter.ToDate != nil && filter.FromDate.After(*filter.ToDate) {
		return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date must not be after to_date")
	}

	if v := c.Query("type"); v != "" {
		txType, ok := models.ParseTransactionType(v)
		if !ok {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.Type = &txType
	}

	filter.Category = c.Query("category")
	return filter, nil
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
