package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/numbering"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware maps domain sentinel errors to HTTP statuses
// after the handler chain ran. Handlers attach errors via AbortWithError
// and never write status codes themselves on failure.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, documentdomain.ErrInvalidID),
		errors.Is(err, documentdomain.ErrInvalidAmount),
		errors.Is(err, documentdomain.ErrOrphanItem),
		errors.Is(err, bankingdomain.ErrInvalidID),
		errors.Is(err, bankingdomain.ErrInvalidAmount):
		return http.StatusBadRequest, payload(err, "invalid request")

	case errors.Is(err, documentdomain.ErrNotFound),
		errors.Is(err, bankingdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, payload(err, "not found")

	case errors.Is(err, documentdomain.ErrNotDraft),
		errors.Is(err, documentdomain.ErrNotLocked),
		errors.Is(err, documentdomain.ErrInvalidTransition),
		errors.Is(err, documentdomain.ErrEmptyDocument),
		errors.Is(err, documentdomain.ErrMissingCustomer),
		errors.Is(err, companydomain.ErrMissingCompanyInfo),
		errors.Is(err, bankingdomain.ErrMissingBankAccount),
		errors.Is(err, bankingdomain.ErrNotCredit),
		errors.Is(err, bankingdomain.ErrNotDebit),
		errors.Is(err, bankingdomain.ErrOverAssociated):
		return http.StatusConflict, payload(err, "conflict")

	case errors.Is(err, bankingdomain.ErrUnknownProvider):
		return http.StatusServiceUnavailable, payload(err, "service unavailable")

	case errors.Is(err, numbering.ErrGenerationTimeout):
		return http.StatusGatewayTimeout, payload(err, "generation timed out")

	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func payload(err error, message string) errorPayload {
	return errorPayload{Type: err.Error(), Message: message}
}
