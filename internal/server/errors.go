package server

import (
	"errors"
	"net/http"

	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	dashboarddomain "github.com/cchamangwana/platforms/internal/dashboard/domain"
	expensedomain "github.com/cchamangwana/platforms/internal/expense/domain"
	invoicedomain "github.com/cchamangwana/platforms/internal/invoice/domain"
	paymentdomain "github.com/cchamangwana/platforms/internal/payment/domain"
	tenantdomain "github.com/cchamangwana/platforms/internal/tenant/domain"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/cchamangwana/platforms/pkg/db/repository"
	"github.com/gin-gonic/gin"
)

// apiError pairs an HTTP status with a stable machine-readable message.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

var (
	ErrNotFound           = &apiError{Status: http.StatusNotFound, Message: "not_found"}
	ErrServiceUnavailable = &apiError{Status: http.StatusServiceUnavailable, Message: "service_unavailable"}
	ErrTooManyRequests    = &apiError{Status: http.StatusTooManyRequests, Message: "rate_limited"}
)

func invalidRequestError() *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: "invalid_request"}
}

func newValidationError(message string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: message}
}

// Validation failures map to 400, missing records to 404, business rule
// violations to 409, everything else to 500. The body is always
// {"error": <message>}.
var (
	validationErrors = []error{
		tenantdomain.ErrInvalidSlug,
		tenantdomain.ErrInvalidName,
		clientdomain.ErrInvalidName,
		clientdomain.ErrInvalidEmail,
		invoicedomain.ErrInvalidStatus,
		invoicedomain.ErrMissingLineItems,
		invoicedomain.ErrInvalidLineItem,
		invoicedomain.ErrInvalidDates,
		invoicedomain.ErrInvalidTaxRate,
		invoicedomain.ErrInvalidDiscount,
		invoicedomain.ErrDiscountExceedsTotal,
		paymentdomain.ErrInvalidAmount,
		paymentdomain.ErrInvalidMethod,
		paymentdomain.ErrInvalidPaymentDate,
		expensedomain.ErrInvalidDescription,
		expensedomain.ErrInvalidCategory,
		expensedomain.ErrInvalidAmount,
		dashboarddomain.ErrInvalidRange,
	}
	notFoundErrors = []error{
		tenantdomain.ErrTenantNotFound,
		clientdomain.ErrClientNotFound,
		invoicedomain.ErrInvoiceNotFound,
		invoicedomain.ErrClientNotFound,
		invoicedomain.ErrCompanyNotFound,
		invoicedomain.ErrProjectNotFound,
		expensedomain.ErrExpenseNotFound,
		tenantcontext.ErrNoTenant,
	}
	conflictErrors = []error{
		paymentdomain.ErrAmountExceedsBalance,
		invoicedomain.ErrInvalidTransition,
		invoicedomain.ErrNumberAlreadyUsed,
		tenantdomain.ErrSlugAlreadyUsed,
		repository.ErrMissingTenant,
	}
)

func statusFor(err error) int {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return http.StatusNotFound
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

// AbortWithError terminates the request with the JSON error envelope.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api.Message})
		return
	}

	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Storage errors stay out of client responses.
		message = "internal_error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
