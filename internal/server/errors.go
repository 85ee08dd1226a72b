package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	calldomain "github.com/opsdesk/salesdesk/internal/call/domain"
	leaddomain "github.com/opsdesk/salesdesk/internal/lead/domain"
	offerdomain "github.com/opsdesk/salesdesk/internal/offer/domain"
	outcomedomain "github.com/opsdesk/salesdesk/internal/outcome/domain"
	"github.com/opsdesk/salesdesk/internal/providers/upstream"
	shiftdomain "github.com/opsdesk/salesdesk/internal/shift/domain"
	statsdomain "github.com/opsdesk/salesdesk/internal/stats/domain"
	teamdomain "github.com/opsdesk/salesdesk/internal/team/domain"
	trackingdomain "github.com/opsdesk/salesdesk/internal/tracking/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict           = errors.New("conflict")
	ErrInternal           = errors.New("internal_error")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrServiceUnavailable = errors.New("service_unavailable")
)

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
		c.Header("Content-Type", "application/json")
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

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

// classifyErrorForLog feeds the request logger a coarse bucket so slow
// query dashboards can split client mistakes from server faults.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "ok", payload.Type
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrServiceUnavailable),
		errors.Is(err, upstream.ErrMissingCredentials):
		return http.StatusServiceUnavailable, errorPayload{
			Type:    "service_unavailable",
			Message: "service unavailable",
		}
	case errors.Is(err, upstream.ErrUpstream):
		return http.StatusInternalServerError, errorPayload{
			Type:    "upstream_error",
			Message: "upstream service error",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isLeadValidationError(err),
		isCallValidationError(err),
		isOutcomeValidationError(err),
		isOfferValidationError(err),
		isTeamValidationError(err),
		isShiftValidationError(err),
		isStatsValidationError(err),
		errors.Is(err, trackingdomain.ErrMissingFBCLID):
		return true
	default:
		return false
	}
}

func isLeadValidationError(err error) bool {
	return errors.Is(err, leaddomain.ErrInvalidContact) ||
		errors.Is(err, leaddomain.ErrInvalidID)
}

func isCallValidationError(err error) bool {
	return errors.Is(err, calldomain.ErrInvalidLead) ||
		errors.Is(err, calldomain.ErrInvalidDates) ||
		errors.Is(err, calldomain.ErrInvalidID)
}

func isOutcomeValidationError(err error) bool {
	return errors.Is(err, outcomedomain.ErrInvalidCall) ||
		errors.Is(err, outcomedomain.ErrInvalidOutcome)
}

func isOfferValidationError(err error) bool {
	return errors.Is(err, offerdomain.ErrInvalidName) ||
		errors.Is(err, offerdomain.ErrInvalidCommission) ||
		errors.Is(err, offerdomain.ErrInvalidID)
}

func isTeamValidationError(err error) bool {
	return errors.Is(err, teamdomain.ErrInvalidName) ||
		errors.Is(err, teamdomain.ErrInvalidID)
}

func isShiftValidationError(err error) bool {
	return errors.Is(err, shiftdomain.ErrInvalidSetter) ||
		errors.Is(err, shiftdomain.ErrInvalidDate) ||
		errors.Is(err, shiftdomain.ErrInvalidTime) ||
		errors.Is(err, shiftdomain.ErrInvalidDay) ||
		errors.Is(err, shiftdomain.ErrInvalidID)
}

func isStatsValidationError(err error) bool {
	return errors.Is(err, statsdomain.ErrInvalidWindow) ||
		errors.Is(err, statsdomain.ErrInvalidPreset)
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, calldomain.ErrNotFound),
		errors.Is(err, offerdomain.ErrNotFound),
		errors.Is(err, teamdomain.ErrNotFound),
		errors.Is(err, shiftdomain.ErrNotFound),
		errors.Is(err, outcomedomain.ErrCallNotFound),
		errors.Is(err, outcomedomain.ErrOfferNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if strings.HasPrefix(code, "missing_") {
		return strings.TrimPrefix(code, "missing_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "missing_fbclid":
		return "fbclid is required"
	default:
		return "invalid value"
	}
}
