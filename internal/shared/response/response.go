package response

import (
	"net/http"

	"inkdrop-backend/internal/shared/errs"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type Meta struct {
	Page  int `json:"page,omitempty"`
	Limit int `json:"limit,omitempty"`
	Total int `json:"total,omitempty"`
}

// Success responses
func Success(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(c *gin.Context, statusCode int, message string, data interface{}, meta *Meta) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, "FORBIDDEN", message)
}

// =====================================================
// DOMAIN ERROR MAPPING
// =====================================================

var kindStatus = map[errs.Kind]int{
	errs.KindValidation:   http.StatusBadRequest,
	errs.KindTooLarge:     http.StatusRequestEntityTooLarge,
	errs.KindUnauthorized: http.StatusUnauthorized,
	errs.KindForbidden:    http.StatusForbidden,
	errs.KindNotFound:     http.StatusNotFound,
	errs.KindConflict:     http.StatusConflict,
	errs.KindStorage:      http.StatusBadGateway,
	errs.KindInternal:     http.StatusInternalServerError,
}

// StatusFor returns the HTTP status for an error kind.
func StatusFor(kind errs.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// HandleError writes err as a JSON error envelope.
// Only the short client message leaves the process; the cause is logged.
func HandleError(c *gin.Context, err error) {
	appErr, ok := errs.As(err)
	if !ok {
		appErr = errs.Internal(err)
	}

	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError || appErr.Kind == errs.KindStorage {
		log.Error().
			Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Str("code", appErr.Code).
			Msg("Request failed")
	}

	if appErr.Field != "" {
		ErrorWithDetails(c, status, appErr.Code, appErr.Message, gin.H{"field": appErr.Field, "kind": appErr.Kind})
		return
	}
	ErrorWithDetails(c, status, appErr.Code, appErr.Message, gin.H{"kind": appErr.Kind})
}
