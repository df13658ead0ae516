// Package problem implements the RFC 7807 Problem Details envelope used for
// every 4xx/5xx response. Handlers are the only callers; services never shape
// wire errors themselves.
package problem

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Problem type tags. These are stable API contract values.
const (
	TypeValidation     = "validation_error"
	TypeAuthentication = "authentication_error"
	TypeNotFound       = "not_found"
	TypeConflict       = "conflict"
	TypeDatabase       = "database_error"
	TypeInternal       = "internal_error"
)

// Details is the RFC 7807 response body.
type Details struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

func respond(c *gin.Context, status int, problemType, title, detail string) {
	c.AbortWithStatusJSON(status, Details{
		Type:     problemType,
		Title:    title,
		Status:   status,
		Detail:   detail,
		Instance: c.Request.URL.Path,
	})
}

// Validation sends a 400 validation_error response.
func Validation(c *gin.Context, detail string) {
	respond(c, http.StatusBadRequest, TypeValidation, "Validation Error", detail)
}

// Unauthorized sends a 401 authentication_error response.
func Unauthorized(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Authentication required"
	}
	c.Header("WWW-Authenticate", "Bearer")
	respond(c, http.StatusUnauthorized, TypeAuthentication, "Unauthorized", detail)
}

// NotFound sends a 404 not_found response.
func NotFound(c *gin.Context, detail string) {
	if detail == "" {
		detail = "Resource not found"
	}
	respond(c, http.StatusNotFound, TypeNotFound, "Not Found", detail)
}

// Conflict sends a 409 conflict response.
func Conflict(c *gin.Context, detail string) {
	respond(c, http.StatusConflict, TypeConflict, "Conflict", detail)
}

// Database sends a 500 database_error response without leaking driver detail.
func Database(c *gin.Context) {
	respond(c, http.StatusInternalServerError, TypeDatabase, "Internal Server Error",
		"A database error occurred. Please try again later.")
}

// Internal sends a generic 500 internal_error response.
func Internal(c *gin.Context) {
	respond(c, http.StatusInternalServerError, TypeInternal, "Internal Server Error",
		"An unexpected error occurred. Please try again later.")
}
