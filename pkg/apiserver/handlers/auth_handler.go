package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/innovatech/employee-portal/pkg/metrics"
	"github.com/innovatech/employee-portal/pkg/store"
)

type AuthHandler struct {
	employees     store.EmployeeStore
	credentials   store.CredentialStore
	allowedEmails []string
	logger        *zap.Logger
}

func NewAuthHandler(employees store.EmployeeStore, credentials store.CredentialStore, allowedEmails []string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		employees:     employees,
		credentials:   credentials,
		allowedEmails: allowedEmails,
		logger:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login is stateless: no session, token or cookie is issued, every call
// re-validates the credential.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if len(h.allowedEmails) > 0 && !h.emailAllowed(req.Email) {
		metrics.LoginsTotal.WithLabelValues("forbidden").Inc()
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	ctx := c.Request.Context()
	employee, err := h.employees.FindByEmail(ctx, req.Email)
	if err == store.ErrNotFound {
		h.unauthorized(c)
		return
	}
	if err != nil {
		h.logger.Error("failed to resolve employee for login", zap.Error(err))
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	credential, err := h.credentials.ByEmployeeID(ctx, employee.EmployeeID)
	if err == store.ErrNotFound {
		credential, err = h.credentials.ByEmail(ctx, req.Email)
	}
	if err == store.ErrNotFound {
		h.unauthorized(c)
		return
	}
	if err != nil {
		h.logger.Error("failed to resolve credential for login", zap.Error(err))
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	if credential.Password != req.Password {
		h.unauthorized(c)
		return
	}

	name := employee.Name
	if name == "" {
		name = emailLocalPart(req.Email)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, gin.H{"email": req.Email, "name": name})
}

func (h *AuthHandler) emailAllowed(email string) bool {
	email = strings.ToLower(email)
	for _, allowed := range h.allowedEmails {
		if email == allowed {
			return true
		}
	}
	return false
}

// unauthorized responds identically for unknown employee, missing
// credential and password mismatch so callers cannot enumerate users.
func (h *AuthHandler) unauthorized(c *gin.Context) {
	metrics.LoginsTotal.WithLabelValues("unauthorized").Inc()
	c.JSON(http.StatusUnauthorized, gin.H{"error": "login failed"})
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
