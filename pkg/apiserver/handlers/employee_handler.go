package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/innovatech/employee-portal/pkg/eventbus"
	"github.com/innovatech/employee-portal/pkg/metrics"
	"github.com/innovatech/employee-portal/pkg/model"
	"github.com/innovatech/employee-portal/pkg/store"
)

type EmployeeHandler struct {
	employees store.EmployeeStore
	publisher eventbus.Publisher
	logger    *zap.Logger
}

func NewEmployeeHandler(employees store.EmployeeStore, publisher eventbus.Publisher, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{employees: employees, publisher: publisher, logger: logger}
}

type employeeRequest struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required,email"`
	Department string `json:"department" binding:"required"`
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	employeeID, err := h.employees.Create(ctx, model.EmployeeInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		h.logger.Error("failed to create employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create employee"})
		return
	}

	event, err := eventbus.NewEvent(eventbus.DetailTypeEmployeeCreated, eventbus.EmployeeCreatedDetail{
		EmployeeID: employeeID,
		Email:      req.Email,
		Name:       req.Name,
		Department: req.Department,
	})
	if err == nil {
		err = h.publisher.Publish(ctx, employeeID, event)
	}
	if err != nil {
		// The record is already persisted; include the id so the caller
		// can reconcile.
		h.logger.Error("failed to publish employeeCreated event",
			zap.String("employee_id", employeeID), zap.Error(err))
		metrics.EventPublishFailures.WithLabelValues(eventbus.DetailTypeEmployeeCreated).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      fmt.Sprintf("event publish failed: %v", err),
			"employeeId": employeeID,
		})
		return
	}

	metrics.EmployeesCreated.Inc()
	c.JSON(http.StatusOK, gin.H{"employeeId": employeeID, "status": "CREATED"})
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	employee, err := h.employees.Get(c.Request.Context(), c.Param("id"))
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to get employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get employee"})
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) List(c *gin.Context) {
	employees, err := h.employees.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list employees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list employees"})
		return
	}

	c.JSON(http.StatusOK, employees)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	employeeID := c.Param("id")
	if _, err := h.employees.Get(ctx, employeeID); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		h.logger.Error("failed to load employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update employee"})
		return
	}

	employee, err := h.employees.Update(ctx, employeeID, model.EmployeeUpdate{
		Name:       &req.Name,
		Email:      &req.Email,
		Department: &req.Department,
	})
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to update employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update employee"})
		return
	}

	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.Param("id")

	employee, err := h.employees.Get(ctx, employeeID)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	if err != nil {
		h.logger.Error("failed to load employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete employee"})
		return
	}

	// Mark the record DELETING and emit an event so worker jobs clean up.
	deleting := model.EmployeeDeleting
	if _, err := h.employees.Update(ctx, employeeID, model.EmployeeUpdate{Status: &deleting}); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
			return
		}
		h.logger.Error("failed to mark employee for deletion", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete employee"})
		return
	}
	h.logger.Info("employee marked as deleting", zap.String("employee_id", employeeID))

	event, err := eventbus.NewEvent(eventbus.DetailTypeEmployeeDeleted, eventbus.EmployeeDeletedDetail{
		EmployeeID:  employeeID,
		Email:       employee.Email,
		Name:        employee.Name,
		Department:  employee.Department,
		WorkspaceID: employee.WorkspaceID,
		Action:      "delete",
	})
	if err == nil {
		err = h.publisher.Publish(ctx, employeeID, event)
	}
	if err != nil {
		h.logger.Error("failed to publish employeeDeleted event",
			zap.String("employee_id", employeeID), zap.Error(err))
		metrics.EventPublishFailures.WithLabelValues(eventbus.DetailTypeEmployeeDeleted).Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("event publish failed: %v", err),
		})
		return
	}

	metrics.EmployeesDeleted.Inc()
	c.JSON(http.StatusOK, gin.H{
		"deleted":    true,
		"employeeId": employeeID,
		"status":     string(model.EmployeeDeleting),
	})
}
