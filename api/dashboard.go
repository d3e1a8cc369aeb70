package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/render"
	"github.com/lehakot-create/LCT2023-13Case-Dash/internal/service/dashboard"
)

// SessionHeader carries the dashboard session between apply and table requests.
const SessionHeader = "X-Session-ID"

type DashboardHandler struct {
	service dashboard.DashboardUseCase
}

func NewDashboardHandler(service dashboard.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/health", h.health)
	router.GET("/options", h.options)
	router.POST("/apply", h.apply)
	router.GET("/table", h.table)
	router.GET("/state", h.state)
}

func (h *DashboardHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *DashboardHandler) options(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Options())
}

func (h *DashboardHandler) apply(c *gin.Context) {
	var sel dashboard.Selection
	if err := c.ShouldBindJSON(&sel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	c.Header(SessionHeader, sessionID)

	bundle, err := h.service.Apply(c.Request.Context(), sessionID, sel)
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, firstPage(bundle))
}

// firstPage trims the table to page 0; later pages are fetched from /table.
func firstPage(bundle *render.Bundle) *render.Bundle {
	if bundle == nil || bundle.Table == nil {
		return bundle
	}
	out := *bundle
	table := *bundle.Table
	table.Records = bundle.Table.Page(0)
	out.Table = &table
	return &out
}

func (h *DashboardHandler) table(c *gin.Context) {
	sessionID := c.GetHeader(SessionHeader)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing " + SessionHeader})
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}

	result, err := h.service.TablePage(sessionID, page)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *DashboardHandler) state(c *gin.Context) {
	sessionID := c.GetHeader(SessionHeader)
	c.JSON(http.StatusOK, gin.H{"state": h.service.State(sessionID)})
}
