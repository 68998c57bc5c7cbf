package handler

import (
	"fmt"
	"net/http"

	"github.com/VarunShelke/accessible-med-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

type MonitorHandler struct{ svc service.MonitorService }

func NewMonitorHandler(svc service.MonitorService) *MonitorHandler {
	return &MonitorHandler{svc: svc}
}

// Run handles POST /v1/monitor/run — the on-demand low-stock sweep.
// Notification failures are swallowed inside the sweep; only a scan failure
// reaches the client.
func (h *MonitorHandler) Run(c *gin.Context) {
	count, err := h.svc.Run(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         fmt.Sprintf("Checked inventory. Found %d low stock items.", count),
		"low_stock_count": count,
	})
}
