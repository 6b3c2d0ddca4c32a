package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"commission-backend/internal/middleware"
	"commission-backend/internal/service"
	"commission-backend/pkg/response"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/reports")
	group.Use(middleware.RequireAuth())
	{
		group.GET("/salespeople", h.GetSalespersonReport)
		group.GET("/tiers", h.GetTierDistribution)
	}
}

// GetSalespersonReport
// @Summary      Commission report per salesperson
// @Description  Combines approved sales and approved marketing packages. Salespeople only receive their own entry.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        from             query     string  false  "Sale date from (YYYY-MM-DD)"
// @Param        to               query     string  false  "Sale date to (YYYY-MM-DD)"
// @Param        reference_month  query     string  false  "Package month (YYYY-MM)"
// @Param        rate             query     string  false  "first_month (default) or continuity"
// @Success      200              {object}  response.Response{data=[]model.SalespersonReport}
// @Router       /api/reports/salespeople [get]
func (h *ReportHandler) GetSalespersonReport(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	reports, err := h.reportService.SalespersonReport(c.Request.Context(), a, service.ReportQuery{
		From:           c.Query("from"),
		To:             c.Query("to"),
		ReferenceMonth: c.Query("reference_month"),
		Rate:           c.Query("rate"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, reports))
}

// GetTierDistribution
// @Summary      Marketing packages per tier
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        reference_month  query     string  false  "YYYY-MM"
// @Success      200              {object}  response.Response{data=[]model.TierDistribution}
// @Router       /api/reports/tiers [get]
func (h *ReportHandler) GetTierDistribution(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	dist, err := h.reportService.TierDistribution(c.Request.Context(), a, c.Query("reference_month"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, dist))
}
