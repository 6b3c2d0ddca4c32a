package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"commission-backend/internal/middleware"
	"commission-backend/internal/service"
	"commission-backend/pkg/response"
)

type TaxHandler struct {
	taxService service.TaxService
}

func NewTaxHandler(taxService service.TaxService) *TaxHandler {
	return &TaxHandler{taxService: taxService}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/tax")
	tax.Use(middleware.RequireAuth())
	{
		tax.GET("/config", h.GetConfig)
		tax.POST("/breakdown", h.Breakdown)
		tax.POST("/calculate", h.Calculate)
	}
}

// GetConfig returns the retention rates in percent
// @Summary      Tax configuration
// @Tags         tax
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.TaxConfigResponse}
// @Router       /api/tax/config [get]
func (h *TaxHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.taxService.Config()))
}

// Breakdown
// @Summary      Tax breakdown of a commission
// @Tags         tax
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.TaxBreakdownRequest  true  "Commission value"
// @Success      200      {object}  response.Response{data=commission.TaxBreakdown}
// @Failure      400      {object}  response.Response
// @Router       /api/tax/breakdown [post]
func (h *TaxHandler) Breakdown(c *gin.Context) {
	var req service.TaxBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.taxService.Breakdown(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Calculate converts between gross and net amounts
// @Summary      Gross/net calculator
// @Tags         tax
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.TaxCalculateRequest  true  "Amount, rate and direction"
// @Success      200      {object}  response.Response{data=service.TaxCalculateResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/tax/calculate [post]
func (h *TaxHandler) Calculate(c *gin.Context) {
	var req service.TaxCalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.taxService.Calculate(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
