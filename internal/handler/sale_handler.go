package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"commission-backend/internal/middleware"
	"commission-backend/internal/model"
	"commission-backend/internal/service"
	"commission-backend/pkg/pagination"
	"commission-backend/pkg/response"
)

type SaleHandler struct {
	saleService service.SaleService
}

func NewSaleHandler(saleService service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterRoutes binds the sale endpoints. Status changes and deletes are
// gated by the lifecycle policy, which reports capability and state problems together.
func (h *SaleHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/sales")
	{
		group.GET("", middleware.RequireAuth(), h.ListSales)
		group.GET("/stats", middleware.RequireAuth(), h.GetSaleStats)
		group.GET("/:id", middleware.RequireAuth(), h.GetSale)
		group.POST("", middleware.RequireCapability(model.CapCreateSale), h.CreateSale)
		group.PUT("/:id", middleware.RequireAuth(), h.UpdateSale)
		group.PATCH("/:id/status", middleware.RequireAuth(), h.ChangeSaleStatus)
		group.DELETE("/:id", middleware.RequireAuth(), h.DeleteSale)
	}
}

func saleQuery(c *gin.Context) service.SaleQuery {
	p := pagination.Parse(c)
	return service.SaleQuery{
		SalespersonID: c.Query("salesperson_id"),
		Status:        c.Query("status"),
		Search:        c.Query("search"),
		From:          c.Query("from"),
		To:            c.Query("to"),
		Page:          p.Page,
		Limit:         p.Limit,
	}
}

// CreateSale registers a sale and its pending commission
// @Summary      Create sale
// @Description  Validates the sale, computes net value, commission and retained taxes, and creates the pending commission record
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateSaleRequest  true  "Sale"
// @Success      201      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), a, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, sale))
}

// ListSales returns the caller's visible sales
// @Summary      List sales
// @Description  Salespeople only see their own sales. Ordered by sale date, newest first.
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        salesperson_id  query     string  false  "Salesperson ID"
// @Param        status          query     string  false  "pending, approved, paid or cancelled"
// @Param        search          query     string  false  "Client name or email"
// @Param        from            query     string  false  "Sale date from (YYYY-MM-DD)"
// @Param        to              query     string  false  "Sale date to (YYYY-MM-DD)"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Items per page (default 20)"
// @Success      200             {object}  response.Response{data=response.Page}
// @Router       /api/sales [get]
func (h *SaleHandler) ListSales(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	q := saleQuery(c)
	sales, total, err := h.saleService.ListSales(c.Request.Context(), a, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Params{Page: q.Page, Limit: q.Limit}.Wrap(sales, total)))
}

// GetSaleStats summarizes the filtered sales
// @Summary      Sale statistics
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        salesperson_id  query     string  false  "Salesperson ID"
// @Param        status          query     string  false  "Status"
// @Param        from            query     string  false  "Sale date from (YYYY-MM-DD)"
// @Param        to              query     string  false  "Sale date to (YYYY-MM-DD)"
// @Success      200             {object}  response.Response{data=service.SaleStatsResponse}
// @Router       /api/sales/stats [get]
func (h *SaleHandler) GetSaleStats(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	stats, err := h.saleService.SaleStats(c.Request.Context(), a, saleQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetSale
// @Summary      Get sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response{data=model.Sale}
// @Failure      404  {object}  response.Response
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetSale(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	sale, err := h.saleService.GetSale(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// UpdateSale edits a pending sale and recalculates its commission
// @Summary      Update sale
// @Description  Partial update. Any financial field triggers a full recalculation of the sale and its commission.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                     true  "Sale ID"
// @Param        payload  body      service.UpdateSaleRequest  true  "Changed fields"
// @Success      200      {object}  response.Response{data=model.Sale}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) UpdateSale(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.UpdateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	sale, err := h.saleService.UpdateSale(c.Request.Context(), a, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// ChangeSaleStatus moves a sale along its lifecycle
// @Summary      Change sale status
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Sale ID"
// @Param        payload  body      service.ChangeSaleStatusRequest  true  "Target status"
// @Success      200      {object}  response.Response{data=model.Sale}
// @Failure      409      {object}  response.Response
// @Router       /api/sales/{id}/status [patch]
func (h *SaleHandler) ChangeSaleStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.ChangeSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	sale, err := h.saleService.ChangeSaleStatus(c.Request.Context(), a, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, sale))
}

// DeleteSale removes a pending or cancelled sale with its commission
// @Summary      Delete sale
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Sale ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) DeleteSale(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.saleService.DeleteSale(c.Request.Context(), a, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Sale deleted"}))
}
