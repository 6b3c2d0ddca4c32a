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

type CommissionHandler struct {
	commissionService service.CommissionService
}

func NewCommissionHandler(commissionService service.CommissionService) *CommissionHandler {
	return &CommissionHandler{commissionService: commissionService}
}

func (h *CommissionHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/commissions")
	{
		group.GET("", middleware.RequireAuth(), h.ListCommissions)
		group.GET("/stats", middleware.RequireAuth(), h.GetCommissionStats)
		group.GET("/salesperson/:salespersonId", middleware.RequireAuth(), h.ListBySalesperson)
		group.GET("/:id", middleware.RequireAuth(), h.GetCommission)
		group.PATCH("/batch", middleware.RequireCapability(model.CapManageCommissions), h.BatchUpdate)
		group.PATCH("/:id", middleware.RequireCapability(model.CapManageCommissions), h.UpdateCommission)
	}
}

func commissionQuery(c *gin.Context) service.CommissionQuery {
	p := pagination.Parse(c)
	return service.CommissionQuery{
		SalespersonID: c.Query("salesperson_id"),
		Status:        c.Query("status"),
		From:          c.Query("from"),
		To:            c.Query("to"),
		Page:          p.Page,
		Limit:         p.Limit,
	}
}

// ListCommissions
// @Summary      List commissions
// @Description  Salespeople only see their own commissions
// @Tags         commissions
// @Produce      json
// @Security     BearerAuth
// @Param        salesperson_id  query     string  false  "Salesperson ID"
// @Param        status          query     string  false  "pending, paid or cancelled"
// @Param        from            query     string  false  "Created from (YYYY-MM-DD)"
// @Param        to              query     string  false  "Created to (YYYY-MM-DD)"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Items per page (default 20)"
// @Success      200             {object}  response.Response{data=response.Page}
// @Router       /api/commissions [get]
func (h *CommissionHandler) ListCommissions(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	q := commissionQuery(c)
	items, total, err := h.commissionService.ListCommissions(c.Request.Context(), a, q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Params{Page: q.Page, Limit: q.Limit}.Wrap(items, total)))
}

// ListBySalesperson
// @Summary      List commissions of a salesperson
// @Tags         commissions
// @Produce      json
// @Security     BearerAuth
// @Param        salespersonId  path      string  true   "Salesperson ID"
// @Param        status         query     string  false  "Status"
// @Success      200            {object}  response.Response{data=response.Page}
// @Failure      403            {object}  response.Response
// @Router       /api/commissions/salesperson/{salespersonId} [get]
func (h *CommissionHandler) ListBySalesperson(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	q := commissionQuery(c)
	items, total, err := h.commissionService.ListBySalesperson(c.Request.Context(), a, c.Param("salespersonId"), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Params{Page: q.Page, Limit: q.Limit}.Wrap(items, total)))
}

// GetCommissionStats
// @Summary      Commission statistics
// @Description  Totals, per-status counts and values, and a per-salesperson grouping
// @Tags         commissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=model.CommissionStats}
// @Router       /api/commissions/stats [get]
func (h *CommissionHandler) GetCommissionStats(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	stats, err := h.commissionService.CommissionStats(c.Request.Context(), a, commissionQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}

// GetCommission
// @Summary      Get commission
// @Tags         commissions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Commission ID"
// @Success      200  {object}  response.Response{data=model.Commission}
// @Failure      404  {object}  response.Response
// @Router       /api/commissions/{id} [get]
func (h *CommissionHandler) GetCommission(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	item, err := h.commissionService.GetCommission(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateCommission
// @Summary      Update commission payout
// @Description  Marking a commission paid without a payment date stamps today
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string                           true  "Commission ID"
// @Param        payload  body      service.UpdateCommissionRequest  true  "Status, payment date and notes"
// @Success      200      {object}  response.Response{data=model.Commission}
// @Failure      409      {object}  response.Response
// @Router       /api/commissions/{id} [patch]
func (h *CommissionHandler) UpdateCommission(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.UpdateCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	item, err := h.commissionService.UpdateCommission(c.Request.Context(), a, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// BatchUpdate
// @Summary      Batch update commissions
// @Description  Applies one status change to every listed commission, or to none when any of them cannot move
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BatchCommissionRequest  true  "Commission IDs and target status"
// @Success      200      {object}  response.Response{data=[]model.Commission}
// @Failure      409      {object}  response.Response
// @Router       /api/commissions/batch [patch]
func (h *CommissionHandler) BatchUpdate(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.BatchCommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	items, err := h.commissionService.BatchUpdate(c.Request.Context(), a, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
}
