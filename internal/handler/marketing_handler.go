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

type MarketingHandler struct {
	marketingService service.MarketingService
}

func NewMarketingHandler(marketingService service.MarketingService) *MarketingHandler {
	return &MarketingHandler{marketingService: marketingService}
}

func (h *MarketingHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/marketing")
	{
		group.GET("/prices", middleware.RequireAuth(), h.GetPrices)
		group.GET("/packages", middleware.RequireAuth(), h.ListPackages)
		group.GET("/packages/:id", middleware.RequireAuth(), h.GetPackage)
		group.POST("/packages", middleware.RequireCapability(model.CapCreateSale), h.CreatePackage)
		group.PATCH("/packages/:id/approve", middleware.RequireAuth(), h.ApprovePackage)
	}
}

// GetPrices
// @Summary      Package price table
// @Tags         marketing
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/marketing/prices [get]
func (h *MarketingHandler) GetPrices(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.marketingService.PriceTable()))
}

// CreatePackage
// @Summary      Create marketing package
// @Description  The value is taken from the configured price table for the tier
// @Tags         marketing
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreatePackageRequest  true  "Package"
// @Success      201      {object}  response.Response{data=service.PackageResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/marketing/packages [post]
func (h *MarketingHandler) CreatePackage(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.CreatePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	pkg, err := h.marketingService.CreatePackage(c.Request.Context(), a, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, pkg))
}

// ListPackages
// @Summary      List marketing packages
// @Description  Each package carries its commission resolved at the requested rate
// @Tags         marketing
// @Produce      json
// @Security     BearerAuth
// @Param        salesperson_id   query     string  false  "Salesperson ID"
// @Param        status           query     string  false  "pending or approved"
// @Param        tier             query     string  false  "bronze, prata, ouro or diamante"
// @Param        reference_month  query     string  false  "YYYY-MM"
// @Param        rate             query     string  false  "first_month (default) or continuity"
// @Param        page             query     int     false  "Page number (default 1)"
// @Param        limit            query     int     false  "Items per page (default 20)"
// @Success      200              {object}  response.Response{data=response.Page}
// @Router       /api/marketing/packages [get]
func (h *MarketingHandler) ListPackages(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	p := pagination.Parse(c)
	items, total, err := h.marketingService.ListPackages(c.Request.Context(), a, service.PackageQuery{
		SalespersonID:  c.Query("salesperson_id"),
		Status:         c.Query("status"),
		Tier:           c.Query("tier"),
		ReferenceMonth: c.Query("reference_month"),
		Rate:           c.Query("rate"),
		Page:           p.Page,
		Limit:          p.Limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, p.Wrap(items, total)))
}

// GetPackage
// @Summary      Get marketing package
// @Tags         marketing
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string  true   "Package ID"
// @Param        rate  query     string  false  "first_month (default) or continuity"
// @Success      200   {object}  response.Response{data=service.PackageResponse}
// @Failure      404   {object}  response.Response
// @Router       /api/marketing/packages/{id} [get]
func (h *MarketingHandler) GetPackage(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	pkg, err := h.marketingService.GetPackage(c.Request.Context(), a, c.Param("id"), c.Query("rate"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pkg))
}

// ApprovePackage
// @Summary      Approve marketing package
// @Tags         marketing
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  response.Response{data=service.PackageResponse}
// @Failure      409  {object}  response.Response
// @Router       /api/marketing/packages/{id}/approve [patch]
func (h *MarketingHandler) ApprovePackage(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	pkg, err := h.marketingService.ApprovePackage(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, pkg))
}
