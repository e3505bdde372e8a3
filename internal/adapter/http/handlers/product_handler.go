package handlers

import (
	"errors"
	"net/http"

	request "shama_quotations/internal/adapter/http/dto/request"
	response "shama_quotations/internal/adapter/http/dto/response"
	"shama_quotations/internal/domain/entities"
	"shama_quotations/internal/usecase"
	"shama_quotations/pkg"

	"github.com/gin-gonic/gin"
)

var (
	errInvalidProductPayload = pkg.NewDomainErrorSimple("VALIDATION_ERROR", "Invalid product payload", http.StatusBadRequest)
	errInvalidStockPayload   = pkg.NewDomainErrorSimple("VALIDATION_ERROR", "adjustment must be a non-zero integer", http.StatusBadRequest)
	errInvalidProductQuery   = pkg.NewDomainErrorSimple("VALIDATION_ERROR", "Invalid query parameters", http.StatusBadRequest)
)

// ProductHandler serves the inventory product endpoints read by the sales
// product lookup.
type ProductHandler struct {
	usecase usecase.IProductUseCase
}

func NewProductHandler(uc usecase.IProductUseCase) *ProductHandler {
	return &ProductHandler{usecase: uc}
}

// CreateProduct godoc
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    body  body      request.CreateProductRequest  true  "Product"
// @Success  201   {object}  response.ProductResponse
// @Failure  400   {object}  pkg.HTTPError
// @Router   /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var payload request.CreateProductRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidProductPayload)
		return
	}

	p, err := h.usecase.CreateProduct(c.Request.Context(), payload.ToEntity())
	if err != nil {
		writeError(c, mapProductError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromProduct(p))
}

// GetProduct godoc
// @Summary  Get a product
// @Tags     products
// @Produce  json
// @Param    id   path      string  true  "Product ID"
// @Success  200  {object}  response.ProductResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.usecase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapProductError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromProduct(p))
}

// ListProducts godoc
// @Summary  List products
// @Tags     products
// @Produce  json
// @Param    limit   query     int  false  "Page size (default 50, max 200)"
// @Param    offset  query     int  false  "Rows to skip"
// @Success  200     {object}  response.ProductListResponse
// @Failure  400     {object}  pkg.HTTPError
// @Router   /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var query request.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, errInvalidProductQuery)
		return
	}

	ps, err := h.usecase.ListProducts(c.Request.Context(), query.Limit, query.Offset)
	if err != nil {
		writeError(c, mapProductError(err))
		return
	}

	limit := query.Limit
	if limit == 0 {
		limit = usecase.DefaultListLimit
	}
	c.JSON(http.StatusOK, response.FromProductList(ps, limit, query.Offset))
}

// AdjustStock godoc
// @Summary      Adjust product stock
// @Description  Adds adjustment to the stock. Stock never goes below zero.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true  "Product ID"
// @Param        body  body      request.AdjustStockRequest  true  "Adjustment"
// @Success      200   {object}  response.ProductResponse
// @Failure      400   {object}  pkg.HTTPError
// @Failure      404   {object}  pkg.HTTPError
// @Failure      409   {object}  pkg.HTTPError
// @Router       /products/{id}/stock [patch]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var payload request.AdjustStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, errInvalidStockPayload)
		return
	}

	p, err := h.usecase.AdjustStock(c.Request.Context(), c.Param("id"), payload.Adjustment)
	if err != nil {
		writeError(c, mapProductError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromProduct(p))
}

func mapProductError(err error) *pkg.AppError {
	switch {
	case errors.Is(err, usecase.ErrInvalidProduct), errors.Is(err, usecase.ErrInvalidProductID),
		errors.Is(err, usecase.ErrInvalidStockAdjustment), errors.Is(err, usecase.ErrInvalidListFilter):
		return pkg.NewDomainError("VALIDATION_ERROR", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProductNotFound):
		return pkg.NewDomainErrorSimple("PRODUCT_NOT_FOUND", "Product not found", http.StatusNotFound)
	case errors.Is(err, entities.ErrInsufficientStock):
		return pkg.NewDomainError("INSUFFICIENT_STOCK", err.Error(), err, http.StatusConflict)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
