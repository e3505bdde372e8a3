package handlers

import (
	"errors"
	"net/http"

	request "shama_quotations/internal/adapter/http/dto/request"
	response "shama_quotations/internal/adapter/http/dto/response"
	"shama_quotations/internal/usecase"
	"shama_quotations/internal/usecase/interfaces"
	"shama_quotations/pkg"

	"github.com/gin-gonic/gin"
)

const (
	HeaderUserID     = "X-User-ID"
	defaultCreatedBy = "system"
)

var (
	errInvalidQuotationPayload = pkg.NewDomainErrorSimple("VALIDATION_ERROR", "Invalid quotation payload", http.StatusBadRequest)
	errInvalidListQuery        = pkg.NewDomainErrorSimple("VALIDATION_ERROR", "Invalid list query", http.StatusBadRequest)
)

// QuotationHandler serves the sales quotation lifecycle.
type QuotationHandler struct {
	usecase usecase.IQuotationUseCase
}

func NewQuotationHandler(uc usecase.IQuotationUseCase) *QuotationHandler {
	return &QuotationHandler{usecase: uc}
}

// CreateQuotation godoc
// @Summary      Create a quotation
// @Description  Prices every item with the current inventory price and stores a DRAFT quotation.
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        X-User-ID  header    string                          false  "Author of the quotation"
// @Param        body       body      request.CreateQuotationRequest  true   "Quotation"
// @Success      201        {object}  response.QuotationResponse
// @Failure      400        {object}  pkg.HTTPError
// @Failure      503        {object}  pkg.HTTPError
// @Failure      504        {object}  pkg.HTTPError
// @Router       /quotations [post]
func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var payload request.CreateQuotationRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(errInvalidQuotationPayload.HTTPStatus, errInvalidQuotationPayload.ToHTTPError())
		return
	}

	createdBy := c.GetHeader(HeaderUserID)
	if createdBy == "" {
		createdBy = defaultCreatedBy
	}

	q, err := h.usecase.CreateQuotation(c.Request.Context(), payload.ToInput(createdBy))
	if err != nil {
		writeError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusCreated, response.FromQuotation(q))
}

// SubmitQuotation godoc
// @Summary  Submit a DRAFT quotation for approval
// @Tags     quotations
// @Produce  json
// @Param    id   path      string  true  "Quotation ID"
// @Success  200  {object}  response.QuotationResponse
// @Failure  404  {object}  pkg.HTTPError
// @Failure  409  {object}  pkg.HTTPError
// @Router   /quotations/{id}/submit [post]
func (h *QuotationHandler) SubmitQuotation(c *gin.Context) {
	q, err := h.usecase.SubmitQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// ApproveQuotation godoc
// @Summary      Approve a PENDING quotation
// @Description  Re-prices the items, freezes them, marks the quotation SOLD and emits quotation.approved.
// @Tags         quotations
// @Produce      json
// @Param        id   path      string  true  "Quotation ID"
// @Success      200  {object}  response.QuotationResponse
// @Failure      404  {object}  pkg.HTTPError
// @Failure      409  {object}  pkg.HTTPError
// @Failure      503  {object}  pkg.HTTPError
// @Failure      504  {object}  pkg.HTTPError
// @Router       /quotations/{id}/approve [post]
func (h *QuotationHandler) ApproveQuotation(c *gin.Context) {
	q, err := h.usecase.ApproveQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// CancelQuotation godoc
// @Summary  Cancel a DRAFT or PENDING quotation
// @Tags     quotations
// @Produce  json
// @Param    id   path      string  true  "Quotation ID"
// @Success  200  {object}  response.QuotationResponse
// @Failure  404  {object}  pkg.HTTPError
// @Failure  409  {object}  pkg.HTTPError
// @Router   /quotations/{id}/cancel [post]
func (h *QuotationHandler) CancelQuotation(c *gin.Context) {
	q, err := h.usecase.CancelQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// GetQuotation godoc
// @Summary  Get a quotation
// @Tags     quotations
// @Produce  json
// @Param    id   path      string  true  "Quotation ID"
// @Success  200  {object}  response.QuotationResponse
// @Failure  404  {object}  pkg.HTTPError
// @Router   /quotations/{id} [get]
func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	q, err := h.usecase.GetQuotation(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, mapQuotationError(err))
		return
	}
	c.JSON(http.StatusOK, response.FromQuotation(q))
}

// ListQuotations godoc
// @Summary      List quotation summaries
// @Description  Newest first. Dates accept RFC3339 or YYYY-MM-DD.
// @Tags         quotations
// @Produce      json
// @Param        status     query     string  false  "DRAFT, PENDING, SOLD or CANCELLED"
// @Param        minAmount  query     string  false  "Minimum total amount"
// @Param        maxAmount  query     string  false  "Maximum total amount"
// @Param        dateFrom   query     string  false  "Created at or after"
// @Param        dateTo     query     string  false  "Created at or before"
// @Param        limit      query     int     false  "Page size (default 50, max 200)"
// @Param        offset     query     int     false  "Rows to skip"
// @Success      200        {object}  response.QuotationListResponse
// @Failure      400        {object}  pkg.HTTPError
// @Router       /quotations [get]
func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	var query request.ListQuotationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeError(c, errInvalidListQuery)
		return
	}
	filter, err := query.ToFilter()
	if err != nil {
		writeError(c, pkg.NewDomainErrorSimple("VALIDATION_ERROR", err.Error(), http.StatusBadRequest))
		return
	}

	qs, err := h.usecase.ListQuotations(c.Request.Context(), filter)
	if err != nil {
		writeError(c, mapQuotationError(err))
		return
	}

	limit := filter.Limit
	if limit == 0 {
		limit = usecase.DefaultListLimit
	}
	c.JSON(http.StatusOK, response.FromQuotationList(qs, limit, filter.Offset))
}

func writeError(c *gin.Context, appErr *pkg.AppError) {
	c.JSON(appErr.HTTPStatus, appErr.ToHTTPError())
}

func mapQuotationError(err error) *pkg.AppError {
	var notFound *interfaces.ProductNotFoundError
	switch {
	case errors.As(err, &notFound):
		return pkg.NewDomainError("PRODUCT_NOT_FOUND", notFound.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrProductNotFound):
		return pkg.NewDomainError("PRODUCT_NOT_FOUND", "Product not found", err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrInvalidQuotation), errors.Is(err, usecase.ErrInvalidQuotationID), errors.Is(err, usecase.ErrInvalidListFilter):
		return pkg.NewDomainError("VALIDATION_ERROR", err.Error(), err, http.StatusBadRequest)
	case errors.Is(err, usecase.ErrQuotationNotFound):
		return pkg.NewDomainErrorSimple("QUOTATION_NOT_FOUND", "Quotation not found", http.StatusNotFound)
	case errors.Is(err, usecase.ErrInvalidState):
		return pkg.NewDomainError("INVALID_STATE", err.Error(), err, http.StatusConflict)
	case errors.Is(err, usecase.ErrConcurrentModification):
		return pkg.NewDomainError("CONCURRENT_MODIFICATION", "Quotation was modified concurrently, retry the request", err, http.StatusConflict)
	case errors.Is(err, usecase.ErrDependencyTimeout):
		return pkg.NewDomainError("DEPENDENCY_TIMEOUT", "Inventory service did not answer in time", err, http.StatusGatewayTimeout)
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return pkg.NewDomainError("DEPENDENCY_UNAVAILABLE", "Inventory service is unavailable", err, http.StatusServiceUnavailable)
	default:
		return pkg.NewDomainError("INTERNAL_ERROR", "An internal error occurred", err, http.StatusInternalServerError)
	}
}
