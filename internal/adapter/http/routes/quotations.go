package routes

import (
	"shama_quotations/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathQuotations = "/quotations"
	PathProducts   = "/products"
)

func addQuotationRoutes(rg *gin.RouterGroup, quotationHandler *handlers.QuotationHandler) {
	quotations := rg.Group(PathQuotations)
	{
		quotations.POST("", quotationHandler.CreateQuotation)
		quotations.GET("", quotationHandler.ListQuotations)
		quotations.GET("/:id", quotationHandler.GetQuotation)
		quotations.POST("/:id/submit", quotationHandler.SubmitQuotation)
		quotations.POST("/:id/approve", quotationHandler.ApproveQuotation)
		quotations.POST("/:id/cancel", quotationHandler.CancelQuotation)
	}
}

func addProductRoutes(rg *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	products := rg.Group(PathProducts)
	{
		products.POST("", productHandler.CreateProduct)
		products.GET("", productHandler.ListProducts)
		products.GET("/:id", productHandler.GetProduct)
		products.PATCH("/:id/stock", productHandler.AdjustStock)
	}
}
