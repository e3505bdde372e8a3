package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "shama_quotations/docs"
	"shama_quotations/internal/adapter/cache"
	"shama_quotations/internal/adapter/http/handlers"
	"shama_quotations/internal/adapter/inventory"
	"shama_quotations/internal/adapter/messaging"
	"shama_quotations/internal/adapter/persistence/repository"
	infracache "shama_quotations/internal/infrastructure/cache"
	"shama_quotations/internal/infrastructure/database"
	"shama_quotations/internal/usecase"
	"shama_quotations/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	defaultSalesPort     = "8080"
	defaultInventoryPort = "8081"
	shutdownTimeout      = 10 * time.Second
)

// Run starts the sales API: quotation endpoints plus the outbox relay.
func Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ddb := database.ConnectDynamoDB()
	ensureTables(ctx, ddb, salesTables())

	publisher, closePublisher, err := connectEventPublisher("quotations-api")
	if err != nil {
		log.Fatalf("Failed to connect to the event broker: %v", err)
	}
	defer closePublisher()

	quotationRepo := repository.NewQuotationDynamoRepository(ddb)
	outboxRepo := repository.NewOutboxDynamoRepository(ddb)

	inventoryClient := inventory.NewHTTPProductClient(os.Getenv("INVENTORY_URL"), nil)
	quotationUseCase := usecase.NewQuotationUseCase(
		quotationRepo,
		productCatalog(ctx, inventoryClient),
		inventoryClient,
		publisher,
		outboxRepo,
		getenvDuration("PRODUCT_LOOKUP_TIMEOUT", usecase.DefaultProductLookupTimeout),
	)

	relay := usecase.NewOutboxRelayUseCase(
		outboxRepo,
		publisher,
		getenvDuration("OUTBOX_RELAY_INTERVAL", usecase.DefaultOutboxRelayInterval),
		getenvInt("OUTBOX_RELAY_BATCH", usecase.DefaultOutboxRelayBatch),
	)
	go relay.Run(ctx)

	router := newRouter()
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addQuotationRoutes(v1, handlers.NewQuotationHandler(quotationUseCase))

	serve(ctx, router, getenvDefault("PORT", defaultSalesPort))
}

// RunInventory starts the inventory service: product endpoints plus the
// quotation.approved consumer that decrements stock.
func RunInventory() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ddb := database.ConnectDynamoDB()
	ensureTables(ctx, ddb, inventoryTables())

	productUseCase := usecase.NewProductUseCase(repository.NewProductDynamoRepository(ddb))
	reconciler := usecase.NewStockReconcilerUseCase(repository.NewStockLedgerDynamoRepository(ddb))

	stopConsumer, err := startApprovedEventConsumer(ctx, "inventory-service", messaging.NewApprovedEventHandler(reconciler))
	if err != nil {
		log.Fatalf("Failed to start the quotation.approved consumer: %v", err)
	}
	defer stopConsumer()

	router := newRouter()
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addProductRoutes(v1, handlers.NewProductHandler(productUseCase))

	serve(ctx, router, getenvDefault("PORT", defaultInventoryPort))
}

func newRouter() *gin.Engine {
	router := gin.New()
	setMiddlewares(router)
	return router
}

func setMiddlewares(router *gin.Engine) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
}

// productCatalog wraps lookup with the Redis snapshot cache when REDIS_ADDR
// is set and reachable.
func productCatalog(ctx context.Context, lookup interfaces.IProductLookup) interfaces.IProductLookup {
	if os.Getenv("REDIS_ADDR") == "" {
		return lookup
	}
	client, err := infracache.ConnectRedis(ctx)
	if err != nil {
		log.Printf("[product][cache] redis unavailable, caching disabled err=%v", err)
		return lookup
	}
	ttl := getenvDuration("PRODUCT_CACHE_TTL", cache.DefaultTTL)
	return inventory.NewCachedProductLookup(cache.NewRedisProductCache(client, ttl), lookup)
}

func ensureTables(ctx context.Context, ddb *dynamodb.Client, specs []database.TableSpec) {
	if !createTablesEnabled() {
		return
	}
	if err := database.EnsureTables(ctx, ddb, specs...); err != nil {
		log.Fatalf("Failed to create dynamodb tables: %v", err)
	}
}

func serve(ctx context.Context, router *gin.Engine, port string) {
	srv := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Printf("Graceful shutdown failed: %v", err)
		}
	}()

	log.Printf("Listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to startup the application: %v", err.Error())
	}
}
