package main

import (
	"shama_quotations/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// Inventory service: product API and the stock reconciler consuming
// quotation.approved.
func main() {
	routes.RunInventory()
}
