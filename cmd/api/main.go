package main

import (
	"shama_quotations/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Quotations API
// @version         1.0
// @description     Sales quotations priced against the inventory service, backed by DynamoDB.

// @contact.name   API Support

// @host localhost:8080

// @BasePath  /v1

func main() {
	routes.Run()
}
