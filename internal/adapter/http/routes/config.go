package routes

import (
	"log"
	"os"
	"strconv"
	"time"

	"shama_quotations/internal/infrastructure/database"
)

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("[config] invalid duration, using default key=%s value=%q default=%s", key, raw, def)
		return def
	}
	return d
}

func getenvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] invalid integer, using default key=%s value=%q default=%d", key, raw, def)
		return def
	}
	return n
}

// createTablesEnabled reports DYNAMODB_CREATE_TABLES, on by default when a
// local DYNAMODB_ENDPOINT is configured.
func createTablesEnabled() bool {
	raw := os.Getenv("DYNAMODB_CREATE_TABLES")
	if raw == "" {
		return os.Getenv("DYNAMODB_ENDPOINT") != ""
	}
	v, err := strconv.ParseBool(raw)
	return err == nil && v
}

func salesTables() []database.TableSpec {
	return []database.TableSpec{
		{Name: getenvDefault("QUOTATIONS_TABLE", "quotations"), HashKey: "id", IndexName: "status-index", IndexKey: "status"},
		{Name: getenvDefault("OUTBOX_TABLE", "outbox_events"), HashKey: "id", IndexName: "status-index", IndexKey: "status"},
	}
}

func inventoryTables() []database.TableSpec {
	return []database.TableSpec{
		{Name: getenvDefault("PRODUCTS_TABLE", "products"), HashKey: "id"},
		{Name: getenvDefault("PROCESSED_EVENTS_TABLE", "processed_events"), HashKey: "event_id", RangeKey: "event_type"},
	}
}
