package app

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"sentinel/internal/app/server"
	"sentinel/internal/config"
	"sentinel/internal/database"
	"sentinel/internal/feeds"
	"sentinel/internal/geo"
	"sentinel/internal/support"
	"sentinel/internal/suspicion"
)

const defaultPort = 8080

func Run() error {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found. Falling back to system environment variables.")
	}

	portFlag := flag.Int("port", defaultPort, "Port for API server")
	productionFlag := flag.Bool("production", false, "Run in production mode")
	flag.Parse()

	config.SetProductionMode(*productionFlag)
	log.SetLevel(logLevel(*productionFlag))
	config.ReadSettings()

	port := resolvePort("PORT", *portFlag)

	db, err := database.SetupDB()
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Warn("error closing database", "error", err)
		}
	}()

	resolver, err := openGeoResolver()
	if err != nil {
		log.Warn("Geo enrichment disabled", "error", err)
	}
	defer func() {
		if err := resolver.Close(); err != nil {
			log.Warn("error closing geo database", "error", err)
		}
	}()

	engine := suspicion.NewEngine(db, resolver)
	feedManager := feeds.NewManager(database.NewRangeStore(db))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feedManager.StartRefreshRoutine(ctx)

	return server.New(db, engine, feedManager).OpenRoutes(port)
}

func openGeoResolver() (*geo.Resolver, error) {
	path := support.GetEnv("GEOIP_COUNTRY_DB", config.GetConfig().GeoLite.CountryDBPath)
	return geo.Open(path)
}

// logLevel keeps debug output a development-only affair.
func logLevel(production bool) log.Level {
	if production {
		return log.InfoLevel
	}
	return log.DebugLevel
}

func resolvePort(envKey string, fallback int) int {
	if port := readPort(envKey); port != 0 {
		return port
	}
	return fallback
}

func readPort(envKey string) int {
	raw := os.Getenv(envKey)
	if raw == "" {
		return 0
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port == 0 {
		log.Warn("invalid port override", "env", envKey, "value", raw)
		return 0
	}
	return port
}
