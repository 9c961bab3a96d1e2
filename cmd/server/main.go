package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"gst_invoicing_backend/internal/database"
	"gst_invoicing_backend/internal/models"
	"gst_invoicing_backend/internal/repositories"
	"gst_invoicing_backend/internal/router"
	"gst_invoicing_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	utils.LoadDotEnv()
	utils.InitLogger(utils.Getenv("LOG_LEVEL", "info"), utils.Getenv("LOG_FORMAT", "console"))
	gin.SetMode(utils.Getenv("GIN_MODE", gin.ReleaseMode))

	kv, closer, err := openLedgerStore(utils.Getenv("LEDGER_BACKEND", "file"))
	if err != nil {
		utils.LogError(err, "Failed to open ledger store")
		log.Fatalf("Failed to open ledger store: %v", err)
	}
	defer closer.Close()
	ledger := repositories.NewLedgerRepository(kv)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	// CORS configuration
	allowedOrigins := utils.SplitAndTrim(utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"), ",")
	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-User-ID"}
	config.ExposeHeaders = []string{"Content-Disposition"}
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, ledger, companyProfileFromEnv(), nil)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "ledger_backend": utils.Getenv("LEDGER_BACKEND", "file")})
	utils.LogInfo("Frontend should be configured to make API calls", map[string]interface{}{"url": "http://localhost:" + port + "/api/v1"})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noopCloser = closerFunc(func() error { return nil })

// openLedgerStore builds the key-value backend named by LEDGER_BACKEND.
func openLedgerStore(backend string) (repositories.KVStore, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "memory":
		utils.LogWarn("Using in-memory ledger; data is lost on restart")
		return repositories.NewMemoryStore(), noopCloser, nil
	case "", "file":
		path := utils.Getenv("LEDGER_FILE", "data/ledger.json")
		kv, err := repositories.NewFileStore(path)
		if err != nil {
			return nil, nil, err
		}
		utils.LogInfo("Ledger file opened", map[string]interface{}{"path": path})
		return kv, noopCloser, nil
	case "postgres":
		db, err := database.Open(database.ConfigFromEnv())
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewPostgresStore(db), db, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     utils.Getenv("REDIS_ADDR", "localhost:6379"),
			Password: utils.Getenv("REDIS_PASSWORD", ""),
			DB:       utils.GetenvInt("REDIS_DB", 0),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		utils.LogInfo("Redis ledger connected", map[string]interface{}{"addr": client.Options().Addr})
		return repositories.NewRedisStore(client, utils.Getenv("REDIS_PREFIX", "ledger")), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown LEDGER_BACKEND %q (want file, memory, postgres or redis)", backend)
	}
}

// companyProfileFromEnv reads the seller block printed on invoices.
// List values are separated with "|".
func companyProfileFromEnv() models.CompanyProfile {
	return models.CompanyProfile{
		Name:         utils.Getenv("COMPANY_NAME", "Secure Automation & Safety Solutions"),
		AddressLines: utils.GetenvList("COMPANY_ADDRESS_LINES", nil),
		Phone:        utils.Getenv("COMPANY_PHONE", ""),
		PAN:          utils.Getenv("COMPANY_PAN", ""),
		GSTIN:        utils.Getenv("COMPANY_GSTIN", ""),
		State:        utils.Getenv("COMPANY_STATE", ""),
		BankDetails:  utils.GetenvList("COMPANY_BANK_DETAILS", nil),
	}
}
