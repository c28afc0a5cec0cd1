package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"

	"agrostock_backend/internal/database"
	routerpkg "agrostock_backend/internal/router"
	"agrostock_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const defaultLowStockThreshold = 10

func main() {
	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	utils.InitLogger()

	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "agrostock")
	dbPassword := utils.Getenv("DB_PASSWORD", "agrostock")
	dbName := utils.Getenv("DB_NAME", "agrostock_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")

	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode)
	utils.LogInfo("Database initialized", map[string]interface{}{"host": dbHost, "name": dbName})

	lowStockThreshold := float64(defaultLowStockThreshold)
	if raw := os.Getenv("LOW_STOCK_THRESHOLD"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			log.Fatalf("Invalid LOW_STOCK_THRESHOLD %q", raw)
		}
		lowStockThreshold = parsed
	}

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	var allowedOrigins []string
	if corsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); corsEnv != "" {
		allowedOrigins = strings.Split(corsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	engine.Use(cors.New(corsConfig))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	routerpkg.Setup(engine, database.GetDB(), lowStockThreshold)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
