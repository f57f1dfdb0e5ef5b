package main

import (
	"log"

	"rtbf-service/internal/config"
	"rtbf-service/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("RTBF: No .env file found, relying on system env vars")
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()
	server.NewServer(cfg, logger) // handles lifecycle & shutdown internally
}
