package main

import (
	"log"

	"github.com/meronic/iot-backend/config"
	"github.com/meronic/iot-backend/server"

	"github.com/joho/godotenv"
)

func main() {
	// .env удобен локально; в проде значения приходят из окружения
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	app := &server.App{}
	app.Initialize(cfg)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
}
