package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/smartlib/library-service/app"
	"github.com/smartlib/library-service/config"
)

// @title SmartLibrary API
// @version 1.0
// @description library catalog and borrowing workflow service

// @host localhost:8080
// @BasePath /
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Print("load envs from .env: ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal("app run ", err)
	}
}
