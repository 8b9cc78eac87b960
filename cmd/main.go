package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Foodgram-Backend/cmd/config"
	migration "Foodgram-Backend/cmd/database/migrate"
	"Foodgram-Backend/cmd/database/seed"
	"Foodgram-Backend/internal/utils"
	"Foodgram-Backend/internal/utils/logging"
)

func main() {
	utils.LoadConfig()
	logging.Init(logging.Config{
		Level:  utils.GetConfigOrDefault("LOG_LEVEL", "info"),
		Format: utils.GetConfigOrDefault("LOG_FORMAT", "json"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.ConnectDB()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect database")
	}
	if err := migration.Migrate(db); err != nil {
		logging.Fatal().Err(err).Msg("failed to migrate database")
	}

	c, closeCache, err := config.ConnectCache(ctx)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect cache")
	}
	defer closeCache()

	app, err := config.NewApp(ctx, db, c)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build app")
	}
	defer app.Close()

	if err := seed.SeedIngredients(ctx, app.IngredientService, utils.GetConfig("INGREDIENTS_CSV")); err != nil {
		logging.Error().Err(err).Msg("ingredient seed failed")
	}

	go func() {
		<-ctx.Done()
		logging.Info().Msg("shutting down server")
		if err := app.Fiber.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	port := utils.GetConfigOrDefault("APP_PORT", "8080")
	logging.Info().Str("port", port).Msg("server starting")
	if err := app.Fiber.Listen(":" + port); err != nil {
		logging.Error().Err(err).Msg("server stopped")
	}
}
