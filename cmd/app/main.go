package main

import (
	"todoapi/config"
	"todoapi/di"
	"todoapi/helper"
	"todoapi/shared/logger"
	"todoapi/shared/timezone"

	"github.com/rs/zerolog/log"
)

// @title Todo API
// @version 1.0
// @description Todo items and their file attachments.
// @BasePath /
func main() {
	cfg := config.Get()

	logger.Setup(cfg)

	timezone.Init(cfg.App.Timezone)

	if cfg.DB.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
