package main

import (
	"log"

	corecmd "kinobot/core/cmd"
	"kinobot/internal/app"
)

func main() {
	if err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	}); err != nil {
		log.Fatalf("kinobot: %v", err)
	}
}
