package main

import (
	"context"
	"log"

	"github.com/Darkweeb21/Friday/internal/automation"
	"github.com/Darkweeb21/Friday/internal/config"
	"github.com/Darkweeb21/Friday/internal/imagegen"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if config.AppConfig.HuggingFaceAPIKey == "" {
		log.Fatal("HuggingFaceAPIKey is required for image generation")
	}

	client := imagegen.NewClient(
		config.AppConfig.HuggingFaceAPIKey,
		"https://api-inference.huggingface.co",
		config.AppConfig.HuggingFaceModel,
		config.AppConfig.DataPath,
		config.AppConfig.ImageCount,
	)

	gen := imagegen.NewGenerator(config.AppConfig.ImageRecordPath(), client, automation.ExecOpener{})

	log.Printf("Image worker polling %s", config.AppConfig.ImageRecordPath())
	if err := gen.Run(context.Background()); err != nil {
		log.Fatalf("Image worker stopped: %v", err)
	}
}
