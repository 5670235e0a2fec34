// Command admissionbot runs the Gemini-backed admission assistant.
package main

import (
	"context"
	"log"
	"os"

	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/admission/bot"
	corecmd "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/cmd"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	err := corecmd.Run(corecmd.Options{
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return bot.LoadConfig(path)
		},
		Bootstrap: func(ctx context.Context, cfg corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			return bot.Bootstrap(ctx, cfg.(*bot.Config), bot.Deps{})
		},
	})
	if err != nil {
		log.Printf("admissionbot: %v", err)
		os.Exit(1)
	}
}
