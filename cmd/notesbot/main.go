// Command notesbot runs the study-notes menu bot.
package main

import (
	"context"
	"log"
	"os"

	corecmd "github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/core/cmd"
	"github.com/iamhmjayed/Hamoza-AI-Telegram-BOT/notes/bot"

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
		log.Printf("notesbot: %v", err)
		os.Exit(1)
	}
}
