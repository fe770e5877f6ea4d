package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/kempysnetwork/kempai/internal/biz/usecase"
	"github.com/kempysnetwork/kempai/internal/conf"
	"github.com/kempysnetwork/kempai/internal/data"
	"github.com/kempysnetwork/kempai/internal/server"
	"github.com/kempysnetwork/kempai/internal/service"
	"github.com/kempysnetwork/kempai/ollama"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := conf.LoadFromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize clients
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	ollamaClient := ollama.NewClient(cfg.Ollama.APIURL, cfg.Ollama.Model)
	fmt.Printf("[KempAI] Ollama endpoint: %s, model: %s\n", cfg.Ollama.APIURL, cfg.Ollama.Model)

	// Initialize repository layer
	repos := data.NewRepositories(session, ollamaClient)

	// Initialize usecase layer
	historyUC := usecase.NewHistoryUsecase(cfg.History.MaxTurns)
	triggerUC := usecase.NewTriggerUsecase()
	accessUC := usecase.NewAccessUsecase()
	scheduleUC := usecase.NewScheduleUsecase()
	prompts := usecase.NewPromptBuilder(cfg.Persona)

	// Initialize service layer
	audit := service.NewAuditLogger(repos.Chat, repos.Guild, cfg.Audit.LogsChannelID)
	dispatcher := service.NewCommandDispatcher(
		cfg.Discord.CommandPrefix, cfg.Persona, prompts,
		historyUC, triggerUC, accessUC, scheduleUC,
		repos.Chat, repos.Guild, repos.Generate, audit,
	)
	router := service.NewMessageRouter(
		historyUC, triggerUC, accessUC, prompts,
		repos.Chat, repos.Guild, repos.Generate,
		audit, dispatcher, cfg.Persona.Name, cfg.Persona.SuccessReactions,
	)
	sweeper := service.NewSweeper(scheduleUC, repos.Chat)

	// Initialize server
	srv := server.NewDiscordServer(session, router, dispatcher, sweeper, audit, repos.Chat, prompts, cfg.Persona)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	fmt.Printf("Starting %s...\n", cfg.Persona.Name)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	<-sigCh
	fmt.Println("\nShutting down...")
	cancel()
	if err := srv.Stop(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
