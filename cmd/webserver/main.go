package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"passquiz"
)

func main() {
	configPath := flag.String("config", "", "Optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := passquiz.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	passquiz.SetVerbose(cfg.Verbose)

	bank, err := loadBank(cfg)
	if err != nil {
		log.Fatalf("Failed to load questions: %v", err)
	}
	log.Printf("Loaded %d questions", bank.Len())

	var db *passquiz.DB
	if cfg.DBPath != "" {
		db, err = passquiz.OpenDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.CloseDB()

		if err := db.CreateTables(); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
	} else {
		log.Printf("DB_PATH is empty, attempt history disabled")
	}

	sessions, err := passquiz.NewSessionManager(cfg.SessionKey(), cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create session manager: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limitStore := passquiz.NewMemoryRateLimitStore()
	go limitStore.RunJanitor(ctx, time.Minute)

	server, err := NewServer(ServerDeps{
		Bank:     bank,
		Sessions: sessions,
		Results:  passquiz.NewResultStore(cfg.SessionKey(), cfg.IsProduction()),
		Limiter:  passquiz.NewRateLimiter(limitStore, cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window),
		DB:       db,
		Password: cfg.Password,
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      server.Routes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Printf("Starting server on port %s (%s)", cfg.Port, cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}

func loadBank(cfg *passquiz.Config) (*passquiz.QuestionBank, error) {
	if cfg.QuestionsFile != "" {
		return passquiz.LoadQuestionBankFile(cfg.QuestionsFile)
	}
	return passquiz.DefaultQuestionBank()
}
