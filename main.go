package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/pkg/agent"
	"frontdesk/pkg/channels/web"
	"frontdesk/pkg/config"
	"frontdesk/pkg/knowledge"
	"frontdesk/pkg/llm"
	"frontdesk/pkg/mail"
	"frontdesk/pkg/monitor"
	"frontdesk/pkg/store"
	"frontdesk/pkg/tools"
)

// seedSlots is the demo availability loaded on first start. Dates that
// already carry slots in the database are left untouched.
var seedSlots = map[string][]string{
	"2024-01-15": {"9:00 AM", "11:00 AM", "2:00 PM", "4:00 PM"},
	"2024-01-16": {"10:00 AM", "1:00 PM", "3:00 PM"},
	"2024-01-17": {"9:00 AM", "11:00 AM", "2:00 PM", "4:00 PM", "5:00 PM"},
}

func main() {
	cfg, err := config.Load("config.json")
	if err != nil {
		log.Printf("⚠️ Warning: failed to load config.json: %v", err)
		log.Printf("Using default config.")
		cfg = config.Default()
	}
	monitor.SetupSlog(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.NewSQLiteStore(store.Config{
		DatabasePath: cfg.Storage.DatabasePath,
		Debug:        cfg.Storage.Debug,
	})
	if err != nil {
		log.Fatalf("❌ Failed to open store: %v", err)
	}
	defer db.Close()

	if err := db.SeedAvailability(ctx, seedSlots); err != nil {
		log.Fatalf("❌ Failed to seed availability: %v", err)
	}

	var index *knowledge.Index
	if cfg.Knowledge.Enabled {
		embedder, err := knowledge.NewOllamaEmbedder(cfg.Knowledge.OllamaURL, cfg.Knowledge.EmbedModel)
		if err != nil {
			log.Fatalf("❌ Failed to init embedder: %v", err)
		}
		index, err = knowledge.NewIndex(db.DB(), embedder)
		if err != nil {
			log.Fatalf("❌ Failed to init knowledge index: %v", err)
		}
		if n, err := index.Count(ctx); err == nil && n == 0 {
			if docs, chunks, err := index.Ingest(ctx, cfg.Knowledge.DataDir); err != nil {
				log.Printf("⚠️ Knowledge ingestion skipped: %v", err)
			} else {
				log.Printf("Knowledge base ready: %d documents, %d chunks", docs, chunks)
			}
		}
	}

	engine, err := llm.NewOpenAIEngine(llm.OpenAIConfig{
		APIKey:       cfg.Engine.APIKey,
		Model:        cfg.Engine.Model,
		BaseURL:      cfg.Engine.BaseURL,
		Name:         cfg.Engine.AssistantName,
		Instructions: cfg.Engine.Instructions,
	})
	if err != nil {
		log.Fatalf("❌ Failed to init reasoning engine: %v", err)
	}

	synth := knowledge.NewKeywordSynthesizer()
	registry := tools.NewRegistry()
	registry.Register(tools.NewBookingTool(db))
	registry.Register(tools.NewEmailTool(mail.NewResendTransport(mail.ResendConfig{
		APIKey:  cfg.Mail.APIKey,
		From:    cfg.Mail.From,
		BaseURL: cfg.Mail.BaseURL,
	})))
	registry.Register(tools.NewAvailabilityTool(db))
	if index != nil {
		registry.Register(tools.NewKnowledgeTool(index, synth, cfg.Knowledge.TopK))
	} else {
		registry.Register(tools.NewKnowledgeTool(nil, synth, cfg.Knowledge.TopK))
	}
	registry.Register(tools.NewAppointmentsTool(db))

	driver := agent.NewDriver(engine, registry, cfg.Engine)

	cliMon := monitor.NewCLIMonitor()
	if err := cliMon.Start(); err != nil {
		log.Fatalf("❌ Failed to start monitor: %v", err)
	}
	driver.SetMonitor(cliMon)

	deps := web.Deps{
		Agent:   driver,
		Store:   db,
		Synth:   synth,
		DataDir: cfg.Knowledge.DataDir,
		TopK:    cfg.Knowledge.TopK,
	}
	if index != nil {
		deps.Retriever = index
		deps.Index = index
	}
	server := web.NewServer(cfg.Server, deps)
	driver.SetObserver(server)

	if err := server.Start(); err != nil {
		log.Fatalf("❌ Failed to start web server: %v", err)
	}

	<-ctx.Done()
	log.Println("Received shutdown signal. Stopping services...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Printf("⚠️ Web server shutdown error: %v", err)
	}
	cliMon.Stop()
	log.Println("Bye!")
}
