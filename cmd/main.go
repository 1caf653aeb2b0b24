package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"

	"github.com/docefloco/atendente-ai/internal/ai"
	"github.com/docefloco/atendente-ai/internal/config"
	"github.com/docefloco/atendente-ai/internal/engine"
	"github.com/docefloco/atendente-ai/internal/store"
	"github.com/docefloco/atendente-ai/internal/wa"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// --- DB ---
	st, err := store.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.InitSchema(ctx); err != nil {
		log.Fatalf("schema error: %v", err)
	}

	// --- WhatsApp session ---
	gateway := wa.NewHTTPGateway(cfg.GatewayURL, cfg.GatewayToken)
	sup := wa.NewSupervisor(gateway)
	sup.OnStatus(func(st wa.Status) {
		log.Printf("[wa] status: %s", st)
	})

	// --- AI ---
	model := ai.NewOpenAIModel(cfg.OpenAIKey, cfg.OpenAIModel)
	intent := ai.NewClient(model)

	// --- Engine ---
	svc := engine.NewService(st, intent, sup, engine.LogSink{}, engine.DefaultFlushDelay)
	lifecycle := engine.NewLifecycle(st, sup, engine.LogSink{})

	go svc.Run(ctx, sup.Messages())

	// --- Router ---
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Webhook-Secret"},
	}))

	wa.RegisterRoutes(r, wa.NewHandler(sup, cfg.WebhookSecret))
	engine.RegisterRoutes(r, engine.NewHandler(st, lifecycle, sup))

	// --- health ---
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	sup.Initialize(ctx)

	log.Printf("listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
