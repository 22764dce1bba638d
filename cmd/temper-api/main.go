package main

import (
	"context"
	"log"
	"net/http"

	httpadapter "github.com/inesrocha/temper/internal/adapters/http"
	"github.com/inesrocha/temper/internal/adapters/ml"
	firestorestore "github.com/inesrocha/temper/internal/adapters/storage/firestore"
	memstore "github.com/inesrocha/temper/internal/adapters/storage/memory"
	sqlitestore "github.com/inesrocha/temper/internal/adapters/storage/sqlite"
	"github.com/inesrocha/temper/internal/adapters/twin"
	"github.com/inesrocha/temper/internal/app/analysis"
	"github.com/inesrocha/temper/internal/app/dialogue"
	"github.com/inesrocha/temper/internal/app/profile"
	"github.com/inesrocha/temper/internal/app/simulation"
	"github.com/inesrocha/temper/internal/config"
	"github.com/inesrocha/temper/internal/domain"
	"github.com/inesrocha/temper/internal/observability"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	observability.Init(cfg.LogLevel)
	logger := observability.Logger()

	// Inference: HuggingFace API when a key is configured, local
	// heuristic otherwise (dev, tests, offline).
	var inference domain.InferenceClient
	if cfg.UseHeuristic || cfg.HFAPIKey == "" {
		logger.Info("using heuristic inference models")
		inference = ml.NewHeuristic()
	} else {
		logger.Info("using HuggingFace inference API")
		inference = ml.NewHuggingFace(cfg.HFAPIKey, "", "")
	}

	// Twin: Vertex AI in gcp mode, deterministic templates locally.
	var twinClient domain.TwinClient
	if cfg.Mode == config.ModeGCP {
		logger.Info("using Vertex AI twin", "model", cfg.ModelName)
		vt, err := twin.NewVertexTwin(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.ModelName)
		if err != nil {
			log.Fatalf("error initializing Vertex twin: %v", err)
		}
		twinClient = vt
	} else {
		logger.Info("using template twin")
		twinClient = twin.NewTemplateTwin()
	}

	// Storage: memory, sqlite or firestore.
	var (
		sessions    domain.SessionStore
		turns       domain.TurnStore
		assessments domain.AssessmentStore
		opponents   domain.OpponentStore
	)

	switch cfg.StorageBackend {
	case "firestore":
		logger.Info("using Firestore storage", "project", cfg.GCPProjectID)
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("error initializing Firestore store: %v", err)
		}
		sessions, turns, assessments, opponents = store, store, store, store

	case "sqlite":
		logger.Info("using SQLite storage", "path", cfg.SQLitePath)
		store, err := sqlitestore.NewStore(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("error initializing SQLite store: %v", err)
		}
		defer store.Close()
		sessions, turns, assessments, opponents = store, store, store, store

	default:
		logger.Info("using in-memory storage")
		sessions = memstore.NewSessionStore()
		turns = memstore.NewTurnStore()
		assessments = memstore.NewAssessmentStore()
		opponents = memstore.NewOpponentStore()
	}

	analyzer := analysis.NewAnalyzer(inference)

	dialogueSvc := dialogue.NewService(analyzer, sessions, turns)
	analysisSvc := analysis.NewService(analyzer, sessions, turns, assessments)
	simulationSvc := simulation.NewService(analyzer, twinClient, sessions, turns, opponents)
	profileSvc := profile.NewService(sessions, turns)

	handler := httpadapter.NewServer(dialogueSvc, analysisSvc, simulationSvc, profileSvc, analyzer)

	addr := ":" + cfg.Port
	logger.Info("temper API listening", "addr", addr, "mode", cfg.Mode)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal(err)
	}
}
