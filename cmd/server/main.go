package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"

	archivesink "gearverse/internal/adapter/archive"
	httpadapter "gearverse/internal/adapter/http"
	metricsinmem "gearverse/internal/adapter/metrics/inmemory"
	"gearverse/internal/adapter/observer"
	gormrepo "gearverse/internal/adapter/repo/gorm"
	memrepo "gearverse/internal/adapter/repo/memory"
	"gearverse/internal/app/match"
	"gearverse/internal/app/ports"
	"gearverse/internal/app/replay"
	"gearverse/internal/matchcfg"
)

func main() {
	logger := log.New(os.Stderr, "gearverse ", log.LstdFlags)

	eventRepo, matchRepo, txManager := mustBuildRepos(logger)
	defaults := mustLoadDefaults(logger)
	kpiRecorder := metricsinmem.NewRecorder()

	obs := observer.NewServer(logger)
	sinks := []ports.RoundSink{obs}
	if dir := strings.TrimSpace(os.Getenv("GEARVERSE_ARCHIVE_DIR")); dir != "" {
		arch := archivesink.NewWriter(dir, logger)
		defer arch.Close()
		sinks = append(sinks, arch)
	}

	manager := match.NewManager()
	manager.TxManager = txManager
	manager.Events = eventRepo
	manager.Matches = matchRepo
	manager.Sinks = sinks
	manager.Metrics = kpiRecorder
	manager.Now = time.Now

	h := httpadapter.Handler{
		Matches:  manager,
		ReplayUC: replay.UseCase{Events: eventRepo, Matches: matchRepo},
		Defaults: defaults,
		KPI:      kpiRecorder,
	}

	wsAddr := envOr("GEARVERSE_WS_ADDR", ":8081")
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/ws/match/", obs.WSHandler())
		logger.Printf("observer feed listening on %s", wsAddr)
		if err := http.ListenAndServe(wsAddr, mux); err != nil {
			logger.Fatalf("observer server: %v", err)
		}
	}()

	addr := envOr("GEARVERSE_HTTP_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	s.Use(httpadapter.CORSMiddleware())
	h.RegisterRoutes(s)

	logger.Printf("api listening on %s", addr)
	s.Spin()
}

func mustBuildRepos(logger *log.Logger) (ports.EventRepository, ports.MatchRepository, ports.TxManager) {
	dsn := strings.TrimSpace(os.Getenv("GEARVERSE_DB_DSN"))
	if dsn == "" {
		logger.Println("GEARVERSE_DB_DSN not set; using in-memory repositories")
		store := memrepo.NewStore()
		return memrepo.NewEventRepo(store), memrepo.NewMatchRepo(store), memrepo.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		logger.Fatalf("open postgres: %v", err)
	}
	if dir := envOr("GEARVERSE_MIGRATIONS_DIR", "./migrations"); dir != "-" {
		if err := gormrepo.ApplyMigrations(context.Background(), db, dir); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
	}
	return gormrepo.NewEventRepo(db), gormrepo.NewMatchRepo(db), gormrepo.NewTxManager(db)
}

func mustLoadDefaults(logger *log.Logger) matchcfg.Config {
	path := strings.TrimSpace(os.Getenv("GEARVERSE_MATCH_CONFIG"))
	if path == "" {
		return matchcfg.Default()
	}
	cfg, err := matchcfg.Load(path)
	if err != nil {
		logger.Fatalf("load match config: %v", err)
	}
	return cfg
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}
