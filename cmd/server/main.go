package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	httpadapter "townreeve/internal/adapter/http"
	metricsinmem "townreeve/internal/adapter/metrics/inmemory"
	gormrepo "townreeve/internal/adapter/repo/gorm"
	memrepo "townreeve/internal/adapter/repo/memory"
	"townreeve/internal/adapter/town/staticfile"
	"townreeve/internal/app/evaluate"
	"townreeve/internal/app/handoff"
	"townreeve/internal/app/ports"
	"townreeve/internal/app/report"
	"townreeve/internal/app/status"
	"townreeve/internal/domain/harness"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	handoffRepo, resultRepo, txManager := mustBuildRepos()
	baseline := staticfile.Provider{Path: envOr("TOWNREEVE_TOWN_FILE", "./config/town.yaml")}
	if _, err := baseline.Baseline(context.Background()); err != nil {
		log.Fatalf("load town baseline: %v", err)
	}
	kpiRecorder := metricsinmem.NewRecorder()

	h := httpadapter.Handler{
		HandoffUC: handoff.UseCase{Handoffs: handoffRepo, Now: time.Now},
		EvaluateUC: evaluate.UseCase{
			Harness:   harness.Service{},
			TxManager: txManager,
			Handoffs:  handoffRepo,
			Results:   resultRepo,
			Metrics:   kpiRecorder,
			Now:       time.Now,
		},
		ReportUC: report.UseCase{Handoffs: handoffRepo, Results: resultRepo},
		StatusUC: status.UseCase{Baseline: baseline},
		KPI:      kpiRecorder,
	}

	addr := envOr("TOWNREEVE_ADDR", ":8080")
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("townreeve server listening on %s", addr)
	s.Spin()
}

func mustBuildRepos() (ports.HandoffRepository, ports.ResultRepository, ports.TxManager) {
	dsn := strings.TrimSpace(os.Getenv("TOWNREEVE_DB_DSN"))
	if dsn == "" {
		// DSN-less runs keep everything in process memory. Artifacts do
		// not survive a restart, which is fine for local loops.
		log.Println("TOWNREEVE_DB_DSN empty, using in-memory artifact store")
		store := memrepo.NewStore()
		return memrepo.NewHandoffRepo(store), memrepo.NewResultRepo(store), memrepo.TxManager{}
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	if dir := envOr("TOWNREEVE_MIGRATIONS_DIR", "./migrations"); dir != "" {
		if err := gormrepo.ApplyMigrations(context.Background(), db, dir); err != nil {
			log.Fatalf("apply migrations: %v", err)
		}
	}
	return gormrepo.NewHandoffRepo(db), gormrepo.NewResultRepo(db), gormrepo.NewTxManager(db)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
