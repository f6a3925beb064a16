package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wayfarelabs/travel-planner-api/internal/adapters/cloudinary"
	"github.com/wayfarelabs/travel-planner-api/internal/adapters/gemini"
	"github.com/wayfarelabs/travel-planner-api/internal/adapters/httpapi"
	memassetstore "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/assetstore"
	memphotorepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/photorepo"
	memplanner "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/planner"
	memtriprepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/memory/userrepo"
	mongodb "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo"
	mgophotorepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo/photorepo"
	mgotriprepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo/triprepo"
	mgouserrepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/mongo/userrepo"
	postgres "github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres"
	pgphotorepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres/photorepo"
	pgtriprepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres/triprepo"
	pguserrepo "github.com/wayfarelabs/travel-planner-api/internal/adapters/postgres/userrepo"
	"github.com/wayfarelabs/travel-planner-api/internal/app/auth"
	"github.com/wayfarelabs/travel-planner-api/internal/app/ownership"
	"github.com/wayfarelabs/travel-planner-api/internal/app/photos"
	"github.com/wayfarelabs/travel-planner-api/internal/app/trips"
	platformclock "github.com/wayfarelabs/travel-planner-api/internal/platform/clock"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/config"
	"github.com/wayfarelabs/travel-planner-api/internal/platform/token"
	assetstoreport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/assetstore"
	photorepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/photorepo"
	plannerport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/planner"
	triprepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/triprepo"
	userrepoport "github.com/wayfarelabs/travel-planner-api/internal/ports/out/userrepo"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	port := getenv("PORT", "8080")

	authCfg, err := config.LoadAuthConfigFromEnv()
	if err != nil {
		log.Error("invalid auth config", "err", err)
		os.Exit(1)
	}

	clk := platformclock.NewSystemClock()
	tokens := token.NewService(authCfg, clk)

	ctx := context.Background()

	// Storage backend: memory (default), mongo, or postgres.
	storageBackend := getenv("STORAGE_BACKEND", "memory")
	var (
		userRepo  userrepoport.Repository
		tripRepo  triprepoport.Repository
		photoRepo photorepoport.Repository
		cleanup   func()
	)
	switch storageBackend {
	case "mongo":
		db, err := mongodb.Connect(ctx, os.Getenv("MONGO_URL"), getenv("MONGO_DB", "travelplanner"))
		if err != nil {
			log.Error("invalid mongo config", "err", err)
			os.Exit(1)
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			log.Error("mongo index bootstrap failed", "err", err)
			os.Exit(1)
		}
		cleanup = func() { _ = db.Client().Disconnect(context.Background()) }

		userRepo = mgouserrepo.NewRepo(db)
		tripRepo = mgotriprepo.NewRepo(db)
		photoRepo = mgophotorepo.NewRepo(db)
	case "postgres":
		pool, err := postgres.NewPool(ctx, os.Getenv("DATABASE_URL"), postgres.PoolOptions{})
		if err != nil {
			log.Error("invalid postgres config", "err", err)
			os.Exit(1)
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Error("postgres migration failed", "err", err)
			os.Exit(1)
		}
		cleanup = pool.Close

		userRepo = pguserrepo.NewRepo(pool)
		tripRepo = pgtriprepo.NewRepo(pool)
		photoRepo = pgphotorepo.NewRepo(pool)
	default:
		userRepo = memuserrepo.NewRepo()
		tripRepo = memtriprepo.NewRepo()
		photoRepo = memphotorepo.NewRepo()
	}
	if cleanup != nil {
		defer cleanup()
	}

	// Asset backend: memory (default) or cloudinary.
	var assets assetstoreport.Store
	switch getenv("ASSET_BACKEND", "memory") {
	case "cloudinary":
		cloudCfg, err := config.LoadCloudinaryConfigFromEnv()
		if err != nil {
			log.Error("invalid cloudinary config", "err", err)
			os.Exit(1)
		}
		assets = cloudinary.NewStore(cloudCfg)
	default:
		assets = memassetstore.NewStore()
	}

	// Planner backend: canned (default) or gemini.
	var pl plannerport.Planner
	switch getenv("PLANNER_BACKEND", "canned") {
	case "gemini":
		gemCfg, err := config.LoadGeminiConfigFromEnv()
		if err != nil {
			log.Error("invalid gemini config", "err", err)
			os.Exit(1)
		}
		pl = gemini.NewPlanner(gemCfg)
	default:
		pl = memplanner.NewPlanner()
	}

	guard := ownership.NewGuard(tripRepo, photoRepo)
	authSvc := auth.NewService(userRepo, tokens, clk)
	tripSvc := trips.NewService(tripRepo, photoRepo, assets, pl, guard, clk, log)
	photoSvc := photos.NewService(photoRepo, assets, guard, clk, log)

	api := httpapi.NewServer(authSvc, tripSvc, photoSvc, log)
	handler := httpapi.NewRouter(api, httpapi.NewAuthMiddleware(tokens))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// Graceful shutdown
	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("api listening", "port", port, "storage", storageBackend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen failed", "err", err)
			os.Exit(1)
		}
	}()

	<-runCtx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
