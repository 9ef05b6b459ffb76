package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "lintang/routeviz/docs"
	"lintang/routeviz/pkg/kv"
	"lintang/routeviz/pkg/overlay"
	"lintang/routeviz/pkg/server/rest"
	"lintang/routeviz/pkg/server/rest/service"
	"lintang/routeviz/pkg/solverclient"
	"lintang/routeviz/pkg/util"

	"github.com/cockroachdb/pebble"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

//	@title			routeviz API
//	@version		1.0
//	@description	map overlays for vehicle routing solutions and their constraint indictments

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	var (
		listenAddr   = flag.String("listenaddr", util.GetEnv("ROUTEVIZ_LISTEN_ADDR", ":5000"), "server listen address")
		solverURL    = flag.String("solver", util.GetEnv("ROUTEVIZ_SOLVER_URL", "http://localhost:8080"), "solver service base url")
		solverPrefix = flag.String("prefix", util.GetEnv("ROUTEVIZ_SOLVER_PREFIX", "fdo"), "solver resource path prefix")
		snapshotDir  = flag.String("snapshots", util.GetEnv("ROUTEVIZ_SNAPSHOT_DIR", "routevizDB"), "pebble directory for overlay snapshots")
		fetchTimeout = flag.Duration("timeout", util.GetEnvDuration("ROUTEVIZ_FETCH_TIMEOUT", 10*time.Second), "solver request timeout")
		jitterRadius = flag.Float64("jitter", overlay.DefaultJitterRadius, "distance in meters between overlapping stops")
		debug        = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	store, err := kv.OpenSnapshotStore(*snapshotDir, &pebble.Options{})
	if err != nil {
		log.Fatal(err)
	}

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost"+*listenAddr+"/swagger/doc.json"),
	))

	client := solverclient.NewClient(*solverURL, *solverPrefix, &http.Client{Timeout: *fetchTimeout})
	renderer := overlay.NewRenderer()
	renderer.JitterRadius = *jitterRadius

	overlaySvc := service.NewOverlayService(client, store, renderer, m)
	rest.OverlayRouter(r, overlaySvc, m)

	slog.Info("server started", "addr", *listenAddr, "solver", *solverURL, "snapshots", *snapshotDir)
	srv := &http.Server{
		Addr:              *listenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      2 * *fetchTimeout,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serve(ctx, srv, 2 * *fetchTimeout, store); err != nil {
		log.Fatal(err)
	}
}

// serve runs srv until ctx is done, drains in-flight requests for at most
// grace and then closes closers in order.
func serve(ctx context.Context, srv *http.Server, grace time.Duration, closers ...io.Closer) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errc:
		serveErr = err
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		serveErr = srv.Shutdown(shutdownCtx)
		cancel()
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) && serveErr == nil {
			serveErr = err
		}
	}

	for _, c := range closers {
		if err := c.Close(); err != nil {
			slog.Error("close", "err", err)
		}
	}
	if errors.Is(serveErr, http.ErrServerClosed) {
		return nil
	}
	return serveErr
}
