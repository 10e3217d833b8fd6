package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"tinylink.local/internal/app/links"
	linkshttpapi "tinylink.local/internal/app/links/httpapi"
	"tinylink.local/internal/app/links/repo"
	"tinylink.local/internal/platform/config"
	"tinylink.local/internal/platform/db"
	"tinylink.local/internal/platform/httpmiddleware"
	"tinylink.local/internal/platform/httpserver"
	"tinylink.local/internal/platform/metrics"
	"tinylink.local/internal/platform/migrate"
	"tinylink.local/internal/platform/trace"
	"tinylink.local/web"
	"tinylink.local/web/middleware"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg := config.Load()

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	slog.SetDefault(slog.New(h))
	//DB
	dbCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	dbPool, errDB := db.New(dbCtx, cfg.DBDSN)
	if errDB != nil {
		log.Fatal(errDB)
	}
	defer dbPool.Close()
	if err := dbPool.Ping(dbCtx); err != nil {
		log.Fatal(err)
	}
	slog.Info("数据库连接成功")

	// 启动即迁移，失败直接退出
	migCtx, migCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer migCancel()
	res, errMig := migrate.Up(migCtx, dbPool, migrate.Options{Dir: cfg.MigrationsDir})
	if errMig != nil {
		log.Fatal(errMig)
	}
	slog.Info("迁移完成", "dir", res.Dir, "applied", len(res.AppliedFiles), "skipped", len(res.SkippedFiles))

	linksRepo := repo.NewLinksRepo(dbPool)
	linksSvc := links.NewService(linksRepo)

	metrics.Init()

	var shutdown func(context.Context) error
	if cfg.TracingEnabled {
		shutdown = trace.Init(cfg.OtlpGrpcEndpoint, cfg.ServiceName)
		if shutdown == nil {
			slog.Error("Trace init failed")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error(err.Error())
				}
			}()
		}
	} else {
		slog.Warn("Tracing disabled by config", "TRACING_ENABLED", false)
	}

	// 对外业务
	r := web.New()
	r.Use(web.Recovery(), middleware.RequestID(), middleware.AccessLog(), httpmiddleware.Metrics(), httpmiddleware.TraceName())

	api := r.Group("/api")

	linkshttpapi.RegisterWebRoutes(r)
	linkshttpapi.RegisterPublicRoutes(r, linksSvc)
	linkshttpapi.RegisterAPIRoutes(api, linksSvc, cfg.BaseURL)

	r.GET("/healthz", func(ctx *web.Context) {
		ctx.JSON(http.StatusOK, map[string]any{
			"ok":      true,
			"version": version,
		})
	})

	publicHandler := http.Handler(r)
	if cfg.TracingEnabled {
		publicHandler = otelhttp.NewHandler(r, "http")
	}
	publicSrv := httpserver.New(cfg, publicHandler)

	// 仅本机/内网
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	// 数据库连接状态检测
	adminMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		dbCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := dbPool.Ping(dbCtx); err != nil {
			w.WriteHeader(500)
			w.Write([]byte("DB Ping Err"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("DB ready"))
	})

	adminMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name": cfg.ServiceName,
			"version":      version,
			"commit":       commit,
			"build_time":   buildTime,
			"go_version":   runtime.Version(),
		})
	})

	if cfg.PprofEnabled {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	adminSrv := &http.Server{
		Addr:              cfg.AdminAddr, // 推荐：127.0.0.1:6060
		Handler:           adminMux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errch := make(chan error, 2)

	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(publicSrv, cfg.ShutdownTimeout, stopCtx)
	}()
	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(adminSrv, cfg.ShutdownTimeout, stopCtx)
	}()

	err := <-errch
	if err != nil {
		stop()
		select {
		case <-errch:
		case <-time.After(cfg.ShutdownTimeout + time.Second):
		}
		log.Fatal(err)
	}

	stop()
	<-errch
}
