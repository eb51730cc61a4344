package server

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meronic/iot-backend/config"
	"github.com/meronic/iot-backend/internal/db"
	"github.com/meronic/iot-backend/internal/health"
	"github.com/meronic/iot-backend/internal/inventory"
	"github.com/meronic/iot-backend/internal/logs"
	"github.com/meronic/iot-backend/internal/middleware"
	"github.com/meronic/iot-backend/internal/status"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	Router     *mux.Router
	httpServer *http.Server

	db     *gorm.DB
	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	// 1) Логи
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	// 2) БД (опционально). Схема инвентаря существует заранее,
	// миграций здесь нет.
	if drv := a.cfg.Database.Driver; drv != "" {
		d, err := db.Open(drv, a.cfg.Database.DSN)
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		a.db = d
	}

	// 3) Роутер + middleware
	a.Router = mux.NewRouter()
	a.Router.Use(middleware.RequestID)
	a.Router.Use(middleware.Recoverer)
	a.Router.Use(middleware.LoggerMW)

	// 4) Баннер и health
	if a.db != nil {
		health.RegisterRoutesWithDB(a.Router, a.db)
	} else {
		health.RegisterRoutes(a.Router)
	}

	// 5) Инвентарь устройств + статусы
	if a.db != nil {
		invHTTP := inventory.NewHTTP(inventory.NewRepo(a.db))
		invHTTP.RegisterRoutes(a.Router)

		stHTTP := status.NewHTTP(status.NewRepo(a.db))
		stHTTP.RegisterRoutes(a.Router)
	}

	a.Router.Walk(func(rt *mux.Route, r *mux.Router, ancestors []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return ErrNotInitialized
	}
	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() { <-sigs; a.cancel() }()

	a.httpServer = &http.Server{
		Addr:         bind,
		// CORS и X-Process-Time поверх роутера, чтобы покрыть и 404/405
		Handler:      middleware.CORS(middleware.ProcessTime(a.Router)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = a.httpServer.Shutdown(ctx)
	logs.Close()
	return nil
}

var ErrNotInitialized = &initError{"server not initialized (call Initialize(cfg) first)"}

type initError struct{ s string }

func (e *initError) Error() string { return e.s }
