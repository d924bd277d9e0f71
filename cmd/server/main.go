package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fullauth/gateway/api/handler"
	"github.com/fullauth/gateway/backend/httpapi"
	"github.com/fullauth/gateway/domain"
	"github.com/fullauth/gateway/internal/config"
	"github.com/fullauth/gateway/internal/flowmem"
	"github.com/fullauth/gateway/internal/infrastructure/monitor"
	"github.com/fullauth/gateway/internal/middleware"
	"github.com/fullauth/gateway/internal/oauth"
	"github.com/fullauth/gateway/internal/router"
	"github.com/fullauth/gateway/internal/services/lifecycle"
	"github.com/fullauth/gateway/internal/session"
	"github.com/fullauth/gateway/internal/token"
	"github.com/fullauth/gateway/pkg/httpcontext"
	"github.com/fullauth/gateway/pkg/logger"
	"github.com/fullauth/gateway/usecase/authflow"
	profileUC "github.com/fullauth/gateway/usecase/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		AppName:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	api := httpapi.NewClient(httpapi.Config{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.Backend.Timeout,
	}, zapLogger)

	mon := monitor.New(api, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	secure := cfg.IsProduction()
	codec := token.NewCodec()
	sessions := session.NewCookieStore(codec, secure, zapLogger)
	memory := flowmem.NewCookieMemory(secure, zapLogger)

	provider := oauth.NewProvider(oauth.Config{
		ClientID:    cfg.OAuth.ClientID,
		AuthURL:     cfg.OAuth.AuthURL,
		RedirectURL: cfg.OAuth.RedirectURL,
		Scopes:      cfg.OAuth.Scopes,
	}, secure, zapLogger)

	flow := authflow.New(api, sessions, memory, zapLogger)
	profileUseCase := profileUC.New(api, api, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:    apiHandler.NewAuthHandler(flow, api, provider, ctxAdapter, zapLogger),
		Profile: apiHandler.NewProfileHandler(profileUseCase, sessions, ctxAdapter, zapLogger),
		Page:    apiHandler.NewPageHandler(sessions, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	routes := routeTable(cfg)
	r := router.New(handlers)

	guard := middleware.RouteGuard(routes, sessions, zapLogger)
	requestID := middleware.RequestID()
	handler := requestID(guard(r.Handler))

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("gateway started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// routeTable applies configured route lists over the built-in defaults.
func routeTable(cfg *config.Config) *domain.RouteTable {
	public := cfg.Routes.Public
	if len(public) == 0 {
		public = domain.DefaultPublicRoutes
	}
	authOnly := cfg.Routes.AuthOnly
	if len(authOnly) == 0 {
		authOnly = domain.DefaultAuthRoutes
	}
	return domain.NewRouteTable(public, authOnly)
}
