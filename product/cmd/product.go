package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/Alturino/productproxy/internal/common/constants"
	"github.com/Alturino/productproxy/internal/config"
	"github.com/Alturino/productproxy/internal/log"
	"github.com/Alturino/productproxy/internal/metrics"
	"github.com/Alturino/productproxy/internal/middleware"
	inOtel "github.com/Alturino/productproxy/internal/otel"
	"github.com/Alturino/productproxy/internal/restdb"
	"github.com/Alturino/productproxy/product/internal/controller"
	"github.com/Alturino/productproxy/product/internal/otel"
	"github.com/Alturino/productproxy/product/internal/service"
)

func RunProductService(c context.Context, envDir string, logFile string) {
	c, span := otel.Tracer.Start(c, "RunProductService")
	defer span.End()

	logger := log.InitLogger(logFile).
		With().
		Str(log.KeyAppName, constants.APP_PRODUCT_SERVICE).
		Str(log.KeyTag, "main RunProductService").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing config").Logger()
	logger.Info().Msg("initializing config")
	c = logger.WithContext(c)
	cfg := config.InitConfig(c, envDir, constants.APP_PRODUCT_SERVICE)
	logger = logger.Level(log.LevelForEnv(cfg.Application.Env)).
		With().
		Any(log.KeyConfig, cfg).
		Logger()
	logger.Info().Msg("initialized config")

	logger = logger.With().Str(log.KeyProcess, "initializing otel sdk").Logger()
	logger.Info().Msg("initializing otel sdk")
	c = logger.WithContext(c)
	shutdownFuncs, err := inOtel.InitOtelSdk(c, constants.APP_PRODUCT_SERVICE, cfg.Otel)
	if err != nil {
		err = fmt.Errorf("failed initializing otel sdk with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		shutdownOtel(c, shutdownFuncs)
		return
	}
	logger.Info().Msg("initialized otel sdk")

	logger = logger.With().Str(log.KeyProcess, "initializing remote store client").Logger()
	logger.Info().Msg("initializing remote store client")
	client, err := restdb.NewClient(cfg.Remote)
	if err != nil {
		err = fmt.Errorf("failed initializing remote store client with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		shutdownOtel(c, shutdownFuncs)
		return
	}
	classifier, err := restdb.NewClassifier(cfg.Remote.Classifier, cfg.Remote.Marker)
	if err != nil {
		err = fmt.Errorf("failed initializing response classifier with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		shutdownOtel(c, shutdownFuncs)
		return
	}
	logger.Info().Str(log.KeyRemoteURL, cfg.Remote.BaseURL).Msg("initialized remote store client")

	logger = logger.With().Str(log.KeyProcess, "initializing productService").Logger()
	logger.Info().Msg("initializing productService")
	productService := service.NewProductService(client, classifier)
	logger.Info().Msg("initialized productService")

	logger = logger.With().Str(log.KeyProcess, "initializing router").Logger()
	logger.Info().Msg("initializing router")
	router := mux.NewRouter()
	router.StrictSlash(true)
	router.Use(middleware.Chain(constants.APP_PRODUCT_SERVICE)...)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	logger.Info().Msg("initialized router")

	logger = logger.With().Str(log.KeyProcess, "attach product controller").Logger()
	logger.Info().Msg("attaching product controller")
	controller.AttachProductController(router, &productService)
	logger.Info().Msg("attached product controller")

	logger = logger.With().Str(log.KeyProcess, "initializing server").Logger()
	logger.Info().Msg("initializing server")
	c = logger.WithContext(c)
	server := http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Application.Host, cfg.Application.Port),
		BaseContext:  func(net.Listener) context.Context { return c },
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.Remote.Timeout + 5*time.Second,
	}
	logger.Info().Msg("initialized server")

	serverErr := make(chan error, 1)
	go func() {
		logger := logger.With().Str(log.KeyProcess, "start server").Logger()
		logger.Info().Msgf("start listening request at %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("encounter error=%w while running server", err)
			return
		}
		close(serverErr)
	}()

	select {
	case <-c.Done():
		logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
		logger.Info().Msg("received interuption signal shutting down")
	case err := <-serverErr:
		logger = logger.With().Str(log.KeyProcess, "shutdown server").Logger()
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(c), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		err = fmt.Errorf("failed shutting down server with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
	}
	logger.Info().Msg("shutdown server")

	shutdownOtel(logger.WithContext(shutdownCtx), shutdownFuncs)
	logger.Info().Msg("server completely shutdown")
}

func shutdownOtel(c context.Context, shutdownFuncs []inOtel.ShutdownFunc) {
	logger := zerolog.Ctx(c).With().Str(log.KeyProcess, "shutting down otel").Logger()
	logger.Info().Msg("shutting down otel")
	if err := inOtel.ShutdownOtel(c, shutdownFuncs); err != nil {
		err = fmt.Errorf("failed shutting down otel with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return
	}
	logger.Info().Msg("shutdown otel")
}
