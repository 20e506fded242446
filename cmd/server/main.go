package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"paygen/config"
	"paygen/internal/payments"
	"paygen/internal/payments/handlers"
)

func main() {
	configFile := flag.String("config", os.Getenv("CONFIG_FILE"), "path to an optional YAML config file")
	flag.Parse()

	appConfig, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	logger := config.NewLogger(appConfig.Log)

	cleanup, err := config.InitTracer(appConfig, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	metrics, err := payments.NewMetrics(registry)
	if err != nil {
		log.Fatal(err)
	}

	processor := payments.NewPaymentProcessor(setupHttpClient(appConfig), appConfig.Form.EndpointURL, appConfig.Form.IdentifierField, logger)
	form := payments.NewForm(processor, metrics, logger)

	renderer, err := handlers.NewTemplateRenderer()
	if err != nil {
		log.Fatal(err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	if appConfig.Telemetry.Enabled {
		e.Use(otelecho.Middleware(appConfig.Telemetry.ServiceName))
	}
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())

	paymentHandler := handlers.NewPaymentHandler(form, appConfig.Form.Title, appConfig.Form.IdentifierLabel)

	e.GET("/", paymentHandler.Show)
	e.POST("/", paymentHandler.Handle)
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	addr := fmt.Sprintf("%s:%d", appConfig.Server.Host, appConfig.Server.Port)
	logger.Info("starting payment form",
		"addr", addr,
		"endpoint", appConfig.Form.EndpointURL,
		"identifierField", appConfig.Form.IdentifierField)

	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// The client carries no Timeout: a submission waits as long as the backend
// takes or until the browser goes away.
func setupHttpClient(appConfig *config.AppConfig) *http.Client {
	transport := http.DefaultTransport
	if appConfig.Telemetry.Enabled {
		transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	return &http.Client{
		Transport: transport,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	})
}
