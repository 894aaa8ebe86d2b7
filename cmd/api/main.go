package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/banreservas/movimientos-prestamo-api/internal/application/movimientos"
	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/resilience"
	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/soap"
	"github.com/banreservas/movimientos-prestamo-api/internal/infrastructure/workers"
	httpRouter "github.com/banreservas/movimientos-prestamo-api/internal/interfaces/http"
	"github.com/banreservas/movimientos-prestamo-api/pkg/config"
	"github.com/banreservas/movimientos-prestamo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("backend", cfg.Backend.URL).
		Msg("iniciando aplicación")

	// Pipeline saliente: transporte HTTP -> breaker + retry -> invocador -> caso de uso.
	transport := soap.NewHTTPTransport(cfg.Backend)
	breaker := resilience.NewCircuitBreaker(resilience.BreakerConfig{
		WindowSize:   cfg.Resilience.BreakerWindow,
		FailureRatio: cfg.Resilience.BreakerRatio,
		Cooldown:     cfg.Resilience.BreakerCooldown,
	})
	retry := resilience.RetryPolicy{
		MaxAttempts: cfg.Resilience.MaxAttempts,
		Delay:       cfg.Resilience.RetryDelay,
	}
	invoker := soap.NewInvoker(transport, breaker, retry, log)

	pool := workers.NewPool(cfg.Workers.PoolSize, cfg.Workers.QueueSize, log)
	defer pool.Close()

	movementsUC := movimientos.NewUseCase(invoker, pool, cfg.Query, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Últimos Movimientos Préstamo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": cfg.App.Name,
			"breaker": breaker.State().String(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements: movementsUC,
		Log:       log,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
