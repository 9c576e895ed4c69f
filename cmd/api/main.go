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

	"github.com/jhoicas/warung-pos/docs"
	"github.com/jhoicas/warung-pos/internal/application/analytics"
	"github.com/jhoicas/warung-pos/internal/application/billing"
	"github.com/jhoicas/warung-pos/internal/application/ports"
	"github.com/jhoicas/warung-pos/internal/infrastructure/bootstrap"
	infrapdf "github.com/jhoicas/warung-pos/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/warung-pos/internal/interfaces/http"
	"github.com/jhoicas/warung-pos/pkg/config"
	"github.com/jhoicas/warung-pos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("terminal", cfg.App.TerminalID).
		Str("store", cfg.Store.Driver).
		Msg("iniciando terminal")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	term, err := bootstrap.StartTerminal(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("arranque de la terminal")
	}
	defer term.Close()

	// PDF: comprobante de 80 mm
	receiptUC := billing.NewReceiptUseCase(term.Ledger, infrapdf.NewMarotoReceiptGenerator(), ports.ReceiptHeader{
		ShopName: cfg.Receipt.ShopName,
		Tagline:  cfg.Receipt.Tagline,
		Address:  cfg.Receipt.Address,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    docs.SwaggerInfo.Title,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:     cfg.App.Name,
		Sessions:    term.Sessions,
		Catalog:     term.Catalog,
		Directory:   term.Directory,
		Engine:      term.Engine,
		HistoryUC:   analytics.NewHistoryUseCase(term.Ledger),
		DashboardUC: analytics.NewDashboardUseCase(term.Ledger),
		ReceiptUC:   receiptUC,
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

	log.Info().Msg("terminal detenida")
}
