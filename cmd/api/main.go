// @title           Inventario y Facturación API
// @version         1.0
// @description     Kardex, facturas con consecutivo, reportes de ventas y envío de facturas por correo.
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/inventario-facturacion/docs"
	"github.com/jhoicas/inventario-facturacion/internal/application/auth"
	"github.com/jhoicas/inventario-facturacion/internal/application/billing"
	"github.com/jhoicas/inventario-facturacion/internal/application/catalog"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/application/report"
	"github.com/jhoicas/inventario-facturacion/internal/application/settings"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/blob"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/email"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/inventario-facturacion/internal/infrastructure/pdf"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-facturacion/internal/interfaces/http"
	"github.com/jhoicas/inventario-facturacion/pkg/config"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage agrupa los repositorios del driver elegido.
type storage struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
	invoices  repository.InvoiceRepository
	users     repository.UserRepository
	settings  repository.SettingsRepository
	counters  repository.CounterRepository
	tx        inventory.TxRunner
	close     func()
}

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
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	loc := report.LoadLocation(cfg.Reports.Timezone)

	registerMovementUC := inventory.NewRegisterMovementUseCase(store.tx, store.products, store.movements, log)
	numbers := billing.NewInvoiceNumberAllocator(store.counters, cfg.Billing.CounterMaxRetries, cfg.Billing.CounterBackoff, log)
	invoiceUC := billing.NewInvoiceUseCase(store.invoices, store.products, registerMovementUC, numbers, log)
	settingsUC := settings.NewUseCase(store.settings, log)

	var images catalog.ImageStorage
	if cfg.Images.Enabled() {
		images = blob.NewCloudinaryStorage(blob.CloudinaryConfig{
			CloudName:    cfg.Images.CloudName,
			UploadPreset: cfg.Images.UploadPreset,
			APIKey:       cfg.Images.APIKey,
			APISecret:    cfg.Images.APISecret,
			BaseURL:      cfg.Images.BaseURL,
		})
	} else {
		log.Warn().Msg("Cloudinary no configurado: subida de imágenes deshabilitada")
	}
	productUC := catalog.NewProductUseCase(store.products, registerMovementUC, images, cfg.Inventory.LowStockThreshold, log)

	var mailer billing.InvoiceMailer
	if cfg.Mail.Enabled() {
		mailer = email.NewResendMailer(cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.URL)
	} else {
		log.Warn().Msg("RESEND_API_KEY vacío: envío de facturas por correo deshabilitado")
	}
	sendInvoiceUC := billing.NewSendInvoiceUseCase(store.invoices, settingsUC, billing.NewInvoiceDocumentBuilder(loc), mailer, log)
	invoicePDFUC := billing.NewPDFUseCase(store.invoices, settingsUC, infrapdf.NewMarotoPDFGenerator(loc))
	salesReportUC := report.NewSalesReportUseCase(store.movements, store.products, loc, log)

	authUC := auth.NewAuthUseCase(store.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.HTTP.AllowOrigins}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    cfg.App.Name,
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ProductUC:        productUC,
		RegisterMovement: registerMovementUC,
		Invoices:         invoiceUC,
		SendInvoice:      sendInvoiceUC,
		InvoicePDF:       invoicePDFUC,
		SalesReport:      salesReportUC,
		SettingsUC:       settingsUC,
		Location:         loc,
		JWTSecret:        cfg.JWT.Secret,
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

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageMemory {
		mem := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			products:  memory.NewProductRepository(mem),
			movements: memory.NewStockMovementRepository(mem),
			invoices:  memory.NewInvoiceRepository(mem),
			users:     memory.NewUserRepository(mem),
			settings:  memory.NewSettingsRepository(mem),
			counters:  memory.NewCounterRepository(mem),
			tx:        memory.NewTxRunner(mem),
			close:     func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &storage{
		products:  postgres.NewProductRepository(pool),
		movements: postgres.NewStockMovementRepository(pool),
		invoices:  postgres.NewInvoiceRepository(pool),
		users:     postgres.NewUserRepository(pool),
		settings:  postgres.NewSettingsRepository(pool),
		counters:  postgres.NewCounterRepository(pool),
		tx:        postgres.NewTxRunner(pool),
		close:     pool.Close,
	}, nil
}
