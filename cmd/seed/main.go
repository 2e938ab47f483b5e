// seed pobla una base PostgreSQL con el usuario administrador, la configuración de la tienda
// y un catálogo inicial (desde CSV o de ejemplo). Es idempotente: no duplica usuarios ni productos.
//
// Uso: go run ./cmd/seed [-csv catalogo.csv] [-latin1] [-admin admin@tienda.co]
// La contraseña del administrador se lee de SEED_ADMIN_PASSWORD.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/inventario-facturacion/internal/application/auth"
	"github.com/jhoicas/inventario-facturacion/internal/application/catalog"
	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/application/settings"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/internal/infrastructure/postgres"
	"github.com/jhoicas/inventario-facturacion/pkg/config"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
	"github.com/jhoicas/inventario-facturacion/pkg/textutil"
)

func main() {
	csvPath := flag.String("csv", "", "catálogo CSV separado por ';' (vacío = catálogo de ejemplo)")
	latin1 := flag.Bool("latin1", false, "el CSV está en Windows-1252")
	adminEmail := flag.String("admin", "admin@happyhappy.co", "email del administrador")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	products := sampleCatalog()
	if *csvPath != "" {
		f, err := os.Open(*csvPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *csvPath).Msg("abrir CSV")
		}
		products, err = parseCatalog(f, *latin1)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer catálogo")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	productRepo := postgres.NewProductRepository(pool)
	recorder := inventory.NewRegisterMovementUseCase(postgres.NewTxRunner(pool), productRepo, postgres.NewStockMovementRepository(pool), log)
	s := seeder{
		auth:     auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{Secret: cfg.JWT.Secret}, log),
		settings: settings.NewUseCase(postgres.NewSettingsRepository(pool), log),
		catalog:  catalog.NewProductUseCase(productRepo, recorder, nil, cfg.Inventory.LowStockThreshold, log),
		products: productRepo,
		log:      log,
	}
	if err := s.run(ctx, *adminEmail, os.Getenv("SEED_ADMIN_PASSWORD"), products); err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
}

type seeder struct {
	auth     *auth.AuthUseCase
	settings *settings.UseCase
	catalog  *catalog.ProductUseCase
	products repository.ProductRepository
	log      *logger.Logger
}

// run crea el administrador, guarda la configuración por defecto si no existe e importa los
// productos cuyo nombre (sin tildes ni mayúsculas) aún no está en el catálogo.
func (s seeder) run(ctx context.Context, adminEmail, adminPassword string, products []dto.CreateProductRequest) error {
	if adminPassword != "" {
		_, err := s.auth.RegisterUser(ctx, dto.CreateUserRequest{
			Email: adminEmail, Password: adminPassword, Name: "Administrador", Role: entity.RoleAdmin,
		})
		switch {
		case errors.Is(err, domain.ErrConflict):
			s.log.Info().Str("email", adminEmail).Msg("administrador ya existe")
		case err != nil:
			return fmt.Errorf("crear administrador: %w", err)
		default:
			s.log.Info().Str("email", adminEmail).Msg("administrador creado")
		}
	} else {
		s.log.Warn().Msg("SEED_ADMIN_PASSWORD vacío: no se crea administrador")
	}

	store, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("leer configuración: %w", err)
	}
	if _, err := s.settings.Update(ctx, dto.StoreSettingsRequest{
		Name: store.Name, NIT: store.NIT, Address: store.Address, Phone: store.Phone, Logo: store.Logo,
	}); err != nil {
		return fmt.Errorf("guardar configuración: %w", err)
	}

	existing, err := s.products.List(ctx)
	if err != nil {
		return fmt.Errorf("listar productos: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, p := range existing {
		seen[textutil.Fold(p.Name)] = struct{}{}
	}
	created := 0
	for _, p := range products {
		key := textutil.Fold(p.Name)
		if _, ok := seen[key]; ok {
			continue
		}
		if _, err := s.catalog.Create(ctx, "", adminEmail, p); err != nil {
			return fmt.Errorf("crear producto %q: %w", p.Name, err)
		}
		seen[key] = struct{}{}
		created++
	}
	s.log.Info().Int("created", created).Int("skipped", len(products)-created).Msg("catálogo importado")
	return nil
}
