package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-facturacion/internal/application/dto"
	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
	"github.com/jhoicas/inventario-facturacion/internal/domain"
	"github.com/jhoicas/inventario-facturacion/internal/domain/entity"
	"github.com/jhoicas/inventario-facturacion/internal/domain/repository"
	"github.com/jhoicas/inventario-facturacion/pkg/logger"
	"github.com/jhoicas/inventario-facturacion/pkg/textutil"
)

// DefaultLowStockThreshold existencia a partir de la cual un producto se considera bajo.
const DefaultLowStockThreshold int64 = 5

const imageDeleteTimeout = 15 * time.Second

// ProductUseCase casos de uso del catálogo. Cost y Quantity se manejan vía movimientos.
type ProductUseCase struct {
	repo      repository.ProductRepository
	movements MovementRecorder
	images    ImageStorage
	lowStock  int64
	log       *logger.Logger
}

// NewProductUseCase construye el caso de uso. images puede ser nil (subida de imágenes deshabilitada).
func NewProductUseCase(
	repo repository.ProductRepository,
	movements MovementRecorder,
	images ImageStorage,
	lowStockThreshold int64,
	log *logger.Logger,
) *ProductUseCase {
	if lowStockThreshold <= 0 {
		lowStockThreshold = DefaultLowStockThreshold
	}
	return &ProductUseCase{
		repo:      repo,
		movements: movements,
		images:    images,
		lowStock:  lowStockThreshold,
		log:       logger.OrNop(log).Named("catalog"),
	}
}

// LowStockThreshold umbral de existencia baja configurado.
func (uc *ProductUseCase) LowStockThreshold() int64 { return uc.lowStock }

// Create crea el producto con existencia 0 y, si Quantity > 0, registra la existencia inicial
// como entrada al costo indicado.
func (uc *ProductUseCase) Create(ctx context.Context, userID, userEmail string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	case in.Price.IsNegative(), in.Cost.IsNegative():
		return nil, fmt.Errorf("%w: precio y costo no pueden ser negativos", domain.ErrInvalidInput)
	case in.Quantity < 0:
		return nil, fmt.Errorf("%w: la cantidad inicial no puede ser negativa", domain.ErrInvalidInput)
	}

	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Category:    strings.TrimSpace(in.Category),
		Price:       in.Price,
		Cost:        in.Cost,
		Supplier:    strings.TrimSpace(in.Supplier),
		Description: strings.TrimSpace(in.Description),
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("crear producto: %w", err)
	}

	if in.Quantity > 0 {
		cost := in.Cost
		if _, err := uc.movements.Record(ctx, inventory.MovementInput{
			ProductID: product.ID,
			Type:      entity.MovementTypeIn,
			Units:     in.Quantity,
			UnitCost:  &cost,
			Note:      "Existencia inicial",
			UserID:    userID,
			UserEmail: userEmail,
		}); err != nil {
			uc.log.Error().Err(err).Str("product_id", product.ID).Msg("no se registró la existencia inicial")
			return nil, fmt.Errorf("existencia inicial: %w", err)
		}
		p, err := uc.get(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		product = p
	}
	return uc.toResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(product), nil
}

// Update actualiza campos de catálogo. No permite modificar Cost ni Quantity (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.Supplier != nil {
		product.Supplier = strings.TrimSpace(*in.Supplier)
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("actualizar producto: %w", err)
	}
	return uc.toResponse(product), nil
}

// List lista productos por nombre con búsqueda opcional (nombre, categoría o proveedor; sin tildes) y paginación.
func (uc *ProductUseCase) List(ctx context.Context, q string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	matched := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		if textutil.Contains(p.Name, q) || textutil.Contains(p.Category, q) || textutil.Contains(p.Supplier, q) {
			matched = append(matched, p)
		}
	}
	from, to := page.Window(len(matched))
	items := make([]dto.ProductResponse, 0, to-from)
	for _, p := range matched[from:to] {
		items = append(items, *uc.toResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(matched)},
	}, nil
}

// LowStock devuelve los productos con existencia <= threshold, de menor a mayor existencia.
// threshold < 0 usa el umbral configurado.
func (uc *ProductUseCase) LowStock(ctx context.Context, threshold int64) ([]dto.ProductResponse, error) {
	if threshold < 0 {
		threshold = uc.lowStock
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	low := make([]*entity.Product, 0)
	for _, p := range list {
		if p.IsLowStock(threshold) {
			low = append(low, p)
		}
	}
	sort.SliceStable(low, func(i, j int) bool { return low[i].Quantity < low[j].Quantity })
	out := make([]dto.ProductResponse, 0, len(low))
	for _, p := range low {
		out = append(out, *uc.toResponse(p))
	}
	return out, nil
}

// Delete elimina un producto por ID. Sus movimientos se conservan en el kardex.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("eliminar producto: %w", err)
	}
	return nil
}

// SetImage sube una imagen nueva para el producto. Si la subida falla el producto queda sin cambios
// y ImageUpdated=false. La imagen anterior se elimina en segundo plano ignorando errores.
func (uc *ProductUseCase) SetImage(ctx context.Context, id, filename string, data []byte) (*dto.ProductImageResponse, error) {
	product, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: imagen vacía", domain.ErrInvalidInput)
	}
	if uc.images == nil {
		uc.log.Warn().Str("product_id", id).Msg("almacenamiento de imágenes no configurado")
		return &dto.ProductImageResponse{Product: *uc.toResponse(product), ImageUpdated: false}, nil
	}

	url, err := uc.images.Upload(ctx, id, filename, data)
	if err != nil {
		uc.log.Warn().Err(err).Str("product_id", id).Msg("subida de imagen fallida, producto sin cambio de imagen")
		return &dto.ProductImageResponse{Product: *uc.toResponse(product), ImageUpdated: false}, nil
	}

	previous := product.ImageURL
	product.ImageURL = url
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("guardar imagen: %w", err)
	}
	if previous != "" && previous != url {
		uc.deleteImageAsync(ctx, previous)
	}
	return &dto.ProductImageResponse{Product: *uc.toResponse(product), ImageUpdated: true}, nil
}

func (uc *ProductUseCase) deleteImageAsync(ctx context.Context, url string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), imageDeleteTimeout)
	go func() {
		defer cancel()
		if err := uc.images.Delete(ctx, url); err != nil {
			uc.log.Debug().Err(err).Str("url", url).Msg("no se eliminó la imagen anterior")
		}
	}()
}

func (uc *ProductUseCase) get(ctx context.Context, id string) (*entity.Product, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (uc *ProductUseCase) toResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Cost:        p.Cost,
		Quantity:    p.Quantity,
		Supplier:    p.Supplier,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		LowStock:    p.IsLowStock(uc.lowStock),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
