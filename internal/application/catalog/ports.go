package catalog

import (
	"context"

	"github.com/jhoicas/inventario-facturacion/internal/application/inventory"
)

// MovementRecorder registra la existencia inicial como una entrada del kardex.
type MovementRecorder interface {
	Record(ctx context.Context, in inventory.MovementInput) (string, error)
}

// ImageStorage almacenamiento de imágenes de producto (Cloudinary en producción).
type ImageStorage interface {
	// Upload sube la imagen y devuelve su URL pública.
	Upload(ctx context.Context, productID, filename string, data []byte) (string, error)
	// Delete elimina la imagen identificada por su URL pública.
	Delete(ctx context.Context, url string) error
}
