package ports

import (
	"context"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// Notifier presenta el resultado de una importación al usuario.
type Notifier interface {
	// NotifyImport muestra contadores y errores de la importación.
	// En la implementación de consola, imprime una tabla formateada.
	NotifyImport(ctx context.Context, fileName string, result *domain.ImportResult) error
}
