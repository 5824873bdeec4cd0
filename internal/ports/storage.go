package ports

import (
	"context"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// TradeStore persiste los trades del diario y los audit logs de importación.
type TradeStore interface {
	// InsertTrade guarda un trade nuevo y devuelve el ID generado.
	InsertTrade(ctx context.Context, trade domain.Trade) (string, error)

	// ExistingTicketIDs devuelve, de los tickets dados, los que ya existen para el perfil.
	// El llamador limita el tamaño del IN (ver csvimport.DuplicateBatchSize).
	ExistingTicketIDs(ctx context.Context, profileID string, ticketIDs []string) ([]string, error)

	// ListTrades devuelve los trades del perfil, más recientes primero.
	ListTrades(ctx context.Context, profileID string) ([]domain.Trade, error)

	// SaveImportLog guarda el audit log de una ejecución y devuelve su ID.
	SaveImportLog(ctx context.Context, log domain.ImportLog) (string, error)

	// ListImportLogs devuelve los últimos audit logs del perfil.
	ListImportLogs(ctx context.Context, profileID string, limit int) ([]domain.ImportLog, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}

// ConfigStore es el documento de configuración remoto (compartido entre instalaciones).
type ConfigStore interface {
	// GetConfigDocument devuelve los campos del documento, o nil si no existe.
	GetConfigDocument(ctx context.Context, name string) (map[string]string, error)

	// MergeConfigDocument hace set/merge de los campos dados sobre el documento.
	MergeConfigDocument(ctx context.Context, name string, fields map[string]string) error
}
