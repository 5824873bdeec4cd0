package csvimport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/alejandrodnm/fxjournal/internal/ports"
)

const (
	defaultMaxConsecutiveFailures = 10
	defaultMethod                 = "csv_upload"
)

// Config contiene la configuración del importador.
type Config struct {
	Source                 string         // tag de procedencia de los trades
	MaxConsecutiveFailures int            // aborta tras N fallos de escritura seguidos
	DuplicateBatchSize     int            // tickets por consulta de duplicados (≤ 30)
	Location               *time.Location // zona horaria de las fechas del broker
}

// DefaultConfig devuelve la configuración usada en producción.
func DefaultConfig() Config {
	return Config{
		Source:                 DefaultSource,
		MaxConsecutiveFailures: defaultMaxConsecutiveFailures,
		DuplicateBatchSize:     DuplicateBatchSize,
		Location:               time.UTC,
	}
}

// Request es una importación: el contenido del archivo y el scope dueño.
type Request struct {
	FileName string
	Content  string
	Scope    domain.Scope
	Method   string // "csv_upload" si está vacío
}

// Importer es el orquestador del pipeline de importación de CSV.
type Importer struct {
	cfg   Config
	store ports.TradeStore
	now   func() time.Time
}

// New crea un Importer con el store inyectado.
func New(cfg Config, store ports.TradeStore) *Importer {
	if cfg.MaxConsecutiveFailures <= 0 {
		cfg.MaxConsecutiveFailures = defaultMaxConsecutiveFailures
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Importer{cfg: cfg, store: store, now: time.Now}
}

// Import ejecuta el pipeline completo: detectar formato, parsear, validar,
// descartar duplicados, convertir, persistir trade a trade y guardar el audit log.
// Los fallos por fila van en el resultado; solo devuelve error si el scope está
// vacío o si el contexto se cancela a mitad de la escritura.
func (im *Importer) Import(ctx context.Context, req Request) (*domain.ImportResult, error) {
	if req.Scope.IsZero() {
		return nil, fmt.Errorf("csvimport.Import: %w", domain.ErrEmptyScope)
	}
	start := time.Now()

	lines := splitLines(req.Content)
	det := DetectFormat(lines)
	parsed := ParseRows(lines, det, im.cfg.Location)
	valid, validationErrs := Validate(parsed.Rows)

	slog.Info("import parsed",
		"file", req.FileName,
		"format", det.Format.String(),
		"header_line", det.HeaderIndex+1,
		"data_lines", parsed.DataLines,
		"skipped", parsed.Skipped,
		"valid", len(valid),
		"invalid", len(validationErrs),
	)

	result := &domain.ImportResult{
		Format:     det.Format,
		TotalRows:  parsed.DataLines,
		Errors:     validationErrs,
		ParseSkips: parsed.Skips,
		Trades:     valid,
	}

	if len(valid) == 0 {
		result.Errors = append(result.Errors, domain.RowError{Kind: domain.ErrZeroValidRows})
		im.writeLog(ctx, req, result)
		return result, nil
	}

	dup := CheckDuplicates(ctx, im.store, req.Scope.ProfileID, valid, im.cfg.DuplicateBatchSize)
	result.SkippedTrades = dup.Skipped
	slog.Debug("duplicate check done",
		"profile", req.Scope.ProfileID,
		"new", len(dup.New),
		"already_imported", len(dup.Existing),
		"skipped_rows", dup.Skipped,
	)

	var cancelErr error
	consecutive := 0
	for _, row := range dup.New {
		if err := ctx.Err(); err != nil {
			cancelErr = err
			result.Aborted = true
			break
		}

		trade := Convert(row, req.Scope, im.cfg.Source, im.now())
		if _, err := im.store.InsertTrade(ctx, trade); err != nil {
			consecutive++
			result.Errors = append(result.Errors, domain.RowError{
				Kind:     domain.ErrPersistence,
				Line:     row.Line,
				TicketID: row.TicketID,
				Err:      err,
			})
			slog.Warn("trade save failed", "err", err, "ticket", row.TicketID, "consecutive", consecutive)
			if consecutive >= im.cfg.MaxConsecutiveFailures {
				slog.Error("too many consecutive save failures, aborting import",
					"file", req.FileName, "failures", consecutive)
				result.Aborted = true
				break
			}
			continue
		}
		consecutive = 0
		result.NewTrades++
	}

	result.Success = len(result.Errors) == 0 && cancelErr == nil
	im.writeLog(ctx, req, result)

	slog.Info("import finished",
		"file", req.FileName,
		"new", result.NewTrades,
		"skipped", result.SkippedTrades,
		"errors", len(result.Errors),
		"aborted", result.Aborted,
		"duration", time.Since(start),
	)

	if cancelErr != nil {
		return result, fmt.Errorf("csvimport.Import: %w", cancelErr)
	}
	return result, nil
}

// writeLog guarda el audit log de la ejecución. Un fallo aquí se registra pero
// no cambia el resultado de la importación.
func (im *Importer) writeLog(ctx context.Context, req Request, result *domain.ImportResult) {
	method := req.Method
	if method == "" {
		method = defaultMethod
	}
	entry := domain.ImportLog{
		Method:        method,
		Format:        result.Format.String(),
		FileName:      req.FileName,
		ImportedAt:    im.now().UTC(),
		TotalRows:     result.TotalRows,
		NewTrades:     result.NewTrades,
		SkippedTrades: result.SkippedTrades,
		UpdatedTrades: result.UpdatedTrades,
		ProfileID:     req.Scope.ProfileID,
		UserID:        req.Scope.UserID,
		Status:        domain.StatusFor(len(result.Errors), result.NewTrades),
		Errors:        result.Messages(),
	}

	// El log se escribe aunque el contexto de la importación se haya cancelado.
	id, err := im.store.SaveImportLog(context.WithoutCancel(ctx), entry)
	if err != nil {
		slog.Warn("import log save failed", "err", err, "file", req.FileName)
		return
	}
	result.LogID = id
}
