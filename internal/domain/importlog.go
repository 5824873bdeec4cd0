package domain

import "time"

// ImportStatus es el resultado global de una importación.
type ImportStatus string

const (
	ImportSuccess ImportStatus = "success"
	ImportPartial ImportStatus = "partial"
	ImportFailed  ImportStatus = "failed"
)

// ImportLog es el registro de auditoría de una ejecución. Inmutable una vez guardado.
type ImportLog struct {
	ID            string
	Method        string // p.ej. "csv_upload"
	Format        string
	FileName      string
	ImportedAt    time.Time
	TotalRows     int
	NewTrades     int
	SkippedTrades int
	UpdatedTrades int
	ProfileID     string
	UserID        string
	Status        ImportStatus
	Errors        []string
}

// ImportResult es lo que recibe el llamador (CLI/UI) al terminar una importación.
type ImportResult struct {
	Success       bool
	Format        ReportFormat
	TotalRows     int
	NewTrades     int
	UpdatedTrades int // siempre 0: no hay update-in-place
	SkippedTrades int
	Errors        []RowError
	ParseSkips    []RowError       // líneas descartadas sin error (pies, cabeceras, líneas sin mapear)
	Trades        []ParsedTradeRow // filas válidas
	Aborted       bool             // se alcanzó el tope de fallos consecutivos
	LogID         string
}

// Messages renderiza los errores para mostrarlos o guardarlos en el audit log.
func (r ImportResult) Messages() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

// CountErrors devuelve cuántos errores hay de un tipo.
func (r ImportResult) CountErrors(kind ErrorKind) int {
	n := 0
	for _, e := range r.Errors {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// StatusFor decide el estado del audit log según errores y trades nuevos.
func StatusFor(errCount, newTrades int) ImportStatus {
	switch {
	case errCount == 0:
		return ImportSuccess
	case newTrades > 0:
		return ImportPartial
	default:
		return ImportFailed
	}
}
