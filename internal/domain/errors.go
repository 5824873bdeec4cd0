package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyScope se devuelve cuando se intenta importar sin perfil/usuario.
var ErrEmptyScope = errors.New("scope without profile or user")

// ErrorKind clasifica los fallos de una importación.
type ErrorKind int

const (
	ErrParseSkip ErrorKind = iota
	ErrValidation
	ErrPersistence
	ErrZeroValidRows
)

func (k ErrorKind) String() string {
	switch k {
	case ErrParseSkip:
		return "parse_skip"
	case ErrValidation:
		return "validation"
	case ErrPersistence:
		return "persistence"
	case ErrZeroValidRows:
		return "zero_valid_rows"
	default:
		return "unknown"
	}
}

// ValidationReason es un invariante de campo que una fila no cumple.
type ValidationReason int

const (
	MissingTicket ValidationReason = iota
	MissingSymbol
	InvalidOpenTime
	InvalidVolume
	InvalidPrice
)

func (r ValidationReason) String() string {
	switch r {
	case MissingTicket:
		return "missing ticket"
	case MissingSymbol:
		return "missing symbol"
	case InvalidOpenTime:
		return "invalid open time"
	case InvalidVolume:
		return "invalid volume"
	case InvalidPrice:
		return "invalid price"
	default:
		return "unknown reason"
	}
}

// RowError es un fallo etiquetado de una fila (o de la importación completa).
// El texto solo se genera en Error(), los tests comparan Kind y Reasons.
type RowError struct {
	Kind     ErrorKind
	Line     int
	TicketID string
	Reasons  []ValidationReason
	Err      error
}

func (e RowError) Error() string {
	switch e.Kind {
	case ErrValidation:
		parts := make([]string, len(e.Reasons))
		for i, r := range e.Reasons {
			parts[i] = r.String()
		}
		return fmt.Sprintf("line %d (ticket %s): %s", e.Line, e.TicketID, strings.Join(parts, ", "))
	case ErrPersistence:
		return fmt.Sprintf("ticket %s: save failed: %v", e.TicketID, e.Err)
	case ErrZeroValidRows:
		return "no valid trades found in file"
	case ErrParseSkip:
		return fmt.Sprintf("line %d: skipped: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
}

func (e RowError) Unwrap() error { return e.Err }

// Has devuelve true si la razón está entre las del error.
func (e RowError) Has(reason ValidationReason) bool {
	for _, r := range e.Reasons {
		if r == reason {
			return true
		}
	}
	return false
}
