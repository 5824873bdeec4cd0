package ports

import "github.com/alejandrodnm/fxjournal/internal/domain"

// LocalOverride es el override local (por máquina) del scope de importación.
type LocalOverride interface {
	// LoadScope devuelve el scope guardado; ok=false si no hay override.
	LoadScope() (scope domain.Scope, ok bool, err error)
	SaveScope(scope domain.Scope) error
	ClearScope() error
}
