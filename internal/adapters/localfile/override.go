// Package localfile guarda el override local del scope de importación en un
// archivo YAML (equivalente al key-value local del navegador).
package localfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// overrideFile es el contenido del archivo.
type overrideFile struct {
	Scope domain.Scope `yaml:"scope"`
}

// Override implementa ports.LocalOverride sobre un archivo YAML.
type Override struct {
	path string
}

// NewOverride crea un Override que lee/escribe en path. El archivo no necesita existir.
func NewOverride(path string) *Override {
	return &Override{path: path}
}

// LoadScope lee el scope guardado. Un archivo inexistente o incompleto no es error.
func (o *Override) LoadScope() (domain.Scope, bool, error) {
	data, err := os.ReadFile(o.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Scope{}, false, nil
	}
	if err != nil {
		return domain.Scope{}, false, fmt.Errorf("localfile.LoadScope: read %q: %w", o.path, err)
	}

	var f overrideFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return domain.Scope{}, false, fmt.Errorf("localfile.LoadScope: parse %q: %w", o.path, err)
	}
	if f.Scope.IsZero() {
		return domain.Scope{}, false, nil
	}
	return f.Scope, true, nil
}

// SaveScope escribe el scope, creando el directorio si hace falta.
func (o *Override) SaveScope(scope domain.Scope) error {
	data, err := yaml.Marshal(overrideFile{Scope: scope})
	if err != nil {
		return fmt.Errorf("localfile.SaveScope: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(o.path), 0o755); err != nil {
		return fmt.Errorf("localfile.SaveScope: mkdir: %w", err)
	}
	if err := os.WriteFile(o.path, data, 0o600); err != nil {
		return fmt.Errorf("localfile.SaveScope: write %q: %w", o.path, err)
	}
	return nil
}

// ClearScope borra el archivo de override; no falla si no existe.
func (o *Override) ClearScope() error {
	if err := os.Remove(o.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("localfile.ClearScope: %w", err)
	}
	return nil
}
