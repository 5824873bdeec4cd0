package csvimport

// batch.go: importación de varios exports (p.ej. un statement por mes).
//
// La lectura de archivos va en paralelo con un worker pool; la importación es
// secuencial y en el orden recibido, así el chequeo de duplicados de cada
// archivo ve los trades guardados por los anteriores.

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/alejandrodnm/fxjournal/internal/domain"
)

// FileResult es el resultado de importar un archivo del lote.
type FileResult struct {
	Path   string
	Result *domain.ImportResult // nil si el archivo no se pudo leer
	Err    error
}

type loadedFile struct {
	index   int
	path    string
	content string
	err     error
}

// ImportFiles importa los archivos dados con el mismo scope. Un archivo ilegible
// no detiene el lote; la cancelación del contexto sí.
func (im *Importer) ImportFiles(ctx context.Context, paths []string, sc domain.Scope, workers int) []FileResult {
	loaded := readFilesConcurrent(ctx, paths, workers)

	results := make([]FileResult, 0, len(paths))
	for _, f := range loaded {
		if f.err != nil {
			slog.Warn("import file unreadable, skipping", "path", f.path, "err", f.err)
			results = append(results, FileResult{Path: f.path, Err: f.err})
			continue
		}
		if err := ctx.Err(); err != nil {
			results = append(results, FileResult{Path: f.path, Err: fmt.Errorf("csvimport.ImportFiles: %w", err)})
			continue
		}

		res, err := im.Import(ctx, Request{
			FileName: filepath.Base(f.path),
			Content:  f.content,
			Scope:    sc,
		})
		results = append(results, FileResult{Path: f.path, Result: res, Err: err})
	}
	return results
}

// readFilesConcurrent lee los archivos con un worker pool y los devuelve en el
// orden de paths. Si workers <= 0 usa runtime.NumCPU().
func readFilesConcurrent(ctx context.Context, paths []string, workers int) []loadedFile {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, max(len(paths), 1))

	workCh := make(chan loadedFile, len(paths))
	out := make([]loadedFile, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range workCh {
				if err := ctx.Err(); err != nil {
					w.err = err
					out[w.index] = w
					continue
				}
				data, err := os.ReadFile(w.path)
				if err != nil {
					w.err = fmt.Errorf("read %q: %w", w.path, err)
				} else {
					w.content = string(data)
				}
				out[w.index] = w
			}
		}()
	}

	for i, p := range paths {
		workCh <- loadedFile{index: i, path: p}
	}
	close(workCh)
	wg.Wait()

	slog.Debug("import files loaded", "files", len(paths), "workers", workers)
	return out
}
