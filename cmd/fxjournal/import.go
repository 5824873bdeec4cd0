package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/alejandrodnm/fxjournal/config"
	"github.com/alejandrodnm/fxjournal/internal/adapters/storage"
	"github.com/alejandrodnm/fxjournal/internal/csvimport"
	"github.com/alejandrodnm/fxjournal/internal/ports"
	"github.com/alejandrodnm/fxjournal/internal/scope"
)

// runImport importa un archivo, o todos los *.csv de un directorio.
func runImport(
	ctx context.Context,
	cfg *config.Config,
	store *storage.SQLiteStorage,
	resolver *scope.Resolver,
	notifier ports.Notifier,
	path, profile, user string,
	workers int,
) error {
	paths, err := importPaths(path)
	if err != nil {
		return err
	}

	sc, err := resolveScope(ctx, resolver, profile, user)
	if err != nil {
		return err
	}

	impCfg := csvimport.DefaultConfig()
	impCfg.Source = cfg.Import.Source
	impCfg.MaxConsecutiveFailures = cfg.Import.MaxConsecutiveFailures
	impCfg.DuplicateBatchSize = cfg.Import.DuplicateBatchSize
	impCfg.Location = cfg.Location()
	importer := csvimport.New(impCfg, store)

	slog.Info("importing", "files", len(paths), "scope", sc.String())

	failed := 0
	for _, fr := range importer.ImportFiles(ctx, paths, sc, workers) {
		fileName := filepath.Base(fr.Path)
		if fr.Result != nil {
			if nerr := notifier.NotifyImport(ctx, fileName, fr.Result); nerr != nil {
				slog.Warn("notifier error", "err", nerr)
			}
		}
		switch {
		case fr.Err != nil:
			slog.Error("import failed", "file", fileName, "err", fr.Err)
			failed++
		case !fr.Result.Success:
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d imports finished with errors", failed, len(paths))
	}
	return nil
}

// importPaths expande un directorio a sus *.csv, ordenados por nombre.
func importPaths(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	paths, err := filepath.Glob(filepath.Join(path, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", path, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .csv files in %q", path)
	}
	sort.Strings(paths)
	return paths, nil
}
