package storage

// sqlite.go: persistencia del diario.
//
// Tablas:
//   trades:           un trade por (profile_id, ticket_id); el índice único es
//                     la última defensa del invariante que asegura el importador.
//   import_logs:      un audit log por importación, inmutable.
//   config_documents: documentos JSON clave/valor (configuración "remota").
//
// Las fechas se guardan como TEXT en UTC con ancho fijo para que ORDER BY
// sobre la columna sea cronológico.

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id           TEXT PRIMARY KEY,
    profile_id   TEXT NOT NULL,
    user_id      TEXT NOT NULL,
    ticket_id    TEXT NOT NULL,
    pair         TEXT NOT NULL,
    direction    TEXT NOT NULL,
    status       TEXT NOT NULL,
    entry_price  REAL NOT NULL DEFAULT 0,
    exit_price   REAL NOT NULL DEFAULT 0,
    pips         REAL NOT NULL DEFAULT 0,
    profit       REAL NOT NULL DEFAULT 0,
    lot_size     REAL NOT NULL DEFAULT 0,
    commission   REAL NOT NULL DEFAULT 0,
    swap         REAL NOT NULL DEFAULT 0,
    risk_amount  REAL NOT NULL DEFAULT 0,
    risk_reward  REAL NOT NULL DEFAULT 0,
    risk_percent REAL NOT NULL DEFAULT 0,
    opened_at    TEXT NOT NULL,
    closed_at    TEXT NOT NULL DEFAULT '',
    entry_date   TEXT NOT NULL DEFAULT '',
    entry_time   TEXT NOT NULL DEFAULT '',
    exit_date    TEXT NOT NULL DEFAULT '',
    exit_time    TEXT NOT NULL DEFAULT '',
    notes        TEXT NOT NULL DEFAULT '',
    source       TEXT NOT NULL DEFAULT '',
    imported_at  TEXT NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_trades_profile_ticket ON trades(profile_id, ticket_id);
CREATE INDEX IF NOT EXISTS idx_trades_opened ON trades(profile_id, opened_at DESC);

CREATE TABLE IF NOT EXISTS import_logs (
    id             TEXT PRIMARY KEY,
    method         TEXT NOT NULL,
    format         TEXT NOT NULL DEFAULT '',
    file_name      TEXT NOT NULL DEFAULT '',
    imported_at    TEXT NOT NULL,
    total_rows     INTEGER NOT NULL DEFAULT 0,
    new_trades     INTEGER NOT NULL DEFAULT 0,
    skipped_trades INTEGER NOT NULL DEFAULT 0,
    updated_trades INTEGER NOT NULL DEFAULT 0,
    profile_id     TEXT NOT NULL,
    user_id        TEXT NOT NULL,
    status         TEXT NOT NULL,
    errors         TEXT NOT NULL DEFAULT '[]'
);

CREATE INDEX IF NOT EXISTS idx_import_logs_profile ON import_logs(profile_id, imported_at DESC);

CREATE TABLE IF NOT EXISTS config_documents (
    name       TEXT PRIMARY KEY,
    body       TEXT NOT NULL DEFAULT '{}',
    updated_at TEXT NOT NULL
);
`

// timeLayout es RFC3339 con nanosegundos de ancho fijo (ordenable como texto).
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStorage implementa ports.TradeStore y ports.ConfigStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
	mu sync.Mutex // serializa el read-modify-write de los documentos de config
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// InsertTrade guarda un trade con un ID generado (uuid) y lo devuelve.
func (s *SQLiteStorage) InsertTrade(ctx context.Context, t domain.Trade) (string, error) {
	id := t.ID
	if id == "" {
		id = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades
			(id, profile_id, user_id, ticket_id, pair, direction, status,
			 entry_price, exit_price, pips, profit, lot_size, commission, swap,
			 risk_amount, risk_reward, risk_percent,
			 opened_at, closed_at, entry_date, entry_time, exit_date, exit_time,
			 notes, source, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, t.ProfileID, t.UserID, t.TicketID, t.Pair, string(t.Direction), string(t.Status),
		t.EntryPrice, t.ExitPrice, t.Pips, t.Profit, t.LotSize, t.Commission, t.Swap,
		t.RiskAmount, t.RiskReward, t.RiskPercent,
		formatTime(t.OpenedAt), formatTime(t.ClosedAt), t.EntryDate, t.EntryTime, t.ExitDate, t.ExitTime,
		t.Notes, t.Source, formatTime(t.ImportedAt),
	)
	if err != nil {
		return "", fmt.Errorf("storage.InsertTrade: ticket %s: %w", t.TicketID, err)
	}
	return id, nil
}

// ExistingTicketIDs devuelve los tickets dados que ya existen para el perfil.
func (s *SQLiteStorage) ExistingTicketIDs(ctx context.Context, profileID string, ticketIDs []string) ([]string, error) {
	if len(ticketIDs) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(ticketIDs)+1)
	args = append(args, profileID)
	for _, id := range ticketIDs {
		args = append(args, id)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ticketIDs)), ", ")

	rows, err := s.db.QueryContext(ctx,
		`SELECT ticket_id FROM trades WHERE profile_id = ? AND ticket_id IN (`+placeholders+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("storage.ExistingTicketIDs: query: %w", err)
	}
	defer rows.Close()

	var found []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage.ExistingTicketIDs: scan row: %w", err)
		}
		found = append(found, id)
	}
	return found, rows.Err()
}

// ListTrades devuelve los trades del perfil ordenados por apertura desc.
func (s *SQLiteStorage) ListTrades(ctx context.Context, profileID string) ([]domain.Trade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, profile_id, user_id, ticket_id, pair, direction, status,
		       entry_price, exit_price, pips, profit, lot_size, commission, swap,
		       risk_amount, risk_reward, risk_percent,
		       opened_at, closed_at, entry_date, entry_time, exit_date, exit_time,
		       notes, source, imported_at
		FROM trades
		WHERE profile_id = ?
		ORDER BY opened_at DESC, ticket_id DESC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("storage.ListTrades: query: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var t domain.Trade
		var direction, status, openedAt, closedAt, importedAt string
		if err := rows.Scan(
			&t.ID, &t.ProfileID, &t.UserID, &t.TicketID, &t.Pair, &direction, &status,
			&t.EntryPrice, &t.ExitPrice, &t.Pips, &t.Profit, &t.LotSize, &t.Commission, &t.Swap,
			&t.RiskAmount, &t.RiskReward, &t.RiskPercent,
			&openedAt, &closedAt, &t.EntryDate, &t.EntryTime, &t.ExitDate, &t.ExitTime,
			&t.Notes, &t.Source, &importedAt,
		); err != nil {
			return nil, fmt.Errorf("storage.ListTrades: scan row: %w", err)
		}
		t.Direction = domain.Side(direction)
		t.Status = domain.TradeStatus(status)
		t.OpenedAt = parseTime(openedAt)
		t.ClosedAt = parseTime(closedAt)
		t.ImportedAt = parseTime(importedAt)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SaveImportLog guarda el audit log de una importación.
func (s *SQLiteStorage) SaveImportLog(ctx context.Context, l domain.ImportLog) (string, error) {
	id := l.ID
	if id == "" {
		id = uuid.New().String()
	}
	errs := l.Errors
	if errs == nil {
		errs = []string{}
	}
	errJSON, err := json.Marshal(errs)
	if err != nil {
		return "", fmt.Errorf("storage.SaveImportLog: marshal errors: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs
			(id, method, format, file_name, imported_at, total_rows, new_trades,
			 skipped_trades, updated_trades, profile_id, user_id, status, errors)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, l.Method, l.Format, l.FileName, formatTime(l.ImportedAt), l.TotalRows, l.NewTrades,
		l.SkippedTrades, l.UpdatedTrades, l.ProfileID, l.UserID, string(l.Status), string(errJSON),
	); err != nil {
		return "", fmt.Errorf("storage.SaveImportLog: insert: %w", err)
	}
	return id, nil
}

// ListImportLogs devuelve los últimos audit logs del perfil (limit <= 0: todos).
func (s *SQLiteStorage) ListImportLogs(ctx context.Context, profileID string, limit int) ([]domain.ImportLog, error) {
	if limit <= 0 {
		limit = -1 // sin límite en SQLite
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, method, format, file_name, imported_at, total_rows, new_trades,
		       skipped_trades, updated_trades, profile_id, user_id, status, errors
		FROM import_logs
		WHERE profile_id = ?
		ORDER BY imported_at DESC, rowid DESC
		LIMIT ?
	`, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.ListImportLogs: query: %w", err)
	}
	defer rows.Close()

	var logs []domain.ImportLog
	for rows.Next() {
		var l domain.ImportLog
		var importedAt, status, errJSON string
		if err := rows.Scan(
			&l.ID, &l.Method, &l.Format, &l.FileName, &importedAt, &l.TotalRows, &l.NewTrades,
			&l.SkippedTrades, &l.UpdatedTrades, &l.ProfileID, &l.UserID, &status, &errJSON,
		); err != nil {
			return nil, fmt.Errorf("storage.ListImportLogs: scan row: %w", err)
		}
		l.ImportedAt = parseTime(importedAt)
		l.Status = domain.ImportStatus(status)
		if err := json.Unmarshal([]byte(errJSON), &l.Errors); err != nil {
			return nil, fmt.Errorf("storage.ListImportLogs: decode errors of %s: %w", l.ID, err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// GetConfigDocument devuelve los campos del documento, o nil si no existe.
func (s *SQLiteStorage) GetConfigDocument(ctx context.Context, name string) (map[string]string, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM config_documents WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage.GetConfigDocument: %s: %w", name, err)
	}

	fields := make(map[string]string)
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return nil, fmt.Errorf("storage.GetConfigDocument: decode %s: %w", name, err)
	}
	return fields, nil
}

// MergeConfigDocument hace merge de los campos sobre el documento (lo crea si no existe).
// Un valor vacío elimina la clave.
func (s *SQLiteStorage) MergeConfigDocument(ctx context.Context, name string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.GetConfigDocument(ctx, name)
	if err != nil {
		return fmt.Errorf("storage.MergeConfigDocument: %w", err)
	}
	if current == nil {
		current = make(map[string]string, len(fields))
	}
	for k, v := range fields {
		if v == "" {
			delete(current, k)
			continue
		}
		current[k] = v
	}

	body, err := json.Marshal(current)
	if err != nil {
		return fmt.Errorf("storage.MergeConfigDocument: marshal %s: %w", name, err)
	}
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO config_documents (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, name, string(body), formatTime(time.Now())); err != nil {
		return fmt.Errorf("storage.MergeConfigDocument: upsert %s: %w", name, err)
	}
	return nil
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
