package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/fxjournal/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// maxErrorsShown limita los errores impresos tras una importación.
const maxErrorsShown = 20

// Console implementa ports.Notifier.
type Console struct {
	out     io.Writer
	verbose bool // imprime también las filas válidas importadas
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(verbose bool) *Console {
	return &Console{out: os.Stdout, verbose: verbose}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, verbose bool) *Console {
	return &Console{out: w, verbose: verbose}
}

// NotifyImport imprime el resumen de una importación y sus errores.
func (c *Console) NotifyImport(_ context.Context, fileName string, result *domain.ImportResult) error {
	if result == nil {
		fmt.Fprintf(c.out, "[%s] %s: no result\n", time.Now().Format("15:04:05"), fileName)
		return nil
	}

	verdict := "OK"
	switch {
	case result.Aborted:
		verdict = "ABORTED"
	case !result.Success && result.NewTrades > 0:
		verdict = "PARTIAL"
	case !result.Success:
		verdict = "FAILED"
	}

	fmt.Fprintf(c.out, "\n[%s] %s — format: %s — %s\n",
		time.Now().Format("15:04:05"), fileName, result.Format, verdict)

	table := tablewriter.NewWriter(c.out)
	table.Header("Rows", "Valid", "New", "Skipped", "Updated", "Errors")
	table.Append(
		fmt.Sprintf("%d", result.TotalRows),
		fmt.Sprintf("%d", len(result.Trades)),
		fmt.Sprintf("%d", result.NewTrades),
		fmt.Sprintf("%d", result.SkippedTrades),
		fmt.Sprintf("%d", result.UpdatedTrades),
		fmt.Sprintf("%d", len(result.Errors)),
	)
	table.Render()

	if c.verbose && len(result.Trades) > 0 {
		c.printRows(result.Trades)
	}
	if c.verbose && len(result.ParseSkips) > 0 {
		c.printSkips(result.ParseSkips)
	}
	c.printErrors(result.Errors)
	return nil
}

// printRows imprime las filas válidas del archivo.
func (c *Console) printRows(rows []domain.ParsedTradeRow) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Line", "Ticket", "Open", "Side", "Symbol", "Lots", "Entry", "Exit", "Profit")
	for _, r := range rows {
		table.Append(
			fmt.Sprintf("%d", r.Line),
			r.TicketID,
			r.OpenTime.Format("2006-01-02 15:04"),
			string(r.Side),
			r.Symbol,
			fmt.Sprintf("%.2f", r.Volume),
			fmt.Sprintf("%.5f", r.OpenPrice),
			fmt.Sprintf("%.5f", r.ClosePrice),
			fmt.Sprintf("%.2f", r.Profit),
		)
	}
	table.Render()
}

// printSkips lista las líneas descartadas por los parsers.
func (c *Console) printSkips(skips []domain.RowError) {
	lines := make([]string, 0, min(len(skips), maxErrorsShown))
	for i, s := range skips {
		if i >= maxErrorsShown {
			lines = append(lines, fmt.Sprintf("... and %d more", len(skips)-maxErrorsShown))
			break
		}
		lines = append(lines, fmt.Sprintf("%d", s.Line))
	}
	fmt.Fprintf(c.out, "  skipped lines: %s\n", strings.Join(lines, ", "))
}

// printErrors agrupa los errores por tipo y muestra los primeros.
func (c *Console) printErrors(errs []domain.RowError) {
	if len(errs) == 0 {
		return
	}

	byKind := make(map[domain.ErrorKind]int)
	for _, e := range errs {
		byKind[e.Kind]++
	}
	kinds := make([]domain.ErrorKind, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%s:%d", k, byKind[k]))
	}
	fmt.Fprintf(c.out, "  errors — %s\n", strings.Join(parts, " "))

	for i, e := range errs {
		if i >= maxErrorsShown {
			fmt.Fprintf(c.out, "  ... and %d more\n", len(errs)-maxErrorsShown)
			break
		}
		fmt.Fprintf(c.out, "  - %s\n", e.Error())
	}
}

// PrintTrades imprime los trades del diario de un perfil.
func (c *Console) PrintTrades(trades []domain.Trade) {
	if len(trades) == 0 {
		fmt.Fprintln(c.out, "  No trades found.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Ticket", "Opened", "Pair", "Dir", "Status", "Lots", "Entry", "Exit", "Pips", "Profit", "Net", "Source")

	var total, net float64
	wins := 0
	for i, t := range trades {
		total += t.Profit
		net += t.NetProfit()
		if t.IsWin() {
			wins++
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			t.TicketID,
			t.EntryDate+" "+t.EntryTime,
			t.Pair,
			string(t.Direction),
			string(t.Status),
			fmt.Sprintf("%.2f", t.LotSize),
			fmt.Sprintf("%.5f", t.EntryPrice),
			fmt.Sprintf("%.5f", t.ExitPrice),
			fmt.Sprintf("%.0f", t.Pips),
			fmt.Sprintf("%.2f", t.Profit),
			fmt.Sprintf("%.2f", t.NetProfit()),
			t.Source,
		)
	}
	table.Render()

	fmt.Fprintf(c.out, "  %d trades — wins: %d (%.1f%%) — total profit: %.2f — net: %.2f\n",
		len(trades), wins, pct(wins, len(trades)), total, net)
}

// PrintImportLogs imprime el historial de importaciones.
func (c *Console) PrintImportLogs(logs []domain.ImportLog) {
	if len(logs) == 0 {
		fmt.Fprintln(c.out, "  No imports recorded.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("When", "File", "Format", "Rows", "New", "Skipped", "Status", "Errors")
	for _, l := range logs {
		table.Append(
			l.ImportedAt.Local().Format("2006-01-02 15:04"),
			truncate(l.FileName, 30),
			l.Format,
			fmt.Sprintf("%d", l.TotalRows),
			fmt.Sprintf("%d", l.NewTrades),
			fmt.Sprintf("%d", l.SkippedTrades),
			string(l.Status),
			fmt.Sprintf("%d", len(l.Errors)),
		)
	}
	table.Render()
}

// PrintAccounts imprime las cuentas MetaAPI y el resumen de consumo.
func (c *Console) PrintAccounts(accounts []domain.BrokerAccount) {
	if len(accounts) == 0 {
		fmt.Fprintln(c.out, "  No MetaAPI accounts.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Name", "Login", "Server", "Platform", "Region", "State", "Connection")
	for _, a := range accounts {
		table.Append(
			truncate(a.Name, 24),
			a.Login,
			a.Server,
			a.Platform,
			a.Region,
			a.State,
			a.ConnectionStatus,
		)
	}
	table.Render()

	u := domain.SummarizeAccounts(accounts)
	fmt.Fprintf(c.out, "  accounts: %d — deployed: %d — undeployed: %d — connected: %d — high reliability: %d\n",
		u.Total, u.Deployed, u.Undeployed, u.Connected, u.HighReliable)
	if len(u.ByRegion) > 0 {
		regions := make([]string, 0, len(u.ByRegion))
		for r := range u.ByRegion {
			regions = append(regions, r)
		}
		sort.Strings(regions)
		parts := make([]string, len(regions))
		for i, r := range regions {
			parts[i] = fmt.Sprintf("%s:%d", r, u.ByRegion[r])
		}
		fmt.Fprintf(c.out, "  regions — %s\n", strings.Join(parts, " "))
	}
}

// --- helpers ---

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
