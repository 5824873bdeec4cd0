package domain

import (
	"math"
	"time"
)

// TradeStatus es el estado de ciclo de vida de un trade del diario.
type TradeStatus string

const (
	StatusOpen      TradeStatus = "OPEN"   // sin hora de cierre
	StatusClosed    TradeStatus = "CLOSED" // cerrado en ganancia
	StatusLoss      TradeStatus = "LOSS"
	StatusBreakeven TradeStatus = "BREAKEVEN"
)

// StatusFromProfit clasifica un trade cerrado según el signo del profit.
func StatusFromProfit(profit float64) TradeStatus {
	switch {
	case profit > 0:
		return StatusClosed
	case profit < 0:
		return StatusLoss
	default:
		return StatusBreakeven
	}
}

// pipsPerUnitProfit es la heurística histórica del diario: no distingue pares JPY.
const pipsPerUnitProfit = 10000

// ApproxPips devuelve la estimación de pips a partir del profit.
func ApproxPips(profit float64) float64 {
	return math.Abs(profit) * pipsPerUnitProfit
}

// Trade es el registro canónico del diario.
// Lo crea el importador; nunca se modifica después desde el pipeline.
type Trade struct {
	ID        string
	Pair      string
	Direction Side
	Status    TradeStatus

	EntryPrice float64
	ExitPrice  float64
	Pips       float64
	Profit     float64
	LotSize    float64
	Commission float64
	Swap       float64

	// Métricas de riesgo: se calculan en otra parte, al importar quedan en 0.
	RiskAmount  float64
	RiskReward  float64
	RiskPercent float64

	OpenedAt  time.Time
	ClosedAt  time.Time
	EntryDate string // 2006-01-02
	EntryTime string // 15:04
	ExitDate  string
	ExitTime  string

	Notes      string
	Source     string // tag de procedencia, p.ej. "MT5_VIP"
	TicketID   string
	ImportedAt time.Time

	ProfileID string
	UserID    string
}

// IsWin devuelve true si el trade cerró con ganancia.
func (t Trade) IsWin() bool {
	return t.Status == StatusClosed && t.Profit > 0
}

// NetProfit devuelve el profit neto de comisión y swap.
func (t Trade) NetProfit() float64 {
	return t.Profit + t.Commission + t.Swap
}
