package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/tradesim/internal/chart"
	"github.com/alejandrodnm/tradesim/internal/domain"
)

// Console implements ports.Presenter on a terminal.
//
// The default mode is one compact line per tick. Table mode adds a formatted
// snapshot table, chart mode rasterizes the frame primitives onto a small
// character canvas.
type Console struct {
	out    io.Writer
	table  bool
	chart  bool
	chartW int // frame pixel dimensions, for canvas scaling
	chartH int
}

// NewConsole creates a presenter that writes to stdout.
func NewConsole(chartW, chartH int, table, chartView bool) *Console {
	return &Console{out: os.Stdout, table: table, chart: chartView, chartW: chartW, chartH: chartH}
}

// NewConsoleWriter creates a presenter for tests.
func NewConsoleWriter(w io.Writer, chartW, chartH int, table, chartView bool) *Console {
	return &Console{out: w, table: table, chart: chartView, chartW: chartW, chartH: chartH}
}

// Present prints the tick in the configured modes.
func (c *Console) Present(_ context.Context, snap domain.TickSnapshot, frame []chart.Primitive) error {
	c.printCompact(snap)

	if c.chart && len(frame) > 0 {
		cv := newCanvas(chartCols, chartRows, c.chartW, c.chartH)
		cv.paint(frame)
		fmt.Fprintln(c.out, cv.String())
	}

	if c.table {
		c.printTable(snap)
	}

	return nil
}

// printCompact prints the essentials on a single line.
func (c *Console) printCompact(snap domain.TickSnapshot) {
	arrow := "▲"
	if snap.Candle.Direction() == domain.DirectionDown {
		arrow = "▼"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s $%.2f %s", snap.At.Format("15:04:05"), snap.Symbol, snap.Price, arrow)
	fmt.Fprintf(&sb, " o%.2f h%.2f l%.2f c%.2f",
		snap.Candle.Open, snap.Candle.High, snap.Candle.Low, snap.Candle.Close)
	fmt.Fprintf(&sb, " | USD %s | ETH %s | equity $%s",
		snap.Quote.StringFixed(2), snap.Base.String(), snap.Equity.StringFixed(2))

	fmt.Fprintln(c.out, sb.String())
}

// printTable prints the full snapshot as a two-column table.
func (c *Console) printTable(snap domain.TickSnapshot) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Field", "Value")

	table.Append("Tick", fmt.Sprintf("%d", snap.Tick))
	table.Append("Price", fmt.Sprintf("$%.2f", snap.Price))
	table.Append("Open", fmt.Sprintf("%.2f", snap.Candle.Open))
	table.Append("High", fmt.Sprintf("%.2f", snap.Candle.High))
	table.Append("Low", fmt.Sprintf("%.2f", snap.Candle.Low))
	table.Append("Close", fmt.Sprintf("%.2f", snap.Candle.Close))
	table.Append("Direction", snap.Candle.Direction().String())
	table.Append("Balance USD", "$"+snap.Quote.StringFixed(2))
	table.Append("Balance ETH", snap.Base.String())
	table.Append("Equity", "$"+snap.Equity.StringFixed(2))

	table.Render()
}
