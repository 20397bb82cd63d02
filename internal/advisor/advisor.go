// Package advisor renders the engine's numbers into a plain-text context
// block for an external LLM advisory service. It never calls a model itself;
// it only prepares the grounding text.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"grana/internal/core"
)

// InsightSource is the slice of the insight surface the advisor needs.
type InsightSource interface {
	HealthScore(ctx context.Context, now time.Time) (core.HealthScoreResult, error)
	Summary(ctx context.Context, now time.Time) (core.FinancialHealthSummary, error)
	PaceAlerts(ctx context.Context, now time.Time) ([]core.PaceAlert, error)
	Projection(ctx context.Context, now time.Time, horizon int) ([]core.ProjectionPoint, error)
	NetWorth(ctx context.Context) (core.Money, error)
}

// ContextBuilder assembles the advisory context text.
type ContextBuilder struct {
	insights InsightSource
	horizon  int
}

// NewContextBuilder creates a builder projecting horizon months ahead.
func NewContextBuilder(insights InsightSource, horizon int) *ContextBuilder {
	if horizon <= 0 {
		horizon = core.DefaultProjectionHorizon
	}
	return &ContextBuilder{insights: insights, horizon: horizon}
}

// Build renders the full context block as of now. Sections are labeled in
// Portuguese to match the rest of the user-facing surface.
func (b *ContextBuilder) Build(ctx context.Context, now time.Time) (string, error) {
	score, err := b.insights.HealthScore(ctx, now)
	if err != nil {
		return "", fmt.Errorf("health score: %w", err)
	}
	summary, err := b.insights.Summary(ctx, now)
	if err != nil {
		return "", fmt.Errorf("summary: %w", err)
	}
	alerts, err := b.insights.PaceAlerts(ctx, now)
	if err != nil {
		return "", fmt.Errorf("pace alerts: %w", err)
	}
	projection, err := b.insights.Projection(ctx, now, b.horizon)
	if err != nil {
		return "", fmt.Errorf("projection: %w", err)
	}
	worth, err := b.insights.NetWorth(ctx)
	if err != nil {
		return "", fmt.Errorf("net worth: %w", err)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "Contexto financeiro em %s\n\n", now.Format("2006-01-02"))

	fmt.Fprintf(&sb, "SAÚDE FINANCEIRA\nNota: %d/100 (%s)\n", score.Score, score.Feedback)
	fmt.Fprintf(&sb, "Desempenho do mês: %.1f/20\n", score.Breakdown.Performance)
	fmt.Fprintf(&sb, "Alocação 50/30/20: %.1f/30 (necessidades %.0f%%, desejos %.0f%%)\n",
		score.Breakdown.Allocation,
		score.Breakdown.Data.NecessityShare*100,
		score.Breakdown.Data.DesireShare*100)
	fmt.Fprintf(&sb, "Reserva de emergência: %.1f/50 (%.1f meses cobertos)\n\n",
		score.Breakdown.Reserve, score.Breakdown.Data.MonthsCovered)

	sb.WriteString("RESUMO (últimos 3 meses)\n")
	if summary.HasData {
		fmt.Fprintf(&sb, "Renda média mensal: %s\n", FormatBRL(summary.AverageIncome))
		fmt.Fprintf(&sb, "Gasto médio mensal: %s\n", FormatBRL(summary.AverageExpenses))
		fmt.Fprintf(&sb, "Renda disponível: %s\n", FormatBRL(summary.DisposableIncome))
		if summary.IsManual {
			sb.WriteString("Valores baseados em configuração manual.\n")
		}
	} else {
		sb.WriteString("Sem dados suficientes no período.\n")
	}
	sb.WriteString("\n")

	sb.WriteString("ALERTAS DE ORÇAMENTO\n")
	if len(alerts) == 0 {
		sb.WriteString("Nenhum alerta ativo.\n")
	}
	for _, a := range alerts {
		fmt.Fprintf(&sb, "[%s] %s: %s (uso %.0f%%)\n",
			severityLabel(a.Severity), a.Category, a.Message, a.Usage*100)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "PROJEÇÃO (%d meses)\n", b.horizon)
	for _, p := range projection {
		fmt.Fprintf(&sb, "%s: renda %s, comprometido %s, saldo %s\n",
			p.Month, FormatBRL(p.Income), FormatBRL(p.Committed), FormatBRL(p.Balance))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "PATRIMÔNIO\nTotal: %s\n", FormatBRL(worth))

	return sb.String(), nil
}

func severityLabel(s core.AlertSeverity) string {
	switch s {
	case core.AlertDanger:
		return "ESTOUROU"
	case core.AlertWarning:
		return "ATENÇÃO"
	default:
		return strings.ToUpper(string(s))
	}
}

// FormatBRL renders cents as a Brazilian currency string ("R$ 1234,56").
// Negative amounts keep the sign before the symbol.
func FormatBRL(m core.Money) string {
	cents := m.Cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%sR$ %d,%02d", sign, cents/100, cents%100)
}
