package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/insights"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/series"
)

type seriesState int

const (
	seriesStateTimeframe seriesState = iota
	seriesStateReport
)

// SeriesModel shows income, expenses and savings per period together with
// the headline metrics of the selected window.
type SeriesModel struct {
	CommonModel
	analytics *analytics.Service

	state           seriesState
	timeframePicker TimeframePicker
	query           analytics.Query
	grain           series.Grain

	table      table.Model
	points     []series.Point
	metrics    metrics.FinancialMetrics
	categories []metrics.CategorySpending
	insights   []insights.Insight

	loading bool
	err     error
}

func NewSeriesModel(svc *analytics.Service) SeriesModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Period", Width: 12},
			{Title: "Income", Width: 14},
			{Title: "Expenses", Width: 14},
			{Title: "Savings", Width: 14},
		}),
		table.WithHeight(14),
	)

	return SeriesModel{
		analytics:       svc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		grain:           svc.Grain(),
		table:           t,
	}
}

func (m SeriesModel) Title() string { return "Cash Flow Report" }

func (m SeriesModel) ShortHelp() string {
	if m.state == seriesStateReport {
		return "g: cycle grain | r: refresh | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m SeriesModel) Init() tea.Cmd {
	return nil
}

func (m SeriesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.query = msg.Query()
		m.state = seriesStateReport
		m.loading = true

		return m, m.loadCmd()

	case seriesLoadedMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.points = msg.points
			m.metrics = msg.metrics
			m.categories = msg.categories
			m.insights = msg.insights
			m.refreshTable()
		}

		return m, nil

	case tea.KeyMsg:
		if m.state == seriesStateTimeframe {
			if msg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}

			var cmd tea.Cmd
			m.timeframePicker, cmd = m.timeframePicker.Update(msg)

			return m, cmd
		}

		switch msg.String() {
		case "esc":
			m.state = seriesStateTimeframe
			m.timeframePicker.Reset()

			return m, nil
		case "g":
			m.grain = m.grain.Next()
			m.loading = true

			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	if m.state == seriesStateTimeframe {
		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *SeriesModel) refreshTable() {
	rows := make([]table.Row, len(m.points))
	for i, p := range m.points {
		rows[i] = table.Row{
			series.Label(p.BucketStart, m.grain),
			FormatAmount(p.Income),
			FormatAmount(p.Expense),
			FormatAmount(p.Savings),
		}
	}

	m.table.SetRows(rows)
}

func (m SeriesModel) View() string {
	if m.state == seriesStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Building report...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf("Grain: %s", activeStyle(string(m.grain)))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	side := lipgloss.NewStyle().PaddingLeft(2).Width(50).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.metricsView(),
			"",
			m.categoriesView(),
			"",
			m.insightsView(),
		),
	)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			lipgloss.JoinHorizontal(lipgloss.Top, tableView, side),
		),
	)
}

func (m SeriesModel) metricsView() string {
	return fmt.Sprintf(
		"Income:       %s\nExpenses:     %s\nNet:          %s\nSavings rate: %.1f%%\nDaily spend:  %s",
		FormatAmount(m.metrics.TotalIncome),
		FormatAmount(m.metrics.TotalExpenses),
		FormatAmount(m.metrics.NetSavings),
		m.metrics.SavingsRate,
		FormatMinorDecimal(m.metrics.AverageDailySpending),
	)
}

const topCategories = 5

func (m SeriesModel) categoriesView() string {
	var sb strings.Builder

	sb.WriteString("Top categories\n")

	for i, c := range m.categories {
		if i == topCategories {
			break
		}

		fmt.Fprintf(&sb, "  %-18s %10s %5.1f%%\n", c.Category, FormatAmount(c.Amount), c.Percentage)
	}

	return sb.String()
}

func (m SeriesModel) insightsView() string {
	if len(m.insights) == 0 {
		return faintStyle.Render("No insights for this window.")
	}

	var sb strings.Builder

	sb.WriteString("Insights\n")

	for _, in := range m.insights {
		style := faintStyle
		if in.Priority == insights.PriorityHigh {
			style = errorStyle
		}

		fmt.Fprintf(&sb, "  %s\n", style.Render(fmt.Sprintf("[%s] %s", in.Kind, in.Title)))
	}

	return sb.String()
}

type seriesLoadedMsg struct {
	points     []series.Point
	metrics    metrics.FinancialMetrics
	categories []metrics.CategorySpending
	insights   []insights.Insight
	err        error
}

func (m SeriesModel) loadCmd() tea.Cmd {
	q, grain, svc := m.query, m.grain, m.analytics

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		points, err := svc.Series(ctx, q, grain)
		if err != nil {
			return seriesLoadedMsg{err: err}
		}

		fm, err := svc.Metrics(ctx, q)
		if err != nil {
			return seriesLoadedMsg{err: err}
		}

		cats, err := svc.Categories(ctx, q)
		if err != nil {
			return seriesLoadedMsg{err: err}
		}

		ins, err := svc.Insights(ctx, q)
		if err != nil {
			return seriesLoadedMsg{err: err}
		}

		return seriesLoadedMsg{points: points, metrics: fm, categories: cats, insights: ins}
	}
}
