package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cashflow/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cashflow/internal/app"
	"github.com/MrJamesThe3rd/cashflow/internal/config"
	"github.com/MrJamesThe3rd/cashflow/internal/logger"
)

type model struct {
	app *app.App

	currentView View

	importView view.ImportModel
	reviewView view.ReviewModel
	listView   view.ListModel
	seriesView view.SeriesModel
	goalView   view.GoalModel
	exportView view.ExportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewImport View = 1
	ViewReview View = 2
	ViewList   View = 3
	ViewSeries View = 4
	ViewGoal   View = 5
	ViewExport View = 6
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		importView:  view.NewImportModel(a.Transactions, a.Importer),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Transactions, m.app.Importer)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.app.Transactions, m.app.Matching)

				return m, m.reviewView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Transactions, m.app.Analytics, m.app.Matching)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewSeries
				m.seriesView = view.NewSeriesModel(m.app.Analytics)

				return m, m.seriesView.Init()
			case "5":
				m.currentView = ViewGoal
				m.goalView = view.NewGoalModel(m.app.Analytics)

				return m, m.goalView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.app.Analytics.Grain())

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewSeries:
		var newModel tea.Model
		newModel, cmd = m.seriesView.Update(msg)
		m.seriesView = newModel.(view.SeriesModel)
	case ViewGoal:
		var newModel tea.Model
		newModel, cmd = m.goalView.Update(msg)
		m.goalView = newModel.(view.GoalModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).PaddingLeft(1)
	helpStyle  = lipgloss.NewStyle().Faint(true).PaddingLeft(1)
)

// screen returns the active screen, or nil on the menu.
func (m model) screen() view.View {
	switch m.currentView {
	case ViewImport:
		return m.importView
	case ViewReview:
		return m.reviewView
	case ViewList:
		return m.listView
	case ViewSeries:
		return m.seriesView
	case ViewGoal:
		return m.goalView
	case ViewExport:
		return m.exportView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"Cashflow\n\n" +
				"1. Import Transactions\n" +
				"2. Review Merchants\n" +
				"3. List Transactions\n" +
				"4. Cash Flow Report\n" +
				"5. Savings Goal\n" +
				"6. Export Report\n\n" +
				"q. Quit",
		)
	}

	s := m.screen()
	if s == nil {
		return "Unknown View"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(s.Title()),
		s.View(),
		helpStyle.Render(s.ShortHelp()),
	)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the TUI, so logs go to a file.
	logFile, err := tea.LogToFile("cashflow-tui.log", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	log := logger.New(logger.Options{Level: cfg.App.LogLevel, Format: "json", Out: logFile})
	ctx := logger.WithContext(context.Background(), log)

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to start")
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	view.UseContext(ctx)

	p := tea.NewProgram(initialModel(a))
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("failed to run TUI")
		os.Exit(1)
	}
}
