package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/metrics"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

type goalState int

const (
	goalStateForm goalState = iota
	goalStateResult
)

// GoalModel asks for a savings goal and projects it against the saving pace
// of the last twelve months.
type GoalModel struct {
	CommonModel
	analytics *analytics.Service

	state    goalState
	form     *huh.Form
	goal     metrics.Goal
	progress metrics.GoalProgress
	err      error
}

func NewGoalModel(svc *analytics.Service) GoalModel {
	m := GoalModel{analytics: svc}
	m.form = buildGoalForm()

	return m
}

func (m GoalModel) Title() string { return "Savings Goal" }

func (m GoalModel) ShortHelp() string {
	if m.state == goalStateResult {
		return "Enter: new goal | Esc: back"
	}

	return "Esc: back | Enter: next"
}

func (m GoalModel) Init() tea.Cmd {
	return m.form.Init()
}

func buildGoalForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Goal").
				Placeholder("Emergency fund"),

			huh.NewInput().
				Key("target").
				Title("Target amount").
				Placeholder("10000.00").
				Validate(validateAmount),

			huh.NewInput().
				Key("current").
				Title("Already saved").
				Placeholder("0.00").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}

					return validateAmount(s)
				}),

			huh.NewInput().
				Key("deadline").
				Title("Deadline").
				Placeholder("YYYY-MM-DD").
				Validate(func(s string) error {
					if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
						return errors.New("use YYYY-MM-DD")
					}

					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func validateAmount(s string) error {
	d, err := transaction.ParseAmount(s)
	if err != nil {
		return errors.New("not an amount")
	}

	if d.IsNegative() {
		return errors.New("must not be negative")
	}

	return nil
}

// goalFromForm reads a validated form into a goal with minor-unit amounts.
func goalFromForm(f *huh.Form) metrics.Goal {
	g := metrics.Goal{Name: strings.TrimSpace(f.GetString("name"))}

	if d, err := transaction.ParseAmount(f.GetString("target")); err == nil {
		g.TargetAmount = transaction.ToMinorUnits(d)
	}

	if d, err := transaction.ParseAmount(f.GetString("current")); err == nil {
		g.CurrentAmount = transaction.ToMinorUnits(d)
	}

	g.Deadline, _ = time.Parse(time.DateOnly, strings.TrimSpace(f.GetString("deadline")))

	return g
}

func (m GoalModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case goalProgressMsg:
		m.state = goalStateResult
		m.progress = msg.progress
		m.err = msg.err

		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

		if m.state == goalStateResult {
			if msg.Type == tea.KeyEnter {
				m.state = goalStateForm
				m.form = buildGoalForm()

				return m, m.form.Init()
			}

			return m, nil
		}
	}

	if m.state != goalStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.goal = goalFromForm(m.form)

	return m, m.progressCmd(m.goal)
}

func (m GoalModel) View() string {
	if m.state == goalStateForm {
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	p := m.progress

	track := errorStyle.Render("Behind schedule")
	if p.IsOnTrack {
		track = successStyle.Render("On track")
	}

	eta := "not reachable at the current pace"
	if p.Reachable() && p.ProjectedCompletion != nil {
		eta = fmt.Sprintf("%.1f months (%s)", p.MonthsToGoal, FormatDate(*p.ProjectedCompletion))
	}

	body := fmt.Sprintf(
		"%s\n\nProgress:          %s / %s (%.1f%%)\nProjected:         %s\nMonths left:       %.1f\nNeeded per month:  %s\nConfidence:        %.0f%%\n\n%s",
		lipgloss.NewStyle().Bold(true).Render(m.goal.Name),
		FormatAmount(p.CurrentAmount),
		FormatAmount(p.TargetAmount),
		p.ProgressPercentage,
		eta,
		p.MonthsUntilDeadline,
		FormatMinorDecimal(p.RequiredMonthlySavings),
		p.ConfidenceScore,
		track,
	)

	return lipgloss.NewStyle().Padding(2).Render(body)
}

type goalProgressMsg struct {
	progress metrics.GoalProgress
	err      error
}

func (m GoalModel) progressCmd(goal metrics.Goal) tea.Cmd {
	svc := m.analytics

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		start, end := TimeframeLastYear.DateRange(time.Now())

		p, err := svc.GoalProgress(ctx, analytics.Query{Start: start, End: end}, goal)

		return goalProgressMsg{progress: p, err: err}
	}
}
