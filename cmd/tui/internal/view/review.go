package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/matching"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

type reviewState int

const (
	reviewStateTimeframe reviewState = iota
	reviewStateReviewing
)

// ReviewModel walks through stored rows without a merchant and learns an
// alias for each one the user names.
type ReviewModel struct {
	CommonModel
	txService       *transaction.Service
	matchingService *matching.Service

	state           reviewState
	timeframePicker TimeframePicker

	queue     []transaction.Transaction
	currentTx *transaction.Transaction
	total     int

	patternInput  textinput.Model
	merchantInput textinput.Model
	focusIndex    int // 0: merchant, 1: pattern

	status  string
	loading bool
}

func NewReviewModel(txSvc *transaction.Service, matchSvc *matching.Service) ReviewModel {
	mi := textinput.New()
	mi.Placeholder = "Merchant"
	mi.Width = 40
	mi.Prompt = "Merchant: "

	pi := textinput.New()
	pi.Placeholder = "Text that identifies the merchant"
	pi.Width = 40
	pi.Prompt = "Pattern:  "

	return ReviewModel{
		txService:       txSvc,
		matchingService: matchSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		merchantInput:   mi,
		patternInput:    pi,
	}
}

func (m ReviewModel) Title() string { return "Review Merchants" }

func (m ReviewModel) ShortHelp() string {
	if m.state == reviewStateReviewing {
		return "Enter: save & next | Tab: switch field | Ctrl+S: skip | Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ReviewModel) Init() tea.Cmd {
	return nil
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.state = reviewStateReviewing
		m.loading = true

		return m, m.loadQueueCmd(msg.Query())

	case loadQueueMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading transactions: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.total = len(msg.txs)

		if m.total == 0 {
			m.status = "Every transaction already has a merchant."
			return m, nil
		}

		cmd := m.nextCmd()

		return m, cmd

	case suggestionMsg:
		m.currentTx = &msg.tx
		m.status = fmt.Sprintf("Reviewing %d/%d", m.total-len(m.queue), m.total)
		m.merchantInput.SetValue(msg.merchant)
		m.patternInput.SetValue(msg.tx.Description)
		m.focusIndex = 0
		m.patternInput.Blur()
		m.merchantInput.Focus()

		return m, textinput.Blink

	case reviewSaveMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
			return m, nil
		}

		cmd := m.nextCmd()

		return m, cmd

	case tea.KeyMsg:
		if m.state == reviewStateTimeframe {
			if msg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}

			var cmd tea.Cmd
			m.timeframePicker, cmd = m.timeframePicker.Update(msg)

			return m, cmd
		}

		if m.loading {
			return m, nil
		}

		return m.updateReviewing(msg)
	}

	if m.state == reviewStateTimeframe {
		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m ReviewModel) updateReviewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, Back
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.merchantInput.Blur()
		m.patternInput.Blur()

		if m.focusIndex == 0 {
			m.merchantInput.Focus()
		} else {
			m.patternInput.Focus()
		}

		return m, textinput.Blink
	case "enter":
		if m.currentTx == nil {
			return m, nil
		}

		return m, m.saveCmd(*m.currentTx, m.patternInput.Value(), m.merchantInput.Value())
	case "ctrl+s":
		if m.currentTx == nil {
			return m, nil
		}

		cmd := m.nextCmd()

		return m, cmd
	}

	return m.updateInputs(msg)
}

func (m ReviewModel) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var c1, c2 tea.Cmd

	m.merchantInput, c1 = m.merchantInput.Update(msg)
	m.patternInput, c2 = m.patternInput.Update(msg)

	return m, tea.Batch(c1, c2)
}

func (m ReviewModel) View() string {
	if m.state == reviewStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.currentTx == nil {
		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\n(Esc to back)")
	}

	info := fmt.Sprintf(
		"Date:    %s\nAmount:  %s\nAccount: %s\nRaw:     %s",
		FormatDate(m.currentTx.Date),
		FormatSigned(*m.currentTx),
		m.currentTx.Account,
		m.currentTx.Description,
	)

	return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf(
		"%s\n\n%s\n\n%s\n%s",
		faintStyle.Render(m.status),
		info,
		m.merchantInput.View(),
		m.patternInput.View(),
	))
}

// Messages

type loadQueueMsg struct {
	txs []transaction.Transaction
	err error
}

func (m ReviewModel) loadQueueCmd(q analytics.Query) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rows, err := m.txService.List(ctx, q.Filter())
		if err != nil {
			return loadQueueMsg{err: err}
		}

		var queue []transaction.Transaction

		for _, tx := range transaction.Values(rows) {
			if strings.TrimSpace(tx.Merchant) == "" {
				queue = append(queue, tx)
			}
		}

		return loadQueueMsg{txs: queue}
	}
}

type suggestionMsg struct {
	tx       transaction.Transaction
	merchant string
}

// nextCmd pops the queue head and resolves a merchant suggestion for it.
func (m *ReviewModel) nextCmd() tea.Cmd {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.status = "All done!"
		m.merchantInput.Blur()
		m.patternInput.Blur()

		return nil
	}

	tx := m.queue[0]
	m.queue = m.queue[1:]
	matchSvc := m.matchingService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		merchant, err := matchSvc.Resolve(ctx, tx.Description)
		if err != nil {
			merchant = matching.ExtractMerchant(tx.Description)
		}

		return suggestionMsg{tx: tx, merchant: merchant}
	}
}

type reviewSaveMsg struct {
	err error
}

func (m ReviewModel) saveCmd(tx transaction.Transaction, pattern, merchant string) tea.Cmd {
	pattern = strings.TrimSpace(pattern)
	merchant = strings.TrimSpace(merchant)

	return func() tea.Msg {
		if merchant == "" {
			return reviewSaveMsg{err: fmt.Errorf("merchant cannot be empty")}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		if pattern != "" {
			if err := m.matchingService.Learn(ctx, pattern, merchant); err != nil {
				return reviewSaveMsg{err: err}
			}
		}

		tx.Merchant = merchant

		return reviewSaveMsg{err: m.txService.Update(ctx, &tx)}
	}
}
