package view

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashflow/internal/analytics"
	"github.com/MrJamesThe3rd/cashflow/internal/matching"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

type flagFilter int

const (
	flagFilterAll flagFilter = iota
	flagFilterHideTransfers
	flagFilterTransfers
	flagFilterRefunds
)

var flagFilterLabels = []string{"All", "Hide Transfers", "Transfers", "Refunds"}

func (f flagFilter) keep(tx transaction.Transaction) bool {
	switch f {
	case flagFilterHideTransfers:
		return !tx.Flags.Transfer
	case flagFilterTransfers:
		return tx.Flags.Transfer
	case flagFilterRefunds:
		return tx.Flags.Refund
	}

	return true
}

var dateFilters = []Timeframe{TimeframeAll, TimeframeThisMonth, TimeframeLastMonth, TimeframeThisYear}

type ListModel struct {
	CommonModel
	txService       *transaction.Service
	analytics       *analytics.Service
	matchingService *matching.Service

	state   listState
	table   table.Model
	all     []transaction.Transaction
	visible []transaction.Transaction
	form    *huh.Form

	dateFilterIdx int
	flagFilter    flagFilter
	accounts      []string
	accountIdx    int // 0 means every account

	loading bool
	err     error
	status  string
}

func NewListModel(txSvc *transaction.Service, analyticsSvc *analytics.Service, matchSvc *matching.Service) ListModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Merchant", Width: 20},
		{Title: "Category", Width: 16},
		{Title: "Account", Width: 12},
		{Title: "Flags", Width: 18},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ListModel{
		txService:       txSvc,
		analytics:       analyticsSvc,
		matchingService: matchSvc,
		table:           t,
		loading:         true,
	}
}

func (m ListModel) Title() string { return "Transactions" }

func (m ListModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | d: date | a: account | f: flags | r: refresh"
}

func (m ListModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.all = msg.txs
		m.accounts = accountsOf(msg.txs)
		if m.accountIdx > len(m.accounts) {
			m.accountIdx = 0
		}

		m.refreshTable()

		return m, nil

	case listSaveMsg:
		m.status = "Saved."
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case listStateBrowse:
		return m.updateBrowse(msg)
	case listStateEdit:
		return m.updateEdit(msg)
	}

	return m, nil
}

func (m ListModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(dateFilters)
			m.loading = true

			return m, m.loadTxsCmd()
		case "a":
			m.accountIdx = (m.accountIdx + 1) % (len(m.accounts) + 1)
			m.refreshTable()

			return m, nil
		case "f":
			m.flagFilter = (m.flagFilter + 1) % flagFilter(len(flagFilterLabels))
			m.refreshTable()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ListModel) selected() (transaction.Transaction, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.visible) {
		return transaction.Transaction{}, false
	}

	return m.visible[idx], true
}

func (m ListModel) enterEditMode() (tea.Model, tea.Cmd) {
	tx, ok := m.selected()
	if !ok {
		return m, nil
	}

	merchant := tx.Merchant
	if merchant == "" {
		merchant = matching.ExtractMerchant(tx.Description)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("merchant").
				Title("Merchant").
				Value(&merchant).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("merchant cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("category").
				Title("Category").
				Value(new(tx.Category)),

			huh.NewInput().
				Key("account").
				Title("Account").
				Value(new(tx.Account)),

			huh.NewConfirm().
				Key("learn").
				Title("Remember merchant for this description?").
				Affirmative("Yes").
				Negative("No").
				Value(new(true)),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m ListModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = listStateBrowse
			m.form = nil
			m.table.Focus()

			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd()
}

func (m ListModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	account := "All"
	if m.accountIdx > 0 {
		account = m.accounts[m.accountIdx-1]
	}

	header := fmt.Sprintf(
		"Filter: [d] Date: %s | [a] Account: %s | [f] Flags: %s | %d rows",
		activeStyle(dateFilters[m.dateFilterIdx].String()),
		activeStyle(account),
		activeStyle(flagFilterLabels[m.flagFilter]),
		len(m.visible),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		original := ""
		if tx, ok := m.selected(); ok {
			original = tx.Description
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(
				fmt.Sprintf("Edit Transaction\n\nOriginal: %s\n\n%s", original, m.form.View()),
			)

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func accountsOf(txs []transaction.Transaction) []string {
	var accounts []string

	for _, tx := range txs {
		if tx.Account != "" && !slices.Contains(accounts, tx.Account) {
			accounts = append(accounts, tx.Account)
		}
	}

	slices.Sort(accounts)

	return accounts
}

func (m *ListModel) refreshTable() {
	m.visible = nil

	for _, tx := range m.all {
		if m.accountIdx > 0 && tx.Account != m.accounts[m.accountIdx-1] {
			continue
		}

		if !m.flagFilter.keep(tx) {
			continue
		}

		m.visible = append(m.visible, tx)
	}

	rows := make([]table.Row, 0, len(m.visible))
	for _, tx := range m.visible {
		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			FormatSigned(tx),
			tx.Merchant,
			tx.Category,
			tx.Account,
			FormatFlags(tx),
			tx.Description,
		})
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

// Messages

type loadListMsg struct {
	txs []transaction.Transaction
	err error
}

func (m ListModel) loadTxsCmd() tea.Cmd {
	start, end := dateFilters[m.dateFilterIdx].DateRange(time.Now())
	q := analytics.Query{Start: start, End: end}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.analytics.Classified(ctx, q)

		return loadListMsg{txs: txs, err: err}
	}
}

type listSaveMsg struct {
	err error
}

func (m ListModel) saveCmd() tea.Cmd {
	tx, ok := m.selected()
	if !ok {
		return nil
	}

	merchant := strings.TrimSpace(m.form.GetString("merchant"))
	tx.Category = strings.TrimSpace(m.form.GetString("category"))
	tx.Account = strings.TrimSpace(m.form.GetString("account"))
	learn := m.form.GetBool("learn")

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if learn && merchant != tx.Merchant {
			if err := m.matchingService.Learn(ctx, tx.Description, merchant); err != nil {
				return listSaveMsg{err: err}
			}
		}

		tx.Merchant = merchant
		if err := m.txService.Update(ctx, &tx); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{}
	}
}
