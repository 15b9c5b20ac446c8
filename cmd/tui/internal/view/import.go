package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cashflow/internal/importer"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateBank importState = iota
	importStateFile
	importStateWorking
	importStatePreview
	importStateConflicts
	importStateResult
)

// ImportModel parses a bank export, previews the normalized rows and then
// stores them, asking about rows that already exist.
type ImportModel struct {
	CommonModel
	txService     *transaction.Service
	importService *importer.Service

	state      importState
	bankForm   *huh.Form
	bank       importer.Bank
	filePicker filepicker.Model
	spinner    spinner.Model

	records []transaction.RawRecord
	summary importSummary
	preview table.Model

	fresh        []transaction.Transaction
	conflicts    []transaction.Conflict
	conflictList list.Model
	keep         map[int]bool

	status string
	err    error
}

func NewImportModel(txSvc *transaction.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".CSV"}
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle

	return ImportModel{
		txService:     txSvc,
		importService: impSvc,
		bankForm:      buildBankForm(impSvc.Banks()),
		filePicker:    fp,
		spinner:       s,
		preview:       newPreviewTable(),
		keep:          make(map[int]bool),
	}
}

func buildBankForm(banks []importer.Bank) *huh.Form {
	opts := make([]huh.Option[string], len(banks))
	for i, b := range banks {
		opts[i] = huh.NewOption(string(b), string(b))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("bank").
				Title("Export format").
				Options(opts...),
		),
	).WithWidth(40).WithShowHelp(false)
}

func newPreviewTable() table.Model {
	return table.New(
		table.WithColumns([]table.Column{
			{Title: "Date", Width: 12},
			{Title: "Amount", Width: 12},
			{Title: "Merchant", Width: 20},
			{Title: "Category", Width: 16},
			{Title: "Account", Width: 12},
			{Title: "Description", Width: 36},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStatePreview:
		return "Enter: import | Esc: cancel"
	case importStateConflicts:
		return "Space: toggle | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.bankForm.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStatePreview:
			return m.updatePreview(msg)
		case importStateConflicts:
			return m.updateConflicts(msg)
		}

	case spinner.TickMsg:
		if m.state != importStateWorking {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case parsedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.records = msg.records
		m.summary = summarize(msg.normalized)
		m.preview.SetRows(previewRows(msg.normalized))
		m.preview.SetCursor(0)
		m.state = importStatePreview

		return m, nil

	case importResultMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d transactions.", len(msg.result.Imported))

			return m, nil
		}

		m.fresh = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.keep = make(map[int]bool)
		m.conflictList = newConflictList(m.conflicts, m.keep)
		m.state = importStateConflicts

		return m, nil

	case confirmResultMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.state = importStateResult
		m.status = fmt.Sprintf("Imported %d transactions (%d duplicates kept).", msg.count, msg.kept)

		return m, nil
	}

	switch m.state {
	case importStateBank:
		return m.updateBank(msg)
	case importStateFile:
		return m.updateFile(msg)
	}

	return m, nil
}

func (m ImportModel) fail(err error) ImportModel {
	m.state = importStateResult
	m.err = err
	m.status = fmt.Sprintf("Error: %v", err)

	return m
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateBank:
		return m, Back
	case importStateWorking:
		return m, nil
	}

	m.state = importStateBank
	m.records = nil
	m.fresh = nil
	m.conflicts = nil
	m.keep = make(map[int]bool)
	m.err = nil
	m.status = ""
	m.bankForm = buildBankForm(m.importService.Banks())

	return m, m.bankForm.Init()
}

func (m ImportModel) updateBank(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.bankForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.bankForm = f
	}

	if m.bankForm.State != huh.StateCompleted {
		return m, cmd
	}

	m.bank = importer.Bank(m.bankForm.GetString("bank"))
	m.state = importStateFile

	return m, m.filePicker.Init()
}

func (m ImportModel) updateFile(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateWorking
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, tea.Batch(m.spinner.Tick, m.parseCmd(path))
	}

	return m, cmd
}

func (m ImportModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		if len(m.records) == 0 {
			m.state = importStateResult
			m.status = "Nothing to import."

			return m, nil
		}

		m.state = importStateWorking
		m.status = "Checking for duplicates..."

		return m, tea.Batch(m.spinner.Tick, m.importCmd(m.records))
	}

	var cmd tea.Cmd
	m.preview, cmd = m.preview.Update(msg)

	return m, cmd
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		m.keep[idx] = !m.keep[idx]

		return m, nil
	case "a", "n":
		for i := range m.conflicts {
			m.keep[i] = msg.String() == "a"
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.state {
	case importStateBank:
		return pad.Render(m.bankForm.View())
	case importStateFile:
		return pad.Render(fmt.Sprintf("Select a %s export:\n\n%s", m.bank, m.filePicker.View()))
	case importStateWorking:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " " + m.status)
	case importStatePreview:
		return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
			m.summary.String(),
			"",
			lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240")).
				Render(m.preview.View()),
		))
	case importStateConflicts:
		return pad.Render(m.conflictList.View())
	case importStateResult:
		style := successStyle
		if m.err != nil {
			style = errorStyle
		}

		return lipgloss.NewStyle().Padding(2).Render(style.Render(m.status) + "\n\n(Esc to import another file)")
	}

	return ""
}

// importSummary describes a parsed export before it is stored.
type importSummary struct {
	rows          int
	inflow        int64
	outflow       int64
	first, last   time.Time
	uncategorized int
}

func summarize(txs []transaction.Transaction) importSummary {
	s := importSummary{rows: len(txs)}

	for _, tx := range txs {
		if tx.IsInflow() {
			s.inflow += tx.Amount
		} else {
			s.outflow += tx.Amount
		}

		if s.first.IsZero() || tx.Date.Before(s.first) {
			s.first = tx.Date
		}

		if tx.Date.After(s.last) {
			s.last = tx.Date
		}

		if tx.Category == "" {
			s.uncategorized++
		}
	}

	return s
}

func (s importSummary) String() string {
	if s.rows == 0 {
		return faintStyle.Render("The file holds no transactions.")
	}

	return fmt.Sprintf(
		"%d rows from %s to %s\nIn: %s  Out: %s  Uncategorized: %d",
		s.rows,
		FormatDate(s.first),
		FormatDate(s.last),
		successStyle.Render(FormatAmount(s.inflow)),
		errorStyle.Render(FormatAmount(s.outflow)),
		s.uncategorized,
	)
}

func previewRows(txs []transaction.Transaction) []table.Row {
	rows := make([]table.Row, len(txs))
	for i, tx := range txs {
		rows[i] = table.Row{
			FormatDate(tx.Date),
			FormatSigned(tx),
			tx.Merchant,
			tx.Category,
			tx.Account,
			tx.Description,
		}
	}

	return rows
}

// Messages

type parsedMsg struct {
	records    []transaction.RawRecord
	normalized []transaction.Transaction
	err        error
}

type importResultMsg struct {
	result *transaction.ImportResult
	err    error
}

type confirmResultMsg struct {
	count int
	kept  int
	err   error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	bank, impSvc, txSvc := m.bank, m.importService, m.txService

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(baseCtx, importTimeout)
		defer cancel()

		records, err := impSvc.Import(ctx, bank, f)
		if err != nil {
			return parsedMsg{err: err}
		}

		return parsedMsg{records: records, normalized: txSvc.Normalize(records)}
	}
}

func (m ImportModel) importCmd(records []transaction.RawRecord) tea.Cmd {
	txSvc := m.txService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(baseCtx, importTimeout)
		defer cancel()

		result, err := txSvc.ImportBatch(ctx, records)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

func (m ImportModel) confirmCmd() tea.Cmd {
	txSvc, fresh, conflicts, keep := m.txService, m.fresh, m.conflicts, m.keep

	return func() tea.Msg {
		raws := make([]transaction.RawRecord, 0, len(fresh)+len(conflicts))
		for _, tx := range fresh {
			raws = append(raws, tx.Raw())
		}

		kept := 0

		for i, c := range conflicts {
			if keep[i] {
				raws = append(raws, c.Incoming.Raw())
				kept++
			}
		}

		ctx, cancel := context.WithTimeout(baseCtx, importTimeout)
		defer cancel()

		txs, err := txSvc.CreateBatch(ctx, raws)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		return confirmResultMsg{count: len(txs), kept: kept}
	}
}

// Conflicts

type conflictItem struct {
	conflict transaction.Conflict
	index    int
}

func (i conflictItem) Title() string       { return i.conflict.Incoming.Description }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return i.conflict.Incoming.Description }

func newConflictList(conflicts []transaction.Conflict, keep map[int]bool) list.Model {
	items := make([]list.Item, len(conflicts))
	for i, c := range conflicts {
		items[i] = conflictItem{conflict: c, index: i}
	}

	l := list.New(items, conflictDelegate{keep: keep}, 100, 20)
	l.Title = "Already stored: tick the rows to import again"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// conflictDelegate shares the model's keep map, so toggles show up without
// rebuilding the list.
type conflictDelegate struct {
	keep map[int]bool
}

func (d conflictDelegate) Height() int                             { return 2 }
func (d conflictDelegate) Spacing() int                            { return 1 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if d.keep[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = activeStyle("> ")
	}

	in, existing := item.conflict.Incoming, item.conflict.Existing

	fmt.Fprintf(w, "%s%s %s  %12s  %-20s %s\n",
		cursor, checkbox, FormatDate(in.Date), FormatSigned(in), in.Merchant, in.Description)
	fmt.Fprint(w, faintStyle.Render(fmt.Sprintf("      stored %s  %12s  %-20s %s [%s]",
		FormatDate(existing.Date), FormatSigned(*existing), existing.Merchant, existing.Description, existing.Account)))
}
