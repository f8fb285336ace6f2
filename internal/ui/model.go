// Package ui is the interactive terminal frontend: a query box over the
// index, a paged results table, and background task status.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/docuseek/docuseek/internal/paginate"
	"github.com/docuseek/docuseek/internal/reveal"
	"github.com/docuseek/docuseek/internal/search"
	"github.com/docuseek/docuseek/internal/task"
)

// Searcher runs one query against the index. Satisfied by
// *search.Engine; narrowed for tests.
type Searcher interface {
	Search(ctx context.Context, query string, threshold float64) ([]search.Match, error)
}

// Config wires the model to the application's services.
type Config struct {
	Engine    Searcher
	Tasks     *task.Orchestrator
	Threshold float64
	PageSize  int
	NoColor   bool
	// RevealFunc opens a path in the file manager. Defaults to
	// reveal.InFileManager; injected in tests.
	RevealFunc func(path string) error
}

type outcomeMsg task.Outcome

// Model is the bubbletea model for interactive search.
type Model struct {
	cfg    Config
	ctx    context.Context
	styles Styles

	input   spinnerInput
	results table.Model

	pages   *paginate.Pages[search.Match]
	page    int
	matches []search.Match

	searching bool
	status    string
	statusErr bool
	quitting  bool
}

// spinnerInput groups the query line widgets.
type spinnerInput struct {
	text textinput.Model
	spin spinner.Model
}

// NewModel builds the interactive model.
func NewModel(ctx context.Context, cfg Config) *Model {
	if cfg.RevealFunc == nil {
		cfg.RevealFunc = reveal.InFileManager
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = paginate.DefaultPageSize
	}

	ti := textinput.New()
	ti.Placeholder = "identifier, e.g. HH001"
	ti.Prompt = "search> "
	ti.CharLimit = 128
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime))

	cols := []table.Column{
		{Title: "FILE NAME", Width: 36},
		{Title: "SCORE", Width: 6},
		{Title: "PATH", Width: 60},
	}
	tbl := table.New(
		table.WithColumns(cols),
		table.WithHeight(15),
	)

	return &Model{
		cfg:     cfg,
		ctx:     ctx,
		styles:  GetStyles(cfg.NoColor),
		input:   spinnerInput{text: ti, spin: sp},
		results: tbl,
		pages:   paginate.New[search.Match](nil, cfg.PageSize),
		status:  "type a query and press enter",
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.input.spin.Tick, m.waitForOutcome())
}

// waitForOutcome blocks on the orchestrator's outcome queue and delivers
// the next completion into the update loop.
func (m *Model) waitForOutcome() tea.Cmd {
	return func() tea.Msg {
		out, err := m.cfg.Tasks.Recv(m.ctx)
		if err != nil {
			return nil
		}
		return outcomeMsg(out)
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.results.SetWidth(msg.Width - 2)
		return m, nil

	case outcomeMsg:
		return m.handleOutcome(task.Outcome(msg))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.input.spin, cmd = m.input.spin.Update(msg)
		return m, cmd
	}

	return m.updateFocused(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	if m.input.text.Focused() {
		switch msg.String() {
		case "enter":
			return m, m.submitSearch()
		case "esc":
			m.input.text.Blur()
			m.results.Focus()
			return m, nil
		}
		return m.updateFocused(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "/":
		m.results.Blur()
		m.input.text.Focus()
		return m, textinput.Blink
	case "left", "h":
		m.setPage(m.page - 1)
		return m, nil
	case "right", "l":
		m.setPage(m.page + 1)
		return m, nil
	case "o", "enter":
		return m, m.revealSelected()
	}
	return m.updateFocused(msg)
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input.text, cmd = m.input.text.Update(msg)
	cmds = append(cmds, cmd)
	m.results, cmd = m.results.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// submitSearch hands the query to the orchestrator. A search already in
// flight is surfaced as a status line, not an error.
func (m *Model) submitSearch() tea.Cmd {
	query := strings.TrimSpace(m.input.text.Value())
	if query == "" {
		m.setStatus("enter a query first", true)
		return nil
	}

	err := m.cfg.Tasks.Submit(m.ctx, task.KindSearch, func(ctx context.Context) (any, error) {
		return m.cfg.Engine.Search(ctx, query, m.cfg.Threshold)
	})
	if err != nil {
		m.setStatus("search already running", true)
		return nil
	}

	m.searching = true
	m.setStatus(fmt.Sprintf("searching for %q...", query), false)
	return nil
}

func (m *Model) handleOutcome(out task.Outcome) (tea.Model, tea.Cmd) {
	rearm := m.waitForOutcome()

	switch out.Kind {
	case task.KindSearch:
		m.searching = false
		if out.Err != nil {
			m.setStatus(out.Err.Error(), true)
			return m, rearm
		}
		matches, _ := out.Payload.([]search.Match)
		m.setResults(matches)
	case task.KindScan, task.KindImport, task.KindClear:
		if out.Err != nil {
			m.setStatus(fmt.Sprintf("%s failed: %v", out.Kind, out.Err), true)
		} else {
			m.setStatus(fmt.Sprintf("%s finished in %s", out.Kind, out.Elapsed.Round(time.Millisecond)), false)
		}
	}
	return m, rearm
}

func (m *Model) setResults(matches []search.Match) {
	m.matches = matches
	m.pages = paginate.New(matches, m.cfg.PageSize)
	m.setPage(0)
	if len(matches) == 0 {
		m.setStatus("no matches", false)
		return
	}
	m.setStatus(fmt.Sprintf("%d matches", len(matches)), false)
	m.input.text.Blur()
	m.results.Focus()
}

func (m *Model) setPage(n int) {
	if n < 0 || (m.pages.PageCount() > 0 && n >= m.pages.PageCount()) {
		return
	}
	m.page = n
	rows := make([]table.Row, 0, m.cfg.PageSize)
	for _, match := range m.pages.Page(n) {
		rows = append(rows, table.Row{
			match.File.Name,
			fmt.Sprintf("%.3f", match.Score),
			match.File.Path,
		})
	}
	m.results.SetRows(rows)
	m.results.GotoTop()
}

func (m *Model) revealSelected() tea.Cmd {
	row := m.results.SelectedRow()
	if row == nil {
		return nil
	}
	path := row[2]
	if err := m.cfg.RevealFunc(path); err != nil {
		m.setStatus(err.Error(), true)
	} else {
		m.setStatus("opened "+path, false)
	}
	return nil
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("docuseek"))
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(m.input.spin.View() + " " + m.input.text.View())
	} else {
		b.WriteString(m.input.text.View())
	}
	b.WriteString("\n\n")

	b.WriteString(m.results.View())
	b.WriteString("\n")

	if m.pages.PageCount() > 1 {
		lo, hi := m.pages.Bounds(m.page)
		caption := fmt.Sprintf("page %d/%d  (%d-%d of %d)",
			m.page+1, m.pages.PageCount(), lo+1, hi, m.pages.Len())
		b.WriteString(m.styles.Label.Render(caption))
		b.WriteString("\n")
	}

	style := m.styles.Label
	if m.statusErr {
		style = m.styles.Error
	}
	b.WriteString(style.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.styles.Dim.Render("/ focus query · enter search · ←/→ pages · o open location · q quit"))
	b.WriteString("\n")
	return b.String()
}
