package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/dotini/log"
)

const (
	filterPrompt  = "/ "
	defaultWidth  = 80
	defaultHeight = 20
	// chromeLines is the most lines View spends outside the row list.
	chromeLines = 3
)

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// model is the Bubble Tea model for the browser.
type model struct {
	ctxFunc    func() context.Context
	logger     log.Logger
	input      textinput.Model
	history    *History
	load       LoadFunc
	file       string
	status     string // one-shot message shown above the key hints
	rows       rows
	matches    fuzzy.Matches // rows passing the filter, best first
	historyIdx int
	cursor     int // index into matches
	offset     int // first visible match
	width      int
	height     int // lines available for rows
	quitting   bool
}

func newModel(
	ctx context.Context,
	entries []Row,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(filterPrompt)
	ti.Placeholder = "filter paths"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = defaultWidth - len(filterPrompt) - 2

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		logger:     logger,
		input:      ti,
		history:    history,
		rows:       rows(entries),
		historyIdx: history.Len(),
		width:      defaultWidth,
		height:     defaultHeight - chromeLines,
	}

	m.refilter()

	return m
}

// filter returns the rows whose paths fuzzy-match query, best first. An
// empty query matches every row in its original order.
func filter(query string, src rows) fuzzy.Matches {
	if strings.TrimSpace(query) == "" {
		all := make(fuzzy.Matches, src.Len())
		for i := range all {
			all[i] = fuzzy.Match{Str: src.String(i), Index: i}
		}

		return all
	}

	return fuzzy.FindFrom(query, src)
}

func (m *model) refilter() {
	m.matches = filter(m.input.Value(), m.rows)
	m.cursor = 0
	m.offset = 0
}

// selected returns the row under the cursor.
func (m model) selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.matches) {
		return Row{}, false
	}

	return m.rows[m.matches[m.cursor].Index], true
}

// move shifts the cursor by delta, clamped to the matches, and scrolls the
// view to keep it visible.
func (m *model) move(delta int) {
	m.cursor = max(0, min(m.cursor+delta, len(m.matches)-1))

	switch {
	case m.cursor < m.offset:
		m.offset = m.cursor
	case m.cursor >= m.offset+m.height:
		m.offset = m.cursor - m.height + 1
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = max(1, msg.Height-chromeLines)
		m.input.Width = msg.Width - len(filterPrompt) - 2
		m.move(0)

		return m, nil

	case reloadMsg:
		if msg.err != nil {
			m.status = errorStyle.Render("reload failed: " + msg.err.Error())

			return m, nil
		}

		m.rows = rows(msg.rows)
		m.refilter()
		m.status = hintStyle.Render(fmt.Sprintf("reloaded %d paths", len(msg.rows)))

		m.logger.TraceContext(
			m.ctxFunc(),
			"browse reload",
			slog.Int("entry_count", len(msg.rows)),
		)

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(
		m.ctxFunc(),
		"browse keypress",
		slog.String("key", msg.String()),
	)

	m.status = ""

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEsc:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.historyIdx = m.history.Len()
		m.refilter()

		return m, nil

	case tea.KeyUp, tea.KeyCtrlP:
		if msg.Alt {
			return m.historyPrev()
		}

		m.move(-1)

		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if msg.Alt {
			return m.historyNext()
		}

		m.move(1)

		return m, nil

	case tea.KeyPgUp:
		m.move(-m.height)

		return m, nil

	case tea.KeyPgDown:
		m.move(m.height)

		return m, nil

	case tea.KeyCtrlE:
		if m.file == "" || m.load == nil {
			return m, nil
		}

		return m, m.edit()

	case tea.KeyEnter:
		row, ok := m.selected()
		if !ok {
			return m, nil
		}

		if _, err := m.history.Write(m.input.Value()); err != nil {
			m.logger.WarnContext(m.ctxFunc(), "could not write history",
				slog.Any("error", err),
			)
		}

		m.historyIdx = m.history.Len()

		return m, tea.Println(formatRow(row))
	}

	// Any other key edits the filter.
	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	m.refilter()

	return m, cmd
}

func (m model) historyPrev() (model, tea.Cmd) {
	if m.historyIdx <= 0 {
		return m, nil
	}

	m.historyIdx--

	return m.recall()
}

func (m model) historyNext() (model, tea.Cmd) {
	if m.historyIdx >= m.history.Len() {
		return m, nil
	}

	m.historyIdx++

	return m.recall()
}

// recall replaces the filter with the history entry at historyIdx, or clears
// it past the newest entry.
func (m model) recall() (model, tea.Cmd) {
	line, err := m.history.GetLine(m.historyIdx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.CursorEnd()
	m.refilter()

	return m, nil
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	end := min(len(m.matches), m.offset+m.height)
	visible := m.matches[m.offset:end]

	pathWidth := 0
	for _, match := range visible {
		pathWidth = max(pathWidth, len(match.Str))
	}

	pathWidth = min(pathWidth, m.width/2)

	for i, match := range visible {
		selected := m.offset+i == m.cursor
		b.WriteString(renderRow(match, m.rows[match.Index].Value, pathWidth, m.width, selected))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	b.WriteString(hintStyle.Render(fmt.Sprintf(
		"%d/%d  enter: print  ctrl+e: edit  esc: clear/quit  alt+up/down: history",
		len(m.matches), m.rows.Len(),
	)))
	b.WriteString("\n")

	return b.String()
}

// renderRow renders one match with its matched characters highlighted, the
// path padded to pathWidth and the line truncated to width.
func renderRow(match fuzzy.Match, value string, pathWidth, width int, selected bool) string {
	base, highlight, val := pathStyle, matchStyle, valueStyle
	if selected {
		base, highlight, val = selectedStyle, selectedStyle.Bold(true), selectedStyle
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlight.Render(ch))
		} else {
			b.WriteString(base.Render(ch))
		}
	}

	if pad := pathWidth - len(match.Str); pad > 0 {
		b.WriteString(base.Render(strings.Repeat(" ", pad)))
	}

	b.WriteString(base.Render("  "))

	if room := width - max(pathWidth, len(match.Str)) - 2; room > 0 {
		if len(value) > room {
			value = value[:max(0, room-3)] + "..."
		}

		b.WriteString(val.Render(value))
	}

	return b.String()
}

// formatRow is the line printed when a row is chosen.
func formatRow(r Row) string {
	return r.Path + " = " + r.Value
}
