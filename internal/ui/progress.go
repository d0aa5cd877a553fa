// Package ui renders batch evaluation progress as a Bubble Tea program.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"parens/internal/driver"
)

// stageInfo: label while a stage runs and how far along a file is once it
// reached the stage.
var stageInfo = map[driver.Stage]struct {
	label  string
	weight float64
}{
	driver.StageTokenize: {"tokenizing", 0.1},
	driver.StageParse:    {"parsing", 0.4},
	driver.StageEval:     {"evaluating", 0.7},
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleIdle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	styleDim     = lipgloss.NewStyle().Faint(true)
)

type fileItem struct {
	path    string
	status  string
	stage   driver.Stage
	final   bool
	elapsed time.Duration
	err     string
}

func (it fileItem) style() lipgloss.Style {
	switch {
	case it.status == "error":
		return styleFailed
	case it.final:
		return styleOK
	case it.status == "queued":
		return styleIdle
	}
	return styleRunning
}

type progressModel struct {
	title  string
	events <-chan driver.Event

	spinner spinner.Model
	bar     progress.Model
	width   int

	items  []fileItem
	byPath map[string]int
	done   bool
}

type (
	eventMsg driver.Event
	doneMsg  struct{}
)

// NewProgressModel returns a model that tracks files until events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	m := &progressModel{
		title:   title,
		events:  events,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleRunning)),
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(76)),
		width:   80,
		items:   make([]fileItem, len(files)),
		byPath:  make(map[string]int, len(files)),
	}
	for i, f := range files {
		m.items[i] = fileItem{path: f, status: "queued"}
		m.byPath[f] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

// next waits for one driver event; a closed channel ends the program.
func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// ctrl+c только прячет UI; вычисление останавливает контекст вызывающего
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	i, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	it := &m.items[i]
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		it.status, it.stage = label, ev.Stage
	}
	switch ev.Status {
	case driver.StatusError:
		if ev.Err != nil {
			it.err = ev.Err.Error()
		}
		fallthrough
	case driver.StatusDone, driver.StatusCached:
		it.final = true
		it.elapsed = ev.Elapsed
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) finished() (n int) {
	for _, it := range m.items {
		if it.final {
			n++
		}
	}
	return n
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	var sum float64
	for _, it := range m.items {
		if it.final {
			sum++
		} else {
			sum += stageInfo[it.stage].weight
		}
	}
	return sum / float64(len(m.items))
}

const statusWidth = 12

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	lead := m.spinner.View()
	if m.done {
		lead = "done:"
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("%s %s (%d/%d)", lead, m.title, m.finished(), len(m.items))))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	for _, it := range m.items {
		status := it.style().Render(fmt.Sprintf("%*s", statusWidth, it.status))
		line := "  " + status + " " + truncate(it.path, nameWidth)
		if it.final && it.elapsed > 0 {
			line += styleDim.Render(" " + it.elapsed.Round(time.Microsecond).String())
		}
		b.WriteString(line + "\n")
		if it.err != "" {
			b.WriteString(styleDim.Render(strings.Repeat(" ", statusWidth+3)+truncate(it.err, nameWidth)) + "\n")
		}
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued:
		return "queued"
	case driver.StatusDone:
		return "done"
	case driver.StatusCached:
		return "cached"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		return stageInfo[stage].label
	}
	return ""
}

// truncate shortens value to width display columns; "..." counts towards
// width.
func truncate(value string, width int) string {
	switch {
	case width <= 0 || runewidth.StringWidth(value) <= width:
		return value
	case width <= 3:
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
