package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/sludgeworks/asmsim/internal/asm1"
	"github.com/sludgeworks/asmsim/internal/plant"
)

const (
	graphWidth      = 70
	graphHeight     = 10
	historyCapacity = 600
	barWidth        = 30
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(7)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Width(11).Align(lipgloss.Right)
	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49"))
	selectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Width(7)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	negStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Width(11).Align(lipgloss.Right)
)

type TickMsg time.Time

// Model runs a plant one batch of discharge cycles per animation frame and
// renders the last unit's liquor as bars plus a scrolling effluent history
// for the selected component.
type Model struct {
	plant          *plant.Plant
	cyclesPerFrame int
	maxCycles      int

	cycle    int
	selected int
	history  []float64
	running  bool
	err      error
}

func NewModel(p *plant.Plant, cyclesPerFrame, maxCycles int) Model {
	if cyclesPerFrame <= 0 {
		cyclesPerFrame = 10
	}
	return Model{
		plant:          p,
		cyclesPerFrame: cyclesPerFrame,
		maxCycles:      maxCycles,
		selected:       asm1.SNH,
		history:        make([]float64, 0, historyCapacity),
		running:        true,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "up", "k":
			m.selected = (m.selected + asm1.NumComponents - 1) % asm1.NumComponents
		case "down", "j":
			m.selected = (m.selected + 1) % asm1.NumComponents
		}
		return m, nil

	case TickMsg:
		if m.err != nil || (m.maxCycles > 0 && m.cycle >= m.maxCycles) {
			return m, tick()
		}
		if m.running {
			for i := 0; i < m.cyclesPerFrame; i++ {
				if err := m.plant.Cycle(m.cycle); err != nil {
					m.err = err
					break
				}
				m.cycle++
			}
			m.history = append(m.history, m.liquor()[m.selected])
			if len(m.history) > historyCapacity {
				m.history = m.history[1:]
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) liquor() []float64 {
	units := m.plant.Units()
	return units[len(units)-1].Liquor()
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("asmsim  cycle %d", m.cycle)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("cycle failed: %v", m.err)))
		b.WriteString("\n")
	}

	liquor := m.liquor()
	maxVal := 1.0
	for _, v := range liquor {
		if v > maxVal {
			maxVal = v
		}
	}

	for i, v := range liquor {
		label := labelStyle.Render(asm1.Names[i])
		if i == m.selected {
			label = selectStyle.Render(asm1.Names[i])
		}
		// Uncorrected overshoot can drive a component below zero; render
		// it red with an empty bar instead of crashing on a negative
		// repeat count.
		value := valueStyle.Render(fmt.Sprintf("%.2f", v))
		n := int(v / maxVal * barWidth)
		if v < 0 {
			value = negStyle.Render(fmt.Sprintf("%.2f", v))
			n = 0
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			label,
			value,
			barStyle.Render(strings.Repeat("█", n)),
		))
	}

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(graphHeight),
			asciigraph.Width(graphWidth),
			asciigraph.Caption(fmt.Sprintf("effluent %s (mg/L)", asm1.Names[m.selected])),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause · j/k select component · q quit"))
	b.WriteString("\n")
	return b.String()
}

// Run starts the live view and blocks until the user quits.
func Run(p *plant.Plant, cyclesPerFrame, maxCycles int) error {
	_, err := tea.NewProgram(NewModel(p, cyclesPerFrame, maxCycles)).Run()
	return err
}
