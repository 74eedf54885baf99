package viz

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/isingsim/internal/config"
	"github.com/san-kum/isingsim/internal/experiment"
)

var presetInfo = map[string]string{
	"ordered":   "cold uniform start",
	"critical":  "random start near Tc",
	"hot":       "uniform start melting",
	"quench":    "random start, deep quench",
	"antiferro": "checkerboard relaxing",
}

type screen int

const (
	screenMenu screen = iota
	screenConfig
	screenLive
)

// field is one editable start parameter. Values are kept as float64 and
// clamped to lo after every change.
type field struct {
	name  string
	value float64
	step  float64
	lo    float64
}

const (
	fieldSize = iota
	fieldTemperature
	fieldPerTick
	fieldSeed
)

type model struct {
	screen   screen
	cursor   int
	presets  []string
	selected string

	registry *experiment.Registry
	inits    []string
	initIdx  int
	fields   []field
	row      int

	editing bool
	editBuf string
	err     string
	live    LiveModel
}

func NewInteractiveApp(registry *experiment.Registry) *model {
	return &model{
		presets:  config.ListPresets(),
		registry: registry,
		inits:    registry.ListInits(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, isKey := msg.(tea.KeyMsg)

	switch {
	case m.screen == screenLive:
		next, cmd := m.live.Update(msg)
		m.live = next.(LiveModel)
		return m, cmd
	case !isKey:
		return m, nil
	case m.screen == screenMenu:
		return m.menuKey(key)
	case m.editing:
		m.editKey(key)
		return m, nil
	default:
		return m.configKey(key)
	}
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(len(m.presets)-1, m.cursor+1)
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.screen, m.row, m.err = screenConfig, 0, ""
		m.fields = m.presetFields(m.selected)
	}
	return m, nil
}

func (m *model) editKey(msg tea.KeyMsg) {
	switch k := msg.String(); k {
	case "enter":
		if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
			m.set(m.row, v)
		}
		m.editing, m.editBuf = false, ""
	case "esc":
		m.editing, m.editBuf = false, ""
	case "backspace":
		if len(m.editBuf) > 0 {
			m.editBuf = m.editBuf[:len(m.editBuf)-1]
		}
	default:
		if len(k) == 1 && strings.ContainsAny(k, "0123456789.-") {
			m.editBuf += k
		}
	}
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.screen = screenMenu
	case "up", "k":
		m.row = max(0, m.row-1)
	case "down", "j":
		m.row = min(len(m.fields)-1, m.row+1)
	case "left", "h":
		m.set(m.row, m.fields[m.row].value-m.fields[m.row].step)
	case "right", "l":
		m.set(m.row, m.fields[m.row].value+m.fields[m.row].step)
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(m.fields[m.row].value, 'g', -1, 64)
	case "i":
		m.initIdx = (m.initIdx + 1) % len(m.inits)
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *model) set(row int, v float64) {
	m.fields[row].value = max(m.fields[row].lo, v)
}

func (m *model) presetFields(name string) []field {
	p := config.GetPreset(name)
	if p == nil {
		p = config.DefaultConfig()
	}
	for i, init := range m.inits {
		if init == p.Init {
			m.initIdx = i
		}
	}
	return []field{
		fieldSize:        {name: "size", value: float64(p.Size), step: 2, lo: 2},
		fieldTemperature: {name: "temperature", value: p.Temperature, step: 0.1, lo: minTemperature},
		fieldPerTick:     {name: "trials/tick", value: float64(p.Size * p.Size), step: 100, lo: 1},
		fieldSeed:        {name: "seed", value: float64(time.Now().UnixNano() % 100000), step: 1, lo: 0},
	}
}

func (m *model) start() tea.Cmd {
	build, err := m.registry.GetInit(m.inits[m.initIdx])
	if err != nil {
		m.err = err.Error()
		return nil
	}
	rng := rand.New(rand.NewSource(int64(m.fields[fieldSeed].value)))
	l, err := build(int(m.fields[fieldSize].value), rng)
	if err != nil {
		m.err = err.Error()
		return nil
	}
	m.live = NewLiveModel(l, m.fields[fieldTemperature].value, rng, int(m.fields[fieldPerTick].value), 30)
	m.screen = screenLive
	return m.live.Init()
}

func (m model) View() string {
	switch m.screen {
	case screenConfig:
		return m.viewConfig()
	case screenLive:
		return m.live.View()
	}
	return m.viewMenu()
}

// menu styles follow the current theme.
func menuStyles() (title, active, value, idle lipgloss.Style) {
	t := CurrentTheme
	title = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	active = lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	value = lipgloss.NewStyle().Foreground(t.Up).Bold(true)
	idle = lipgloss.NewStyle().Foreground(t.Muted)
	return
}

func hints(pairs ...string) string {
	title, _, _, idle := menuStyles()
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, title.Render(pairs[i])+idle.Render(" "+pairs[i+1]))
	}
	return "\n    " + strings.Join(parts, "  ") + "\n"
}

func banner(b *strings.Builder, heading, sub string) {
	title, _, _, idle := menuStyles()
	fmt.Fprintf(b, "\n\n    %s\n    %s\n    %s\n\n", title.Render(heading), idle.Render(sub), idle.Render(strings.Repeat("─", 25)))
}

func (m model) viewMenu() string {
	_, active, value, idle := menuStyles()

	var b strings.Builder
	banner(&b, "ISINGSIM", "2d ising lattice lab")
	for i, name := range m.presets {
		label := fmt.Sprintf("%-12s", name)
		if i == m.cursor {
			fmt.Fprintf(&b, "    ▸ %s  %s\n", active.Render(label), value.Render(presetInfo[name]))
		} else {
			fmt.Fprintf(&b, "      %s  %s\n", idle.Render(label), idle.Render(presetInfo[name]))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m model) viewConfig() string {
	_, active, value, idle := menuStyles()

	var b strings.Builder
	banner(&b, strings.ToUpper(m.selected), presetInfo[m.selected])
	fmt.Fprintf(&b, "      %s %s\n\n", idle.Render(fmt.Sprintf("%-12s", "init")), value.Render(m.inits[m.initIdx]))

	for i, f := range m.fields {
		v := fmt.Sprintf("%10g", f.value)
		if m.editing && i == m.row {
			v = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		label := fmt.Sprintf("%-12s", f.name)
		if i == m.row {
			fmt.Fprintf(&b, "    ▸ %s %s\n", active.Render(label), value.Render(v))
		} else {
			fmt.Fprintf(&b, "      %s %s\n", idle.Render(label), idle.Render(v))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + StatusRecording.Render(m.err) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "i", "init", "s", "start", "esc", "back"))
	return b.String()
}

func RunInteractive(registry *experiment.Registry) error {
	_, err := tea.NewProgram(NewInteractiveApp(registry), tea.WithAltScreen()).Run()
	return err
}
