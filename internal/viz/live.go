package viz

import (
	"fmt"
	"image"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/isingsim/internal/domains"
	"github.com/san-kum/isingsim/internal/lattice"
	"github.com/san-kum/isingsim/internal/metropolis"
)

const (
	historyCapacity = 600
	minTemperature  = 0.05
	tempStep        = 0.05
	maxFrames       = 500
	defaultGIFPath  = "ising.gif"
)

type TickMsg time.Time

// LiveModel steps a lattice through Metropolis trials on every tick and
// renders it next to its observables.
type LiveModel struct {
	lat           *lattice.Lattice
	initial       *lattice.Lattice
	rng           metropolis.Source
	temperature   float64
	initialTemp   float64
	trialsPerTick int
	frameRate     int
	trials        int
	accepted      int
	running       bool
	showDomains   bool
	showHelp      bool
	braille       bool
	domainCount   int
	labels        []int
	magHistory    []float64
	energyHistory []float64
	recording     bool
	frames        []*image.Paletted
	GIFPath       string
	status        string
}

// NewLiveModel takes ownership of l. trialsPerTick defaults to one sweep
// (one trial per site) when not positive.
func NewLiveModel(l *lattice.Lattice, temperature float64, rng metropolis.Source, trialsPerTick, frameRate int) LiveModel {
	if trialsPerTick <= 0 {
		trialsPerTick = l.Len()
	}
	if frameRate <= 0 {
		frameRate = 30
	}
	m := LiveModel{
		lat:           l,
		initial:       l.Clone(),
		rng:           rng,
		temperature:   temperature,
		initialTemp:   temperature,
		trialsPerTick: trialsPerTick,
		frameRate:     frameRate,
		running:       true,
		braille:       l.Size > 64,
		magHistory:    make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		GIFPath:       defaultGIFPath,
	}
	m.observe()
	return m
}

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.frameRate), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "up", "k":
			m.temperature += tempStep
		case "down", "j":
			m.temperature = math.Max(minTemperature, m.temperature-tempStep)
		case "d":
			m.showDomains = !m.showDomains
		case "b":
			m.braille = !m.braille
		case "s":
			if !m.running {
				m.step()
			}
		case "g":
			m.toggleRecording()
		case "t":
			NextTheme()
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one tick worth of trials.
func (m *LiveModel) step() {
	m.accepted += metropolis.Run(m.lat.Spins, m.temperature, m.trialsPerTick, m.lat.Size, m.rng)
	m.trials += m.trialsPerTick
	m.observe()
	if m.recording {
		m.frames = append(m.frames, LatticeFrame(m.lat, 4, CurrentTheme))
		if len(m.frames) >= maxFrames {
			m.toggleRecording()
		}
	}
}

func (m *LiveModel) observe() {
	m.labels = domains.LabelLattice(m.lat)
	m.domainCount = domains.Count(m.labels)

	m.magHistory = appendBounded(m.magHistory, m.lat.Magnetization())
	m.energyHistory = appendBounded(m.energyHistory, m.lat.Energy()/float64(m.lat.Len()))
}

func appendBounded(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *LiveModel) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.frames = make([]*image.Paletted, 0, maxFrames)
		m.status = "recording"
		return
	}
	m.recording = false
	if err := SaveGIF(m.GIFPath, m.frames, 5); err != nil {
		m.status = "gif: " + err.Error()
	} else {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.GIFPath)
	}
	m.frames = nil
}

// reset restores the initial lattice and temperature.
func (m *LiveModel) reset() {
	copy(m.lat.Spins, m.initial.Spins)
	m.temperature = m.initialTemp
	m.trials = 0
	m.accepted = 0
	m.magHistory = m.magHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.observe()
}

// Acceptance returns the fraction of accepted trials so far.
func (m LiveModel) Acceptance() float64 {
	if m.trials == 0 {
		return 0
	}
	return float64(m.accepted) / float64(m.trials)
}

func (m LiveModel) Temperature() float64 { return m.temperature }
func (m LiveModel) Trials() int          { return m.trials }
func (m LiveModel) Running() bool        { return m.running }
func (m LiveModel) Lattice() *lattice.Lattice {
	return m.lat
}

func (m LiveModel) renderLattice() string {
	switch {
	case m.showDomains:
		return RenderDomains(m.labels, m.lat.Size, CurrentTheme)
	case m.braille:
		return RenderBraille(m.lat)
	default:
		return RenderLattice(m.lat, CurrentTheme)
	}
}

// View renders the TUI interface.
func (m LiveModel) View() string {
	var s strings.Builder

	title := fmt.Sprintf("ISING %dx%d", m.lat.Size, m.lat.Size)
	if m.showDomains {
		title += " / DOMAINS"
	}
	s.WriteString(headerStyle.Render(title) + "\n")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render(fmt.Sprintf("REC %d", len(m.frames))))
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING"))
	default:
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	mag := m.lat.Magnetization()
	s.WriteString(labelStyle.Render("Temperature") + valueStyle.Render(fmt.Sprintf("%.3f", m.temperature)) + "\n")
	s.WriteString(labelStyle.Render("Trials") + valueStyle.Render(fmt.Sprintf("%d", m.trials)) + "\n")
	s.WriteString(labelStyle.Render("Magnetization") + valueStyle.Render(fmt.Sprintf("%+.4f", mag)) + "\n")
	s.WriteString(labelStyle.Render("Energy/site") + valueStyle.Render(fmt.Sprintf("%.4f", m.lat.Energy()/float64(m.lat.Len()))) + "\n")
	s.WriteString(labelStyle.Render("Acceptance") + valueStyle.Render(fmt.Sprintf("%.2f%%", 100*m.Acceptance())) + "\n")
	s.WriteString(labelStyle.Render("Domains") + valueStyle.Render(fmt.Sprintf("%d", m.domainCount)) + "\n")
	s.WriteString(labelStyle.Render("|m|") + ProgressBar(math.Abs(mag), 20) + "\n\n")

	s.WriteString(labelStyle.Render("m history") + SparklineChart(m.magHistory, 28) + "\n")
	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("Energy/site"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.status != "" {
		s.WriteString(Subtle.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit ↑↓:Temp\nD:Domains B:Braille T:Theme G:GIF ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(m.renderLattice()), statsStyle.Render(s.String()))
	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  S        - Single step when paused  ║
║  R        - Reset lattice            ║
║  Up/K     - Raise temperature        ║
║  Down/J   - Lower temperature        ║
║  D        - Toggle domain view       ║
║  B        - Toggle Braille view      ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}
