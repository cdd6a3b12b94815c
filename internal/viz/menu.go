package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/boidsim/internal/config"
)

var profileInfo = map[string]string{
	"bullet":  "bullet-hell chasers",
	"classic": "formation flying",
	"chase":   "orbiting player",
	"swarm":   "wandering player",
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Menu lists the tuning profiles and opens a live view on the chosen one.
type Menu struct {
	cursor   int
	profiles []string
	seed     int64
	live     *Model
	err      error
}

func NewMenu(seed int64) Menu {
	return Menu{profiles: config.ListPresets(), seed: seed}
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.live != nil {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			m.live = nil
			return m, nil
		}
		next, cmd := m.live.Update(msg)
		live := next.(Model)
		m.live = &live
		return m, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.profiles)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m Menu) start() (tea.Model, tea.Cmd) {
	cfg := config.GetPreset(m.profiles[m.cursor])
	cfg.Seed = m.seed
	live, err := NewModel(cfg)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.err = &live, nil
	return m, live.Init()
}

func (m Menu) View() string {
	if m.live != nil {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("BOIDSIM") + "\n    " + menuIdle.Render("flocking simulator") + "\n    " + menuIdle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.profiles {
		desc := profileInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuSelected.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-10s", name)), menuIdle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + SparkLow.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" start  ") + menuKey.Render("esc") + menuIdle.Render(" back  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

// RunMenu starts the profile picker.
func RunMenu(seed int64) error {
	_, err := tea.NewProgram(NewMenu(seed), tea.WithAltScreen()).Run()
	return err
}
