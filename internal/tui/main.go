package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Config configures the race browser: where a prior pipeline.Process run
// wrote its artifacts, and which symbol-day to open.
type Config struct {
	OutputRoot string
	Date       string
	Symbol     string
}

// Run starts the race browser, grounded on the teacher's
// internal/tui.Run/AppModel (internal/tui/main.go): a single bubbletea
// program over the alt screen, wrapping one page.
func Run(config Config) error {
	model := NewAppModel(config)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

type AppModel struct {
	config Config
	page   RacesPageModel

	width       int
	height      int
	help        help.Model
	keyMap      appKeyMap
	headerStyle lipgloss.Style
	footerStyle lipgloss.Style
}

func NewAppModel(config Config) AppModel {
	return AppModel{
		config:      config,
		page:        NewRacesPage(config.OutputRoot, config.Date, config.Symbol),
		width:       20,
		height:      10,
		help:        help.New(),
		keyMap:      defaultAppKeyMap(),
		headerStyle: headerStyle,
		footerStyle: footerStyle,
	}
}

type appKeyMap struct {
	Quit key.Binding
}

func defaultAppKeyMap() appKeyMap {
	return appKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc", "q"),
			key.WithHelp("esc", "quit"),
		),
	}
}

func (k appKeyMap) FullHelp() [][]key.Binding { return [][]key.Binding{{k.Quit}} }
func (k appKeyMap) ShortHelp() []key.Binding  { return []key.Binding{k.Quit} }

func (m AppModel) Init() tea.Cmd {
	return m.page.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if key.Matches(msg, m.keyMap.Quit) {
			return m, tea.Quit
		}
	}

	pageModel, cmd := m.page.Update(msg)
	m.page = pageModel.(RacesPageModel)
	return m, cmd
}

func (m AppModel) View() string {
	return m.headerView() + "\n" + m.page.View() + "\n" + m.footerView()
}

func (m *AppModel) headerView() string {
	header := m.headerStyle.Render(fmt.Sprintf(" racewatch   %s / %s ", m.config.Date, m.config.Symbol))
	restOfLine := maxInt(0, m.width-lipgloss.Width(header))
	return header + m.headerStyle.Render(strings.Repeat(" ", restOfLine))
}

func (m *AppModel) footerView() string {
	return m.help.View(m.keyMap)
}
