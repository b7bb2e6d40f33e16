package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// RacesPageModel browses one symbol-day's race records, a table of races on
// the left and a detail pane of the selected race's tagged message indices
// on the right. Grounded on the teacher's DatasetsPageModel
// (internal/tui/datasets.go): a bubbles/table list driving a detail pane via
// a cursor-change check in Update, laid out with lipgloss.JoinHorizontal.
type RacesPageModel struct {
	outputRoot string
	date       string
	symbol     string

	races     []RaceRow
	selected  int
	lastError error

	width      int
	height     int
	raceTable  table.Model
}

func NewRacesPage(outputRoot, date, symbol string) RacesPageModel {
	raceTable := table.New(table.WithColumns([]table.Column{
		{Title: "ID", Width: 5},
		{Title: "Side", Width: 5},
		{Title: "Price", Width: 10},
		{Title: "Start Msg", Width: 10},
		{Title: "Horizon", Width: 12},
		{Title: "Timestamp", Width: 29},
	}), table.WithStyles(raceTableStyles), table.WithFocused(true))

	m := RacesPageModel{
		outputRoot: outputRoot,
		date:       date,
		symbol:     symbol,
		selected:   -1,
		raceTable:  raceTable,
		width:      20,
		height:     10,
	}
	return m
}

type racesLoadedMsg struct {
	races []RaceRow
	err   error
}

func loadRacesCmd(outputRoot, date, symbol string) tea.Cmd {
	return func() tea.Msg {
		races, err := LoadRaces(outputRoot, date, symbol)
		return racesLoadedMsg{races: races, err: err}
	}
}

func (m RacesPageModel) Init() tea.Cmd {
	return loadRacesCmd(m.outputRoot, m.date, m.symbol)
}

func (m RacesPageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()

	case racesLoadedMsg:
		m.lastError = msg.err
		m.races = msg.races

		var rows []table.Row
		for _, r := range m.races {
			rows = append(rows, table.Row{
				strconv.Itoa(r.SingleLvlRaceID),
				r.Side,
				strconv.FormatInt(r.SignedPrice, 10),
				strconv.Itoa(r.StartMsgIdx),
				time.Duration(r.HorizonNanos).String(),
				r.Timestamp,
			})
		}
		m.raceTable.SetRows(rows)
		m.updateSizes()
		return m, nil

	default:
		var cmd tea.Cmd
		m.raceTable, cmd = m.raceTable.Update(msg)
		m.selected = m.raceTable.Cursor()
		return m, cmd
	}
	return m, nil
}

func (m RacesPageModel) View() string {
	if m.lastError != nil {
		return fmt.Sprintf("Error loading races for %s/%s: %s", m.date, m.symbol, m.lastError.Error())
	}
	if len(m.races) == 0 {
		return fmt.Sprintf("No races recorded for %s/%s.", m.date, m.symbol)
	}

	listPane := borderStyle.Render(m.raceTable.View())
	detailPane := borderStyle.Render(m.detailView())
	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

func (m *RacesPageModel) detailView() string {
	if m.selected < 0 || m.selected >= len(m.races) {
		return "Select a race to see its tagged messages."
	}
	r := m.races[m.selected]
	out := fmt.Sprintf("Race #%d\nSide: %s\nSignedPrice: %d\nStartMsgIdx: %d\nHorizon: %s\n\nTagged message indices:\n",
		r.SingleLvlRaceID, r.Side, r.SignedPrice, r.StartMsgIdx, time.Duration(r.HorizonNanos))
	for _, idx := range r.MsgIdxs {
		out += fmt.Sprintf("  %d\n", idx)
	}
	return out
}

func (m *RacesPageModel) updateSizes() {
	availHeight := maxInt(0, m.height-2-2)
	m.raceTable.SetHeight(availHeight)

	availWidth := maxInt(0, m.width-2)
	listWidth := minInt(availWidth, 65)
	m.raceTable.SetWidth(listWidth)
}
