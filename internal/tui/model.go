// Package tui is the terminal chat loop: one input line, a scrollable
// conversation transcript, one turn processed at a time.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recipechat/internal/service"
)

// RecommendPort is the TUI-facing subset of the recommender.
type RecommendPort interface {
	Respond(raw string) service.Reply
}

// Model is the Bubble Tea model for the chat application.
type Model struct {
	service    RecommendPort
	input      textinput.Model
	viewport   viewport.Model
	transcript []string
	status     string
	ready      bool
}

// New creates a new chat model.
func New(svc RecommendPort, banner string) Model {
	ti := textinput.New()
	ti.Prompt = "You: "
	ti.Placeholder = "Ask for a recipe and press Enter ('quit' to exit)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		service:    svc,
		input:      ti,
		viewport:   vp,
		transcript: []string{bannerStyle.Render(banner)},
		status:     "Ready. Ask for a recipe.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, th := transcriptStyle.GetFrameSize()
		_, qh := inputStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, input frame, spacer
		vh := msg.Height - reserved - th
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = vh
		m.viewport.SetContent(strings.Join(m.transcript, "\n"))
		m.viewport.GotoBottom()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				break
			}
			m.input.SetValue("")
			if q == "quit" || q == "exit" {
				return m, tea.Quit
			}
			reply := m.service.Respond(q)
			m.transcript = append(m.transcript,
				userStyle.Render("You: ")+q,
				botStyle.Render("Recipe Recommender:")+"\n"+reply.Text)
			switch reply.Kind {
			case service.KindRecipes:
				m.status = "Found recipes. Ask for more or refine your request."
			case service.KindNoMatch:
				m.status = "No matches. Try a different cuisine or ingredient."
			default:
				m.status = "Ready. Ask for a recipe."
			}
			m.viewport.SetContent(strings.Join(m.transcript, "\n"))
			m.viewport.GotoBottom()
			if reply.Kind == service.KindGoodbye {
				return m, tea.Quit
			}
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the chat layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Recipe Recommender")
	transcript := transcriptStyle.Render(m.viewport.View())
	input := inputStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + transcript + "\n" + input + "\n" + status
}

var (
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	bannerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userStyle       = lipgloss.NewStyle().Bold(true)
	botStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)
