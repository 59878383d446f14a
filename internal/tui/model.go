package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docqa/internal/domain"
	"docqa/internal/retrieval"
	"docqa/internal/service"
)

// QAPort is the TUI-facing subset of the question-answering service.
type QAPort interface {
	Ask(ctx context.Context, documentID, question string) (domain.Answer, error)
	Summarize(ctx context.Context, documentID string) (string, error)
}

// StageMsg reports a pipeline stage while a question is in flight.
type StageMsg struct{ Stage service.Stage }

type answerMsg struct {
	question string
	answer   domain.Answer
	err      error
}

type summaryMsg struct {
	summary string
	err     error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service   QAPort
	doc       domain.Document
	chunks    int
	timeout   time.Duration
	input     textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model
	answer    *domain.Answer
	summary   string
	status    string
	busy      bool
	ready     bool
	lastQuery string
}

// New creates a new TUI model for one loaded document. Each model call is
// bounded by timeout when it is positive.
func New(svc QAPort, doc domain.Document, chunks int, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter (ctrl+s to summarize)"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	return Model{
		service:  svc,
		doc:      doc,
		chunks:   chunks,
		timeout:  timeout,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		status:   "Loaded. Ask a question.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) callContext() (context.Context, context.CancelFunc) {
	if m.timeout > 0 {
		return context.WithTimeout(context.Background(), m.timeout)
	}
	return context.WithCancel(context.Background())
}

func (m Model) askCmd(question string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		ans, err := m.service.Ask(ctx, m.doc.ID, question)
		return answerMsg{question: question, answer: ans, err: err}
	}
}

func (m Model) summaryCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.callContext()
		defer cancel()
		s, err := m.service.Summarize(ctx, m.doc.ID)
		return summaryMsg{summary: s, err: err}
	}
}

// Update handles key, window and result events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around answer and query boxes
		_, rh := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + document info
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderContent())
		return m, nil
	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.lastQuery = q
			m.status = "Retrieving..."
			m.input.SetValue("")
			return m, tea.Batch(m.spinner.Tick, m.askCmd(q))
		case "ctrl+s":
			if m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Summarizing..."
			return m, tea.Batch(m.spinner.Tick, m.summaryCmd())
		case "pgdown", "pgup", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	case StageMsg:
		if m.busy {
			m.status = stageStatus(msg.Stage)
		}
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		ans := msg.answer
		m.answer = &ans
		m.status = fmt.Sprintf("Answered %q", msg.question)
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil
	case summaryMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.summary = msg.summary
		m.status = "Summary ready."
		m.viewport.SetContent(m.renderContent())
		return m, nil
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and the current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Q&A")
	info := infoStyle.Render(fmt.Sprintf("%s  %d pages  %d characters  %d chunks",
		m.doc.Name, m.doc.Pages, len(m.doc.Text), m.chunks))
	input := queryBoxStyle.Render(m.input.View())
	status := m.status
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	if strings.HasPrefix(m.status, "Error: ") {
		status = errorStyle.Render(status)
	} else {
		status = statusStyle.Render(status)
	}
	content := answerBoxStyle.Render(m.viewport.View())
	return header + "\n" + info + "\n" + content + "\n" + input + "\n" + status
}

func (m Model) renderContent() string {
	var sb strings.Builder
	if m.summary != "" {
		sb.WriteString(sectionStyle.Render("Summary"))
		sb.WriteString("\n" + m.summary + "\n\n")
	}
	if m.answer == nil {
		if sb.Len() == 0 {
			return "No answer yet."
		}
		return sb.String()
	}
	label := generalStyle
	if m.answer.Provenance == domain.FromDocument {
		label = documentStyle
	}
	sb.WriteString(label.Render("[" + m.answer.Provenance.Label() + "]"))
	sb.WriteString("\n" + m.answer.Text + "\n")
	for i, src := range m.answer.Sources {
		sb.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Source %d/%d  chunk #%d", i+1, len(m.answer.Sources), src.Index)))
		sb.WriteString("\n" + highlightBestSentence(src.Text, m.lastQuery) + "\n")
	}
	return sb.String()
}

func stageStatus(s service.Stage) string {
	switch s {
	case service.StageRetrieving:
		return "Retrieving..."
	case service.StageCheckingSufficiency:
		return "Checking whether the document answers it..."
	case service.StageGeneratingDocumentAnswer:
		return "Answering from the document..."
	case service.StageGeneratingGeneralAnswer:
		return "Answering from general knowledge..."
	default:
		return s.String()
	}
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	documentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	generalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	sectionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Underline(true)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		sentences = []string{strings.TrimSpace(text)}
	}
	qTerms := retrieval.Terms(query)
	if len(qTerms) == 0 {
		return strings.Join(sentences, " ")
	}
	bestIdx := 0
	bestScore := -1
	for i, s := range sentences {
		score := 0
		for t := range retrieval.Terms(s) {
			if _, ok := qTerms[t]; ok {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	for i := range sentences {
		sent := strings.TrimSpace(sentences[i])
		if i == bestIdx {
			sentences[i] = highlightStyle.Render(sent)
		} else {
			sentences[i] = sent
		}
	}
	return strings.Join(sentences, " ")
}
