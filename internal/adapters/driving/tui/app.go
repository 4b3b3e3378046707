package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/memo-labs/memo-cli/internal/core/domain"
	"github.com/memo-labs/memo-cli/internal/core/ports/driving"
)

// resultsMsg carries search results back into the update loop.
type resultsMsg struct {
	results []domain.SearchResult
}

// errMsg carries a failed search back into the update loop.
type errMsg struct {
	err error
}

// App is the TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *Styles

	input    textinput.Model
	results  []domain.SearchResult
	selected int
	showDoc  bool
	err      error

	searching bool
	width     int
	height    int
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	input := textinput.New()
	input.Placeholder = "Search your memories..."
	input.Focus()
	input.CharLimit = 256

	return &App{
		ports:  ports,
		ctx:    context.Background(),
		styles: DefaultStyles(),
		input:  input,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.SetWindowTitle("memo"),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case resultsMsg:
		a.searching = false
		a.results = msg.results
		a.selected = 0
		a.err = nil
		return a, nil

	case errMsg:
		a.searching = false
		a.err = msg.err
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if a.input.Focused() && msg.String() == "q" {
			break // let "q" be typed into the query
		}
		return a, tea.Quit

	case "esc":
		if a.showDoc {
			a.showDoc = false
			return a, nil
		}
		if !a.input.Focused() {
			a.input.Focus()
			return a, textinput.Blink
		}
		return a, tea.Quit

	case "enter":
		if a.showDoc {
			return a, nil
		}
		if a.input.Focused() {
			query := strings.TrimSpace(a.input.Value())
			if query == "" {
				return a, nil
			}
			a.searching = true
			a.input.Blur()
			return a, a.search(query)
		}
		if len(a.results) > 0 {
			a.showDoc = true
		}
		return a, nil

	case "up", "k":
		if !a.input.Focused() && a.selected > 0 {
			a.selected--
		}
		return a, nil

	case "down", "j":
		if !a.input.Focused() && a.selected < len(a.results)-1 {
			a.selected++
		}
		return a, nil
	}

	if a.input.Focused() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(msg)
		return a, cmd
	}
	return a, nil
}

// search runs the semantic search off the update loop.
func (a *App) search(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.ports.Memory.Search(a.ctx, driving.SearchRequest{
			Query: query,
			Scope: domain.ScopeAll,
		})
		if err != nil {
			return errMsg{err: err}
		}
		return resultsMsg{results: results}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("memo"))
	b.WriteString("\n")
	b.WriteString(a.input.View())
	b.WriteString("\n\n")

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render(fmt.Sprintf("Error: %v", a.err)))
	case a.searching:
		b.WriteString(a.styles.Muted.Render("Searching..."))
	case a.showDoc && a.selected < len(a.results):
		b.WriteString(a.renderDocument(&a.results[a.selected].Document))
	case len(a.results) > 0:
		b.WriteString(a.renderResults())
	default:
		b.WriteString(a.styles.Muted.Render("No results yet. Type a query and press Enter."))
	}

	b.WriteString("\n")
	b.WriteString(a.styles.Help.Render("↑/k ↓/j navigate · enter select · esc back · q quit"))
	return b.String()
}

func (a *App) renderResults() string {
	var b strings.Builder
	for i := range a.results {
		doc := &a.results[i].Document
		label := doc.Title
		if label == "" {
			label = firstLine(doc.Content)
		}
		score := a.styles.Score.Render(fmt.Sprintf("%.2f", a.results[i].Score))

		line := fmt.Sprintf("%s  %s", label, score)
		if i == a.selected && !a.input.Focused() {
			b.WriteString(a.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(a.styles.Result.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderDocument(doc *domain.Document) string {
	var b strings.Builder
	if doc.Title != "" {
		b.WriteString(a.styles.Selected.Render(doc.Title))
		b.WriteString("\n\n")
	}
	b.WriteString(doc.Content)
	if len(doc.Tags) > 0 {
		b.WriteString("\n\n")
		b.WriteString(a.styles.Muted.Render("tags: " + strings.Join(doc.Tags, ", ")))
	}
	return b.String()
}

// firstLine truncates content to a single label line.
func firstLine(content string) string {
	const maxLen = 60
	if i := strings.IndexByte(content, '\n'); i >= 0 {
		content = content[:i]
	}
	if len(content) > maxLen {
		return content[:maxLen] + "..."
	}
	return content
}
