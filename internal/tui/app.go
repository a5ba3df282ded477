// internal/tui/app.go
//
// This is the main TUI (Terminal User Interface) for reviewdeck.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessaly/reviewdeck/internal/catalog"
	"github.com/tessaly/reviewdeck/internal/config"
	"github.com/tessaly/reviewdeck/internal/logbook"
	"github.com/tessaly/reviewdeck/internal/metrics"
	"github.com/tessaly/reviewdeck/internal/publish"
	"github.com/tessaly/reviewdeck/internal/workbook"
)

// appState represents which "screen" we're on
type appState int

const (
	stateMainMenu appState = iota // Main menu with "Review Artifact", etc.
	stateReview                   // Reviewing the artifact document
	stateSummary                  // Agent metrics summary
)

// MetricsFetcher resolves the agent summary shown on the metrics screen.
type MetricsFetcher func(ctx context.Context, displayName string) (metrics.AgentMetrics, error)

// Ingestor loads the artifact document from disk into a workbook.
type Ingestor func(path string) (*workbook.Workbook, error)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithPublisher overrides the remote publisher the submit pipeline calls.
func WithPublisher(p publish.Publisher) AppOption {
	return func(a *App) {
		if p != nil {
			a.publisher = p
		}
	}
}

// WithMetricsFetcher overrides the agent summary fetch used by the TUI.
func WithMetricsFetcher(fetch MetricsFetcher) AppOption {
	return func(a *App) {
		if fetch != nil {
			a.fetchMetrics = fetch
		}
	}
}

// WithIngestor allows tests to inject document ingestion.
func WithIngestor(ingest Ingestor) AppOption {
	return func(a *App) {
		if ingest != nil {
			a.ingest = ingest
		}
	}
}

// WithSubmitWaiter overrides how the submit pipeline waits out its
// minimum visible-processing duration.
func WithSubmitWaiter(wait func(ctx context.Context, d time.Duration) error) AppOption {
	return func(a *App) {
		if wait != nil {
			a.submitWait = wait
		}
	}
}

type summaryMsg struct {
	metrics metrics.AgentMetrics
	err     error
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	state   appState
	config  *config.Config
	logbook *logbook.Logbook
	catalog *catalog.Catalog

	publisher    publish.Publisher
	fetchMetrics MetricsFetcher
	ingest       Ingestor
	submitWait   func(ctx context.Context, d time.Duration) error

	reviewView *reviewView

	// UI components
	mainMenu      list.Model // The main menu list
	statusMsg     string     // Status message to display
	lastLogStatus string

	// Agent summary data
	summary       metrics.AgentMetrics
	summaryErr    error
	summaryLoaded bool

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// menuItem implements list.Item interface for our menu items
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates a new App instance
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.LogbookPath())
	if err == nil {
		lb.Info("Session opened · artifact: %s", cfg.Artifact().Name)
	}

	mainMenu := list.New(buildMainMenu(cfg), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "⬡ REVIEWDECK"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:        stateMainMenu,
		config:       cfg,
		logbook:      lb,
		publisher:    publish.NewClient(cfg.PublishBaseURL()),
		fetchMetrics: metrics.NewClient(cfg.MetricsBaseURL(), nil).AgentSummary,
		ingest:       workbook.IngestFile,
		mainMenu:     mainMenu,
	}
	app.catalog = loadCatalog(cfg, app)
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app, nil
}

// buildMainMenu creates the main menu items for the configured artifact
func buildMainMenu(cfg *config.Config) []list.Item {
	art := cfg.Artifact()
	return []list.Item{
		menuItem{
			title: "Review Artifact",
			desc:  fmt.Sprintf("Open %s for review", art.Name),
		},
		menuItem{
			title: "Agent Summary",
			desc:  fmt.Sprintf("Token and execution metrics for %s", art.Name),
		},
		menuItem{title: "Exit", desc: "Quit reviewdeck"},
	}
}

// loadCatalog resolves the item catalog for the session. A broken catalog
// file falls back to the bundled one so the review screen always opens.
func loadCatalog(cfg *config.Config, app *App) *catalog.Catalog {
	path := cfg.CatalogPath()
	if strings.TrimSpace(path) == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		app.logWarn("Catalog %s unavailable, using bundled items: %v", path, err)
		return catalog.Default()
	}
	return cat
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

func (a *App) logProgress(status string) {
	status = strings.TrimSpace(status)
	if status == "" || status == a.lastLogStatus {
		return
	}
	a.lastLogStatus = status
	a.logInfo(status)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-10))
		if a.reviewView != nil {
			a.reviewView.setSize(msg.Width, msg.Height)
		}
		return a, nil

	case summaryMsg:
		a.summaryLoaded = true
		a.summary = msg.metrics
		a.summaryErr = msg.err
		if msg.err != nil {
			a.logWarn("Agent summary unavailable: %v", msg.err)
		}
		return a, nil

	case reviewFinishedMsg:
		a.statusMsg = fmt.Sprintf("Feedback submitted · %s published", a.config.Artifact().Name)
		return a.returnToMainMenu()

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
		case "esc":
			if a.state == stateReview && a.reviewView != nil && a.reviewView.capturesInput() {
				break
			}
			if a.state != stateMainMenu {
				return a.returnToMainMenu()
			}
		case "enter":
			if a.state == stateMainMenu {
				return a.handleMainMenuSelection()
			}
		}
	}

	var cmds []tea.Cmd
	switch a.state {
	case stateMainMenu:
		var menuCmd tea.Cmd
		a.mainMenu, menuCmd = a.mainMenu.Update(msg)
		if menuCmd != nil {
			cmds = append(cmds, menuCmd)
		}
	case stateReview:
		if a.reviewView != nil {
			if cmd := a.reviewView.Update(msg); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// handleMainMenuSelection processes menu item selection
func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}

	switch item.title {
	case "Review Artifact":
		a.logInfo("Menu · Review Artifact selected")
		return a.openReview()

	case "Agent Summary":
		a.logInfo("Menu · Agent Summary selected")
		a.state = stateSummary
		a.summaryLoaded = false
		a.summaryErr = nil
		a.statusMsg = "Fetching agent summary..."
		return a, a.fetchSummary()

	case "Exit":
		a.logInfo("Menu · Exit selected")
		return a, tea.Quit
	}

	return a, nil
}

// openReview starts a review session for the configured artifact.
func (a *App) openReview() (tea.Model, tea.Cmd) {
	a.state = stateReview
	a.reviewView = newReviewView(a)
	if a.width > 0 {
		a.reviewView.setSize(a.width, a.height)
	}
	return a, a.reviewView.Init()
}

// returnToMainMenu transitions back to the main menu
func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	if a.reviewView != nil && a.reviewView.submitting() {
		a.logWarn("Review closed with a submission still in flight")
	}
	a.state = stateMainMenu
	a.reviewView = nil
	a.logInfo("Returned to main menu")
	return a, nil
}

func (a *App) fetchSummary() tea.Cmd {
	fetch := a.fetchMetrics
	name := a.config.Artifact().Name
	return func() tea.Msg {
		m, err := fetch(context.Background(), name)
		return summaryMsg{metrics: m, err: err}
	}
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case stateReview:
		if a.reviewView != nil {
			content = a.reviewView.View()
		} else {
			content = "Opening review..."
		}
	case stateSummary:
		content = a.renderSummary()
	}
	return a.renderFrame(content, width)
}

func (a *App) renderFrame(content string, width int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render("⬡ REVIEWDECK")
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width-2)).
		Render(content)
	sections := []string{header, body}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderSummary() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("Agent Summary · %s", a.config.Artifact().Name))
	if !a.summaryLoaded {
		return lipgloss.JoinVertical(lipgloss.Left, title, "", "Fetching agent summary…")
	}
	if a.summaryErr != nil {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).
			Render(fmt.Sprintf("⚠ %v", a.summaryErr))
		return lipgloss.JoinVertical(lipgloss.Left, title, "", warn, "", "Esc → back to menu")
	}
	m := a.summary
	lines := []string{
		fmt.Sprintf("Tokens consumed:  %s", metrics.FormatTokens(m.TokensConsumed)),
		fmt.Sprintf("Execution time:   %s", metrics.FormatExecutionTime(m.ExecutionTime)),
		fmt.Sprintf("Tokens/second:    %.1f", m.TokensPerSecond),
		fmt.Sprintf("Last updated:     %s", metrics.FormatTimeAgo(metrics.ParseTimestamp(m.LastUpdated), time.Now())),
	}
	if strings.TrimSpace(m.FinalSummary) != "" {
		lines = append(lines, "", "Latest summary:", metrics.Truncate(m.FinalSummary, 200))
	}
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).
		Render(strings.Join(lines, "\n"))
	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1).
		Render("Esc → back to menu")
	return lipgloss.JoinVertical(lipgloss.Left, title, "", body, hint)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
