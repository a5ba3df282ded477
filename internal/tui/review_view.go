package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tessaly/reviewdeck/internal/catalog"
	"github.com/tessaly/reviewdeck/internal/history"
	"github.com/tessaly/reviewdeck/internal/publish"
	"github.com/tessaly/reviewdeck/internal/session"
	"github.com/tessaly/reviewdeck/internal/workbook"
)

const maxVisibleRows = 10

var (
	tabActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Underline(true)
	tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	headerCellStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CCCCCC"))
	selectedRowStyle = lipgloss.NewStyle().Bold(true)
	detailTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).MarginTop(1)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	decisionOnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	decisionOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

type workbookLoadedMsg struct {
	workbook *workbook.Workbook
	err      error
}

type submitFinishedMsg struct {
	err error
}

type reviewFinishedMsg struct{}

// reviewView drives one review session: tabs, document rendering, catalog
// expansion, the feedback form, and the submit flow.
type reviewView struct {
	app      *App
	session  *session.Session
	pipeline *publish.Pipeline

	comments      textarea.Model
	commentsFocus bool
	itemSelection int
	width         int
	height        int
}

func newReviewView(app *App) *reviewView {
	art := app.config.Artifact()
	sess := session.New(session.Artifact{
		Name:        art.Name,
		Description: art.Description,
		StatusLabel: art.Status,
	}, app.catalog)

	ta := textarea.New()
	ta.Placeholder = "Add any comments or approval notes..."
	ta.SetHeight(4)
	ta.CharLimit = 0

	var pipeOpts []publish.PipelineOption
	if app.submitWait != nil {
		pipeOpts = append(pipeOpts, publish.WithWaiter(app.submitWait))
	}
	pipeline := publish.NewPipeline(
		app.publisher,
		art.Source,
		art.Destination,
		app.config.MinSubmitDuration(),
		pipeOpts...,
	)

	return &reviewView{
		app:      app,
		session:  sess,
		pipeline: pipeline,
		comments: ta,
	}
}

// Init ingests the configured document so the output tab has content as
// soon as the review opens.
func (v *reviewView) Init() tea.Cmd {
	if strings.TrimSpace(v.app.config.Artifact().Document) == "" {
		v.setStatus("No document configured · press i after uploading one")
		return nil
	}
	return v.ingestDocument()
}

func (v *reviewView) setSize(width, height int) {
	v.width = width
	v.height = height
	v.comments.SetWidth(max(30, width-10))
}

// capturesInput reports whether keystrokes belong to the comments box.
func (v *reviewView) capturesInput() bool {
	return v.commentsFocus
}

func (v *reviewView) submitting() bool {
	return v.session.SubmissionState() == session.SubmissionSubmitting
}

func (v *reviewView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case workbookLoadedMsg:
		if m.err != nil {
			v.app.logWarn("Document ingest failed: %v", m.err)
			v.setStatus(fmt.Sprintf("Document not loaded: %v", m.err))
			return nil
		}
		v.session.AttachWorkbook(m.workbook)
		v.setStatus(fmt.Sprintf("Loaded %d sheet(s) from %s", m.workbook.SheetCount(), v.session.Artifact().Name))
		return nil
	case submitFinishedMsg:
		return v.handleSubmitFinished(m)
	case tea.KeyMsg:
		return v.handleKeyMsg(m)
	default:
		return nil
	}
}

func (v *reviewView) handleSubmitFinished(msg submitFinishedMsg) tea.Cmd {
	v.session.FinishSubmit(msg.err)
	if msg.err != nil {
		v.app.logError("Submission failed: %v", msg.err)
		v.setStatus(fmt.Sprintf("Submission failed: %v", msg.err))
		// Back to idle so the preserved decision and comments can be
		// resubmitted.
		v.session.Acknowledge()
		return nil
	}
	v.app.logInfo("Feedback submitted · decision: %s", v.session.Decision())
	v.session.Acknowledge()
	return func() tea.Msg { return reviewFinishedMsg{} }
}

func (v *reviewView) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if v.commentsFocus {
		switch msg.String() {
		case "esc":
			v.comments.Blur()
			v.commentsFocus = false
			return nil
		case "ctrl+s":
			v.comments.Blur()
			v.commentsFocus = false
			return v.submit()
		default:
			var cmd tea.Cmd
			v.comments, cmd = v.comments.Update(msg)
			_ = v.session.SetComments(v.comments.Value())
			return cmd
		}
	}

	switch msg.String() {
	case "tab":
		v.cycleView(1)
	case "shift+tab":
		v.cycleView(-1)
	case "1":
		v.session.SelectView(session.ViewOutput)
	case "2":
		v.session.SelectView(session.ViewFeedback)
	case "3":
		v.session.SelectView(session.ViewHistory)
	case "[":
		if wb, ok := v.session.Workbook(); ok {
			wb.SelectPrev()
		}
	case "]":
		if wb, ok := v.session.Workbook(); ok {
			wb.SelectNext()
		}
	case "up", "k":
		if v.session.ActiveView() == session.ViewOutput && v.itemSelection > 0 {
			v.itemSelection--
		}
	case "down", "j":
		if v.session.ActiveView() == session.ViewOutput && v.itemSelection < v.session.Catalog().Len()-1 {
			v.itemSelection++
		}
	case "enter", " ":
		if v.session.ActiveView() == session.ViewOutput {
			v.toggleSelectedItem()
		}
	case "a":
		v.selectDecision(session.DecisionApprove)
	case "r":
		v.selectDecision(session.DecisionRevision)
	case "x":
		v.selectDecision(session.DecisionReject)
	case "c":
		v.session.SelectView(session.ViewFeedback)
		if !v.submitting() {
			v.commentsFocus = true
			return v.comments.Focus()
		}
	case "s":
		return v.submit()
	case "i":
		return v.ingestDocument()
	}
	return nil
}

func (v *reviewView) cycleView(step int) {
	order := []session.View{session.ViewOutput, session.ViewFeedback, session.ViewHistory}
	current := 0
	for i, view := range order {
		if view == v.session.ActiveView() {
			current = i
			break
		}
	}
	next := (current + step + len(order)) % len(order)
	v.session.SelectView(order[next])
}

func (v *reviewView) toggleSelectedItem() {
	items := v.session.Catalog().Items()
	if len(items) == 0 {
		return
	}
	if v.itemSelection >= len(items) {
		v.itemSelection = len(items) - 1
	}
	if err := v.session.ToggleExpand(items[v.itemSelection].ID); err != nil {
		v.setStatus(fmt.Sprintf("Cannot expand item: %v", err))
	}
}

func (v *reviewView) selectDecision(d session.Decision) {
	if err := v.session.SelectDecision(d); err != nil {
		v.setStatus("Feedback is locked while the submission is processing")
		return
	}
	v.session.SelectView(session.ViewFeedback)
}

func (v *reviewView) submit() tea.Cmd {
	if err := v.session.BeginSubmit(); err != nil {
		v.setStatus("Submission already in progress")
		return nil
	}
	v.comments.Blur()
	v.commentsFocus = false
	v.setStatus("Processing feedback…")
	v.app.logInfo("Submitting feedback · decision: %s", v.session.Decision())
	req := publish.Request{
		Decision: v.session.Decision(),
		Comments: v.session.Comments(),
	}
	pl := v.pipeline
	return func() tea.Msg {
		return submitFinishedMsg{err: pl.Submit(context.Background(), req)}
	}
}

func (v *reviewView) ingestDocument() tea.Cmd {
	path := v.app.config.Artifact().Document
	if strings.TrimSpace(path) == "" {
		v.setStatus("No document configured for this artifact")
		return nil
	}
	ingest := v.app.ingest
	return func() tea.Msg {
		wb, err := ingest(path)
		return workbookLoadedMsg{workbook: wb, err: err}
	}
}

func (v *reviewView) View() string {
	art := v.session.Artifact()
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CCCCCC")).
		Render(art.Name)
	badge := lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).
		Render(fmt.Sprintf("[%s]", art.StatusLabel))
	header := fmt.Sprintf("%s %s", title, badge)
	if art.Description != "" {
		header += "\n" + detailTextStyle.Render(art.Description)
	}

	sections := []string{header, v.renderTabs(), ""}
	switch v.session.ActiveView() {
	case session.ViewOutput:
		sections = append(sections, v.renderOutput())
	case session.ViewFeedback:
		sections = append(sections, v.renderFeedback())
	case session.ViewHistory:
		sections = append(sections, v.renderHistory())
	}
	sections = append(sections, v.renderHints())
	return strings.Join(sections, "\n")
}

func (v *reviewView) renderTabs() string {
	type tab struct {
		view  session.View
		label string
	}
	tabs := []tab{
		{session.ViewOutput, "1 Output"},
		{session.ViewFeedback, "2 Feedback"},
		{session.ViewHistory, "3 History"},
	}
	rendered := make([]string, 0, len(tabs))
	for _, t := range tabs {
		if t.view == v.session.ActiveView() {
			rendered = append(rendered, tabActiveStyle.Render(t.label))
			continue
		}
		rendered = append(rendered, tabInactiveStyle.Render(t.label))
	}
	return strings.Join(rendered, "   ")
}

func (v *reviewView) renderOutput() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		v.renderWorkbook(),
		"",
		v.renderCatalog(),
	)
}

func (v *reviewView) renderWorkbook() string {
	wb, ok := v.session.Workbook()
	if !ok {
		return detailTextStyle.Render("No document loaded. Press i to ingest the artifact document.")
	}

	names := make([]string, 0, wb.SheetCount())
	for i, sheet := range wb.Sheets() {
		name := sheet.Name
		if i == wb.Selected() {
			name = tabActiveStyle.Render(name)
		} else {
			name = tabInactiveStyle.Render(name)
		}
		names = append(names, name)
	}
	sheetBar := "Sheets: " + strings.Join(names, " · ")

	sheet := wb.SelectedSheet()
	labels := sheet.HeaderLabels()
	if len(labels) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, sheetBar, detailTextStyle.Render("Sheet is empty."))
	}

	shown := sheet.DataRowCount()
	if shown > maxVisibleRows {
		shown = maxVisibleRows
	}
	widths := columnWidths(sheet.HeaderLabels(), sheet, shown)

	headerCells := make([]string, len(labels))
	for i, label := range labels {
		headerCells[i] = headerCellStyle.Render(padCell(label, widths[i]))
	}
	lines := []string{sheetBar, "", strings.Join(headerCells, " │ ")}
	for r := 0; r < shown; r++ {
		row := sheet.DataRow(r)
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = padCell(cell, widths[c])
		}
		lines = append(lines, strings.Join(cells, " │ "))
	}
	summary := fmt.Sprintf("%d rows × %d columns", sheet.DataRowCount(), sheet.ColumnCount())
	if sheet.DataRowCount() > shown {
		summary += fmt.Sprintf(" · showing first %d", shown)
	}
	lines = append(lines, detailTextStyle.Render(summary))
	return strings.Join(lines, "\n")
}

// columnWidths sizes each column to fit the header and the visible rows,
// capped so one verbose cell cannot blow out the table.
func columnWidths(labels []string, sheet workbook.Sheet, shown int) []int {
	const capWidth = 28
	widths := make([]int, len(labels))
	for i, label := range labels {
		widths[i] = len([]rune(label))
	}
	for r := 0; r < shown; r++ {
		for c, cell := range sheet.DataRow(r) {
			if c >= len(widths) {
				break
			}
			if n := len([]rune(cell)); n > widths[c] {
				widths[c] = n
			}
		}
	}
	for i := range widths {
		if widths[i] > capWidth {
			widths[i] = capWidth
		}
	}
	return widths
}

func padCell(value string, width int) string {
	runes := []rune(value)
	if len(runes) > width {
		if width <= 1 {
			return string(runes[:width])
		}
		return string(runes[:width-1]) + "…"
	}
	return value + strings.Repeat(" ", width-len(runes))
}

func (v *reviewView) renderCatalog() string {
	cat := v.session.Catalog()
	counts := cat.Counts()
	countBits := []string{fmt.Sprintf("%d items", counts.Total)}
	for _, status := range []catalog.Status{
		catalog.StatusApproved,
		catalog.StatusPendingReview,
		catalog.StatusPendingApproval,
		catalog.StatusNeedsRevision,
	} {
		if n := counts.ByStatus[status]; n > 0 {
			countBits = append(countBits, fmt.Sprintf("%d %s", n, catalog.StyleFor(status).Label))
		}
	}
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Review Items") + " · " + detailTextStyle.Render(strings.Join(countBits, " · ")),
	}

	expanded, _ := v.session.Expanded()
	for i, item := range cat.Items() {
		indicator := " "
		if i == v.itemSelection {
			indicator = ">"
		}
		style := catalog.StyleFor(item.Status)
		badge := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Color)).Render(fmt.Sprintf("[%s]", style.Label))
		line := fmt.Sprintf("%s %s · %s %s", indicator, item.ID, item.Title, badge)
		if i == v.itemSelection {
			line = selectedRowStyle.Render(line)
		}
		lines = append(lines, line)
		if item.ID == expanded {
			lines = append(lines, v.renderItemDetail(item))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *reviewView) renderItemDetail(item catalog.Item) string {
	var details []string
	if item.Description != "" {
		details = append(details, item.Description)
	}
	meta := []string{}
	if item.Complexity != "" {
		meta = append(meta, fmt.Sprintf("Complexity: %s", item.Complexity))
	}
	if item.Duration != "" {
		meta = append(meta, fmt.Sprintf("Duration: %s", item.Duration))
	}
	if len(item.Tags) > 0 {
		meta = append(meta, fmt.Sprintf("Tags: %s", strings.Join(item.Tags, ", ")))
	}
	if len(meta) > 0 {
		details = append(details, strings.Join(meta, " · "))
	}
	if item.Preconditions != "" {
		details = append(details, fmt.Sprintf("Preconditions: %s", item.Preconditions))
	}
	if item.Dependencies != "" {
		details = append(details, fmt.Sprintf("Dependencies: %s", item.Dependencies))
	}
	for i, step := range item.Steps {
		details = append(details, fmt.Sprintf("%d. %s", i+1, step))
	}
	if item.ExpectedResult != "" {
		details = append(details, fmt.Sprintf("Expected: %s", item.ExpectedResult))
	}
	if len(details) == 0 {
		return detailTextStyle.Render("  no additional details")
	}
	return detailTextStyle.Render("  " + strings.Join(details, "\n  "))
}

func (v *reviewView) renderFeedback() string {
	type option struct {
		decision session.Decision
		label    string
	}
	options := []option{
		{session.DecisionApprove, "a Approve"},
		{session.DecisionRevision, "r Request Revision"},
		{session.DecisionReject, "x Reject"},
	}
	rendered := make([]string, 0, len(options))
	for _, opt := range options {
		if opt.decision == v.session.Decision() {
			rendered = append(rendered, decisionOnStyle.Render("▸ "+opt.label))
			continue
		}
		rendered = append(rendered, decisionOffStyle.Render("  "+opt.label))
	}

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("Your Decision"),
		strings.Join(rendered, "    "),
		"",
		lipgloss.NewStyle().Bold(true).Render("Comments (optional)"),
		v.comments.View(),
	}
	switch v.session.SubmissionState() {
	case session.SubmissionSubmitting:
		lines = append(lines, "", tabActiveStyle.Render("Processing feedback…"))
	default:
		if v.session.LastError() != "" {
			lines = append(lines, "", errorStyle.Render(fmt.Sprintf("⚠ %s", v.session.LastError())))
		}
	}
	return strings.Join(lines, "\n")
}

func (v *reviewView) renderHistory() string {
	entries := history.SampleEntries()
	if len(entries) == 0 {
		return detailTextStyle.Render("No prior review activity.")
	}
	var lines []string
	for _, entry := range entries {
		style := history.StyleFor(entry.Type)
		badge := lipgloss.NewStyle().Foreground(lipgloss.Color(style.Color)).Render(fmt.Sprintf("[%s]", style.Label))
		avatar := lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("(%s)", history.Initials(entry.User)))
		lines = append(lines,
			fmt.Sprintf("%s %s %s · %s", avatar, entry.User, badge, entry.Date),
			detailTextStyle.Render("  "+entry.Comment),
			"",
		)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func (v *reviewView) renderHints() string {
	if v.commentsFocus {
		return hintStyle.Render("ctrl+s submit · esc done typing")
	}
	switch v.session.ActiveView() {
	case session.ViewOutput:
		return hintStyle.Render("tab switch view · [/] sheets · ↑/↓ items · enter expand · i reload document · esc menu")
	case session.ViewFeedback:
		return hintStyle.Render("a/r/x decision · c comment · s submit · esc menu")
	default:
		return hintStyle.Render("tab switch view · esc menu")
	}
}

func (v *reviewView) setStatus(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	v.app.statusMsg = message
	v.app.logProgress(message)
}
