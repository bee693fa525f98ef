// Package tui is the interactive intake form.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/helmcode/patient-assistant/pkg/analyzer"
	"github.com/helmcode/patient-assistant/pkg/attach"
	"github.com/helmcode/patient-assistant/pkg/formatter"
	"github.com/helmcode/patient-assistant/pkg/intake"
	"github.com/helmcode/patient-assistant/pkg/model"
	"go.uber.org/zap"
)

type phase int

const (
	phaseEdit phase = iota
	phaseSubmitting
	phaseResult
)

// filesKey is the form key of the attachment path input.
const filesKey = "files"

// filesSelectedMsg carries the attachments read for a path list while editing.
type filesSelectedMsg struct {
	paths string
	files []model.AttachedFile
	err   error
}

type filesLoadedMsg struct {
	files []model.AttachedFile
	err   error
}

type outcomeMsg struct {
	outcome model.Outcome
}

// Model drives the form, the in-flight submission and the result panel.
type Model struct {
	ctx      context.Context
	store    *intake.Store
	analyzer *analyzer.Analyzer
	logger   *zap.Logger

	form          *huh.Form
	draft         model.FormFields
	filePaths     string
	selectedPaths string
	confirm       bool

	spinner  spinner.Model
	phase    phase
	notice   string
	quitting bool
}

// New builds the form from the store's current values. paths pre-fills the
// attachment input.
func New(ctx context.Context, store *intake.Store, an *analyzer.Analyzer, paths []string, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Model{
		ctx:       ctx,
		store:     store,
		analyzer:  an,
		logger:    logger,
		filePaths: strings.Join(paths, ", "),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	m.resetForm()
	return m
}

func (m *Model) resetForm() {
	m.draft = m.store.Fields()
	m.confirm = true

	sexOptions := make([]huh.Option[model.Sex], 0, len(model.Sexes()))
	for _, s := range model.Sexes() {
		sexOptions = append(sexOptions, huh.NewOption(string(s), s))
	}

	demographics := huh.NewGroup(
		huh.NewInput().
			Key(intake.FieldAge.Key()).
			Title(intake.FieldAge.Label()).
			Value((*string)(&m.draft.Age)),
		huh.NewSelect[model.Sex]().
			Key(intake.FieldSex.Key()).
			Title(intake.FieldSex.Label()).
			Options(sexOptions...).
			Value(&m.draft.Sex),
		huh.NewInput().
			Key(intake.FieldHeight.Key()).
			Title(intake.FieldHeight.Label()).
			Value((*string)(&m.draft.Height)),
		huh.NewInput().
			Key(intake.FieldWeight.Key()).
			Title(intake.FieldWeight.Label()).
			Value((*string)(&m.draft.Weight)),
	).Title("Patient")

	var history []huh.Field
	for _, f := range intake.TextFields() {
		history = append(history, huh.NewText().
			Key(f.Key()).
			Title(f.Label()).
			Placeholder(f.Label()).
			Lines(f.Lines()).
			Value(m.textField(f)))
	}

	documents := huh.NewGroup(
		huh.NewInput().
			Key(filesKey).
			Title(formatter.FilesLabel).
			Description("Comma separated paths (" + strings.Join(attach.AcceptedExtensions, ", ") + ")").
			Value(&m.filePaths),
		huh.NewConfirm().
			Key("submit").
			Title("Send to the analysis service?").
			Affirmative(formatter.SubmitLabel).
			Negative("Keep editing").
			Value(&m.confirm),
	).Title("Documents")

	m.form = huh.NewForm(
		demographics,
		huh.NewGroup(history...).Title("Medical history"),
		documents,
	).WithShowHelp(false).WithShowErrors(true)
}

func (m *Model) textField(f intake.Field) *string {
	switch f {
	case intake.FieldAllergies:
		return &m.draft.Allergies
	case intake.FieldPreexistingConditions:
		return &m.draft.PreexistingConditions
	case intake.FieldMedications:
		return &m.draft.Medications
	case intake.FieldFamilyHistory:
		return &m.draft.FamilyHistory
	default:
		return &m.draft.Question
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.selectFiles())
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case filesSelectedMsg:
		if m.phase != phaseEdit || msg.paths != m.selectedPaths {
			return m, nil
		}
		if msg.err != nil {
			m.notice = msg.err.Error()
			return m, nil
		}
		m.notice = ""
		m.store.SetFiles(msg.files)
		return m, nil

	case filesLoadedMsg:
		if msg.err != nil {
			m.notice = msg.err.Error()
			m.phase = phaseEdit
			m.resetForm()
			return m, m.form.Init()
		}
		m.notice = ""
		m.store.SetFiles(msg.files)
		return m, m.submit()

	case outcomeMsg:
		m.phase = phaseResult
		return m, nil

	case spinner.TickMsg:
		if m.phase != phaseSubmitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	switch m.phase {
	case phaseEdit:
		return m.updateEdit(msg)
	case phaseResult:
		return m.updateResult(msg)
	}
	return m, nil
}

func (m *Model) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	m.store.Replace(m.draft)

	if focused := m.form.GetFocusedField(); focused == nil || focused.GetKey() != filesKey {
		cmd = tea.Batch(cmd, m.selectFiles())
	}

	switch m.form.State {
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	case huh.StateCompleted:
		if !m.confirm {
			m.resetForm()
			return m, m.form.Init()
		}
		m.phase = phaseSubmitting
		m.selectedPaths = m.filePaths
		return m, tea.Batch(m.loadFiles(), m.spinner.Tick)
	}
	return m, cmd
}

func (m *Model) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "e":
		m.phase = phaseEdit
		m.resetForm()
		return m, m.form.Init()
	case "s", "enter":
		if m.analyzer.Loading() {
			return m, nil
		}
		m.phase = phaseSubmitting
		return m, tea.Batch(m.submit(), m.spinner.Tick)
	}
	return m, nil
}

// selectFiles reads the attachment paths once they change and focus has left
// the path input. It returns nil when there is nothing new to read.
func (m *Model) selectFiles() tea.Cmd {
	if m.filePaths == m.selectedPaths {
		return nil
	}
	m.selectedPaths = m.filePaths

	ctx, logger, raw := m.ctx, m.logger, m.filePaths
	paths := attach.SplitPaths(raw)
	return func() tea.Msg {
		files, err := attach.Load(ctx, paths, logger)
		return filesSelectedMsg{paths: raw, files: files, err: err}
	}
}

func (m *Model) loadFiles() tea.Cmd {
	ctx, logger := m.ctx, m.logger
	paths := attach.SplitPaths(m.filePaths)
	return func() tea.Msg {
		files, err := attach.Load(ctx, paths, logger)
		return filesLoadedMsg{files: files, err: err}
	}
}

func (m *Model) submit() tea.Cmd {
	ctx, an := m.ctx, m.analyzer
	return func() tea.Msg {
		return outcomeMsg{outcome: an.Submit(ctx)}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(formatter.Title))
	sb.WriteString("\n")

	switch m.phase {
	case phaseEdit:
		if m.notice != "" {
			sb.WriteString(errorLabelStyle.Render(formatter.ErrorLabel) + " " + m.notice + "\n\n")
		}
		sb.WriteString(m.form.View())
		sb.WriteString("\n\n")
		sb.WriteString(m.filesView())
		sb.WriteString("\n\n")
		sb.WriteString(hintStyle.Render("Tab: Next field | Enter: Next/Submit | Ctrl+C: Quit"))

	case phaseSubmitting:
		sb.WriteString(m.filesView())
		sb.WriteString("\n")
		sb.WriteString(m.spinner.View() + " " + disabledButtonStyle.Render(formatter.LoadingLabel))

	case phaseResult:
		sb.WriteString(m.filesView())
		sb.WriteString("\n")
		sb.WriteString(outcomeView(m.analyzer.Outcome()))
		sb.WriteString("\n\n")
		sb.WriteString(hintStyle.Render("s: Submit again | e: Edit | q: Quit"))
	}

	return sb.String()
}

func (m *Model) filesView() string {
	files := m.store.Files()
	lines := []string{labelStyle.Render(formatter.FilesLabel)}
	if len(files) == 0 {
		lines = append(lines, fileStyle.Render("  none"))
	}
	for _, f := range files {
		lines = append(lines, fmt.Sprintf("  • %s %s", f.Name, fileStyle.Render("("+humanize.Bytes(uint64(f.Size))+")")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func outcomeView(o model.Outcome) string {
	switch o.State {
	case model.StateSuccess:
		return insightsPanelStyle.Render(insightsTitleStyle.Render(formatter.InsightsTitle) + "\n\n" + o.Insight)
	case model.StateFailure:
		return errorPanelStyle.Render(errorLabelStyle.Render(formatter.ErrorLabel) + " " + o.Message)
	}
	return ""
}

// Run starts the interactive form and returns the last outcome.
func Run(ctx context.Context, store *intake.Store, an *analyzer.Analyzer, paths []string, logger *zap.Logger) (model.Outcome, error) {
	m := New(ctx, store, an, paths, logger)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return an.Outcome(), fmt.Errorf("running form: %w", err)
	}
	return an.Outcome(), nil
}
