package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphwfc/pkg/observability"
	"github.com/matzehuels/graphwfc/pkg/pipeline"
	"github.com/matzehuels/graphwfc/pkg/solver"
)

// =============================================================================
// Messages
// =============================================================================

type setupMsg struct {
	templates int
	nodes     int
}

type setupDoneMsg struct {
	patterns int
	images   int
}

type observeMsg struct {
	iteration int
	entropy   float64
}

type contradictionMsg struct {
	iteration int
	node      string
}

type solveDoneMsg struct {
	result *pipeline.Result
	err    error
}

type tickMsg time.Time

// =============================================================================
// Hooks
// =============================================================================

// watchHooks forwards solver events into the running bubbletea program.
type watchHooks struct {
	observability.NoopSolverHooks
	send func(tea.Msg)
}

func (h watchHooks) OnSetupStart(_ context.Context, templates, outputNodes int) {
	h.send(setupMsg{templates: templates, nodes: outputNodes})
}

func (h watchHooks) OnSetupComplete(_ context.Context, patterns, images int, _ time.Duration, err error) {
	if err == nil {
		h.send(setupDoneMsg{patterns: patterns, images: images})
	}
}

func (h watchHooks) OnObserve(_ context.Context, iteration int, entropy float64) {
	h.send(observeMsg{iteration: iteration, entropy: entropy})
}

func (h watchHooks) OnContradiction(_ context.Context, iteration int, node string) {
	h.send(contradictionMsg{iteration: iteration, node: node})
}

// =============================================================================
// Model
// =============================================================================

// watchModel is the bubbletea model showing live solve progress.
type watchModel struct {
	opts   pipeline.Options
	start  time.Time
	frame  int
	frames []string

	templates      int
	nodes          int
	patterns       int
	images         int
	iteration      int
	entropy        float64
	contradictions int
	lastFailedNode string

	result *pipeline.Result
	err    error
	done   bool
}

func newWatchModel(opts pipeline.Options) watchModel {
	return watchModel{
		opts:   opts,
		start:  time.Now(),
		frames: spinnerFrames,
	}
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case setupMsg:
		m.templates = msg.templates
		m.nodes = msg.nodes
	case setupDoneMsg:
		m.patterns = msg.patterns
		m.images = msg.images
	case observeMsg:
		m.iteration = msg.iteration
		m.entropy = msg.entropy
	case contradictionMsg:
		m.contradictions++
		m.lastFailedNode = msg.node
		m.iteration = msg.iteration
	case solveDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("graphwfc solve"))
	b.WriteString(" ")
	b.WriteString(StyleDim.Render(m.opts.Output))
	b.WriteString("\n\n")

	if m.done {
		b.WriteString(m.summary())
		return b.String()
	}

	spinner := styleIconSpinner.Render(m.frames[m.frame%len(m.frames)])
	elapsed := time.Since(m.start).Round(100 * time.Millisecond)
	b.WriteString(fmt.Sprintf("%s solving · %s\n\n", spinner, StyleDim.Render(elapsed.String())))

	b.WriteString(row("Templates", fmt.Sprintf("%d", m.templates)))
	b.WriteString(row("Nodes", fmt.Sprintf("%d", m.nodes)))
	if m.patterns > 0 {
		b.WriteString(row("Patterns", fmt.Sprintf("%d", m.patterns)))
		b.WriteString(row("Images", fmt.Sprintf("%d", m.images)))
	}
	b.WriteString(row("Iteration", fmt.Sprintf("%d", m.iteration)))
	if m.iteration > 0 {
		b.WriteString(row("Entropy", fmt.Sprintf("%.4f", m.entropy)))
	}
	if m.contradictions > 0 {
		b.WriteString(row("Retries", StyleWarning.Render(
			fmt.Sprintf("%d (last failed at %s)", m.contradictions, m.lastFailedNode))))
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	return b.String()
}

// summary renders the final state after the pipeline finished.
func (m watchModel) summary() string {
	var b strings.Builder
	switch {
	case m.err != nil:
		b.WriteString(styleError.Render("✗"))
		b.WriteString(" " + m.err.Error())
	case m.result.Outcome == solver.OutcomeSuccess:
		b.WriteString(styleSuccess.Render("✓"))
		b.WriteString(fmt.Sprintf(" Colored %d nodes in %d iterations (attempt %d, seed %d)",
			len(m.result.Colors), m.result.Iterations, m.result.Attempts, m.result.Seed))
	default:
		b.WriteString(styleError.Render("✗"))
		b.WriteString(fmt.Sprintf(" No solution after %d attempts", m.result.Attempts))
	}
	b.WriteString("\n")
	return b.String()
}

func row(key, value string) string {
	return styleKey.Render(key) + " " + StyleValue.Render(value) + "\n"
}

// =============================================================================
// Entry point
// =============================================================================

// runSolveWatch runs the pipeline with a live TUI fed by solver hooks.
func runSolveWatch(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) error {
	p := tea.NewProgram(newWatchModel(opts), tea.WithContext(ctx))

	observability.SetSolverHooks(watchHooks{send: p.Send})
	defer observability.Reset()

	go func() {
		result, err := runner.Execute(ctx, opts)
		p.Send(solveDoneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}

	m := final.(watchModel)
	if m.err != nil {
		return m.err
	}
	if m.result == nil {
		return context.Canceled
	}
	if m.result.Outcome != solver.OutcomeSuccess {
		return fmt.Errorf("no solution after %d attempts", m.result.Attempts)
	}
	if opts.Result != "-" {
		printFile(opts.Result)
	}
	return nil
}
