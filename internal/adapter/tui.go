package adapter

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/movemut/movemut/internal/controller"
	m "github.com/movemut/movemut/internal/model"
)

var (
	tuiTitleStyle    = lipgloss.NewStyle().Bold(true)
	tuiKilledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	tuiSurvivedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	tuiMutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// TUI renders an interactive progress view on top of Bubble Tea. Static
// views (estimation, final report) reuse the plain renderer.
type TUI struct {
	out     io.Writer
	plain   *SimpleUI
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a TUI writing to out.
func NewTUI(out io.Writer) *TUI {
	return &TUI{out: out, plain: NewSimpleUI(out)}
}

// Start launches the interactive program in test mode; estimation mode stays
// plain because its output is a single static table.
func (t *TUI) Start(_ context.Context, options ...controller.StartOption) error {
	config := controller.StartConfig{}
	for _, option := range options {
		option(&config)
	}

	if config.Mode != controller.ModeTest {
		return nil
	}

	model := newRunModel(config.Total)
	t.program = tea.NewProgram(model, tea.WithOutput(t.out))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		if _, err := t.program.Run(); err != nil {
			fmt.Fprintf(t.out, "interactive view failed: %v\n", err)
		}
	}()

	return nil
}

// Close stops the interactive program if one is running.
func (t *TUI) Close(ctx context.Context) {
	if t.program == nil {
		return
	}

	t.program.Quit()
	t.Wait(ctx)
	t.program = nil
}

// Wait blocks until the interactive program exits.
func (t *TUI) Wait(_ context.Context) {
	if t.done == nil {
		return
	}

	<-t.done
}

// DisplayConcurrencyInfo implements controller.UI.
func (t *TUI) DisplayConcurrencyInfo(ctx context.Context, workers, shardIndex, totalShards int) {
	if t.program == nil {
		t.plain.DisplayConcurrencyInfo(ctx, workers, shardIndex, totalShards)
	}
}

// DisplayProgress feeds one outcome into the progress view.
func (t *TUI) DisplayProgress(ctx context.Context, outcome m.Outcome, resolved, total int) {
	if t.program == nil {
		t.plain.DisplayProgress(ctx, outcome, resolved, total)
		return
	}

	t.program.Send(outcomeMsg{outcome: outcome, resolved: resolved, total: total})
}

// DisplayEstimation implements controller.UI via the plain renderer.
func (t *TUI) DisplayEstimation(ctx context.Context, specs []m.MutantSpec) {
	t.plain.DisplayEstimation(ctx, specs)
}

// DisplayReport shuts the progress view down and renders the report tables.
func (t *TUI) DisplayReport(ctx context.Context, report m.MutationReport) {
	if t.program != nil {
		t.program.Quit()
		t.Wait(ctx)
		t.program = nil
		t.done = nil
	}

	t.plain.DisplayReport(ctx, report)
}

// outcomeMsg carries one resolved mutant into the Bubble Tea model.
type outcomeMsg struct {
	outcome  m.Outcome
	resolved int
	total    int
}

// runModel is the Bubble Tea model for a mutation run in flight.
type runModel struct {
	bar      progress.Model
	total    int
	resolved int
	counts   map[m.Verdict]int
	last     string
	quitting bool
}

func newRunModel(total int) runModel {
	return runModel{
		bar:    progress.New(progress.WithDefaultGradient()),
		total:  total,
		counts: map[m.Verdict]int{},
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.bar.Width = msg.Width - 8

		return rm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			rm.quitting = true
			return rm, tea.Quit
		}

		return rm, nil

	case outcomeMsg:
		rm.resolved = msg.resolved
		rm.total = msg.total
		rm.counts[msg.outcome.Verdict]++
		rm.last = fmt.Sprintf("%s %s %s::%s",
			msg.outcome.Spec.ID, msg.outcome.Verdict,
			msg.outcome.Spec.Module, msg.outcome.Spec.Function)

		if rm.total > 0 {
			return rm, rm.bar.SetPercent(float64(rm.resolved) / float64(rm.total))
		}

		return rm, nil

	case progress.FrameMsg:
		bar, cmd := rm.bar.Update(msg)
		if updated, ok := bar.(progress.Model); ok {
			rm.bar = updated
		}

		return rm, cmd
	}

	return rm, nil
}

func (rm runModel) View() string {
	if rm.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(tuiTitleStyle.Render("movemut: mutation testing"))
	b.WriteString("\n\n")
	b.WriteString(rm.bar.View())
	fmt.Fprintf(&b, "\n\n%d/%d resolved   %s   %s\n",
		rm.resolved, rm.total,
		tuiKilledStyle.Render(fmt.Sprintf("%d killed", rm.counts[m.Killed])),
		tuiSurvivedStyle.Render(fmt.Sprintf("%d survived", rm.counts[m.Survived])))

	if rm.last != "" {
		b.WriteString(tuiMutedStyle.Render("last: " + rm.last))
		b.WriteString("\n")
	}

	b.WriteString(tuiMutedStyle.Render("press q to hide"))
	b.WriteString("\n")

	return b.String()
}
