package tui

import (
	"bytes"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/delab/internal/diffusion"
	"github.com/san-kum/delab/internal/dynamo"
)

func smallConfig(total int) diffusion.Config {
	const n = 20
	source := diffusion.Uniform(n, 0)
	source[10] = 1
	return diffusion.Config{
		GridLength:   n,
		SpatialStep:  1,
		TimeStep:     0.1,
		TotalSteps:   total,
		InitialField: diffusion.Uniform(n, 0),
		SourceField:  source,
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestSimModelStepsUntilTotal(t *testing.T) {
	m, err := NewSimModel("test", smallConfig(10), 4)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []int{4, 8, 10, 10} {
		m = update(t, m, TickMsg{})
		if got := m.stepper.Iteration(); got != want {
			t.Fatalf("expected iteration %d, got %d", want, got)
		}
	}
	if !m.done || m.running {
		t.Error("model should be done after reaching the total")
	}
	if !strings.Contains(m.View(), "DONE") {
		t.Error("view should report DONE")
	}
}

func TestSimModelKeys(t *testing.T) {
	m, err := NewSimModel("test", smallConfig(0), 1)
	if err != nil {
		t.Fatal(err)
	}

	m = update(t, m, runes(" "))
	if m.running {
		t.Fatal("space should pause")
	}
	m = update(t, m, TickMsg{})
	if m.stepper.Iteration() != 0 {
		t.Error("paused model must not step")
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("view should report PAUSED")
	}

	m = update(t, m, runes(" "))
	m = update(t, m, runes("+"))
	m = update(t, m, runes("+"))
	if m.speed != 4 {
		t.Errorf("expected speed 4, got %d", m.speed)
	}
	m = update(t, m, TickMsg{})
	if m.stepper.Iteration() != 4 {
		t.Errorf("expected 4 iterations, got %d", m.stepper.Iteration())
	}

	m = update(t, m, runes("-"))
	m = update(t, m, runes("-"))
	m = update(t, m, runes("-"))
	if m.speed != 1 {
		t.Errorf("speed should not drop below 1, got %d", m.speed)
	}

	m = update(t, m, runes("r"))
	if m.stepper.Iteration() != 0 || len(m.history) != 1 {
		t.Errorf("reset failed: iteration %d, history %d", m.stepper.Iteration(), len(m.history))
	}
}

func TestQuit(t *testing.T) {
	m, _ := NewSimModel("test", smallConfig(0), 1)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestMenuSelectsPreset(t *testing.T) {
	m := NewMenuModel()
	if len(m.presets) == 0 {
		t.Fatal("no presets listed")
	}
	if !strings.Contains(m.View(), m.presets[0]) {
		t.Error("menu should list presets")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.err != nil {
		t.Fatalf("preset failed to load: %v", m.err)
	}
	if m.screen != screenSim || m.name != m.presets[1] {
		t.Fatalf("expected simulation of %s, got screen %d name %q", m.presets[1], m.screen, m.name)
	}
	if !strings.Contains(m.View(), strings.ToUpper(m.presets[1])) {
		t.Error("view should show the preset name")
	}

	m = update(t, m, runes("m"))
	if m.screen != screenMenu {
		t.Error("m should return to the menu")
	}
}

func TestNewSimModelRejectsBadConfig(t *testing.T) {
	cfg := smallConfig(0)
	cfg.GridLength = 3
	if _, err := NewSimModel("bad", cfg, 1); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestTraceRenderer(t *testing.T) {
	var buf bytes.Buffer
	r := NewTraceRenderer(&buf, "predprey", []string{"prey", "predator"}, 0)
	r.Start()
	for i := 0; i < 5; i++ {
		r.OnStep(dynamo.State{float64(i), float64(i * i)}, float64(i))
	}
	r.Stop()

	out := buf.String()
	if !strings.Contains(out, "prey=4.0000") || !strings.Contains(out, "predator=16.0000") {
		t.Errorf("state line missing:\n%s", out)
	}
	if !strings.Contains(out, "O") {
		t.Error("current point not drawn")
	}
	if !strings.HasSuffix(out, showCursor) {
		t.Error("cursor not restored")
	}
}

func TestTraceRendererStrip(t *testing.T) {
	var buf bytes.Buffer
	r := NewTraceRenderer(&buf, "relax", nil, 0)
	r.OnStep(dynamo.State{0}, 0)
	r.OnStep(dynamo.State{1}, 0.1)
	if !strings.Contains(buf.String(), "x0=1.0000") || !strings.Contains(buf.String(), "*") {
		t.Errorf("unexpected strip output:\n%s", buf.String())
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil, 5); got != "─────" {
		t.Errorf("unexpected empty sparkline %q", got)
	}
	// Only the last four values are drawn, lowest to highest.
	got := Sparkline([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 4)
	if !strings.Contains(got, "▁") || !strings.Contains(got, "█") {
		t.Errorf("unexpected sparkline %q", got)
	}
}
