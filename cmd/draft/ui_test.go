package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/session"
)

func newTestPicker(t *testing.T) (*picker, tcell.SimulationScreen) {
	t.Helper()
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(120, 40)
	if err := ss.Init(); err != nil {
		t.Fatalf("SimulationScreen.Init: %v", err)
	}
	t.Cleanup(ss.Fini)

	registry, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	sess := session.New(registry, nil, config.DefaultConfig().Engine, 11)
	t.Cleanup(sess.Close)
	return newPicker(ss, sess), ss
}

func key(r rune) tcell.Event {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func screenText(ss tcell.SimulationScreen) string {
	cells, w, _ := ss.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		}
		if (i+1)%w == 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func TestPickerJobThenLevelUp(t *testing.T) {
	p, ss := newTestPicker(t)

	p.handle(key('j'))
	if len(p.offer) != 3 || p.offer[0].Category != draft.CategoryJobSelection {
		t.Fatalf("job offer = %v", p.offer)
	}
	job := p.offer[1].Job

	p.handle(key('2'))
	if p.offer != nil {
		t.Error("offer should be cleared after a pick")
	}
	if !p.session.State().HasJob(job) {
		t.Errorf("job %s not chosen", job)
	}

	p.handle(key('l'))
	if got := p.session.State().Level(); got != 2 {
		t.Errorf("level = %d, want 2", got)
	}
	if len(p.offer) != offerSize {
		t.Errorf("level-up offer has %d cards, want %d", len(p.offer), offerSize)
	}

	p.draw()
	text := screenText(ss)
	for _, want := range []string{"Level 2", "Jobs: " + job, "[1]", "[3]"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}
}

func TestPickerIgnoresOutOfRangePick(t *testing.T) {
	p, _ := newTestPicker(t)
	p.handle(key('c'))
	p.handle(key('9'))
	if len(p.offer) != offerSize {
		t.Errorf("out-of-range pick should keep the offer, got %d cards", len(p.offer))
	}
}

func TestPickerAdvanceWithoutJobs(t *testing.T) {
	p, _ := newTestPicker(t)
	p.handle(key('d'))
	if !strings.Contains(p.message, "nothing left") {
		t.Errorf("message = %q", p.message)
	}
}

func TestPickerQuit(t *testing.T) {
	p, _ := newTestPicker(t)
	if p.handle(key('x')) != true {
		t.Error("unknown key should keep running")
	}
	if p.handle(key('q')) {
		t.Error("q should quit")
	}
	if p.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("Esc should quit")
	}
}

func TestDrawTextTruncatesWideRunes(t *testing.T) {
	ss := tcell.NewSimulationScreen("UTF-8")
	ss.SetSize(20, 2)
	if err := ss.Init(); err != nil {
		t.Fatal(err)
	}
	defer ss.Fini()

	drawText(ss, 0, 0, 6, "中中中中中", normalStyle)
	ss.Show()

	cells, _, _ := ss.GetContents()
	if len(cells[2].Runes) == 0 || cells[2].Runes[0] != '中' {
		t.Errorf("second wide rune should start at column 2, got %q", string(cells[2].Runes))
	}
	if len(cells[6].Runes) > 0 && cells[6].Runes[0] != ' ' {
		t.Errorf("text spilled past max width: %q", string(cells[6].Runes))
	}
}
