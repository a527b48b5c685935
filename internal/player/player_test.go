package player

import (
	"errors"
	"testing"
	"time"
)

func newPlayer(t *testing.T, n int, opts Options) *Player {
	t.Helper()
	p, err := New(n, opts)
	if err != nil {
		t.Fatalf("New(%d) error: %v", n, err)
	}
	return p
}

func hasSound(events []Event, effect Effect) bool {
	for _, e := range events {
		if e.Type == EventSound && e.Effect == effect {
			return true
		}
	}
	return false
}

func findEvent(events []Event, typ EventType) (Event, bool) {
	for _, e := range events {
		if e.Type == typ {
			return e, true
		}
	}
	return Event{}, false
}

func TestNew_RejectsEmptyGallery(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := New(n, DefaultOptions()); !errors.Is(err, ErrEmptyGallery) {
			t.Errorf("New(%d) error = %v, want ErrEmptyGallery", n, err)
		}
	}
}

func TestNew_RejectsZeroPeriod(t *testing.T) {
	opts := DefaultOptions()
	opts.TickPeriod = 0
	if _, err := New(3, opts); err == nil {
		t.Error("expected error for zero tick period")
	}
}

func TestMount(t *testing.T) {
	p := newPlayer(t, 3, DefaultOptions())
	events := p.Mount()
	if p.Phase() != PhaseIdle {
		t.Fatalf("phase after mount = %s, want idle", p.Phase())
	}
	if len(events) != 1 || events[0].Type != EventState {
		t.Errorf("mount events = %+v", events)
	}

	opts := DefaultOptions()
	opts.RequireStartAction = false
	auto := newPlayer(t, 3, opts)
	events = auto.Mount()
	if auto.Phase() != PhaseRunning {
		t.Fatalf("autoplay phase after mount = %s, want running", auto.Phase())
	}
	if _, ok := findEvent(events, EventShow); !ok {
		t.Error("autoplay mount should show the first asset")
	}
}

func TestStart(t *testing.T) {
	p := newPlayer(t, 3, DefaultOptions())
	events := p.Start()
	if p.Phase() != PhaseRunning {
		t.Fatalf("phase = %s, want running", p.Phase())
	}
	show, ok := findEvent(events, EventShow)
	if !ok || show.Index != 0 {
		t.Errorf("expected show(0), got %+v", events)
	}
	if !hasSound(events, EffectBackground) {
		t.Error("start should play background music")
	}
	if again := p.Start(); again != nil {
		t.Errorf("second Start should be a no-op, got %+v", again)
	}
}

func TestTick_ModuloAdvance(t *testing.T) {
	p := newPlayer(t, 3, DefaultOptions())
	p.Start()
	for i := 0; i < 5; i++ {
		p.Tick()
	}
	if got := p.Snapshot().Index; got != 2 {
		t.Errorf("index after 5 ticks over 3 assets = %d, want 2", got)
	}
}

func TestTick_IndexAlwaysInRange(t *testing.T) {
	for n := 1; n <= 7; n++ {
		p := newPlayer(t, n, DefaultOptions())
		p.Start()
		for i := 1; i <= 50; i++ {
			events := p.Tick()
			idx := p.Snapshot().Index
			if idx < 0 || idx >= n {
				t.Fatalf("n=%d tick %d: index %d out of range", n, i, idx)
			}
			if idx != i%n {
				t.Fatalf("n=%d tick %d: index %d, want %d", n, i, idx, i%n)
			}
			if len(events) != 1 || events[0].Index != idx {
				t.Fatalf("n=%d tick %d: events %+v", n, i, events)
			}
		}
	}
}

func TestTick_IgnoredUnlessRunning(t *testing.T) {
	p := newPlayer(t, 4, DefaultOptions())
	if events := p.Tick(); events != nil {
		t.Errorf("idle tick produced %+v", events)
	}

	p.Start()
	p.Tick()
	p.Click()
	for i := 0; i < 10; i++ {
		if events := p.Tick(); events != nil {
			t.Fatalf("paused tick produced %+v", events)
		}
	}
	if got := p.Snapshot().Index; got != 1 {
		t.Errorf("index while paused = %d, want 1", got)
	}
}

func TestResume_ContinuesFromPausedIndex(t *testing.T) {
	p := newPlayer(t, 5, DefaultOptions())
	p.Start()
	p.Tick()
	p.Tick()
	p.Click()
	p.Resume()
	if p.Phase() != PhaseRunning {
		t.Fatalf("phase = %s, want running", p.Phase())
	}
	if got := p.Snapshot().Index; got != 2 {
		t.Fatalf("index after resume = %d, want 2", got)
	}
	p.Tick()
	if got := p.Snapshot().Index; got != 3 {
		t.Errorf("index after resume+tick = %d, want 3", got)
	}
}

func TestClick(t *testing.T) {
	p := newPlayer(t, 3, DefaultOptions())
	if events := p.Click(); events != nil {
		t.Errorf("click while idle produced %+v", events)
	}

	p.Start()
	events := p.Click()
	if p.Phase() != PhasePaused {
		t.Fatalf("phase = %s, want paused", p.Phase())
	}
	if !hasSound(events, EffectClick) {
		t.Error("pause should play the click effect")
	}
	if _, ok := findEvent(events, EventDownload); ok {
		t.Error("explicit-download variant must not download on pause")
	}

	// A second click resumes.
	p.Click()
	if p.Phase() != PhaseRunning {
		t.Errorf("phase after second click = %s, want running", p.Phase())
	}
}

func TestClick_DownloadOnPause(t *testing.T) {
	opts := DefaultOptions()
	opts.DownloadOnPause = true
	p := newPlayer(t, 4, opts)
	p.Start()
	p.Tick()
	p.Tick()
	p.Tick()

	events := p.Click()
	dl, ok := findEvent(events, EventDownload)
	if !ok {
		t.Fatalf("expected a download event, got %+v", events)
	}
	if dl.Index != 3 {
		t.Errorf("download index = %d, want 3", dl.Index)
	}
	if !hasSound(events, EffectDownload) {
		t.Error("expected the download effect")
	}
}

func TestDownload_UsesCurrentIndex(t *testing.T) {
	p := newPlayer(t, 4, DefaultOptions())
	if events := p.Download(); events != nil {
		t.Errorf("download while idle produced %+v", events)
	}

	p.Start()
	for ticks := 1; ticks <= 6; ticks++ {
		p.Tick()
		dl, ok := findEvent(p.Download(), EventDownload)
		if !ok {
			t.Fatal("expected a download event")
		}
		if dl.Index != ticks%4 {
			t.Errorf("after %d ticks download index = %d, want %d", ticks, dl.Index, ticks%4)
		}
	}
}

func TestMute_SuppressesSounds(t *testing.T) {
	p := newPlayer(t, 3, DefaultOptions())
	events := p.ToggleMute()
	if st, ok := findEvent(events, EventState); !ok || !st.Muted {
		t.Fatalf("mute should emit a muted state event, got %+v", events)
	}

	for _, events := range [][]Event{p.Start(), p.Click(), p.Download()} {
		for _, e := range events {
			if e.Type == EventSound {
				t.Errorf("muted player emitted %+v", e)
			}
		}
	}
}

func TestMute_DoesNotAffectTimer(t *testing.T) {
	p := newPlayer(t, 3, DefaultOptions())
	p.Start()
	p.Tick()
	p.ToggleMute()
	if p.Phase() != PhaseRunning {
		t.Fatalf("mute changed phase to %s", p.Phase())
	}
	p.Tick()
	if got := p.Snapshot().Index; got != 2 {
		t.Errorf("index = %d, want 2", got)
	}
	p.ToggleMute()
	if p.Snapshot().Muted {
		t.Error("second toggle should unmute")
	}
}

func TestMute_UnmuteStartsBackgroundOnce(t *testing.T) {
	p := newPlayer(t, 3, DefaultOptions())
	p.ToggleMute()
	p.Start()
	if !hasSound(p.ToggleMute(), EffectBackground) {
		t.Error("first unmute after a muted start should start background music")
	}
	p.ToggleMute()
	if hasSound(p.ToggleMute(), EffectBackground) {
		t.Error("background music should only start once")
	}
}

func TestSoundDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.SoundEnabled = false
	p := newPlayer(t, 2, opts)
	all := append(p.Start(), p.Click()...)
	all = append(all, p.Download()...)
	all = append(all, p.ToggleMute()...)
	for _, e := range all {
		if e.Type == EventSound {
			t.Errorf("silent variant emitted %+v", e)
		}
	}
}

func TestApply(t *testing.T) {
	p := newPlayer(t, 2, DefaultOptions())
	if _, err := p.Apply(CommandStart); err != nil {
		t.Fatalf("Apply(start): %v", err)
	}
	if _, err := p.Apply("jump"); !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Apply(jump) error = %v, want ErrUnknownCommand", err)
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.TickPeriod != 100*time.Millisecond {
		t.Errorf("tick period = %v, want 100ms", opts.TickPeriod)
	}
	if !opts.RequireStartAction || !opts.SoundEnabled || opts.DownloadOnPause {
		t.Errorf("unexpected defaults %+v", opts)
	}
}
