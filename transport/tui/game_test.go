package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/wricardo/connect-four/game/config"
	"github.com/wricardo/connect-four/game/engine"
	"github.com/wricardo/connect-four/game/service"
	"github.com/wricardo/connect-four/game/session"
)

// fakeScreen records drawn cells and replays queued events. Once the queue is
// empty PollEvent returns nil, like a finalized tcell screen.
type fakeScreen struct {
	cells  map[[2]int]rune
	events []tcell.Event
	shows  int
	syncs  int
	closed bool
}

func newFakeScreen(events ...tcell.Event) *fakeScreen {
	return &fakeScreen{cells: make(map[[2]int]rune), events: events}
}

func (f *fakeScreen) PollEvent() tcell.Event {
	if len(f.events) == 0 {
		return nil
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev
}

func (f *fakeScreen) Clear()           { f.cells = make(map[[2]int]rune) }
func (f *fakeScreen) Show()            { f.shows++ }
func (f *fakeScreen) Size() (int, int) { return 80, 24 }
func (f *fakeScreen) Sync()            { f.syncs++ }
func (f *fakeScreen) Close()           { f.closed = true }

func (f *fakeScreen) SetContent(x, y int, r rune, style tcell.Style) {
	f.cells[[2]int{x, y}] = r
}

// line returns row y as text, trailing blanks trimmed
func (f *fakeScreen) line(y int) string {
	var b strings.Builder
	for x := 0; x < 80; x++ {
		if r, ok := f.cells[[2]int{x, y}]; ok {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.TrimRight(b.String(), " ")
}

func createTestGame(t *testing.T, settings *config.Settings) (*Game, *fakeScreen, service.GameService) {
	t.Helper()
	if settings == nil {
		settings = config.Defaults()
		settings.Player1 = "Ana"
		settings.Player2 = "Bo"
	}

	screen := newFakeScreen()
	svc := service.NewGameService(session.NewManager(), nil)
	g := New(screen, svc, settings)
	if err := g.start(context.Background(), "tui"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return g, screen, svc
}

func mustApply(t *testing.T, g *Game, cmds ...command) {
	t.Helper()
	for _, cmd := range cmds {
		if err := g.apply(context.Background(), cmd); err != nil {
			t.Fatalf("apply(%+v) failed: %v", cmd, err)
		}
	}
}

func dropAt(col int) []command {
	return []command{{kind: cmdSelect, column: col}, {kind: cmdDrop}}
}

func play(t *testing.T, g *Game, cols ...int) {
	t.Helper()
	for _, col := range cols {
		mustApply(t, g, dropAt(col)...)
	}
}

func TestCursorMovement(t *testing.T) {
	g, _, _ := createTestGame(t, nil)

	if g.cursor != 3 {
		t.Fatalf("Expected cursor to start in the middle, got %d", g.cursor)
	}

	mustApply(t, g, command{kind: cmdLeft}, command{kind: cmdLeft}, command{kind: cmdLeft}, command{kind: cmdLeft})
	if g.cursor != 0 {
		t.Errorf("Expected cursor clamped at 0, got %d", g.cursor)
	}

	for i := 0; i < 10; i++ {
		mustApply(t, g, command{kind: cmdRight})
	}
	if g.cursor != engine.Columns-1 {
		t.Errorf("Expected cursor clamped at %d, got %d", engine.Columns-1, g.cursor)
	}

	mustApply(t, g, command{kind: cmdSelect, column: 2})
	if g.cursor != 2 {
		t.Errorf("Expected cursor at 2, got %d", g.cursor)
	}

	mustApply(t, g, command{kind: cmdSelect, column: 9})
	if g.cursor != 2 {
		t.Errorf("Out of range selection should be ignored, cursor at %d", g.cursor)
	}
}

func TestDropAndRender(t *testing.T) {
	g, screen, _ := createTestGame(t, nil)

	play(t, g, 0, 1)
	g.render()

	if got := screen.line(titleRow); got != "Connect Four: Ana (X) vs Bo (Y)" {
		t.Errorf("Unexpected title %q", got)
	}
	if got := screen.line(boardTop + engine.Rows - 1); got != "[ X Y O O O O O ]" {
		t.Errorf("Unexpected bottom row %q", got)
	}
	if got := screen.line(labelRow); got != "  0 1 2 3 4 5 6" {
		t.Errorf("Unexpected labels %q", got)
	}
	if got := screen.line(messageRow); got != "Player Ana to move" {
		t.Errorf("Unexpected message %q", got)
	}
	if got := screen.line(cursorRow); got != "    v" {
		t.Errorf("Expected cursor above column 1, got %q", got)
	}
	if screen.shows == 0 {
		t.Error("Expected the frame to be shown")
	}
}

func TestFullColumnMessage(t *testing.T) {
	g, screen, _ := createTestGame(t, nil)

	play(t, g, 4, 4, 4, 4, 4, 4)
	mustApply(t, g, dropAt(4)...)
	g.render()

	if got := screen.line(messageRow); got != invalidMoveMessage {
		t.Errorf("Expected invalid move message, got %q", got)
	}
	if g.state.CurrentPlayer != "Ana" || g.state.MoveCount != 6 {
		t.Errorf("Rejected drop must not change the game: %+v", g.state)
	}

	mustApply(t, g, dropAt(5)...)
	if g.message != "" {
		t.Errorf("Expected message cleared after a valid move, got %q", g.message)
	}
}

func TestWinAndRematch(t *testing.T) {
	g, screen, _ := createTestGame(t, nil)

	mustApply(t, g, command{kind: cmdRematch})
	if g.state.MoveCount != 0 {
		t.Fatal("Rematch should be ignored while the game is running")
	}

	play(t, g, 0, 1, 0, 1, 0, 1, 0)
	g.render()

	if g.state.Status != engine.StatusWon {
		t.Fatalf("Expected a win, got %s", g.state.Status)
	}
	if got := screen.line(messageRow); got != "Player Ana WON!!!"+rematchHint {
		t.Errorf("Unexpected message %q", got)
	}
	if got := screen.line(tallyRow); got != "Score: Ana 1 - 0 Bo (ties: 0)" {
		t.Errorf("Unexpected tally %q", got)
	}
	if got := screen.line(cursorRow); got != "" {
		t.Errorf("Cursor should be hidden after the game ends, got %q", got)
	}

	mustApply(t, g, dropAt(3)...)
	if g.state.MoveCount != 7 {
		t.Error("Drops after a win should be ignored")
	}

	mustApply(t, g, command{kind: cmdRematch})
	if g.state.MoveCount != 0 || g.state.CurrentPlayer != "Ana" {
		t.Errorf("Expected a fresh board with Ana to move, got %+v", g.state)
	}
	if g.message != "" || g.cursor != 3 {
		t.Errorf("Expected message and cursor reset, got %q at %d", g.message, g.cursor)
	}
	if g.Tally() != [3]int{1, 0, 0} {
		t.Errorf("Tally should survive a rematch, got %v", g.Tally())
	}
}

func TestTie(t *testing.T) {
	g, _, _ := createTestGame(t, nil)

	play(t, g,
		0, 0, 0, 1, 0, 0, 1, 0, 2, 1, 4, 1, 1, 2,
		1, 3, 2, 4, 2, 2, 3, 2, 4, 3, 4, 3, 3, 4,
		3, 4, 6, 5, 5, 6, 6, 5, 6, 5, 5, 6, 5, 6,
	)

	if g.state.Status != engine.StatusTied {
		t.Fatalf("Expected a tie, got %s", g.state.Status)
	}
	if g.Tally() != [3]int{0, 0, 1} {
		t.Errorf("Expected one tie, got %v", g.Tally())
	}
	if !strings.HasPrefix(g.message, "Game tied!") {
		t.Errorf("Unexpected message %q", g.message)
	}
}

func TestOneBasedDigits(t *testing.T) {
	settings := config.Defaults()
	settings.ColumnBase = 1
	g, screen, _ := createTestGame(t, settings)

	if g.state.Players[0].Name != defaultPlayer1 || g.state.Players[1].Name != defaultPlayer2 {
		t.Errorf("Expected default player names, got %+v", g.state.Players)
	}

	if cmd := g.decodeRune('1'); cmd.column != 0 {
		t.Errorf("Expected digit 1 to select column 0, got %d", cmd.column)
	}

	mustApply(t, g, g.decodeRune('7'), command{kind: cmdDrop})
	g.render()

	if got := screen.line(boardTop + engine.Rows - 1); got != "[ O O O O O O X ]" {
		t.Errorf("Unexpected bottom row %q", got)
	}
	if got := screen.line(labelRow); got != "  1 2 3 4 5 6 7" {
		t.Errorf("Unexpected labels %q", got)
	}
}

func TestDecodeRune(t *testing.T) {
	g, _, _ := createTestGame(t, nil)

	tests := []struct {
		r    rune
		kind commandKind
	}{
		{'q', cmdQuit},
		{'Q', cmdQuit},
		{'r', cmdRematch},
		{' ', cmdDrop},
		{'5', cmdSelect},
		{'x', cmdNone},
	}

	for _, tt := range tests {
		if got := g.decodeRune(tt.r); got.kind != tt.kind {
			t.Errorf("decodeRune(%q) = %d, want %d", tt.r, got.kind, tt.kind)
		}
	}
}

func TestQuit(t *testing.T) {
	g, _, _ := createTestGame(t, nil)

	mustApply(t, g, command{kind: cmdQuit})
	if g.running {
		t.Error("Expected quit to stop the loop")
	}
}

func TestRunUntilScreenCloses(t *testing.T) {
	screen := newFakeScreen(tcell.NewEventResize(80, 24))
	svc := service.NewGameService(session.NewManager(), nil)
	settings := config.Defaults()
	settings.Player1 = "Ana"
	settings.Player2 = "Bo"

	g := New(screen, svc, settings)
	if err := g.Run(context.Background(), "loop"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if screen.syncs != 1 {
		t.Errorf("Expected a resize to sync the screen, got %d syncs", screen.syncs)
	}
	if screen.shows != 2 {
		t.Errorf("Expected 2 frames, got %d", screen.shows)
	}
	if got := screen.line(titleRow); got != "Connect Four: Ana (X) vs Bo (Y)" {
		t.Errorf("Unexpected title %q", got)
	}

	games, _ := svc.ListGames(context.Background())
	if len(games) != 0 {
		t.Errorf("Expected the game to be removed on exit, got %d", len(games))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := New(newFakeScreen(), service.NewGameService(session.NewManager(), nil), nil)
	if err := g.Run(ctx, ""); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
