package tui

import (
	"context"
	"errors"
	"log"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wricardo/connect-four/game/config"
	"github.com/wricardo/connect-four/game/engine"
	"github.com/wricardo/connect-four/game/service"
	"github.com/wricardo/connect-four/telemetry"
)

const (
	defaultPlayer1 = "Player 1"
	defaultPlayer2 = "Player 2"

	invalidMoveMessage = "Invalid move made. Please enter a valid move."
	rematchHint        = " Press r for a rematch or q to quit."
)

type commandKind int

const (
	cmdNone commandKind = iota
	cmdLeft
	cmdRight
	cmdSelect
	cmdDrop
	cmdRematch
	cmdQuit
)

// command is a decoded key press
type command struct {
	kind   commandKind
	column int
}

// Game runs Connect Four on a terminal screen.
type Game struct {
	screen   Screen
	renderer *Renderer
	service  service.GameService
	settings *config.Settings

	gameID  string
	state   *engine.GameState
	cursor  int
	message string
	tally   [3]int
	running bool
}

// New creates a terminal game. Player names come from settings.
func New(screen Screen, gameService service.GameService, settings *config.Settings) *Game {
	if settings == nil {
		settings = config.Defaults()
	}
	return &Game{
		screen:   screen,
		renderer: NewRenderer(screen, settings),
		service:  gameService,
		settings: settings,
		cursor:   engine.Columns / 2,
	}
}

// Run executes the main game loop until the player quits or the screen closes.
func (g *Game) Run(ctx context.Context, gameID string) error {
	if err := g.start(ctx, gameID); err != nil {
		return err
	}

	defer func() {
		if err := g.service.DeleteGame(context.WithoutCancel(ctx), g.gameID); err != nil {
			log.Printf("Failed to remove game %s: %v", g.gameID, err)
		}
	}()

	for g.running {
		if err := ctx.Err(); err != nil {
			return err
		}

		g.render()

		if err := g.handleInput(ctx); err != nil {
			return err
		}
	}

	return nil
}

// start creates the game the loop plays on
func (g *Game) start(ctx context.Context, gameID string) error {
	tracer := telemetry.Tracer("tui")
	ctx, span := tracer.Start(ctx, "tui.init")
	defer span.End()

	player1, player2 := g.settings.Player1, g.settings.Player2
	if player1 == "" {
		player1 = defaultPlayer1
	}
	if player2 == "" {
		player2 = defaultPlayer2
	}

	info, err := g.service.CreateGame(ctx, gameID, player1, player2)
	if err != nil {
		return err
	}

	g.gameID = info.ID
	g.state = info.GameState
	g.running = true
	span.SetAttributes(attribute.String("game.id", g.gameID))
	return nil
}

// Tally returns first player wins, second player wins and ties so far.
func (g *Game) Tally() [3]int {
	return g.tally
}

func (g *Game) render() {
	g.renderer.Render(View{
		State:   g.state,
		Cursor:  g.cursor,
		Message: g.message,
		Tally:   g.tally,
	})
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) error {
	ev := g.screen.PollEvent()

	switch ev := ev.(type) {
	case nil:
		// Screen finalized
		g.running = false
	case *tcell.EventKey:
		return g.apply(ctx, g.decodeKey(ev))
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return nil
}

// decodeKey maps a key press to a command.
func (g *Game) decodeKey(ev *tcell.EventKey) command {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return command{kind: cmdQuit}
	case tcell.KeyLeft:
		return command{kind: cmdLeft}
	case tcell.KeyRight:
		return command{kind: cmdRight}
	case tcell.KeyEnter:
		return command{kind: cmdDrop}
	case tcell.KeyRune:
		return g.decodeRune(ev.Rune())
	}
	return command{kind: cmdNone}
}

func (g *Game) decodeRune(r rune) command {
	switch {
	case r == 'q' || r == 'Q':
		return command{kind: cmdQuit}
	case r == 'r' || r == 'R':
		return command{kind: cmdRematch}
	case r == ' ':
		return command{kind: cmdDrop}
	case r >= '0' && r <= '9':
		return command{kind: cmdSelect, column: int(r-'0') - g.settings.ColumnBase}
	}
	return command{kind: cmdNone}
}

// apply runs one command against the game.
func (g *Game) apply(ctx context.Context, cmd command) error {
	switch cmd.kind {
	case cmdQuit:
		g.running = false

	case cmdLeft:
		if g.cursor > 0 {
			g.cursor--
		}
	case cmdRight:
		if g.cursor < engine.Columns-1 {
			g.cursor++
		}
	case cmdSelect:
		if cmd.column >= 0 && cmd.column < engine.Columns {
			g.cursor = cmd.column
		}

	case cmdDrop:
		if g.state.IsGameOver() {
			return nil
		}
		return g.drop(ctx)

	case cmdRematch:
		if !g.state.IsGameOver() {
			return nil
		}
		state, err := g.service.ResetGame(ctx, g.gameID)
		if err != nil {
			return err
		}
		g.state = state
		g.message = ""
		g.cursor = engine.Columns / 2
	}
	return nil
}

func (g *Game) drop(ctx context.Context) error {
	result, err := g.service.SubmitMove(ctx, g.gameID, g.cursor)
	if errors.Is(err, engine.ErrInvalidMove) {
		g.message = invalidMoveMessage
		return nil
	}
	if err != nil {
		return err
	}

	g.state = result.GameState
	g.message = ""

	switch g.state.Status {
	case engine.StatusWon:
		if g.state.WinnerSide == engine.First {
			g.tally[0]++
		} else {
			g.tally[1]++
		}
		g.message = g.state.Message + rematchHint
	case engine.StatusTied:
		g.tally[2]++
		g.message = g.state.Message + rematchHint
	}
	return nil
}
