package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/wricardo/connect-four/game/config"
	"github.com/wricardo/connect-four/game/engine"
	"github.com/wricardo/connect-four/game/service"
)

// Tally counts results across rematches
type Tally struct {
	Wins [2]int
	Ties int
}

// Console plays games over a line-based reader and writer
type Console struct {
	service  service.GameService
	settings *config.Settings
	in       *bufio.Scanner
	out      io.Writer
	tally    Tally
}

// New creates a console driver. Player names missing from settings are asked for.
func New(gameService service.GameService, settings *config.Settings, in io.Reader, out io.Writer) *Console {
	if settings == nil {
		settings = config.Defaults()
	}
	return &Console{
		service:  gameService,
		settings: settings,
		in:       bufio.NewScanner(in),
		out:      out,
	}
}

// Tally returns the results so far
func (c *Console) Tally() Tally {
	return c.tally
}

// readLine returns the next input line. ok is false once the input is exhausted.
func (c *Console) readLine() (string, bool, error) {
	if !c.in.Scan() {
		return "", false, c.in.Err()
	}
	return strings.TrimSpace(c.in.Text()), true, nil
}

func (c *Console) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// askName prompts until a non-empty name is given
func (c *Console) askName(number int, configured string) (string, bool, error) {
	if strings.TrimSpace(configured) != "" {
		return configured, true, nil
	}
	for {
		c.printf("Please enter player %d name\n", number)
		name, ok, err := c.readLine()
		if !ok || err != nil {
			return "", ok, err
		}
		if name != "" {
			return name, true, nil
		}
	}
}

// Run plays games under gameID (generated when empty) until the players
// decline a rematch or the input ends. Reaching the end of input is not an
// error.
func (c *Console) Run(ctx context.Context, gameID string) error {
	player1, ok, err := c.askName(1, c.settings.Player1)
	if !ok || err != nil {
		return err
	}
	player2, ok, err := c.askName(2, c.settings.Player2)
	if !ok || err != nil {
		return err
	}

	info, err := c.service.CreateGame(ctx, gameID, player1, player2)
	if err != nil {
		return err
	}
	gameID = info.ID
	log.Printf("Console game %s started: %s vs %s", gameID, player1, player2)

	defer func() {
		if err := c.service.DeleteGame(context.WithoutCancel(ctx), gameID); err != nil {
			log.Printf("Failed to remove game %s: %v", gameID, err)
		}
	}()

	for {
		state, ok, err := c.playOne(ctx, gameID)
		if !ok || err != nil {
			return err
		}

		c.record(state)
		c.printTally(state.Players)

		again, ok, err := c.askRematch()
		if !ok || err != nil || !again {
			if ok && err == nil {
				c.printf("Thanks for playing!\n")
			}
			return err
		}

		if _, err := c.service.ResetGame(ctx, gameID); err != nil {
			return err
		}
	}
}

// playOne runs turns until the game reaches a terminal state
func (c *Console) playOne(ctx context.Context, gameID string) (*engine.GameState, bool, error) {
	state, err := c.service.GetGameState(ctx, gameID)
	if err != nil {
		return nil, false, err
	}

	for !state.IsGameOver() {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		c.printBoard(state)
		c.printf("Player %s move. Select a column to make a move (%d-%d): ",
			state.CurrentPlayer, c.settings.LowColumn(), c.settings.HighColumn())

		line, ok, err := c.readLine()
		if !ok || err != nil {
			c.printf("\n")
			return nil, ok, err
		}

		column, err := strconv.Atoi(line)
		if err != nil {
			c.printf("Invalid move made. Please enter a column number from %d to %d.\n",
				c.settings.LowColumn(), c.settings.HighColumn())
			continue
		}

		result, err := c.service.SubmitMove(ctx, gameID, column-c.settings.ColumnBase)
		if errors.Is(err, engine.ErrInvalidMove) {
			c.printf("Invalid move made. Please enter a valid move.\n")
			continue
		}
		if err != nil {
			return nil, false, err
		}
		state = result.GameState
	}

	c.printBoard(state)
	c.printf("%s\n", state.Message)
	return state, true, nil
}

func (c *Console) askRematch() (bool, bool, error) {
	for {
		c.printf("Play again? (y/n) ")
		answer, ok, err := c.readLine()
		if !ok || err != nil {
			c.printf("\n")
			return false, ok, err
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true, true, nil
		case "n", "no":
			return false, true, nil
		}
	}
}

func (c *Console) record(state *engine.GameState) {
	switch state.Status {
	case engine.StatusWon:
		if state.WinnerSide == engine.First {
			c.tally.Wins[0]++
		} else {
			c.tally.Wins[1]++
		}
	case engine.StatusTied:
		c.tally.Ties++
	}
}

func (c *Console) printTally(players [2]engine.Player) {
	c.printf("Score: %s %d - %d %s (ties: %d)\n",
		players[0].Name, c.tally.Wins[0], c.tally.Wins[1], players[1].Name, c.tally.Ties)
}

func (c *Console) printBoard(state *engine.GameState) {
	labels := make([]string, engine.Columns)
	for col := range labels {
		labels[col] = strconv.Itoa(col + c.settings.ColumnBase)
	}
	c.printf("  %s\n%s", strings.Join(labels, " "), state.Render(c.settings.Markers))
}
