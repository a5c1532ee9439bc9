// Command replay plays a recorded sequence of columns on a fresh board and
// prints the final position. It stops at the first move the engine rejects.
//
//	replay 3,3,4,4,5,5,6
//	replay --column-base 1 --json 4,4,5,5,6,6,7
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/connect-four/game/config"
	"github.com/wricardo/connect-four/game/engine"
)

var ErrBadSequence = errors.New("invalid move sequence")

// replayOptions controls how a sequence is read and reported
type replayOptions struct {
	Player1    string
	Player2    string
	ColumnBase int
	JSON       bool
}

func main() {
	cmd := &cli.Command{
		Name:      "replay",
		Usage:     "replay a comma-separated list of columns",
		ArgsUsage: "<columns>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "player1", Value: "Player 1", Usage: "name of the first player"},
			&cli.StringFlag{Name: "player2", Value: "Player 2", Usage: "name of the second player"},
			&cli.IntFlag{Name: "column-base", Usage: "number of the leftmost column in the sequence (0 or 1)"},
			&cli.BoolFlag{Name: "json", Usage: "print the final state as JSON"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return fmt.Errorf("%w: expected one argument, got %d", ErrBadSequence, cmd.Args().Len())
			}
			return replay(cmd.Root().Writer, cmd.Args().First(), replayOptions{
				Player1:    cmd.String("player1"),
				Player2:    cmd.String("player2"),
				ColumnBase: int(cmd.Int("column-base")),
				JSON:       cmd.Bool("json"),
			})
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// parseColumns turns "3, 3,4" into engine columns
func parseColumns(sequence string, base int) ([]int, error) {
	var columns []int
	for i, field := range strings.Split(sequence, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: move %d is %q", ErrBadSequence, i+1, field)
		}
		columns = append(columns, n-base)
	}
	return columns, nil
}

func replay(w io.Writer, sequence string, opts replayOptions) error {
	settings := config.Defaults()
	settings.ColumnBase = opts.ColumnBase
	if err := settings.Validate(); err != nil {
		return err
	}

	columns, err := parseColumns(sequence, opts.ColumnBase)
	if err != nil {
		return err
	}

	game, err := engine.NewGame(opts.Player1, opts.Player2)
	if err != nil {
		return err
	}

	var moveErr error
	for i, col := range columns {
		if _, err := game.SubmitMove(col); err != nil {
			moveErr = fmt.Errorf("move %d (column %d): %w", i+1, col+opts.ColumnBase, err)
			break
		}
	}

	state := game.State()
	if opts.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return err
		}
		return moveErr
	}

	fmt.Fprint(w, state.Render(settings.Markers))
	fmt.Fprintf(w, "Moves played: %d\n", state.MoveCount)
	fmt.Fprintln(w, state.Message)
	for _, c := range state.WinningLine {
		fmt.Fprintf(w, "  %s\n", c)
	}
	return moveErr
}
