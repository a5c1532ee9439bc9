package mcp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/connect-four/game/config"
	"github.com/wricardo/connect-four/game/engine"
	"github.com/wricardo/connect-four/game/service"
)

// ErrInvalidArgument is returned for missing or malformed tool arguments
var ErrInvalidArgument = errors.New("invalid argument")

// Server exposes the game service as MCP tools
type Server struct {
	service   service.GameService
	settings  *config.Settings
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server backed by gameService. Columns are read and
// reported in the settings' column base.
func NewServer(gameService service.GameService, settings *config.Settings, version string) *Server {
	if settings == nil {
		settings = config.Defaults()
	}

	s := &Server{
		service:  gameService,
		settings: settings,
	}

	s.initMCPServer(version)
	return s
}

// initMCPServer initializes the MCP server with all tools
func (s *Server) initMCPServer(version string) {
	s.mcpServer = server.NewMCPServer(
		"Connect Four",
		version,
		server.WithToolCapabilities(true),
		server.WithInstructions(fmt.Sprintf(`Connect Four - MCP Interface

Two players take turns dropping chips into a 7-column, 6-row board. A chip
falls to the lowest empty cell of its column. The first player to line up four
chips horizontally, vertically or diagonally wins. A full board with no line
is a tie.

Columns are numbered %d to %d.

AVAILABLE TOOLS:
- create_game: Start a game between two named players
- list_games: List all games
- game_state: Board, whose turn it is and the outcome
- valid_moves: Columns that still accept a chip
- submit_move: Drop a chip for the player whose turn it is
- move_history: Past moves with pagination
- reset_game: Clear the board for a rematch
- delete_game: Remove a game
- game_instructions: These rules`, s.settings.LowColumn(), s.settings.HighColumn())),
	)

	s.registerTools()
}

func gameIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Game ID",
	}
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	// Game management
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_game",
		Description: "Create a new game between two players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "ID for the new game (optional, generated when empty)",
				},
				"player1": map[string]interface{}{
					"type":        "string",
					"description": "Name of the player who moves first",
				},
				"player2": map[string]interface{}{
					"type":        "string",
					"description": "Name of the player who moves second",
				},
			},
			Required: []string{"player1", "player2"},
		},
	}, s.handleCreateGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "list_games",
		Description: "List all games",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleListGames)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_game",
		Description: "Delete a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, s.handleDeleteGame)

	// Game operations
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, the player to move and the outcome",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "valid_moves",
		Description: "List the columns that still accept a chip",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, s.handleValidMoves)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "submit_move",
		Description: "Drop a chip into a column for the player whose turn it is",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"column": map[string]interface{}{
					"type":        "integer",
					"minimum":     s.settings.LowColumn(),
					"maximum":     s.settings.HighColumn(),
					"description": fmt.Sprintf("Column to drop the chip into (%d-%d)", s.settings.LowColumn(), s.settings.HighColumn()),
				},
			},
			Required: []string{"game_id", "column"},
		},
	}, s.handleSubmitMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Clear the board for a rematch between the same players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
			},
			Required: []string{"game_id"},
		},
	}, s.handleResetGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move_history",
		Description: "Get the move history of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": gameIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number (default 1)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": fmt.Sprintf("Moves per page (default %d, max %d)", service.DefaultHistoryLimit, service.MaxHistoryLimit),
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{service.OrderAsc, service.OrderDesc},
					"description": "Oldest or newest first (default desc)",
				},
			},
			Required: []string{"game_id"},
		},
	}, s.handleMoveHistory)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the rules of the game",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, s.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools over stdin/stdout until the input closes
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Argument helpers

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func requireString(args map[string]interface{}, name string) (string, error) {
	value, _ := args[name].(string)
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidArgument, name)
	}
	return value, nil
}

// intArg reads a whole number. JSON numbers arrive as float64.
func intArg(args map[string]interface{}, name string) (int, bool, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return 0, false, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, true, fmt.Errorf("%w: %s must be a whole number, got %v", ErrInvalidArgument, name, v)
		}
		return int(v), true, nil
	case int:
		return v, true, nil
	}
	return 0, true, fmt.Errorf("%w: %s must be a number, got %v", ErrInvalidArgument, name, raw)
}

// Tool handlers

func (s *Server) handleCreateGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, _ := args["game_id"].(string)
	player1, _ := args["player1"].(string)
	player2, _ := args["player2"].(string)

	if strings.TrimSpace(player1) == "" {
		player1 = s.settings.Player1
	}
	if strings.TrimSpace(player2) == "" {
		player2 = s.settings.Player2
	}

	info, err := s.service.CreateGame(ctx, gameID, player1, player2)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created game: %s\n%s (%s) vs %s (%s)\n\n%s",
		info.ID,
		info.Players[0].Name, s.settings.Markers.First,
		info.Players[1].Name, s.settings.Markers.Second,
		s.formatGameState(info.GameState))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleListGames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	games, err := s.service.ListGames(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Games (%d):\n\n", len(games)))
	for _, g := range games {
		result.WriteString(fmt.Sprintf("- %s: %s vs %s, %s, %d moves (Created: %s)\n",
			g.ID, g.Players[0].Name, g.Players[1].Name, g.Status, g.MoveCount,
			g.CreatedAt.Format("15:04:05")))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (s *Server) handleDeleteGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := requireString(arguments(request), "game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.service.DeleteGame(ctx, gameID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted game: %s", gameID)), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := requireString(arguments(request), "game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.service.GetGameState(ctx, gameID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatGameState(state)), nil
}

func (s *Server) handleValidMoves(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := requireString(arguments(request), "game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	moves, err := s.service.ValidMoves(ctx, gameID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(moves) == 0 {
		return mcp.NewToolResultText("No valid moves: the game is over"), nil
	}
	return mcp.NewToolResultText("Valid columns: " + s.formatColumns(moves)), nil
}

func (s *Server) handleSubmitMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, err := requireString(args, "game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	column, ok, err := intArg(args, "column")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v: column is required", ErrInvalidArgument)), nil
	}

	result, err := s.service.SubmitMove(ctx, gameID, column-s.settings.ColumnBase)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidMove) {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid move: %v. Select a column from %d to %d that is not full.",
				err, s.settings.LowColumn(), s.settings.HighColumn())), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatMoveResult(result)), nil
}

func (s *Server) handleResetGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gameID, err := requireString(arguments(request), "game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.service.ResetGame(ctx, gameID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Game reset\n\n%s", s.formatGameState(state))
	return mcp.NewToolResultText(result), nil
}

func (s *Server) handleMoveHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	gameID, err := requireString(args, "game_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var opts service.HistoryOptions
	if opts.Page, _, err = intArg(args, "page"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if opts.Limit, _, err = intArg(args, "limit"); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts.Order, _ = args["order"].(string)

	history, err := s.service.GetMoveHistory(ctx, gameID, opts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatHistory(history)), nil
}

func (s *Server) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`CONNECT FOUR RULES

Board: 7 columns by 6 rows, empty at the start.
Turns: the first player (%s) always opens; players then alternate.
Move: pick a column from %d to %d. The chip falls to the lowest empty cell.
A full column or a number outside the range is rejected and the same player
moves again.
Win: four of your chips in a row horizontally, vertically or diagonally.
Tie: all 42 cells filled without a winner.
Rematch: reset_game clears the board; the first player opens again.

Board legend: %s = first player, %s = second player, %s = empty.
The bottom row is printed last.`,
		s.settings.Markers.First, s.settings.LowColumn(), s.settings.HighColumn(),
		s.settings.Markers.First, s.settings.Markers.Second, s.settings.Markers.Empty)

	return mcp.NewToolResultText(instructions), nil
}

// Formatters

func (s *Server) formatColumns(columns []int) string {
	labels := make([]string, len(columns))
	for i, col := range columns {
		labels[i] = fmt.Sprintf("%d", col+s.settings.ColumnBase)
	}
	return strings.Join(labels, ", ")
}

func (s *Server) columnHeader() string {
	labels := make([]string, engine.Columns)
	for col := range labels {
		labels[col] = fmt.Sprintf("%d", col+s.settings.ColumnBase)
	}
	return "  " + strings.Join(labels, " ")
}

func (s *Server) formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s (%s) vs %s (%s) | Moves: %d\n\n",
		state.Players[0].Name, s.settings.Markers.First,
		state.Players[1].Name, s.settings.Markers.Second,
		state.MoveCount))

	result.WriteString(s.columnHeader() + "\n")
	result.WriteString(state.Render(s.settings.Markers))

	if state.LastMove != nil {
		result.WriteString(fmt.Sprintf("\nLast move: %s in column %d\n",
			state.LastMove.Player, state.LastMove.Column+s.settings.ColumnBase))
	}

	if !state.IsGameOver() {
		result.WriteString(fmt.Sprintf("Valid columns: %s\n", s.formatColumns(state.ValidMoves)))
	}

	result.WriteString(fmt.Sprintf("\n%s", state.Message))
	return result.String()
}

func (s *Server) formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s dropped a chip in column %d (move %d)\n\n",
		result.Move.Player, result.Move.Coordinate.Col+s.settings.ColumnBase, result.Move.MoveNumber))
	b.WriteString(s.formatGameState(result.GameState))
	return b.String()
}

func (s *Server) formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Move History (Page %d/%d) | Total: %d\n\n",
		history.Page, history.TotalPages, history.TotalMoves))

	if len(history.Moves) == 0 {
		b.WriteString("(no moves)\n")
	}
	for _, move := range history.Moves {
		b.WriteString(fmt.Sprintf("%d. %s (%s) column %d\n",
			move.Number, move.Player, s.settings.Markers.For(move.Side), move.Column+s.settings.ColumnBase))
	}

	return b.String()
}
