package websocket

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/connect-four/game/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Pending broadcasts before new ones are dropped.
	broadcastBuffer = 256

	EventStateUpdate = "state_update"
	EventGameDeleted = "game_deleted"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Spectators only ever read
		return true
	},
}

// Message is the JSON frame sent to spectators
type Message struct {
	GameID    string            `json:"game_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event"`
}

// Client represents a connected spectator
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	gameID  string
	initial []byte
}

// Hub fans game state updates out to the spectators of each game
type Hub struct {
	// Registered clients by game ID
	games map[string]map[*Client]bool

	// Last frame broadcast per game
	latest map[string][]byte

	mu sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}
}

// NewHub creates a new spectator hub
func NewHub() *Hub {
	return &Hub{
		games:      make(map[string]map[*Client]bool),
		latest:     make(map[string][]byte),
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. It returns when ctx is cancelled and must
// only be called once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			// Updates queued before the spectator connected come first
			h.drainBroadcasts()
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// ServeWS upgrades a spectator connection for gameID. initial is sent first
// unless the hub has already seen a newer update for that game.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID string, initial *engine.GameState) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		gameID: gameID,
	}
	if initial != nil {
		client.initial, err = json.Marshal(&Message{GameID: gameID, GameState: initial, Event: EventStateUpdate})
		if err != nil {
			log.Printf("Failed to marshal initial state: %v", err)
		}
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// BroadcastToGame queues a state update for every spectator of gameID. It
// never blocks; updates are dropped while the queue is full.
func (h *Hub) BroadcastToGame(gameID string, state *engine.GameState) {
	message := &Message{
		GameID:    gameID,
		GameState: state,
		Event:     EventStateUpdate,
	}

	select {
	case h.broadcast <- message:
	default:
		log.Printf("Spectator queue full, dropping update for game %s", gameID)
	}
}

// ForgetGame tells the spectators of gameID that it is gone, disconnects them
// and drops the cached frame so a later game with the same ID starts clean.
// It is queued behind pending updates and waits for queue space while the hub
// runs.
func (h *Hub) ForgetGame(gameID string) {
	select {
	case h.broadcast <- &Message{GameID: gameID, Event: EventGameDeleted}:
	case <-h.done:
	}
}

// ClientCount returns the number of spectators watching gameID
func (h *Hub) ClientCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// registerClient adds a client to a game and queues its first frame
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.games[client.gameID] == nil {
		h.games[client.gameID] = make(map[*Client]bool)
	}
	h.games[client.gameID][client] = true

	first := h.latest[client.gameID]
	if first == nil {
		first = client.initial
	}
	if first != nil {
		client.send <- first
	}

	log.Printf("Spectator joined game %s (total spectators: %d)",
		client.gameID, len(h.games[client.gameID]))
}

// unregisterClient removes a client from a game
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeClient(client)
}

func (h *Hub) removeClient(client *Client) {
	clients, ok := h.games[client.gameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.games, client.gameID)
	}

	log.Printf("Spectator left game %s (remaining spectators: %d)",
		client.gameID, len(clients))
}

// broadcastMessage sends a message to all clients of a game
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if message.Event == EventGameDeleted {
		delete(h.latest, message.GameID)
		for client := range h.games[message.GameID] {
			select {
			case client.send <- data:
			default:
			}
			h.removeClient(client)
		}
		return
	}

	h.latest[message.GameID] = data

	for client := range h.games[message.GameID] {
		select {
		case client.send <- data:
		default:
			// Client's send channel is full, drop it
			h.removeClient(client)
		}
	}
}

func (h *Hub) drainBroadcasts() {
	for {
		select {
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		default:
			return
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.games {
		for client := range clients {
			h.removeClient(client)
		}
	}
}

// readPump keeps the connection alive and discards anything the spectator sends
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection, one frame
// per message
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
