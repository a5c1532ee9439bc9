// Package websocket provides the read-only spectator feed for Connect Four games.
//
// A central Hub keeps the spectators of each game and fans state updates out
// to them. Each connection has its own read and write goroutines; anything a
// spectator sends is discarded.
//
// Message Protocol:
//
// Every frame is a JSON Message carrying the game ID, the event name
// ("state_update") and the full GameState after the change. A spectator
// receives the current state as soon as it joins.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	svc := service.NewGameService(sessions, hub)
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		state, _ := svc.GetGameState(r.Context(), gameID)
//		hub.ServeWS(w, r, gameID, state)
//	})
//
// Hub implements service.StateNotifier, so every accepted move and reset is
// pushed to spectators without the game loop knowing about them.
package websocket
