// Package config provides settings management for Connect Four front ends.
//
// The config package handles:
//   - Built-in default settings
//   - Loading settings from a single JSON file
//   - Named settings profiles stored in a directory
//   - Validation of column numbering, markers and session timeouts
//
// Settings Format:
//
// Settings are JSON documents. Every field is optional; missing fields keep
// their defaults. Durations are written as Go duration strings.
//
//	{
//	  "player1": "Ana",
//	  "player2": "Bo",
//	  "markers": {"first": "X", "second": "Y", "empty": "O"},
//	  "column_base": 1,
//	  "watch_addr": "localhost:8080",
//	  "session_ttl": "24h",
//	  "cleanup_interval": "1h"
//	}
//
// Usage:
//
//	settings, err := config.LoadFile("connect4.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	manager, err := config.NewManager("profiles")
//	if err != nil {
//		log.Fatal(err)
//	}
//	classic, err := manager.LoadProfile("classic")
package config
