// Command validate checks the settings profiles in a directory (the first
// argument, $CONNECT4_PROFILE_DIR, or ./profiles). It checks:
//   - JSON structure, rejecting unknown keys
//   - Column base, single-character markers and durations accepted by the game
//   - Distinct player names when both are set
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wricardo/connect-four/game/config"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateProfile loads and validates a single profile JSON file.
func validateProfile(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	settings := config.Defaults()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(settings); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := settings.Validate(); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
	}

	p1 := strings.TrimSpace(settings.Player1)
	p2 := strings.TrimSpace(settings.Player2)
	if p1 != "" && strings.EqualFold(p1, p2) {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Player names must differ, both are %q", p1))
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Players: %s vs %s", orPrompt(p1), orPrompt(p2)))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Markers: %s %s %s", settings.Markers.First, settings.Markers.Second, settings.Markers.Empty))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Columns: %d-%d", settings.LowColumn(), settings.HighColumn()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Sessions: expire after %s, checked every %s",
			time.Duration(settings.SessionTTL), time.Duration(settings.CleanupInterval)))
		if settings.WatchAddr != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("✓ Spectators: %s", settings.WatchAddr))
		}
	}

	return result
}

func orPrompt(name string) string {
	if name == "" {
		return "(asked at start)"
	}
	return name
}

func profileDir(args []string) string {
	if len(args) > 1 {
		return args[1]
	}
	if dir := os.Getenv("CONNECT4_PROFILE_DIR"); dir != "" {
		return dir
	}
	return "profiles"
}

// main validates every *.json file in the profile directory, printing a
// concise report and exiting with non-zero status if any are invalid.
func main() {
	files, err := filepath.Glob(filepath.Join(profileDir(os.Args), "*.json"))
	if err != nil {
		fmt.Printf("Error finding profile files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Println("No profiles found")
		return
	}

	allValid := true
	for _, file := range files {
		result := validateProfile(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All profiles are valid!")
	} else {
		fmt.Println("❌ Some profiles have errors")
		os.Exit(1)
	}
}
