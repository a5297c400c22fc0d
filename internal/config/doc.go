// Package config loads shelf's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/shelf/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. If the file exists but fields are blank, use defaults for those fields
//
// Enum-like values (log_level, numeric_fields) are validated; an unknown value
// is a load error rather than a silent fallback.
//
// # Default Values
//
//   - API base URL: http://localhost:3000/api
//   - Token file: ~/.config/shelf/token
//   - Log file: ~/.local/state/shelf/shelf.log
//   - Log level: info
//   - Request timeout: 5 seconds
//   - Requests per second: unlimited
//   - Numeric fields: reject
//   - Notification duration: 3 seconds
//
// # TOML Format
//
//	api_url = "http://localhost:3000/api"
//	token_path = "~/.config/shelf/token"
//	log_file = "~/.local/state/shelf/shelf.log"
//	log_level = "info"
//	request_timeout_seconds = 5
//	requests_per_second = 4
//	numeric_fields = "reject"   # or "passthrough"
//	notify_seconds = 3
//
// # Path Expansion
//
// Paths beginning with ~ are expanded to the user's home directory and made
// absolute.
package config
