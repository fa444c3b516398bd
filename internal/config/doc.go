// Package config handles configuration loading for the palette server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable
// expansion. The package provides validation and sensible defaults.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from PALETTE_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/palette/server.yaml
//  3. ~/.config/palette/server.yaml
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${PALETTE_JWT_SECRET}"
//
// # Configuration Sections
//
// Server:
//
//	server:
//	  http_addr: "127.0.0.1:8484"
//
// Database:
//
//	database:
//	  path: "~/.local/share/palette/palette.db"
//
// Authentication (the demo account):
//
//	auth:
//	  jwt_secret: "${PALETTE_JWT_SECRET}"  # required
//	  email: "demo@palette.local"
//	  password: "palette"
//	  token_ttl: "168h"
//
// Remote blob/profile store:
//
//	remote:
//	  base_url: "https://objects.example.com"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
