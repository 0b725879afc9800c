package models

// Configuration models

// Config holds result store configuration
type Config struct {
	Provider string            // sqlite, mongodb
	URI      string            // Connection URI or file path
	Database string            // Database name
	Options  map[string]string // Provider-specific options
}
