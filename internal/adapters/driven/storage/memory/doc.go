// Package memory provides in-memory adapters used when no database path is
// configured, and in tests.
package memory
