// Package domain defines the core business entities for gh-freshdesk.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Issue: A read copy of a GitHub issue
//   - IssuesFilter: The time window and state bounds of one run
//   - Ticket: The Freshdesk ticket built from an issue
//   - RunReport: The outcome counters of one migration run
//   - JournalEntry: An audit record of one ticket submission
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
