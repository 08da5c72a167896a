// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - IssueSource: Reads issues from the tracker and marks them processed
//   - TicketSink: Creates tickets in the support desk
//   - MarkdownRenderer: Converts issue bodies to ticket HTML
//   - ResponderDirectory: Maps tracker logins to desk agent ids
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MigrationJournal: Audit trail of ticket submissions
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
