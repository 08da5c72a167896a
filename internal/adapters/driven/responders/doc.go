// Package responders resolves GitHub logins to Freshdesk agent ids.
//
// Adapters:
//   - EnvDirectory: ASSIGNEE_MAP_<login> environment variables
//   - FileDirectory: a TOML file with a [responders] table
//   - Chain: first directory with a mapping wins
package responders
