// Package connectors holds the remote API adapters. github reads issues
// under a rate budget; freshdesk creates tickets.
package connectors
