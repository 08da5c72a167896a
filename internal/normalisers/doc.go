// Package normalisers converts issue content into the formats the ticket
// desk accepts. Each sub-package handles one source format.
package normalisers
