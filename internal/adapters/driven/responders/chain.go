package responders

import (
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// Ensure Chain implements the interface.
var _ driven.ResponderDirectory = Chain(nil)

// Chain consults each directory in order.
type Chain []driven.ResponderDirectory

// Lookup returns the first mapping found. An error from any directory
// stops the search.
func (c Chain) Lookup(login string) (int64, bool, error) {
	for _, d := range c {
		id, ok, err := d.Lookup(login)
		if err != nil || ok {
			return id, ok, err
		}
	}
	return 0, false, nil
}

// KeyFor returns the first directory's key, which is where an operator
// is expected to add the mapping.
func (c Chain) KeyFor(login string) string {
	if len(c) == 0 {
		return EnvPrefix + login
	}
	return c[0].KeyFor(login)
}
