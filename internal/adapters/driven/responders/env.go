package responders

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// EnvPrefix precedes the login in responder variables.
const EnvPrefix = "ASSIGNEE_MAP_"

// Ensure EnvDirectory implements the interface.
var _ driven.ResponderDirectory = (*EnvDirectory)(nil)

// EnvDirectory reads ASSIGNEE_MAP_<login> variables.
type EnvDirectory struct {
	lookup func(string) (string, bool)
}

// NewEnvDirectory reads from the process environment.
func NewEnvDirectory() *EnvDirectory {
	return &EnvDirectory{lookup: os.LookupEnv}
}

// KeyFor returns the variable name for login.
func (d *EnvDirectory) KeyFor(login string) string {
	return EnvPrefix + login
}

// Lookup returns the agent id mapped to login.
func (d *EnvDirectory) Lookup(login string) (int64, bool, error) {
	key := d.KeyFor(login)
	raw, ok := d.lookup(key)
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return 0, false, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s=%q is not an agent id", domain.ErrInvalidInput, key, raw)
	}
	return id, true, nil
}
