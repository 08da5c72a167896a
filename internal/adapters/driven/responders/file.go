package responders

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/optz/gh-freshdesk/internal/core/ports/driven"
)

// Ensure FileDirectory implements the interface.
var _ driven.ResponderDirectory = (*FileDirectory)(nil)

// FileDirectory is a TOML responder map:
//
//	[responders]
//	octocat = 4200012345
//	hubot = 4200054321
//
// Logins match case-insensitively.
type FileDirectory struct {
	mu       sync.RWMutex
	filePath string
	ids      map[string]int64
}

type responderFile struct {
	Responders map[string]int64 `toml:"responders"`
}

// NewFileDirectory loads path. A missing file is an error.
func NewFileDirectory(path string) (*FileDirectory, error) {
	d := &FileDirectory{filePath: path, ids: make(map[string]int64)}
	if err := d.Load(); err != nil {
		return nil, err
	}
	return d, nil
}

// Load re-reads the file.
func (d *FileDirectory) Load() error {
	data, err := os.ReadFile(d.filePath)
	if err != nil {
		return fmt.Errorf("read responders file: %w", err)
	}

	var parsed responderFile
	if err := toml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("parse responders file %s: %w", d.filePath, err)
	}

	ids := make(map[string]int64, len(parsed.Responders))
	for login, id := range parsed.Responders {
		ids[strings.ToLower(login)] = id
	}

	d.mu.Lock()
	d.ids = ids
	d.mu.Unlock()
	return nil
}

// Lookup returns the agent id mapped to login.
func (d *FileDirectory) Lookup(login string) (int64, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.ids[strings.ToLower(login)]
	return id, ok, nil
}

// KeyFor names the TOML key for login.
func (d *FileDirectory) KeyFor(login string) string {
	return fmt.Sprintf("responders.%s in %s", login, d.filePath)
}

// Path returns the file path.
func (d *FileDirectory) Path() string {
	return d.filePath
}
