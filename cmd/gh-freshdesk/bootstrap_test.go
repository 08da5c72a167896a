package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optz/gh-freshdesk/internal/adapters/driven/config"
	"github.com/optz/gh-freshdesk/internal/core/domain"
)

func TestOpenJournal(t *testing.T) {
	t.Run("memory when no path", func(t *testing.T) {
		j, closeFn, err := openJournal("")
		require.NoError(t, err)
		require.NotNil(t, j)
		assert.NoError(t, closeFn())
	})

	t.Run("sqlite when path set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "journal.db")
		j, closeFn, err := openJournal(path)
		require.NoError(t, err)
		require.NoError(t, j.Record(context.Background(), domain.JournalEntry{RunID: "r", IssueNumber: 1, Outcome: domain.OutcomeCreated}))
		assert.NoError(t, closeFn())
		assert.FileExists(t, path)
	})
}

func TestResponderDirectory(t *testing.T) {
	t.Setenv("ASSIGNEE_MAP_octocat", "5")

	path := filepath.Join(t.TempDir(), "responders.toml")
	require.NoError(t, os.WriteFile(path, []byte("[responders]\nhubot = 6\n"), 0o600))

	dir, err := responderDirectory(path)
	require.NoError(t, err)

	id, ok, err := dir.Lookup("octocat")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)

	id, ok, err = dir.Lookup("hubot")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(6), id)

	_, err = responderDirectory(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestBootstrap_MissingConfiguration(t *testing.T) {
	for _, env := range []string{"REPO_OWNER", "REPO", "GITHUB_TOKEN"} {
		t.Setenv(env, "")
	}

	_, err := bootstrap(context.Background(), config.LoadOptions{EnvFile: writeEnv(t, "")})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingConfiguration)
	assert.Contains(t, err.Error(), "REPO_OWNER")
}

func TestBootstrap_Wires(t *testing.T) {
	env := map[string]string{
		"REPO_OWNER":         "acme",
		"REPO":               "widgets",
		"GITHUB_TOKEN":       "ghp_x",
		"FRESHDESK_BASE_URL": "https://acme.freshdesk.com",
		"FRESHDESK_API_KEY":  "k",
		"FRESHDESK_GROUP_ID": "1",
		"GITHUB_BOT_EMAIL":   "bot@acme.io",
		"RESPONDERS_FILE":    "",
		"JOURNAL_PATH":       filepath.Join(t.TempDir(), "j.db"),
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	svc, err := bootstrap(context.Background(), config.LoadOptions{EnvFile: writeEnv(t, "")})
	require.NoError(t, err)
	assert.NotNil(t, svc.Migrator)
	assert.NotNil(t, svc.History)
	assert.NotNil(t, svc.Agents)
	assert.NoError(t, svc.Close())
}

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
