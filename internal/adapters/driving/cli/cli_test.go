package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optz/gh-freshdesk/internal/adapters/driven/config"
	"github.com/optz/gh-freshdesk/internal/connectors/freshdesk"
	"github.com/optz/gh-freshdesk/internal/core/domain"
	"github.com/optz/gh-freshdesk/internal/core/ports/driving"
)

// mockMigrator records calls to driving.Migrator.
type mockMigrator struct {
	issue  int
	filter *domain.IssuesFilter
	opts   driving.RunOptions
	calls  int
	report *domain.RunReport
	err    error
	onCall func()
}

func (m *mockMigrator) MigrateIssue(_ context.Context, number int, opts driving.RunOptions) (*domain.RunReport, error) {
	m.calls++
	m.issue = number
	m.opts = opts
	return m.result(opts)
}

func (m *mockMigrator) MigrateFiltered(_ context.Context, filter domain.IssuesFilter, opts driving.RunOptions) (*domain.RunReport, error) {
	m.calls++
	m.filter = &filter
	m.opts = opts
	if m.onCall != nil {
		m.onCall()
	}
	return m.result(opts)
}

func (m *mockMigrator) result(opts driving.RunOptions) (*domain.RunReport, error) {
	if m.report != nil {
		return m.report, m.err
	}
	return &domain.RunReport{RunID: "run", Seen: 3, Created: 2, Marked: 2, Skipped: 1, DryRun: opts.DryRun}, m.err
}

type mockJournal struct {
	issue, limit int
	entries      []domain.JournalEntry
}

func (m *mockJournal) History(_ context.Context, issue, limit int) ([]domain.JournalEntry, error) {
	m.issue, m.limit = issue, limit
	return m.entries, nil
}

type mockAgents struct {
	agents []freshdesk.Agent
	err    error
}

func (m *mockAgents) ListAgents(context.Context) ([]freshdesk.Agent, error) {
	return m.agents, m.err
}

// setupServices installs mocks and resets every flag after the test.
func setupServices(t *testing.T) (*mockMigrator, *mockJournal) {
	t.Helper()
	m := &mockMigrator{}
	j := &mockJournal{}

	oldMigrator, oldJournal, oldAgents, oldBootstrap := migrator, journalReader, agentLister, bootstrap
	migrator, journalReader, agentLister = m, j, nil

	t.Cleanup(func() {
		migrator, journalReader, agentLister, bootstrap = oldMigrator, oldJournal, oldAgents, oldBootstrap
		fromFlag, toFlag, scheduleFlag = "", "", ""
		openFlag, dryRunFlag = false, false
		issueFlag, maxBatchesFlag = 0, 0
		historyIssue, historyLimit = 0, 20
		envFile, configFile, verbose = "", "", false
		closeServices = nil
		rootCmd.SetArgs(nil)
		for _, c := range rootCmd.Commands() {
			c.SetContext(nil)
		}
	})
	return m, j
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return buf.String(), err
}

func TestCreateTicket_Filtered(t *testing.T) {
	m, _ := setupServices(t)

	out, err := execute(t, "create-ticket", "--from", "2024-01-01", "--to", "2024-02-01")
	require.NoError(t, err)

	require.NotNil(t, m.filter)
	assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local).Equal(m.filter.From))
	assert.True(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local).Equal(m.filter.To))
	assert.False(t, m.filter.IncludeOpen)
	assert.Contains(t, out, "3 seen, 1 skipped, 2 created, 0 rejected, 0 failed, 2 marked")
}

func TestCreateTicket_Options(t *testing.T) {
	m, _ := setupServices(t)

	out, err := execute(t, "create-ticket", "--open", "--dry-run", "--max-batches", "1")
	require.NoError(t, err)

	assert.True(t, m.filter.IncludeOpen)
	assert.False(t, m.filter.HasFrom())
	assert.Equal(t, driving.RunOptions{DryRun: true, MaxBatches: 1}, m.opts)
	assert.Contains(t, out, "[dry-run]")
}

func TestCreateTicket_SingleIssueIgnoresFilters(t *testing.T) {
	m, _ := setupServices(t)

	_, err := execute(t, "create-ticket", "--issue", "42", "--from", "not-a-date")
	require.NoError(t, err)
	assert.Equal(t, 42, m.issue)
	assert.Nil(t, m.filter)
}

func TestCreateTicket_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad from", []string{"--from", "yesterday"}, "--from"},
		{"bad to", []string{"--to", "2024-13-01"}, "--to"},
		{"inverted window", []string{"--from", "2024-02-01", "--to", "2024-01-01"}, "before --to"},
		{"negative issue", []string{"--issue", "-3"}, "positive"},
		{"issue with schedule", []string{"--issue", "3", "--schedule", "@hourly"}, "cannot be combined"},
		{"bad schedule", []string{"--schedule", "whenever"}, "parse schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := setupServices(t)

			_, err := execute(t, append([]string{"create-ticket"}, tt.args...)...)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
			assert.Zero(t, m.calls)
		})
	}
}

func TestCreateTicket_PropagatesErrors(t *testing.T) {
	m, _ := setupServices(t)
	m.err = fmt.Errorf("issue #3: %w", &domain.MissingConfigError{Key: "ASSIGNEE_MAP_bob"})

	out, err := execute(t, "create-ticket")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingConfiguration)
	assert.Contains(t, err.Error(), "ASSIGNEE_MAP_bob")
	assert.Contains(t, out, "created", "report still printed")
}

func TestCreateTicket_Schedule(t *testing.T) {
	m, _ := setupServices(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.onCall = cancel

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"create-ticket", "--schedule", "@hourly"})

	err := executeWithin(t, ctx, 5*time.Second)
	require.NoError(t, err, "cancellation ends the schedule cleanly")
	assert.Equal(t, 1, m.calls)
}

func TestCreateTicket_ScheduleAfterEarlierRun(t *testing.T) {
	m, _ := setupServices(t)

	_, err := execute(t, "create-ticket", "--open")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.onCall = cancel

	rootCmd.SetArgs([]string{"create-ticket", "--schedule", "@hourly"})
	err = executeWithin(t, ctx, 5*time.Second)
	require.NoError(t, err, "the second execution sees its own context")
	assert.Equal(t, 2, m.calls)
}

// executeWithin runs the root command with ctx and fails the test instead
// of hanging when the command does not return in time.
func executeWithin(t *testing.T, ctx context.Context, limit time.Duration) error {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- Execute(ctx) }()
	select {
	case err := <-done:
		return err
	case <-time.After(limit):
		t.Fatal("command did not return after its context was cancelled")
		return nil
	}
}

func TestCreateTicket_NotConfigured(t *testing.T) {
	setupServices(t)
	migrator = nil

	_, err := execute(t, "create-ticket")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestBootstrap(t *testing.T) {
	setupServices(t)
	migrator = nil

	m := &mockMigrator{}
	var got config.LoadOptions
	closed := false
	SetBootstrap(func(_ context.Context, opts config.LoadOptions) (*Services, error) {
		got = opts
		return &Services{Migrator: m, Close: func() error { closed = true; return nil }}, nil
	})

	_, err := execute(t, "--env-file", "prod.env", "--config", "gh.toml", "create-ticket", "--issue", "7")
	require.NoError(t, err)
	assert.Equal(t, config.LoadOptions{EnvFile: "prod.env", ConfigFile: "gh.toml"}, got)
	assert.Equal(t, 7, m.issue)
	assert.True(t, closed)
}

func TestExecute_ClosesServicesOnFailure(t *testing.T) {
	setupServices(t)
	migrator = nil

	m := &mockMigrator{err: &domain.UpstreamError{Service: "github", Operation: "list issues", StatusCode: 502, Err: errors.New("bad gateway")}}
	closed := 0
	SetBootstrap(func(context.Context, config.LoadOptions) (*Services, error) {
		return &Services{Migrator: m, Close: func() error { closed++; return nil }}, nil
	})

	_, err := execute(t, "create-ticket")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
	assert.Equal(t, 1, closed)
}

func TestExecute_ReportsCloseError(t *testing.T) {
	setupServices(t)
	migrator = nil
	SetBootstrap(func(context.Context, config.LoadOptions) (*Services, error) {
		return &Services{Migrator: &mockMigrator{}, Close: func() error { return errors.New("database is locked") }}, nil
	})

	_, err := execute(t, "create-ticket", "--issue", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
}

func TestBootstrap_Error(t *testing.T) {
	setupServices(t)
	migrator = nil
	SetBootstrap(func(context.Context, config.LoadOptions) (*Services, error) {
		return nil, &domain.MissingConfigError{Key: "GITHUB_TOKEN"}
	})

	_, err := execute(t, "create-ticket")
	require.Error(t, err)
	assert.Equal(t, "missing configuration: GITHUB_TOKEN", err.Error())
}

func TestBootstrap_SkippedForVersion(t *testing.T) {
	setupServices(t)
	migrator = nil
	SetBootstrap(func(context.Context, config.LoadOptions) (*Services, error) {
		return nil, errors.New("should not be called")
	})

	_, err := execute(t, "version")
	assert.NoError(t, err)
}

func TestHistory(t *testing.T) {
	_, j := setupServices(t)
	j.entries = []domain.JournalEntry{{
		RunID:       "0f8c1a2b-aaaa-bbbb-cccc-1234567890ab",
		IssueNumber: 12,
		TicketID:    900,
		Outcome:     domain.OutcomeCreated,
		Marked:      true,
		RecordedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}}

	out, err := execute(t, "history", "--issue", "12", "-n", "5")
	require.NoError(t, err)
	assert.Equal(t, 12, j.issue)
	assert.Equal(t, 5, j.limit)
	assert.Contains(t, out, "OUTCOME")
	assert.Contains(t, out, "0f8c1a2b")
	assert.Contains(t, out, "#12")
	assert.Contains(t, out, "900")
	assert.Contains(t, out, "created")
}

func TestHistory_Empty(t *testing.T) {
	setupServices(t)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No submissions recorded.")
	assert.Contains(t, out, "JOURNAL_PATH")
}

func TestAgents(t *testing.T) {
	setupServices(t)
	a := freshdesk.Agent{ID: 4200}
	a.Contact.Name = "Ada"
	a.Contact.Email = "ada@example.com"
	agentLister = &mockAgents{agents: []freshdesk.Agent{a}}

	out, err := execute(t, "agents")
	require.NoError(t, err)
	assert.Contains(t, out, "4200")
	assert.Contains(t, out, "ada@example.com")
}

func TestParseDate(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	old := dateLocation
	dateLocation = zone
	t.Cleanup(func() { dateLocation = old })

	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, zone)},
		{"2024-01-15T08:30:00", time.Date(2024, 1, 15, 8, 30, 0, 0, zone)},
		{"2024-01-15T08:30:00Z", time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)},
		{"2024-01-15T08:30:00-05:00", time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate("from", tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}

	t.Run("date only is local midnight", func(t *testing.T) {
		got, err := parseDate("to", "2024-01-15")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 14, 22, 0, 0, 0, time.UTC), got.UTC())
	})
}
