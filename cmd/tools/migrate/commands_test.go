// cmd/tools/migrate/commands_test.go
package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"livest/internal/common/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMigrator struct {
	applied    []string
	migrateErr error
	states     []database.MigrationState
	migrated   bool
}

func (f *fakeMigrator) Migrate(context.Context) ([]string, error) {
	f.migrated = true
	return f.applied, f.migrateErr
}

func (f *fakeMigrator) MigrationStatus(context.Context) ([]database.MigrationState, error) {
	return f.states, nil
}

func run(t *testing.T, m *fakeMigrator, args ...string) (string, string, error) {
	t.Helper()
	var gotConfig string
	closed := false
	open := func(_ context.Context, configPath string) (migrator, func() error, error) {
		gotConfig = configPath
		return m, func() error { closed = true; return nil }, nil
	}

	cmd := newRootCmd(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	assert.True(t, closed, "connection closed after the command")
	return out.String(), gotConfig, err
}

func TestUp_AppliesPending(t *testing.T) {
	m := &fakeMigrator{applied: []string{"0001_init"}}
	out, _, err := run(t, m, "up")
	require.NoError(t, err)
	assert.True(t, m.migrated)
	assert.Contains(t, out, "Applied migration: 0001_init")
}

func TestUp_NothingPending(t *testing.T) {
	out, _, err := run(t, &fakeMigrator{}, "up")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending migrations.")
}

func TestUp_ReportsPartialProgressOnFailure(t *testing.T) {
	m := &fakeMigrator{applied: []string{"0001_init"}, migrateErr: errors.New("apply migration 0002_x: syntax error")}
	out, _, err := run(t, m, "up")
	require.Error(t, err)
	assert.Contains(t, out, "Applied migration: 0001_init")
}

func TestUp_DryRunDoesNotMigrate(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &fakeMigrator{states: []database.MigrationState{
		{Version: "0001_init", AppliedAt: &at},
		{Version: "0002_favorites"},
	}}
	out, _, err := run(t, m, "up", "--dry-run")
	require.NoError(t, err)
	assert.False(t, m.migrated)
	assert.Contains(t, out, "- 0002_favorites")
	assert.NotContains(t, out, "- 0001_init")
}

func TestStatus(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &fakeMigrator{states: []database.MigrationState{
		{Version: "0001_init", AppliedAt: &at},
		{Version: "0002_favorites"},
	}}
	out, configPath, err := run(t, m, "status", "--config", "configs/config.test.yaml")
	require.NoError(t, err)
	assert.Equal(t, "configs/config.test.yaml", configPath)
	assert.Regexp(t, `0001_init\s+Applied\s+2025-01-01T00:00:00Z`, out)
	assert.Regexp(t, `0002_favorites\s+Pending\s+-`, out)
}

func TestOpenFailureIsReturned(t *testing.T) {
	cmd := newRootCmd(func(context.Context, string) (migrator, func() error, error) {
		return nil, nil, errors.New("connect to postgres: refused")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"status"})
	assert.EqualError(t, cmd.Execute(), "connect to postgres: refused")
}
