// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/irfndi/indexcast/internal/config"
	"github.com/stretchr/testify/require"
)

// TestCacheTTL is the response cache TTL used by StartRedis.
const TestCacheTTL = time.Minute

// StartRedis runs an in-process Redis for the duration of t and returns a
// cache configuration pointing at it.
func StartRedis(t *testing.T) (*miniredis.Miniredis, config.RedisConfig) {
	t.Helper()
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	return mr, config.RedisConfig{
		Enabled:  true,
		Host:     mr.Host(),
		Port:     port,
		CacheTTL: TestCacheTTL,
	}
}

// WriteCSV writes content to a dump file in a fresh temp dir and returns its path.
func WriteCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}
