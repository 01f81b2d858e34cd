package errlog_test

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/purplemusic/channels/errlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintfAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")

	l := errlog.Open(path)
	l.Printf("first: %s", "a")
	l.Printf("second: %s", "b")
	require.NoError(t, l.Close())

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(bs)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "first: a")
	assert.Contains(t, lines[1], "second: b")
}

func TestConcurrentAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.log")
	l := errlog.Open(path)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Printf("event %d", i)
		}(i)
	}
	wg.Wait()
	require.NoError(t, l.Close())

	bs, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(bs)), "\n"), 50)
}

func TestUnopenableFileStillLogs(t *testing.T) {
	l := errlog.Open(filepath.Join(t.TempDir(), "missing", "dir", "errors.log"))
	// must not panic
	l.Printf("into the void")
	assert.NoError(t, l.Close())
}
