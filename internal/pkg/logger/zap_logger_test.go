package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLogger_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)

	l.Info("SEARCH", "similar notes resolved", map[string]interface{}{"count": 3})
	l.Debug("SEARCH", "below file level", nil)
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "SEARCH", entry["module"])
	assert.Equal(t, "similar notes resolved", entry["message"])
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Error("TEST", "discarded", map[string]interface{}{"error": "boom"})
	assert.NoError(t, l.Sync())
}
