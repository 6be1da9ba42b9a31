package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumer_HandleMessageAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := &Consumer{LogDir: dir}

	for _, ev := range []ThresholdQueriedEvent{
		{EventID: "e1", Threshold: "400", Count: 2, Roster: 3, QueriedAt: "2024-01-01T00:00:00Z"},
		{EventID: "e2", RequestID: "r2", Threshold: "+Inf", Count: 0, Roster: 3, QueriedAt: "2024-01-01T00:00:01Z"},
	} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, c.HandleMessage(body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "queries.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "event_id=e1")
	assert.Contains(t, lines[0], "matched=2/3")
	assert.Contains(t, lines[1], "threshold=+Inf")
	assert.Contains(t, lines[1], "request_id=r2")
}

func TestConsumer_HandleMessageRejectsGarbage(t *testing.T) {
	c := &Consumer{LogDir: t.TempDir()}
	assert.Error(t, c.HandleMessage([]byte("{not json")))
}
