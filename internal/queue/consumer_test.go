package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConsumerHandleAppendsLines(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c := NewConsumer("amqp://unused", dir, zap.NewNop())

	created := NewComboEvent(ComboCreated, 10, 1, 1)
	created.ComboName = "Electric"
	created.CharacterID = 2
	created.Slots = 3
	deleted := NewComboEvent(ComboDeleted, 10, 1, 99)

	for _, ev := range []ComboEvent{created, deleted} {
		body, err := json.Marshal(ev)
		require.NoError(t, err)
		require.NoError(t, c.handle(body))
	}

	raw, err := os.ReadFile(filepath.Join(dir, "combo.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `Combo created | combo_id=10 | name="Electric" | character_id=2 | owner_id=1 | slots=3`)
	assert.Contains(t, lines[1], "Combo deleted | combo_id=10 | owner_id=1 | deleted_by=99")
}

func TestConsumerHandleRejectsMalformed(t *testing.T) {
	c := NewConsumer("amqp://unused", t.TempDir(), zap.NewNop())
	assert.Error(t, c.handle([]byte("{not json")))
	assert.Error(t, c.handle([]byte(`{"type":"combo.created"}`)))
}
