package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/slotw/internal/domain"
)

func decodeAll(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	dec := json.NewDecoder(bytes.NewReader(buf.Bytes()))
	var out []map[string]interface{}
	for {
		var m map[string]interface{}
		err := dec.Decode(&m)
		if err == nil {
			out = append(out, m)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
	}
	return out
}

func sampleSnapshot() domain.Snapshot {
	s := domain.Snapshot{TotalSpent: 3000, TotalGained: 1200, SpinCount: 4}
	s.AddRole("A", 1)
	s.AddRole("B", 3)
	return s
}

func TestNDJSONWriter_WriteEvent(t *testing.T) {
	t.Run("writes event with type field and schemaVersion", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)
		at := time.Date(2025, 1, 15, 10, 30, 45, 0, time.UTC)

		err := w.WriteEvent("01J0000000000000000000000", at, domain.LogEvent{
			Kind:      domain.KindPayment,
			Amount:    1000,
			Timestamp: "[10:30:45]",
			Content:   "1,000円支払いました",
		})
		require.NoError(t, err)

		var out EventOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "event", out.Type)
		assert.Equal(t, SchemaVersion, out.SchemaVersion)
		assert.Equal(t, "payment", out.Kind)
		assert.Equal(t, 1000, out.Amount)
		assert.Equal(t, "[10:30:45]", out.ChatTime)
		assert.Equal(t, "2025-01-15T10:30:45Z", out.ReceivedAt)
		assert.Equal(t, "1,000円支払いました", out.Content)
	})

	t.Run("omits empty amount and role", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)
		require.NoError(t, w.WriteEvent("", time.Now(), domain.LogEvent{Kind: domain.KindLoss, Content: "x"}))

		assert.NotContains(t, buf.String(), "amount")
		assert.NotContains(t, buf.String(), "role")
		assert.NotContains(t, buf.String(), "session_id")
	})

	t.Run("does not escape html characters", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)
		require.NoError(t, w.WriteEvent("", time.Now(), domain.LogEvent{Kind: domain.KindRoleHit, Role: "<7>", Content: "<7>"}))
		assert.Contains(t, buf.String(), `"role":"<7>"`)
	})
}

func TestNewStatsOutput(t *testing.T) {
	out := NewStatsOutput("sid", sampleSnapshot())

	assert.Equal(t, "stats", out.Type)
	assert.Equal(t, -1800, out.Net)
	assert.Equal(t, 4, out.RoleHits)
	require.Len(t, out.Roles, 2)
	assert.Equal(t, "B", out.Roles[0].Name)
	assert.InDelta(t, 75.0, out.Roles[0].Rate, 0.001)
	assert.Equal(t, "A", out.Roles[1].Name)
}

func TestNDJSONWriterContract_AllTypesHaveSchemaVersion(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewNDJSONWriter(buf)
	stats := NewStatsOutput("sid", sampleSnapshot())

	require.NoError(t, w.WriteEvent("sid", time.Now(), domain.LogEvent{Kind: domain.KindGain, Amount: 5}))
	require.NoError(t, w.WriteStats(stats))
	require.NoError(t, w.WriteSessionStart(&SessionStartOutput{SessionID: "sid", Slot: "s", Path: "/tmp/latest.log", Interval: "1s"}))
	require.NoError(t, w.WriteSessionEnd(&SessionEndOutput{SessionID: "sid", Slot: "s", Events: 3, Stats: stats}))
	require.NoError(t, w.WriteHistory(&HistoryOutput{Slot: "s", Files: 2, Used: 1, Skipped: []string{"bad"}, Stats: stats}))
	require.NoError(t, w.WriteArchive(&ArchiveOutput{Name: "s_info_20250101_000000.log", Path: "/x", Size: 10}))
	require.NoError(t, w.WriteError("E_CODE", "something went wrong", "try again"))
	require.NoError(t, w.WriteWarning("warn"))
	require.NoError(t, w.WriteInfo("info"))
	require.NoError(t, w.WriteMetadata("0.0.0", "deadbeef"))

	items := decodeAll(t, buf)
	require.Len(t, items, 10)

	var types []string
	for _, it := range items {
		require.Contains(t, it, "type")
		require.Contains(t, it, "schemaVersion")
		require.EqualValues(t, SchemaVersion, it["schemaVersion"])
		types = append(types, it["type"].(string))
	}
	assert.Equal(t, []string{
		"event", "stats", "session_start", "session_end", "history",
		"archive", "error", "warning", "info", "metadata",
	}, types)
	assert.Equal(t, "try again", items[6]["hint"])
}
