package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRecorder_AppendAndLoad(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "logs", "chatbot_analytics.log")
	rec, err := NewFileRecorder(p)
	require.NoError(t, err)

	ts := time.Date(2025, 3, 10, 14, 5, 0, 0, time.UTC)
	ev1 := NewAIResponse("u1", "¿Qué es la papa huayro?", true, ts)
	ev2 := NewInteraction("u2", "saludo", 0.93, true, ts.Add(time.Second))
	require.NoError(t, rec.Append(ev1))
	require.NoError(t, rec.Append(ev2))

	events, err := rec.Load()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.True(t, events[0].Equal(ev1), "got %+v", events[0])
	assert.True(t, events[1].Equal(ev2), "got %+v", events[1])

	st, err := os.Stat(p)
	require.NoError(t, err)
	assert.NotZero(t, st.Size())
}

func TestFileRecorder_StampsZeroTimestamp(t *testing.T) {
	rec, err := NewFileRecorder(filepath.Join(t.TempDir(), "a.log"))
	require.NoError(t, err)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	require.NoError(t, rec.Append(Event{Kind: KindInteraction, UserID: "u", Intent: "saludo"}))

	raw, err := os.ReadFile(rec.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "2025-01-02 03:04:05,000 - {"), string(raw))

	events, err := rec.Load()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Timestamp.Equal(fixed))
	assert.False(t, events[0].HasConfidence())
}

func TestReadEvents_MissingFile(t *testing.T) {
	events, err := ReadEvents(filepath.Join(t.TempDir(), "nope.log"))
	require.ErrorIs(t, err, ErrLogNotFound)
	assert.Empty(t, events)
}

func TestParseEvents_SkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`2025-03-10 10:00:00,001 - {"evento": "interaccion", "usuario": "a", "intent": "saludo", "confianza": 0.9, "timestamp": "2025-03-10T10:00:00.000123"}`,
		`2025-03-10 10:00:01,001 - {"evento": "interaccion", "usuario": "a", "intent": "sal`,
		`no separator here`,
		`2025-03-10 10:00:02,001 - {"evento": "respuesta_ia", "usuario": "b", "timestamp": "2025-03-10T10:00:02"}`,
		``,
		`2025-03-10 10:00:03,001 - {"evento": "respuesta_ia", "usuario": "b", "pregunta": "hola", "exitoso": false, "timestamp": "2025-03-10T10:00:03"}`,
		`2025-03-10 10:00:04,001 - {"evento": "interaccion", "usuario": "c", "intent": "despedida", "timestamp": "not a date"}`,
		`2025-03-10 10:00:05,001 - {"evento": "interaccion", "usuario": "c", "intent": "despedida", "timestamp": "2025-03-10T10:00:05+00:00"}`,
	}, "\n")

	events, err := ParseEvents(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[0].UserID)
	assert.Equal(t, KindAIResponse, events[1].Kind)
	assert.False(t, events[1].Succeeded)
	assert.Equal(t, "despedida", events[2].Intent)
	assert.False(t, events[2].HasConfidence())
}

func TestParseEvents_SkipsOversizedLine(t *testing.T) {
	good1 := `2025-03-10 10:00:00,001 - {"evento": "interaccion", "usuario": "a", "intent": "saludo", "confianza": 0.9, "timestamp": "2025-03-10T10:00:00"}`
	good2 := `2025-03-10 10:00:05,001 - {"evento": "respuesta_ia", "usuario": "b", "pregunta": "hola", "exitoso": true, "timestamp": "2025-03-10T10:00:05"}`
	huge := "x - " + strings.Repeat("a", maxLineBytes+1024)
	input := strings.Join([]string{good1, huge, good2}, "\n") + "\n"

	events, err := ParseEvents(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].UserID)
	assert.Equal(t, "b", events[1].UserID)
}

func TestParseEvents_LineLimitAndCRLF(t *testing.T) {
	good := `2025-03-10 10:00:00,001 - {"evento": "interaccion", "usuario": "a", "intent": "saludo", "timestamp": "2025-03-10T10:00:00"}`
	input := good + "\r\n" + "y - " + strings.Repeat("b", 500) + "\n" + good

	events, err := parseEvents(strings.NewReader(input), 300)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
