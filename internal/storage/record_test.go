package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_Valid(t *testing.T) {
	line := `2025-03-10 10:00:00,123 - {"evento": "interaccion", "usuario": "abc", "intent": "consultar_variedad", "confianza": 0.87, "timestamp": "2025-03-10T10:00:00.123456"}`
	ev, ok := ParseLine(line)
	require.True(t, ok)
	assert.Equal(t, KindInteraction, ev.Kind)
	assert.Equal(t, "abc", ev.UserID)
	assert.Equal(t, "consultar_variedad", ev.Intent)
	require.NotNil(t, ev.Confidence)
	assert.InDelta(t, 0.87, *ev.Confidence, 1e-9)
	want := time.Date(2025, 3, 10, 10, 0, 0, 123456000, time.Local)
	assert.True(t, ev.Timestamp.Equal(want), "got %v", ev.Timestamp)
}

func TestParseLine_Rejects(t *testing.T) {
	cases := map[string]string{
		"no separator":      `{"evento": "interaccion"}`,
		"empty payload":     `2025-03-10 10:00:00,123 - `,
		"truncated json":    `2025-03-10 10:00:00,123 - {"evento": "interaccion", "usuario"`,
		"missing evento":    `x - {"usuario": "a", "timestamp": "2025-03-10T10:00:00"}`,
		"missing usuario":   `x - {"evento": "busqueda_receta", "timestamp": "2025-03-10T10:00:00"}`,
		"missing timestamp": `x - {"evento": "busqueda_receta", "usuario": "a"}`,
		"bad timestamp":     `x - {"evento": "busqueda_receta", "usuario": "a", "timestamp": "ayer"}`,
		"missing intent":    `x - {"evento": "interaccion", "usuario": "a", "timestamp": "2025-03-10T10:00:00"}`,
		"missing variedad":  `x - {"evento": "consulta_variedad", "usuario": "a", "timestamp": "2025-03-10T10:00:00"}`,
		"wrong type":        `x - {"evento": "interaccion", "usuario": 12, "intent": "a", "timestamp": "2025-03-10T10:00:00"}`,
		"json array":        `x - [1, 2, 3]`,
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, ok := ParseLine(line)
			assert.False(t, ok)
		})
	}
}

func TestParseLine_KeepsUnknownKinds(t *testing.T) {
	ev, ok := ParseLine(`x - {"evento": "busqueda_receta", "usuario": "a", "timestamp": "2025-03-10"}`)
	require.True(t, ok)
	assert.Equal(t, KindRecipeSearch, ev.Kind)

	ev, ok = ParseLine(`x - {"evento": "otro", "usuario": "a", "timestamp": "2025-03-10 08:30:00"}`)
	require.True(t, ok)
	assert.Equal(t, Kind("otro"), ev.Kind)
	assert.Equal(t, 8, ev.Timestamp.Hour())
}

func TestFormatLine_RoundTrip(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	events := []Event{
		NewAIResponse("sender-1", "¿Cómo conservo papas?\n<rápido>", false, at),
		NewInteraction("sender-2", "receta", 0, true, at.Add(time.Minute)),
		NewInteraction("sender-3", "", 0, false, at.Add(2*time.Minute)),
		{Kind: KindVarietyQuery, UserID: "sender-4", Variety: "huayro", Timestamp: at},
	}
	for _, ev := range events {
		line, err := FormatLine(ev, at)
		require.NoError(t, err)
		got, ok := ParseLine(line)
		require.True(t, ok, line)
		assert.True(t, got.Equal(ev), "line %s parsed to %+v", line, got)
	}
}

func TestNewInteraction_ZeroConfidenceIsPresent(t *testing.T) {
	ev := NewInteraction("u", "saludo", 0, true, time.Now())
	require.True(t, ev.HasConfidence())
	assert.Zero(t, *ev.Confidence)

	ev = NewInteraction("u", "", 0, false, time.Now())
	assert.False(t, ev.HasConfidence())
	assert.Equal(t, UnknownIntent, ev.Intent)
}
