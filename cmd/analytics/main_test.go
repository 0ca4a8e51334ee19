package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 1, 6, 12, 0, 0, 0, time.UTC)

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chatbot_analytics.log")
	lines := `2025-01-06 10:00:00,000 - {"evento": "interaccion", "usuario": "a", "intent": "saludo", "confianza": 0.95, "timestamp": "2025-01-06T10:00:00+00:00"}
2025-01-06 11:00:00,000 - {"evento": "respuesta_ia", "usuario": "b", "pregunta": "hola", "exitoso": true, "timestamp": "2025-01-06T11:00:00+00:00"}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))
	return path
}

func execute(t *testing.T, path string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand(path, func() time.Time { return now })
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDefaultsToFullReport(t *testing.T) {
	out, err := execute(t, writeLog(t))
	require.NoError(t, err)
	assert.Contains(t, out, "REPORTE COMPLETO")
}

func TestRealTime(t *testing.T) {
	out, err := execute(t, writeLog(t), "real-time")
	require.NoError(t, err)
	assert.Contains(t, out, "ESTADÍSTICAS ÚLTIMAS 24 HORAS")
	assert.Contains(t, out, "saludo: 1")
}

func TestUnknownModePrintsUsage(t *testing.T) {
	out, err := execute(t, writeLog(t), "semanal")
	require.NoError(t, err)
	assert.Equal(t, usage, out)
}

func TestMissingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "none.log")
	out, err := execute(t, path, "completo")
	require.NoError(t, err)
	assert.Contains(t, out, "no encontrado")
	assert.Contains(t, out, "No hay datos para generar el reporte")
}

func TestTooManyArgs(t *testing.T) {
	_, err := execute(t, writeLog(t), "completo", "extra")
	assert.Error(t, err)
}
