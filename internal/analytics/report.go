package analytics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"papas-chatbot/internal/storage"
)

// Mode выбирает вид отчёта.
type Mode string

const (
	ModeFull   Mode = "completo"
	ModeRecent Mode = "real-time"
)

// ParseMode распознаёт аргумент командной строки.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeFull, ModeRecent:
		return Mode(s), true
	}
	return "", false
}

var weekdayNames = [7]string{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado", "Domingo"}

var rule = strings.Repeat("=", 60)

// printer запоминает первую ошибку записи, чтобы не проверять каждую строку.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) section(title string) {
	p.printf("\n%s\n%s\n%s\n", rule, title, rule)
}

func bar(n int) string { return strings.Repeat("█", n/2) }

// Generate читает лог по пути path и печатает отчёт выбранного вида.
// Отсутствие файла не является ошибкой: печатается сообщение и пустой отчёт.
func Generate(w io.Writer, mode Mode, path string, now time.Time) error {
	events, err := storage.ReadEvents(path)
	if err != nil {
		if !errors.Is(err, storage.ErrLogNotFound) {
			return fmt.Errorf("read analytics log: %w", err)
		}
		if _, err := fmt.Fprintf(w, "Archivo %s no encontrado\n", path); err != nil {
			return err
		}
	}
	switch mode {
	case ModeRecent:
		return RenderRecent(w, events, now)
	default:
		return RenderFull(w, events, now)
	}
}

// RenderFull печатает полный отчёт.
func RenderFull(w io.Writer, events []storage.Event, now time.Time) error {
	p := &printer{w: w}
	if len(events) == 0 {
		p.printf("No hay datos para generar el reporte\n")
		return p.err
	}
	p.section("REPORTE COMPLETO - CHATBOT PAPAS NATIVAS DEL PERÚ")
	p.printf("Generado: %s\n", now.Format("2006-01-02 15:04:05"))

	s := Summarize(events, now, TopIntentsFull)
	renderGeneral(p, s)
	renderIntents(p, s)
	renderVarieties(p, s, VarietyQueryCount(events))
	renderRecipes(p, s)
	renderTemporal(p, s)
	return p.err
}

func renderGeneral(p *printer, s *Summary) {
	p.printf("%s\nESTADÍSTICAS GENERALES DEL CHATBOT\n%s\n", rule, rule)
	if s.TotalEvents == 0 {
		p.printf("No hay datos disponibles\n")
		return
	}
	p.printf("\n📊 Total de interacciones: %d\n", s.TotalEvents)
	p.printf("👥 Usuarios únicos: %d\n", s.UniqueUsers)
	p.printf("📈 Promedio de interacciones por usuario: %.2f\n", s.AveragePerUser)

	p.printf("\n📋 Distribución de eventos:\n")
	for _, k := range s.Kinds {
		p.printf("   • %s: %d (%.1f%%)\n", k.Kind, k.Count, k.Percent)
	}
	if s.Period != nil {
		p.printf("\n📅 Periodo analizado: %s a %s (%d días)\n",
			s.Period.Start.Format("2006-01-02"), s.Period.End.Format("2006-01-02"), s.Period.Days)
	}
}

func renderIntents(p *printer, s *Summary) {
	p.section("INTENTS MÁS CONSULTADOS")
	if s.Interactions == 0 {
		p.printf("No hay datos de intents\n")
		return
	}
	p.printf("\n🎯 Top %d intents:\n", TopIntentsFull)
	for _, c := range s.TopIntents {
		pct := float64(c.Count) / float64(s.Interactions) * 100
		p.printf("   %3d (%5.1f%%) - %s\n", c.Count, pct, c.Name)
	}
	if s.AverageConfidence != nil {
		p.printf("\n🎲 Confianza promedio: %.2f%%\n", *s.AverageConfidence*100)
		if s.LowConfidence > 0 {
			p.printf("⚠️  Interacciones con baja confianza (<%.0f%%): %d\n", LowConfidenceThreshold*100, s.LowConfidence)
		}
	}
}

func renderVarieties(p *printer, s *Summary, total int) {
	p.section("VARIEDADES MÁS CONSULTADAS")
	if total == 0 {
		p.printf("No hay consultas de variedades registradas\n")
		return
	}
	p.printf("\n🥔 Top variedades consultadas:\n")
	for _, c := range s.Varieties {
		pct := float64(c.Count) / float64(total) * 100
		p.printf("   %3d (%5.1f%%) - %s\n", c.Count, pct, c.Name)
	}
}

func renderRecipes(p *printer, s *Summary) {
	p.section("BÚSQUEDAS DE RECETAS")
	if s.RecipeSearches == 0 {
		p.printf("No hay búsquedas de recetas registradas\n")
		return
	}
	p.printf("\n👨‍🍳 Total de búsquedas de recetas: %d\n", s.RecipeSearches)
}

func renderTemporal(p *printer, s *Summary) {
	p.section("PATRONES TEMPORALES DE USO")
	if s.TotalEvents == 0 {
		p.printf("No hay datos disponibles\n")
		return
	}
	p.printf("\n⏰ Distribución por hora:\n")
	for hour, n := range s.Hours {
		if n == 0 {
			continue
		}
		p.printf("   %02d:00 - %s (%d)\n", hour, bar(n), n)
	}
	p.printf("\n📅 Distribución por día de la semana:\n")
	for day, n := range s.Weekdays {
		if n == 0 {
			continue
		}
		p.printf("   %-10s - %s (%d)\n", weekdayNames[day], bar(n), n)
	}
}

// RenderRecent печатает статистику за последние 24 часа.
func RenderRecent(w io.Writer, events []storage.Event, now time.Time) error {
	p := &printer{w: w}
	if len(events) == 0 {
		p.printf("No hay datos disponibles\n")
		return p.err
	}
	recent := RecentWindow(events, now, RecentHours)

	p.section(fmt.Sprintf("ESTADÍSTICAS ÚLTIMAS %d HORAS", RecentHours))
	p.printf("\n📊 Interacciones últimas %dh: %d\n", RecentHours, len(recent))
	if len(recent) == 0 {
		p.printf("No hay actividad reciente\n")
		return p.err
	}
	p.printf("👥 Usuarios activos: %d\n", len(UniqueUsers(recent)))

	intents := IntentFrequency(recent, TopIntentsRecent)
	if len(intents) == 0 {
		p.printf("No hay datos de intents\n")
		return p.err
	}
	p.printf("\n🎯 Top %d intents (%dh):\n", TopIntentsRecent, RecentHours)
	for _, c := range intents {
		p.printf("   • %s: %d\n", c.Name, c.Count)
	}
	return p.err
}
