package analytics

import (
	"sort"
	"time"

	"papas-chatbot/internal/storage"
)

// LowConfidenceThreshold отделяет уверенную классификацию от сомнительной.
const LowConfidenceThreshold = 0.7

const (
	TopIntentsFull   = 10
	TopIntentsRecent = 5
	RecentHours      = 24
)

// Count хранит имя и количество его появлений.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// KindCount описывает долю одного типа событий.
type KindCount struct {
	Kind    storage.Kind `json:"kind"`
	Count   int          `json:"count"`
	Percent float64      `json:"percent"`
}

// DateRange описывает период, покрытый логом.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

func TotalCount(events []storage.Event) int { return len(events) }

// UniqueUsers возвращает множество идентификаторов пользователей.
func UniqueUsers(events []storage.Event) map[string]struct{} {
	users := make(map[string]struct{})
	for _, e := range events {
		users[e.UserID] = struct{}{}
	}
	return users
}

// AveragePerUser возвращает 0, если пользователей нет.
func AveragePerUser(events []storage.Event) float64 {
	users := UniqueUsers(events)
	if len(users) == 0 {
		return 0
	}
	return float64(len(events)) / float64(len(users))
}

// rank сортирует по убыванию количества; при равенстве сохраняется
// порядок первого появления.
func rank(names []string) []Count {
	idx := make(map[string]int)
	var out []Count
	for _, n := range names {
		i, ok := idx[n]
		if !ok {
			idx[n] = len(out)
			out = append(out, Count{Name: n})
			i = len(out) - 1
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

func top(counts []Count, n int) []Count {
	if n > 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// KindDistribution считает события по типу, по убыванию количества.
func KindDistribution(events []storage.Event) []KindCount {
	names := make([]string, 0, len(events))
	for _, e := range events {
		names = append(names, string(e.Kind))
	}
	ranked := rank(names)
	out := make([]KindCount, 0, len(ranked))
	for _, c := range ranked {
		out = append(out, KindCount{
			Kind:    storage.Kind(c.Name),
			Count:   c.Count,
			Percent: float64(c.Count) / float64(len(events)) * 100,
		})
	}
	return out
}

// civilDay отбрасывает время суток в зоне loc.
func civilDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateSpan возвращает минимальную и максимальную отметки времени и число
// календарных дней между ними включительно. Дни считаются в зоне самого
// раннего события, чтобы смешанные смещения не сдвигали границы.
func DateSpan(events []storage.Event) (DateRange, bool) {
	if len(events) == 0 {
		return DateRange{}, false
	}
	start, end := events[0].Timestamp, events[0].Timestamp
	for _, e := range events[1:] {
		if e.Timestamp.Before(start) {
			start = e.Timestamp
		}
		if e.Timestamp.After(end) {
			end = e.Timestamp
		}
	}
	loc := start.Location()
	days := int(civilDay(end, loc).Sub(civilDay(start, loc)).Hours()/24) + 1
	return DateRange{Start: start, End: end, Days: days}, true
}

// Interactions оставляет только события классификации.
func Interactions(events []storage.Event) []storage.Event {
	return filterKind(events, storage.KindInteraction)
}

func filterKind(events []storage.Event, kind storage.Kind) []storage.Event {
	var out []storage.Event
	for _, e := range events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// IntentFrequency ранжирует интенты среди событий interaccion; при n <= 0 без ограничения.
func IntentFrequency(events []storage.Event, n int) []Count {
	var names []string
	for _, e := range Interactions(events) {
		names = append(names, e.Intent)
	}
	return top(rank(names), n)
}

// AverageConfidence усредняет только присутствующие значения confianza.
func AverageConfidence(events []storage.Event) (float64, bool) {
	var sum float64
	var n int
	for _, e := range Interactions(events) {
		if e.Confidence == nil {
			continue
		}
		sum += *e.Confidence
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// LowConfidenceCount считает interaccion с уверенностью ниже порога.
// Отсутствующая уверенность считается равной 1.0.
func LowConfidenceCount(events []storage.Event) int {
	var n int
	for _, e := range Interactions(events) {
		c := 1.0
		if e.Confidence != nil {
			c = *e.Confidence
		}
		if c < LowConfidenceThreshold {
			n++
		}
	}
	return n
}

// HourHistogram группирует события по часу в собственной зоне отметки времени.
func HourHistogram(events []storage.Event) [24]int {
	var h [24]int
	for _, e := range events {
		h[e.Timestamp.Hour()]++
	}
	return h
}

// WeekdayHistogram группирует события по дню недели, индекс 0 соответствует понедельнику.
func WeekdayHistogram(events []storage.Event) [7]int {
	var d [7]int
	for _, e := range events {
		d[mondayIndex(e.Timestamp.Weekday())]++
	}
	return d
}

func mondayIndex(wd time.Weekday) int { return (int(wd) + 6) % 7 }

// RecentWindow оставляет события не старше hours часов относительно now.
func RecentWindow(events []storage.Event, now time.Time, hours int) []storage.Event {
	cutoff := now.Add(-time.Duration(hours) * time.Hour)
	var out []storage.Event
	for _, e := range events {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out
}

// VarietyFrequency ранжирует сорта из событий consulta_variedad.
func VarietyFrequency(events []storage.Event) []Count {
	var names []string
	for _, e := range filterKind(events, storage.KindVarietyQuery) {
		names = append(names, e.Variety)
	}
	return rank(names)
}

func VarietyQueryCount(events []storage.Event) int {
	return len(filterKind(events, storage.KindVarietyQuery))
}

func RecipeSearchCount(events []storage.Event) int {
	return len(filterKind(events, storage.KindRecipeSearch))
}
