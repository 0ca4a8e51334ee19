package analytics

import (
	"encoding/json"
	"time"

	"papas-chatbot/internal/storage"
)

// Summary содержит все агрегаты по набору событий.
type Summary struct {
	GeneratedAt       time.Time   `json:"generated_at"`
	TotalEvents       int         `json:"total_events"`
	UniqueUsers       int         `json:"unique_users"`
	AveragePerUser    float64     `json:"average_per_user"`
	Kinds             []KindCount `json:"kinds"`
	Period            *DateRange  `json:"period,omitempty"`
	Interactions      int         `json:"interactions"`
	TopIntents        []Count     `json:"top_intents"`
	AverageConfidence *float64    `json:"average_confidence,omitempty"`
	LowConfidence     int         `json:"low_confidence"`
	Varieties         []Count     `json:"varieties"`
	RecipeSearches    int         `json:"recipe_searches"`
	Hours             [24]int     `json:"hours"`
	Weekdays          [7]int      `json:"weekdays"`
}

// Summarize вычисляет агрегаты; topIntents ограничивает рейтинг интентов.
func Summarize(events []storage.Event, now time.Time, topIntents int) *Summary {
	s := &Summary{
		GeneratedAt:    now,
		TotalEvents:    TotalCount(events),
		UniqueUsers:    len(UniqueUsers(events)),
		AveragePerUser: AveragePerUser(events),
		Kinds:          KindDistribution(events),
		Interactions:   len(Interactions(events)),
		TopIntents:     IntentFrequency(events, topIntents),
		LowConfidence:  LowConfidenceCount(events),
		Varieties:      VarietyFrequency(events),
		RecipeSearches: RecipeSearchCount(events),
		Hours:          HourHistogram(events),
		Weekdays:       WeekdayHistogram(events),
	}
	if r, ok := DateSpan(events); ok {
		s.Period = &r
	}
	if avg, ok := AverageConfidence(events); ok {
		s.AverageConfidence = &avg
	}
	return s
}

// ToJSON сериализует статистику в JSON для детального анализа
func (s *Summary) ToJSON() (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
