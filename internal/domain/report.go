package domain

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const TimeOfDayLayout = "15:04"

// Rótulos dos dias da semana indexados por time.Weekday
var weekdayLabels = [7]string{
	"domingo",
	"segunda",
	"terca",
	"quarta",
	"quinta",
	"sexta",
	"sabado",
}

// ReportDefinition é o agendamento semanal de um relatório. Somente leitura para o despacho.
type ReportDefinition struct {
	ID         string `json:"id"`
	TenantID   string `json:"tenant_id"`
	Weekday    string `json:"weekday"`
	TimeOfDay  string `json:"time_of_day"`
	Recipients string `json:"recipients"`
	Active     bool   `json:"active"`
}

// Slot identifica uma ocorrência agendada: dia da semana, horário e data do calendário
type Slot struct {
	Weekday        string
	TimeOfDay      string
	OccurrenceDate string
}

// ResolveSlot converte o instante do tick nos rótulos usados pelas definições.
// O instante deve estar no fuso em que os relatórios foram agendados.
func ResolveSlot(now time.Time) Slot {
	return Slot{
		Weekday:        WeekdayLabel(now.Weekday()),
		TimeOfDay:      now.Format(TimeOfDayLayout),
		OccurrenceDate: now.Format(time.DateOnly),
	}
}

func WeekdayLabel(d time.Weekday) string {
	return weekdayLabels[d]
}

// NormalizeWeekday aceita "Terça-feira", "terca", "TERÇA" e devolve o rótulo canônico
func NormalizeWeekday(label string) (string, bool) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, label)
	if err != nil {
		return "", false
	}

	plain = strings.ToLower(strings.TrimSpace(plain))
	plain = strings.TrimSuffix(plain, "-feira")
	plain = strings.TrimSuffix(plain, " feira")

	for _, l := range weekdayLabels {
		if l == plain {
			return l, true
		}
	}
	return "", false
}

// NormalizeTimeOfDay devolve o horário no formato HH:mm ("9:00" vira "09:00")
func NormalizeTimeOfDay(value string) (string, bool) {
	parsed, err := time.Parse("15:4", strings.TrimSpace(value))
	if err != nil {
		return "", false
	}
	return parsed.Format(TimeOfDayLayout), true
}

// IsDue indica se a definição corresponde exatamente ao slot (granularidade de minuto)
func (r *ReportDefinition) IsDue(slot Slot) bool {
	if !r.Active {
		return false
	}

	weekday, ok := NormalizeWeekday(r.Weekday)
	if !ok || weekday != slot.Weekday {
		return false
	}

	timeOfDay, ok := NormalizeTimeOfDay(r.TimeOfDay)
	return ok && timeOfDay == slot.TimeOfDay
}
