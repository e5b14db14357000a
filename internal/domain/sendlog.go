package domain

import "time"

type SendLogStatus string

const (
	SendLogStatusPending SendLogStatus = "pending"
	SendLogStatusSent    SendLogStatus = "sent"
)

// SendLogKey é a chave de idempotência de uma ocorrência de relatório
type SendLogKey struct {
	ReportID       string
	Weekday        string
	TimeOfDay      string
	OccurrenceDate string
}

func NewSendLogKey(reportID string, slot Slot) SendLogKey {
	return SendLogKey{
		ReportID:       reportID,
		Weekday:        slot.Weekday,
		TimeOfDay:      slot.TimeOfDay,
		OccurrenceDate: slot.OccurrenceDate,
	}
}

// SendLogEntry registra que uma ocorrência foi processada.
// RecipientCount conta tentativas de envio, não entregas confirmadas.
type SendLogEntry struct {
	ID             string        `json:"id"`
	ReportID       string        `json:"report_id"`
	TenantID       string        `json:"tenant_id"`
	Weekday        string        `json:"weekday"`
	TimeOfDay      string        `json:"time_of_day"`
	OccurrenceDate string        `json:"occurrence_date"`
	Status         SendLogStatus `json:"status"`
	SentAt         *time.Time    `json:"sent_at,omitempty"`
	RecipientCount int           `json:"recipient_count"`
	FailedCount    int           `json:"failed_count"`
	Message        string        `json:"message"`
	CreatedAt      time.Time     `json:"created_at"`
}

// DeliveryResult é o resultado do envio de um relatório para seus destinatários
type DeliveryResult struct {
	Message   string
	Attempted int
	Failed    int
	SentAt    time.Time
}
