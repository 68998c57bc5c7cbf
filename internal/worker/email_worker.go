package worker

// Processes alert-email jobs from QueueEmail. Delivery is best-effort: a
// failed send is logged and parked in the DLQ, never retried inline and
// never surfaced to whatever enqueued the job.

import (
	"context"
	"encoding/json"

	"github.com/VarunShelke/accessible-med-tracker/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To       []string `json:"to"`
	Subject  string   `json:"subject"`
	TextBody string   `json:"text_body"`
	HTMLBody string   `json:"html_body"`
}

// EmailWorker sends rendered low-stock alerts via SMTP.
type EmailWorker struct {
	mailer *infra.Mailer
	rdb    *redis.Client
}

func NewEmailWorker(mailer *infra.Mailer, rdb *redis.Client) *EmailWorker {
	return &EmailWorker{mailer: mailer, rdb: rdb}
}

// Process delivers one alert email.
func (w *EmailWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return
	}
	if len(payload.To) == 0 {
		log.Warn().Msg("email_worker: empty recipient list — skipping")
		return
	}

	if err := w.mailer.SendAlert(payload.To, payload.Subject, payload.TextBody, payload.HTMLBody); err != nil {
		log.Error().Err(err).Strs("to", payload.To).Msg("email_worker: failed to send alert")
		SendToDLQ(ctx, w.rdb, QueueEmail, "email", raw, err.Error(), 1)
		return
	}
	log.Info().Int("recipients", len(payload.To)).Msg("email_worker: alert sent")
}
