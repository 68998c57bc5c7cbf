package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/VarunShelke/accessible-med-tracker/internal/model"
	"github.com/VarunShelke/accessible-med-tracker/internal/repository"
	"github.com/VarunShelke/accessible-med-tracker/internal/worker"

	"github.com/rs/zerolog/log"
)

// monitorThreshold is the legacy scheduled-scan threshold. Fixed per
// deployment, intentionally separate from the configurable report threshold.
const monitorThreshold = 10

// AlertPublisher fans the one-line summary out to the messaging channel.
type AlertPublisher interface {
	Publish(ctx context.Context, message string) error
}

// EmailEnqueuer hands the rendered alert to the async email worker.
type EmailEnqueuer interface {
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// MonitorService is the scheduled low-stock sweep: scan, sort, fan out.
// Both notification channels are best-effort and independent; the sweep
// itself succeeds with a count as long as the scan succeeds.
type MonitorService interface {
	Run(ctx context.Context) (int, error)
}

type monitorService struct {
	repo       repository.InventoryRepository
	publisher  AlertPublisher
	emails     EmailEnqueuer
	recipients []string
}

func NewMonitorService(repo repository.InventoryRepository, publisher AlertPublisher, emails EmailEnqueuer, recipients []string) MonitorService {
	return &monitorService{repo: repo, publisher: publisher, emails: emails, recipients: recipients}
}

func (s *monitorService) Run(ctx context.Context) (int, error) {
	items, err := s.repo.ListBelowQuantity(ctx, monitorThreshold)
	if err != nil {
		return 0, err
	}

	if len(items) == 0 {
		log.Info().Msg("monitor: no low stock items found")
		return 0, nil
	}

	names := make([]string, len(items))
	for i := range items {
		names[i] = items[i].ItemName
	}
	summary := fmt.Sprintf("%d items are low in stock: %s", len(items), strings.Join(names, ", "))

	if err := s.publisher.Publish(ctx, summary); err != nil {
		log.Error().Err(err).Msg("monitor: alert publish failed")
	}

	if len(s.recipients) > 0 {
		payload := worker.EmailJobPayload{
			To:       s.recipients,
			Subject:  fmt.Sprintf("Low Stock Alert - %d Items Need Restocking", len(items)),
			TextBody: renderAlertText(items),
			HTMLBody: renderAlertHTML(items),
		}
		if err := s.emails.EnqueueEmail(ctx, payload); err != nil {
			log.Error().Err(err).Msg("monitor: email enqueue failed")
		}
	}

	log.Info().Int("count", len(items)).Msg("monitor: low stock notifications sent")
	return len(items), nil
}

// ── Rendering ────────────────────────────────────────────────────────────────

func renderAlertText(items []model.InventoryItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Low Stock Alert\n\n%d items are currently low in stock:\n\n", len(items))

	for i := range items {
		item := &items[i]
		supplier := supplierLine(item)
		if supplier != "" {
			supplier = fmt.Sprintf(" (Supplier: %s)", supplier)
		}
		fmt.Fprintf(&b, "- %s: %d remaining%s\n", item.ItemName, item.Quantity, supplier)
	}

	b.WriteString("\nPlease restock these items as soon as possible.\n\nThis is an automated alert from your Medical Inventory Tracker system.")
	return b.String()
}

func renderAlertHTML(items []model.InventoryItem) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Low Stock Alert</title></head>
<body style="font-family: Arial, sans-serif; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
<header style="background-color: #d32f2f; color: white; padding: 20px; text-align: center;">
<h1 style="margin: 0;">Low Stock Alert</h1>
</header>
<main>
`)
	fmt.Fprintf(&b, "<p><strong>%d items</strong> are currently low in stock and require immediate attention.</p>\n", len(items))
	b.WriteString(`<table style="width: 100%; border-collapse: collapse;" role="table" aria-label="Low stock items">
<thead><tr>
<th style="border: 1px solid #ddd; padding: 12px; text-align: left;">Item Name</th>
<th style="border: 1px solid #ddd; padding: 12px; text-align: center;">Current Stock</th>
<th style="border: 1px solid #ddd; padding: 12px; text-align: left;">Supplier</th>
</tr></thead>
<tbody>
`)

	for i := range items {
		item := &items[i]
		supplier := ""
		if item.SupplierName != nil {
			supplier = *item.SupplierName
		}
		if item.SupplierPhone != nil && *item.SupplierPhone != "" {
			link := fmt.Sprintf(`<a href="tel:%s" style="color: #1976d2;">%s</a>`,
				*item.SupplierPhone, FormatPhoneNumber(*item.SupplierPhone))
			if supplier != "" {
				supplier += "<br>" + link
			} else {
				supplier = link
			}
		}
		fmt.Fprintf(&b, `<tr>
<td style="border: 1px solid #ddd; padding: 12px;">%s</td>
<td style="border: 1px solid #ddd; padding: 12px; text-align: center; color: #d32f2f;">%d</td>
<td style="border: 1px solid #ddd; padding: 12px;">%s</td>
</tr>
`, item.ItemName, item.Quantity, supplier)
	}

	b.WriteString(`</tbody>
</table>
<p style="color: #666;">Please restock these items as soon as possible to avoid service disruption.</p>
</main>
<footer style="border-top: 1px solid #ddd; padding-top: 20px; font-size: 12px; color: #666;">
<p>This is an automated alert from your Medical Inventory Tracker system.</p>
</footer>
</body>
</html>`)
	return b.String()
}

func supplierLine(item *model.InventoryItem) string {
	var parts []string
	if item.SupplierName != nil && *item.SupplierName != "" {
		parts = append(parts, *item.SupplierName)
	}
	if item.SupplierPhone != nil && *item.SupplierPhone != "" {
		parts = append(parts, FormatPhoneNumber(*item.SupplierPhone))
	}
	return strings.Join(parts, " - ")
}

// FormatPhoneNumber renders an E.164 number for human eyes. US/Canada numbers
// get the familiar +1 (XXX) XXX-XXXX shape; other countries get a generic
// 2-digit country code with 3-digit grouping; anything unrecognizable is
// passed through verbatim.
func FormatPhoneNumber(phone string) string {
	if phone == "" {
		return phone
	}

	if strings.HasPrefix(phone, "+1") && len(phone) == 12 {
		return fmt.Sprintf("+1 (%s) %s-%s", phone[2:5], phone[5:8], phone[8:])
	}

	clean := strings.TrimPrefix(phone, "+")
	if len(clean) >= 10 {
		return fmt.Sprintf("+%s %s %s %s", clean[:2], clean[2:5], clean[5:8], clean[8:])
	}

	return phone
}
