package pix

import "time"

// WebhookEvent is a provider webhook reduced to what reconciliation needs.
// RequiresPoll marks providers whose webhook carries no final status; the
// reconciler must poll GetStatus before applying the event.
type WebhookEvent struct {
	Provider     string
	ExternalID   string
	Status       string
	PaidAt       *time.Time
	RequiresPoll bool
}

type webhookParser func(body []byte) *WebhookEvent

var webhookParsers = map[string]webhookParser{
	"mercadopago": ParseMercadoPagoWebhook,
	"pushinpay":   ParsePushinPayWebhook,
	"asaas":       ParseAsaasWebhook,
}

// ParseWebhook normalizes a provider's raw webhook body. It returns nil for
// malformed payloads and for events that are not payment notifications, so
// the route can acknowledge receipt without acting. It never panics and
// never returns an error: an unparseable webhook is simply not an event.
func ParseWebhook(provider string, body []byte) *WebhookEvent {
	parse, ok := webhookParsers[provider]
	if !ok {
		return nil
	}
	return parse(body)
}
