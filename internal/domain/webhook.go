package domain

// WebhookEvent is a verified platform webhook delivery
type WebhookEvent struct {
	Topic   string
	Shop    string
	Payload []byte
}
