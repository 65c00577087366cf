package orders

import (
	"encoding/json"
	"fmt"
	"time"
)

// NewCreatedEvent describes a stored order, carrying its priced lines.
func NewCreatedEvent(orderID string, lines []Line, total float64, now time.Time) CreatedEvent {
	return CreatedEvent{
		Type:      EventTypeCreated,
		OrderID:   orderID,
		Total:     total,
		ItemCount: len(lines),
		Items:     lines,
		CreatedAt: now.UTC(),
	}
}

// Body renders the event as a JSON message body.
func (e CreatedEvent) Body() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("marshal order event: %w", err)
	}
	return string(b), nil
}

// Attributes are the message attributes sent alongside the body.
func (e CreatedEvent) Attributes(correlationID string) map[string]string {
	return map[string]string{
		"event_type":     e.Type,
		"order_id":       e.OrderID,
		"correlation_id": correlationID,
	}
}
