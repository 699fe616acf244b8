package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/joao-fontenele/shopflow/internal/domain"
)

// ConfirmationHandler turns order-paid events into confirmation emails.
// Notification is best effort at the workflow level, but once an event made
// it onto the queue delivery failures bubble up so the consumer does not
// commit the offset and the event is retried.
type ConfirmationHandler struct {
	emailServiceURL string
	httpClient      *http.Client
	logger          *slog.Logger
}

func NewConfirmationHandler(emailServiceURL string, client *http.Client, logger *slog.Logger) *ConfirmationHandler {
	return &ConfirmationHandler{
		emailServiceURL: emailServiceURL,
		httpClient:      client,
		logger:          logger,
	}
}

func (h *ConfirmationHandler) Handle(ctx context.Context, payload []byte) error {
	var event domain.OrderPaidEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		// A malformed event will never parse; log and drop rather than wedge
		// the partition.
		h.logger.Error("dropping undecodable order paid event", "error", err)
		return nil
	}

	h.logger.Info("processing order paid event", "order_id", event.OrderID, "customer_id", event.CustomerID)

	if event.CustomerEmail == "" {
		h.logger.Error("order paid event has no recipient", "order_id", event.OrderID)
		return nil
	}

	if err := h.sendConfirmation(ctx, event); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	h.logger.Info("order confirmation sent", "order_id", event.OrderID, "to", event.CustomerEmail)
	return nil
}

func (h *ConfirmationHandler) sendConfirmation(ctx context.Context, event domain.OrderPaidEvent) error {
	body := map[string]string{
		"to":      event.CustomerEmail,
		"subject": "Order Confirmation: " + event.OrderID,
		"body": fmt.Sprintf("Your payment of %d was received for order %s (charge %s). %s",
			event.Total, event.OrderID, event.ChargeID, event.Description),
	}

	data, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.emailServiceURL+"/send", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("email service returned status %d", resp.StatusCode)
	}

	return nil
}
