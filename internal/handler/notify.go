package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/myggens/vagtplan/backend/internal/domain"
)

// NotificationQueue is the queue cmd/notify consumes from.
const NotificationQueue = "admin_notifications"

const (
	NotificationNewSignup      = "new_signup"
	NotificationReleaseRequest = "release_request"
	NotificationExtraShift     = "extra_shift"
)

// publishNotification hands an event to the notification worker. Delivery is
// best-effort: the mutation that triggered it has already committed, so a
// broker hiccup must not fail the request.
func (h *Handler) publishNotification(r *http.Request, msgType string, data any) {
	if h.notifyChannel == nil {
		return
	}

	body, err := json.Marshal(domain.NotificationMessage{Type: msgType, Data: data})
	if err != nil {
		h.logInternalServerError(r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.notifyChannel.PublishWithContext(
		ctx,
		"",
		NotificationQueue,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Warn("could not publish notification", "type", msgType, "path", r.URL.Path, "error", err)
	}
}
