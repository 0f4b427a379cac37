package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/wneessen/go-mail"

	"github.com/myggens/vagtplan/backend/internal/config"
	"github.com/myggens/vagtplan/backend/internal/domain"
	"github.com/myggens/vagtplan/backend/internal/handler"
)

// rawNotification defers decoding of the payload until the type is known.
type rawNotification struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func renderNotification(raw rawNotification) (subject string, body string, err error) {
	switch raw.Type {
	case handler.NotificationNewSignup:
		data := domain.SignupNotificationData{}
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Ny tilmelding: %s den %s", data.ShiftLocation, data.ShiftDate)
		body = fmt.Sprintf("%s (%s) har tilmeldt sig vagten på %s den %s og venter på godkendelse.",
			data.PersonName, data.Phone, data.ShiftLocation, data.ShiftDate)

	case handler.NotificationReleaseRequest:
		data := domain.ReleaseNotificationData{}
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Anmodning om fri: %s den %s", data.ShiftLocation, data.ShiftDate)
		body = fmt.Sprintf("%s (%s) vil gerne fritages fra vagten på %s den %s.",
			data.PersonName, data.Phone, data.ShiftLocation, data.ShiftDate)

	case handler.NotificationExtraShift:
		data := domain.ExtraShiftNotificationData{}
		if err := json.Unmarshal(raw.Data, &data); err != nil {
			return "", "", err
		}
		subject = fmt.Sprintf("Ekstravagt registreret: %s", data.Date)
		body = fmt.Sprintf("%s (%s) har registreret en ekstravagt den %s fra %s til %s (%.2f timer) og venter på godkendelse.",
			data.PersonName, data.Phone, data.Date, data.WorkStart, data.WorkEnd, data.WorkHours)

	default:
		return "", "", fmt.Errorf("unknown notification type %q", raw.Type)
	}

	return subject, body, nil
}

func main() {
	/**********************************************
	 * logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("could not load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("could not create the mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	dialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(dialCtx); err != nil {
		logger.Error("could not reach the mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("could not connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("could not open a rabbitmq channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		handler.NotificationQueue,
		true,  // durable
		false, // keep the queue around while no consumer is attached
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("could not declare the notification queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack, so failed sends can be requeued
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("could not start consuming", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("notification received", slog.String("message", string(msg.Body)))

				raw := rawNotification{}
				if err := json.Unmarshal(msg.Body, &raw); err != nil {
					logger.Error("could not decode notification", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				subject, body, err := renderNotification(raw)
				if err != nil {
					logger.Error("could not render notification", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				m := mail.NewMsg()
				if err := m.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("could not set the sender", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := m.To(cfg.Admin.NotificationEmail); err != nil {
					logger.Error("could not set the recipient", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				m.Subject(subject)
				m.SetBodyString(mail.TypeTextPlain, body)

				if err := client.DialAndSend(m); err != nil {
					logger.Error("could not send the notification mail", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue so the mail is not lost
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for notifications... (CTRL+C to exit)")
	<-sigChan

	slog.Info("shutting down notify worker...")
	cancel()
	wg.Wait()
	slog.Info("notify worker stopped")
}
