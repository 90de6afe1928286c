package consumers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/stan.go"

	"ticketdesk/internal/config"
	"ticketdesk/internal/database"
	"ticketdesk/internal/messaging"
	"ticketdesk/internal/models"
	"ticketdesk/internal/repository"
)

const queueGroup = "ticketdesk-consumers"

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	handlers *Handlers
	subs     []stan.Subscription
}

func NewConsumerService(ctx context.Context, cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, err
	}

	natsCfg := cfg.NATS
	natsCfg.Enabled = true
	natsCfg.ClientID += "-consumers"
	natsClient, err := messaging.NewNATSClient(natsCfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	repos := repository.NewRepositories(db)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		handlers: NewHandlers(repos.Registrations),
	}, nil
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	subscriptions := []struct {
		subject string
		handler stan.MsgHandler
	}{
		{models.SubjectPaymentTracking, cs.handlers.HandlePaymentTracking},
		{models.SubjectRegistrationSubmitted, cs.handlers.HandleRegistrationSubmitted},
		{models.SubjectRegistrationClosed, cs.handlers.HandleRegistrationClosed},
	}

	for _, s := range subscriptions {
		sub, err := cs.nats.SubscribeQueue(s.subject, queueGroup, s.handler)
		if err != nil {
			return fmt.Errorf("failed to start consumer for %s: %w", s.subject, err)
		}
		cs.subs = append(cs.subs, sub)
	}

	slog.Info("All consumers started successfully", "count", len(cs.subs))
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	for _, sub := range cs.subs {
		if err := sub.Close(); err != nil {
			slog.Error("Error closing subscription", "error", err)
		}
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
