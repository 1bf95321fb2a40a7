package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/deskops/servicedesk/internal/events"
	"github.com/deskops/servicedesk/internal/persistence"
)

// Channel names consumed by the realtime gateway: one firehose, one per
// ticket room.
const (
	notifyChannelAll    = "tickets"
	notifyChannelTicket = "ticket:%d"
)

// NotificationService relays domain events to Redis pub/sub for the
// realtime gateway. Fire-and-forget, at most once: a failed publish is
// logged and dropped, never retried and never surfaced to the request.
type NotificationService struct {
	dispatcher events.Dispatcher
	redis      *persistence.Redis
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, redis *persistence.Redis, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		redis:      redis,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to every ticket lifecycle event.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketRated,
		events.EventCommentAdded,
	} {
		n.dispatcher.Subscribe(eventType, n.relay)
	}
}

func (n *NotificationService) relay(ctx context.Context, event events.Event) error {
	if n.redis == nil || n.redis.Client == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Warn("marshal notification", zap.Error(err))
		return nil
	}

	for _, channel := range []string{notifyChannelAll, fmt.Sprintf(notifyChannelTicket, event.TicketID)} {
		if err := n.redis.Client.Publish(ctx, channel, payload).Err(); err != nil {
			n.logger.Warn("publish notification",
				zap.String("channel", channel),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}
	return nil
}
