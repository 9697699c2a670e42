package ws

import (
	"context"
	"encoding/json"
	"time"

	"jdmatch/internal/domain/jobdescription"
	"jdmatch/internal/pkg/logger"
)

// ChangeMessage is the wire form of a job description change.
type ChangeMessage struct {
	Type      string `json:"type"`
	UserID    string `json:"userId"`
	JobID     string `json:"jobId"`
	Timestamp string `json:"timestamp"`
}

// Notifier publishes job description changes through a Hub.
type Notifier struct {
	hub *Hub
	log logger.Logger
}

func NewNotifier(hub *Hub, log logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{hub: hub, log: log.Named("ws")}
}

func (n *Notifier) Publish(ctx context.Context, ev jobdescription.ChangeEvent) {
	if n == nil || n.hub == nil || ev.UserID == "" {
		return
	}

	b, err := json.Marshal(ChangeMessage{
		Type:      string(ev.Type),
		UserID:    ev.UserID,
		JobID:     ev.JobID.String(),
		Timestamp: ev.Timestamp.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		n.log.Warn(ctx, "encode change event failed", logger.Error(err))
		return
	}

	n.hub.Broadcast(ev.UserID, b)
}
