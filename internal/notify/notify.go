package notify

import (
	"context"
	"fmt"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/kafka"
)

// Sender delivers one notification event to a recipient. The real SMS and
// email providers sit behind this interface; both are out of scope here.
type Sender interface {
	Send(ctx context.Context, event kafka.NotificationEvent) error
}

type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(ctx context.Context, event kafka.NotificationEvent) error {
	target := event.RecipientID
	if event.Email != "" {
		target = event.Email
	}
	fmt.Printf("notify %s: %s (%s)\n", target, event.Message, event.Kind)
	return nil
}

var _ Sender = (*LogSender)(nil)
