package notification

import (
	"context"
	"fmt"

	"barangaylink/models"

	"firebase.google.com/go/v4/messaging"
)

// AlertsTopic is the FCM topic resident devices subscribe to for emergency
// broadcasts.
const AlertsTopic = "alerts"

// MessageSender is the subset of the FCM client the push service uses.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushService broadcasts emergency alerts to resident devices.
type PushService struct {
	Client MessageSender
}

// BroadcastAlert pushes a newly created alert to the alerts topic. Only
// critical and warning severities are pushed; informational alerts stay
// in-app.
func (s *PushService) BroadcastAlert(ctx context.Context, alert models.Alert) error {
	if s == nil || s.Client == nil {
		return nil
	}
	if alert.Severity == models.SeverityInfo {
		return nil
	}

	msg := &messaging.Message{
		Topic: AlertsTopic,
		Notification: &messaging.Notification{
			Title: alert.Title,
			Body:  alert.Message,
		},
		Data: map[string]string{
			"alertId":  alert.ID,
			"severity": alert.Severity,
		},
	}
	if alert.Severity == models.SeverityCritical {
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "emergency",
				Sound:     "default",
			},
		}
		msg.APNS = &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
		}
	}

	if _, err := s.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("push: broadcast alert %s: %w", alert.ID, err)
	}
	return nil
}
