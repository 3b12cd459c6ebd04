package mq

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"fitpass/db"
	"fitpass/models"
	"fitpass/rdx"
	"fitpass/utils"
)

const notifyChannel = "notify-events"

// Event is a fire-and-forget notification. Recipient is an email address or
// a selector like "gym:<id>".
type Event struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Recipient string `json:"recipient"`
}

// Emit publishes a notification event to Redis. Failures are logged and
// swallowed: a notification must never fail the operation that produced it.
func Emit(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Emit] marshal failed: %v", err)
		return
	}
	if err := rdx.Conn.Publish(context.Background(), notifyChannel, data).Err(); err != nil {
		log.Printf("[Emit] publish failed: %v", err)
	}
}

// StartNotificationWorker consumes notification events, persists them and
// attempts email delivery. Runs until the process exits.
func StartNotificationWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, notifyChannel)
	ch := sub.Channel()

	log.Println("[NotificationWorker] Listening for notification events...")

	for msg := range ch {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			log.Printf("[NotificationWorker] bad payload: %v", err)
			continue
		}

		notif := models.Notification{
			NotificationID: utils.GetUUID(),
			Title:          ev.Title,
			Body:           ev.Body,
			Recipient:      ev.Recipient,
			Event:          ev.Name,
			CreatedAt:      time.Now().UTC(),
		}

		if utils.IsValidEmail(ev.Recipient) {
			if err := SendEmail(ev.Recipient, ev.Title, ev.Body); err != nil {
				log.Printf("[NotificationWorker] email to %s failed: %v", ev.Recipient, err)
			} else {
				notif.Sent = true
			}
		}

		if _, err := db.NotificationsCollection.InsertOne(ctx, notif); err != nil {
			log.Printf("[NotificationWorker] persist failed: %v", err)
		}
	}
}
