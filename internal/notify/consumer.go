package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/bronla/gateway/internal/model"
)

const reservationQueueName = "reservation.created"

// Notification is the payload pushed to owner consoles. It mirrors the
// shape the background worker renders: title/body plus the console URL to
// open on click.
type Notification struct {
	Title         string `json:"title"`
	Body          string `json:"body"`
	URL           string `json:"url"`
	Tag           string `json:"tag"`
	ReservationID int64  `json:"reservation_id"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}

// StartConsumer connects to the broker, declares the durable
// reservation.created queue and forwards each event to the hub room of
// its restaurant. It runs forever in a reconnect loop with capped
// backoff; malformed messages are rejected without requeue so a bad
// payload cannot wedge the queue.
func StartConsumer(url string, hub *Hub, log *zap.Logger) {
	if url == "" {
		log.Info("broker url empty, owner notification stream disabled")
		return
	}

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("broker dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, hub, log); err != nil {
			log.Warn("consume loop ended, reconnecting", zap.Error(err))
			time.Sleep(2 * time.Second)
		}
	}
}

// brokerConn is the slice of amqp.Connection the loop needs.
type brokerConn interface {
	Channel() (*amqp.Channel, error)
	Close() error
}

// consumeLoop pumps deliveries until the stream ends. It owns the
// connection and closes it on every return; a channel-level failure such
// as a rejected declare leaves the connection itself healthy, and without
// the close each reconnect would leak one.
func consumeLoop(conn brokerConn, hub *Hub, log *zap.Logger) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("set QoS failed", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(reservationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(reservationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleEvent(d.Body, hub); err != nil {
			log.Warn("dropping reservation event", zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleEvent(body []byte, hub *Hub) error {
	var ev model.ReservationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.RestaurantSlug == "" {
		return errors.New("event carries no restaurant slug")
	}

	place := ev.PlaceName
	if place == "" {
		place = "any table"
	}
	n := Notification{
		Title:         "New reservation",
		Body:          fmt.Sprintf("%s, %d guests, %s %s (%s)", ev.UserName, ev.GuestCount, ev.Date, ev.TimeFrom, place),
		URL:           "/owner/reservations",
		Tag:           fmt.Sprintf("reservation-%d", ev.ReservationID),
		ReservationID: ev.ReservationID,
		Status:        ev.Status,
		CreatedAt:     ev.CreatedAt,
	}
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	hub.Broadcast(ev.RestaurantSlug, data)
	return nil
}
