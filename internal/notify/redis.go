package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

const eventsChannel = "bingo:notify:events"

// RedisBroker fans events out across instances via pub/sub. Each hub publishes
// here and delivers only what it receives back on the subscription, so a user
// connected to any instance sees the event exactly once.
type RedisBroker struct {
	rdb *redis.Client
}

type brokerMessage struct {
	UserID  int64           `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

func NewRedisBroker(addr, password string) *RedisBroker {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	log.Printf("Redis notification broker created (addr: %s)", addr)
	return &RedisBroker{rdb: rdb}
}

func (b *RedisBroker) Publish(userID int64, payload []byte) error {
	message, err := json.Marshal(brokerMessage{UserID: userID, Payload: payload})
	if err != nil {
		return err
	}
	return b.rdb.Publish(context.Background(), eventsChannel, message).Err()
}

func (b *RedisBroker) Subscribe(deliver func(userID int64, payload []byte)) {
	pubsub := b.rdb.Subscribe(context.Background(), eventsChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var message brokerMessage
		if err := json.Unmarshal([]byte(msg.Payload), &message); err != nil {
			log.Printf("notify: decode broker message: %v", err)
			continue
		}
		deliver(message.UserID, message.Payload)
	}
}
