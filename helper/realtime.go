package helper

import (
	"asaan_shaadi/config"
	"asaan_shaadi/logger"
	"asaan_shaadi/model"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const notificationChannelPrefix = "notifications:"

var redisClient *redis.Client

// InitRedis connects to REDIS_ADDR. An empty address leaves Redis disabled.
func InitRedis(ctx context.Context) (*redis.Client, error) {
	addr := config.Config("REDIS_ADDR")
	if addr == "" {
		logger.L().Info("redis not configured, using in-process notifications without cache")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: config.Config("REDIS_PASSWORD"),
		DB:       config.Int("REDIS_DB"),
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	redisClient = client
	return client, nil
}

func Redis() *redis.Client {
	return redisClient
}

func SetRedis(client *redis.Client) {
	redisClient = client
}

func CloseRedis() {
	if redisClient != nil {
		redisClient.Close()
		redisClient = nil
	}
}

// NotificationHub fans out payloads to the websocket connections of each user.
type NotificationHub struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{subs: make(map[string]map[chan []byte]struct{})}
}

var Notifications = NewNotificationHub()

// Subscribe registers a receiver for userID. The returned func unregisters it.
func (h *NotificationHub) Subscribe(userID string) (<-chan []byte, func()) {
	ch := make(chan []byte, 16)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan []byte]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

// Deliver sends payload to every receiver of userID. Slow receivers miss the message.
func (h *NotificationHub) Deliver(userID string, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for ch := range h.subs[userID] {
		select {
		case ch <- payload:
			delivered++
		default:
			logger.L().Warn("dropping notification for slow client", zap.String("userId", userID))
		}
	}
	return delivered
}

func (h *NotificationHub) Subscribers(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[userID])
}

// PublishNotification routes an event through Redis when available so every
// instance sees it, otherwise straight to the local hub.
func PublishNotification(ctx context.Context, userID string, event model.NotificationEvent) {
	if userID == "" {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.L().Error("marshal notification", zap.Error(err))
		return
	}

	if redisClient != nil {
		err := redisClient.Publish(ctx, notificationChannelPrefix+userID, payload).Err()
		if err == nil {
			return
		}
		logger.L().Warn("redis publish failed, delivering locally", zap.String("userId", userID), zap.Error(err))
	}
	Notifications.Deliver(userID, payload)
}

// StartNotificationRelay forwards Redis notification messages to the local hub until ctx ends.
func StartNotificationRelay(ctx context.Context) {
	if redisClient == nil {
		return
	}
	pubsub := redisClient.PSubscribe(ctx, notificationChannelPrefix+"*")

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				userID := strings.TrimPrefix(msg.Channel, notificationChannelPrefix)
				Notifications.Deliver(userID, []byte(msg.Payload))
			}
		}
	}()
	logger.L().Info("notification relay started")
}
