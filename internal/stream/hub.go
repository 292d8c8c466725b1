package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	channelPrefix  = "notifications:"
	channelSuffix  = ":broadcast"
	channelPattern = channelPrefix + "*" + channelSuffix
)

// Hub fans notification payloads out to websocket clients keyed by recipient
// username. With redis, every broadcast goes through pub/sub so clients
// connected to other instances receive it too.
type Hub struct {
	redis   *redis.Client
	pubsub  *redis.PubSub
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	Key  string
	Send chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		pubsub := redisClient.PSubscribe(context.Background(), channelPattern)
		if _, err := pubsub.Receive(ctx); err != nil {
			log.WithError(err).Warn("redis subscribe failed, notifications stay local to this instance")
			_ = pubsub.Close()
			return h
		}
		h.redis = redisClient
		h.pubsub = pubsub
		go h.forward(pubsub.Channel())
	}
	return h
}

func (h *Hub) Register(key string) *Client {
	client := &Client{
		Key:  key,
		Send: make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[key] == nil {
		h.clients[key] = map[*Client]struct{}{}
	}
	h.clients[key][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if keyClients, ok := h.clients[client.Key]; ok {
		if _, registered := keyClients[client]; !registered {
			return
		}
		delete(keyClients, client)
		if len(keyClients) == 0 {
			delete(h.clients, client.Key)
		}
		close(client.Send)
	}
}

func (h *Hub) ClientCount(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[key])
}

func (h *Hub) Broadcast(key string, payload []byte) {
	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(key), payload).Err()
		if err == nil {
			return
		}
		log.WithError(err).WithField("key", key).Warn("redis publish failed, delivering locally")
	}
	h.deliver(key, payload)
}

// Close stops the redis subscription.
func (h *Hub) Close() error {
	if h.pubsub == nil {
		return nil
	}
	return h.pubsub.Close()
}

func (h *Hub) deliver(key string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[key] {
		select {
		case client.Send <- payload:
		default:
			// slow consumer, drop
		}
	}
}

func (h *Hub) forward(messages <-chan *redis.Message) {
	for msg := range messages {
		key := keyFromChannel(msg.Channel)
		if key == "" {
			continue
		}
		h.deliver(key, []byte(msg.Payload))
	}
}

func redisChannel(key string) string {
	return channelPrefix + key + channelSuffix
}

// notifications:{key}:broadcast
func keyFromChannel(ch string) string {
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	if !strings.HasPrefix(ch, channelPrefix) || !strings.HasSuffix(ch, channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
