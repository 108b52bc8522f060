package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds the settings for the Redis backend.
type RedisConfig struct {
	URL     string
	Prefix  string
	Channel string
}

// changeMessage is published on the change channel.
type changeMessage struct {
	Origin  string `json:"origin"`
	Key     string `json:"key"`
	Removed bool   `json:"removed"`
}

// redisStore shares keys between clients and relays their changes.
type redisStore struct {
	client  *redis.Client
	pubsub  *redis.PubSub
	prefix  string
	channel string
	origin  string
	bus     *Bus
	cancel  context.CancelFunc
	done    chan struct{}
	logger  zerolog.Logger
	closeMu sync.Once
}

// NewRedisStore connects to Redis, verifies connectivity and starts relaying
// change notifications published by other clients.
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger zerolog.Logger) (Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("redis url is required")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: ping redis: %v", ErrStorage, err)
	}

	channel := cfg.Channel
	if channel == "" {
		channel = "storefront:storage"
	}

	pubsub := client.Subscribe(ctx, channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		client.Close()
		return nil, fmt.Errorf("%w: subscribe %s: %v", ErrStorage, channel, err)
	}

	listenCtx, cancel := context.WithCancel(context.Background())
	s := &redisStore{
		client:  client,
		pubsub:  pubsub,
		prefix:  cfg.Prefix,
		channel: channel,
		origin:  uuid.NewString(),
		bus:     NewBus(),
		cancel:  cancel,
		done:    make(chan struct{}),
		logger:  logger.With().Str("component", "redis-storage").Logger(),
	}

	go s.listen(listenCtx)

	s.logger.Info().
		Str("channel", channel).
		Str("origin", s.origin).
		Msg("redis storage connected")

	return s, nil
}

func (s *redisStore) key(k string) string {
	if s.prefix == "" {
		return k
	}
	return s.prefix + ":" + k
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: get %s: %v", ErrStorage, key, err)
	}
	return v, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("%w: set %s: %v", ErrStorage, key, err)
	}
	s.announce(ctx, Change{Key: key})
	return nil
}

func (s *redisStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	cmds := make([]*redis.IntCmd, len(keys))
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pipe.Del(ctx, s.key(k))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: remove %v: %v", ErrStorage, keys, err)
	}

	for i, cmd := range cmds {
		if cmd.Val() > 0 {
			s.announce(ctx, Change{Key: keys[i], Removed: true})
		}
	}
	return nil
}

func (s *redisStore) Subscribe(fn func(Change)) func() {
	return s.bus.Subscribe(fn)
}

func (s *redisStore) Close() error {
	var err error
	s.closeMu.Do(func() {
		s.cancel()
		if cerr := s.pubsub.Close(); cerr != nil {
			err = cerr
		}
		<-s.done
		if cerr := s.client.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}

// announce publishes locally and to other clients.
func (s *redisStore) announce(ctx context.Context, c Change) {
	s.bus.Publish(c)

	payload, err := json.Marshal(changeMessage{Origin: s.origin, Key: c.Key, Removed: c.Removed})
	if err != nil {
		s.logger.Error().Err(err).Str("key", c.Key).Msg("failed to encode change message")
		return
	}
	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		// Local state is already updated; other clients will catch up on
		// their next read.
		s.logger.Warn().Err(err).Str("key", c.Key).Msg("failed to publish change")
	}
}

func (s *redisStore) listen(ctx context.Context) {
	defer close(s.done)

	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var m changeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				s.logger.Warn().Err(err).Msg("ignoring malformed change message")
				continue
			}
			if m.Origin == s.origin {
				continue
			}
			s.bus.Publish(Change{Key: m.Key, Removed: m.Removed, Remote: true})
		}
	}
}
