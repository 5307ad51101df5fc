package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Anirudh7090/collaborative-drawing-app-new/config"
)

// ErrRoomNotFound is returned when no metadata exists for a room id.
var ErrRoomNotFound = errors.New("room not found")

const roomTTL = 24 * time.Hour

// RoomMetadata is the persisted description of a room. The live websocket
// directories never consult it; it exists for the management API only.
type RoomMetadata struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	OwnerID     int64     `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	MaxUsers    int       `json:"maxUsers"`
}

// Store wraps the Redis connection used for room metadata and live peer
// presence sets.
type Store struct {
	client *redis.Client
}

// Connect opens and verifies the Redis connection.
func Connect(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// SaveRoom stores room metadata under its id with a TTL; stale rooms age
// out on their own.
func (s *Store) SaveRoom(ctx context.Context, room RoomMetadata) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to encode room: %w", err)
	}
	if err := s.client.Set(ctx, roomKey(room.ID), data, roomTTL).Err(); err != nil {
		return fmt.Errorf("failed to store room: %w", err)
	}
	return nil
}

// GetRoom loads room metadata by id.
func (s *Store) GetRoom(ctx context.Context, roomID string) (*RoomMetadata, error) {
	data, err := s.client.Get(ctx, roomKey(roomID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}
	var room RoomMetadata
	if err := json.Unmarshal([]byte(data), &room); err != nil {
		return nil, fmt.Errorf("failed to decode room: %w", err)
	}
	return &room, nil
}

// DeleteRoom removes room metadata and its presence set.
func (s *Store) DeleteRoom(ctx context.Context, roomID string) error {
	if err := s.client.Del(ctx, roomKey(roomID), peersKey(roomID)).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

// AddPeer records a live connection in the room's presence set.
func (s *Store) AddPeer(ctx context.Context, roomID, peerID string) error {
	if err := s.client.SAdd(ctx, peersKey(roomID), peerID).Err(); err != nil {
		return err
	}
	return s.client.Expire(ctx, peersKey(roomID), roomTTL).Err()
}

// RemovePeer drops a connection from the room's presence set.
func (s *Store) RemovePeer(ctx context.Context, roomID, peerID string) error {
	return s.client.SRem(ctx, peersKey(roomID), peerID).Err()
}

// CountPeers reports how many live connections the room has.
func (s *Store) CountPeers(ctx context.Context, roomID string) (int64, error) {
	return s.client.SCard(ctx, peersKey(roomID)).Result()
}

func roomKey(roomID string) string  { return "room:" + roomID }
func peersKey(roomID string) string { return "room:" + roomID + ":peers" }
