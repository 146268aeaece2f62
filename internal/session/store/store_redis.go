package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"kioskgate/internal/session"
	id "kioskgate/pkg/domain"
)

const (
	activeKeyPrefix  = "kioskgate:session:active:"
	historyKeyPrefix = "kioskgate:session:ended:"

	// historyTTL bounds how long ended sessions remain inspectable; the
	// attendance ledger, not redis, is the system of record.
	historyTTL = 7 * 24 * time.Hour
)

// RedisStore is the production session store. SETNX on the per-device active
// key gives the cross-process compare-and-set that the one-active-session
// invariant requires; EndActive uses WATCH so a concurrent end cannot race
// past a re-login.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func activeKey(deviceID id.DeviceID) string { return activeKeyPrefix + deviceID.String() }

func (s *RedisStore) TryCreateActive(ctx context.Context, deviceID id.DeviceID, identityID id.IdentityID, sessionType id.SessionType) (*session.DeviceSession, error) {
	sess := &session.DeviceSession{
		ID:          id.NewSessionID(),
		DeviceID:    deviceID,
		IdentityID:  identityID,
		SessionType: sessionType,
		Status:      session.StatusActive,
		StartedAt:   time.Now().UTC(),
	}
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	created, err := s.client.SetNX(ctx, activeKey(deviceID), payload, 0).Result()
	if err != nil {
		return nil, fmt.Errorf("create active session: %w", err)
	}
	if !created {
		return nil, ErrDeviceInUse
	}
	return sess, nil
}

func (s *RedisStore) EndActive(ctx context.Context, deviceID id.DeviceID) (*session.DeviceSession, error) {
	key := activeKey(deviceID)
	var ended *session.DeviceSession

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNoActiveSession
		}
		if err != nil {
			return fmt.Errorf("get active session: %w", err)
		}
		var sess session.DeviceSession
		if err := json.Unmarshal(payload, &sess); err != nil {
			return fmt.Errorf("unmarshal session: %w", err)
		}
		sess.Status = session.StatusEnded
		sess.EndedAt = time.Now().UTC()
		endedPayload, err := json.Marshal(&sess)
		if err != nil {
			return fmt.Errorf("marshal ended session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			pipe.Set(ctx, historyKeyPrefix+sess.ID.String(), endedPayload, historyTTL)
			return nil
		})
		if err != nil {
			return err
		}
		ended = &sess
		return nil
	}

	if err := s.client.Watch(ctx, txn, key); err != nil {
		return nil, err
	}
	return ended, nil
}

func (s *RedisStore) GetActive(ctx context.Context, deviceID id.DeviceID) (*session.DeviceSession, error) {
	payload, err := s.client.Get(ctx, activeKey(deviceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoActiveSession
	}
	if err != nil {
		return nil, fmt.Errorf("get active session: %w", err)
	}
	var sess session.DeviceSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &sess, nil
}
