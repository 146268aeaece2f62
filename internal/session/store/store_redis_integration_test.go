//go:build integration

package store_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"kioskgate/internal/session"
	"kioskgate/internal/session/store"
	id "kioskgate/pkg/domain"
	dErrors "kioskgate/pkg/domain-errors"
	"kioskgate/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *store.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = store.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestCreateEndRoundTrip() {
	ctx := context.Background()
	device := id.DeviceID("bus-14")

	created, err := s.store.TryCreateActive(ctx, device, "op-1", id.SessionTypeBus)
	s.Require().NoError(err)
	s.Equal(session.StatusActive, created.Status)

	got, err := s.store.GetActive(ctx, device)
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
	s.Equal(id.IdentityID("op-1"), got.IdentityID)

	ended, err := s.store.EndActive(ctx, device)
	s.Require().NoError(err)
	s.Equal(session.StatusEnded, ended.Status)
	s.False(ended.EndedAt.IsZero())

	_, err = s.store.GetActive(ctx, device)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// TestConcurrentCreateIsCompareAndSet verifies SETNX gives exactly one winner
// when many processes race to sign in on the same device.
func (s *RedisStoreSuite) TestConcurrentCreateIsCompareAndSet() {
	ctx := context.Background()
	const goroutines = 20

	var wg sync.WaitGroup
	var wins, conflicts, other atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.TryCreateActive(ctx, "gate-1", "op-1", id.SessionTypeGate)
			switch {
			case err == nil:
				wins.Add(1)
			case dErrors.HasCode(err, dErrors.CodeDeviceInUse):
				conflicts.Add(1)
			default:
				other.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
	s.Equal(int32(0), other.Load())
}

func (s *RedisStoreSuite) TestEndWithoutActiveSession() {
	_, err := s.store.EndActive(context.Background(), "bus-9")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// TestSessionSurvivesProcessRestart simulates a crashed kiosk process by
// building a fresh store against the same redis: the active session must
// still be visible, so a second login attempt conflicts.
func (s *RedisStoreSuite) TestSessionSurvivesProcessRestart() {
	ctx := context.Background()
	_, err := s.store.TryCreateActive(ctx, "bus-2", "op-1", id.SessionTypeBus)
	s.Require().NoError(err)

	restarted := store.NewRedisStore(s.redis.Client)
	got, err := restarted.GetActive(ctx, "bus-2")
	s.Require().NoError(err)
	s.Equal(id.IdentityID("op-1"), got.IdentityID)

	_, err = restarted.TryCreateActive(ctx, "bus-2", "op-2", id.SessionTypeBus)
	s.True(dErrors.HasCode(err, dErrors.CodeDeviceInUse))
}
