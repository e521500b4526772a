//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"clicker/internal/auth"
	"clicker/internal/auth/store"
	"clicker/pkg/domain"
	"clicker/pkg/platform/sentinel"
	"clicker/pkg/testutil/containers"
)

type RedisLoginStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	now   time.Time
	store *store.Redis
}

func TestRedisLoginStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLoginStoreSuite))
}

func (s *RedisLoginStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.now = time.Now()
	s.store = store.NewRedis(s.redis.Client, "gate-1", store.WithRedisClock(func() time.Time { return s.now }))
}

func (s *RedisLoginStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisLoginStoreSuite) TestRoundTripExpiresWithSession() {
	ctx := context.Background()
	clickerID := domain.ClickerID(uuid.New())
	record := auth.Record{
		Session: domain.Session{Token: "tok", ExpiresAt: s.now.Add(10 * time.Minute).UTC().Truncate(time.Second)},
		Binding: domain.ClickerBinding{ClickerID: clickerID, Username: "alice"},
	}

	s.Require().NoError(s.store.Save(ctx, record))

	loaded, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.Equal(record.Session.Token, loaded.Session.Token)
	s.True(record.Session.ExpiresAt.Equal(loaded.Session.ExpiresAt))
	s.Equal(record.Binding, loaded.Binding)

	ttl, err := s.redis.Client.TTL(ctx, "clicker:login:gate-1").Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, 10*time.Minute)
}

func (s *RedisLoginStoreSuite) TestUnboundSessionRoundTrip() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, auth.Record{
		Session: domain.Session{Token: "tok", ExpiresAt: s.now.Add(time.Minute)},
	}))

	loaded, err := s.store.Load(ctx)
	s.Require().NoError(err)
	s.True(loaded.Binding.ClickerID.IsNil())
}

func (s *RedisLoginStoreSuite) TestClear() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, auth.Record{
		Session: domain.Session{Token: "tok", ExpiresAt: s.now.Add(time.Minute)},
	}))
	s.Require().NoError(s.store.Clear(ctx))

	_, err := s.store.Load(ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
