package ratelimit_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fieldops/apigate/pkg/domain"
	"github.com/fieldops/apigate/pkg/ratelimit"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore_IncrSetsExpiryInOneTransaction(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := ratelimit.NewRedisStore(db)

	key := "ratelimit:api:ip:203.0.113.9:1740730500000"
	resetAt := time.Date(2026, 8, 1, 10, 1, 0, 0, time.UTC)

	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetVal(4)
	mock.ExpectPExpireAt(key, resetAt).SetVal(true)
	mock.ExpectTxPipelineExec()

	count, err := store.Incr(context.Background(), key, resetAt)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_IncrFailureIsStoreUnavailable(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := ratelimit.NewRedisStore(db)

	key := "ratelimit:api:ip:203.0.113.9:1740730500000"
	resetAt := time.Date(2026, 8, 1, 10, 1, 0, 0, time.UTC)

	mock.ExpectTxPipeline()
	mock.ExpectIncr(key).SetErr(errors.New("connection refused"))

	_, err := store.Incr(context.Background(), key, resetAt)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}
