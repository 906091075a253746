package storage

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestClient_CloseShutsDownPool(t *testing.T) {
	c := NewClient("localhost:0", "", 0)

	c.Close()

	// A closed pool rejects commands before dialing anything.
	err := c.Ping(context.Background()).Err()
	assert.ErrorIs(t, err, redis.ErrClosed)
}
