package net

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	c := NewClient(0)
	require.NotNil(t, c)
	assert.Equal(t, TimeoutDefault, c.Timeout)

	c = NewClient(2 * time.Second)
	assert.Equal(t, 2*time.Second, c.Timeout)
}

func TestLogResponse_Nil(t *testing.T) {
	// should not panic
	logResponse(context.Background(), nil)
}
