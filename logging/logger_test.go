package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestID(ctx))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestFromContextTagsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	FromContext(WithRequestID(context.Background(), "abc-123")).Infow("hello")

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["requestID"])
}

func TestNewNamesLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	New("workflow").Info("started")

	assert.Equal(t, "workflow", logs.All()[0].LoggerName)
}
