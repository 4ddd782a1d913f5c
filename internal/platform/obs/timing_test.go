package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTimeLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := context.WithValue(context.Background(), RequestIDKey, "abc")
	ctx = WithLogger(ctx, zap.New(core))

	err := errors.New("boom")
	Time(ctx, "routing.GetRoute")(&err)

	entries := logs.All()
	assert.Len(t, entries, 1)
	assert.Equal(t, "op failed", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "routing.GetRoute", fields["op"])
	assert.Equal(t, "abc", fields["req_id"])
	assert.Equal(t, "boom", fields["error"])
}

func TestTimeLogsSuccessAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	var err error
	Time(ctx, "shops.List")(&err)

	assert.Equal(t, 1, logs.FilterMessage("op done").Len())
}

func TestFromContextDefaultsToGlobal(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}
