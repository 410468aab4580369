package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/basesweep/internal/adapters/telemetry"
	"go.trai.ch/basesweep/internal/core/domain"
)

func TestNoOp(t *testing.T) {
	tel := telemetry.NewNoOp()
	ctx := context.Background()

	got, v := tel.Record(ctx, "inspect /x/disk")
	assert.Equal(t, ctx, got)

	v.Log(domain.LogLevelInfo, "ignored")
	v.Complete(errors.New("ignored"))
	assert.NoError(t, tel.Close())
}
