package jobs

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

func TestEnqueueOverdueRefresh(t *testing.T) {
	mr := miniredis.RunT(t)

	client := NewClient(asynq.RedisClientOpt{Addr: mr.Addr()})
	defer func() { _ = client.Close() }()

	info, err := client.EnqueueOverdueRefresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, TaskOverdueRefresh, info.Type)
	require.Equal(t, QueueDefault, info.Queue)
}
