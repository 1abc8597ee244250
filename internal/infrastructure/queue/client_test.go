package queue

import (
	"context"
	"encoding/json"
	"testing"

	"inkdrop-backend/internal/shared"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsynqEnqueuerWritesPendingTask(t *testing.T) {
	mr := miniredis.RunT(t)
	opt := asynq.RedisClientOpt{Addr: mr.Addr()}

	client := asynq.NewClient(opt)
	defer client.Close()

	payload := shared.DeleteAssetPayload{BookID: "b1", Backend: "minio", Key: "pdfs/1-a", Kind: "raw"}
	err := NewAsynqEnqueuer(client).Enqueue(context.Background(), shared.TypeDeleteAsset, payload, asynq.Queue(shared.QueueCritical))
	require.NoError(t, err)

	inspector := asynq.NewInspector(opt)
	defer inspector.Close()

	tasks, err := inspector.ListPendingTasks(shared.QueueCritical)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, shared.TypeDeleteAsset, tasks[0].Type)

	var got shared.DeleteAssetPayload
	require.NoError(t, json.Unmarshal(tasks[0].Payload, &got))
	assert.Equal(t, payload, got)
}
