package job

import (
	"context"
	"errors"
	"testing"

	"inkdrop-backend/internal/domains/migration"
	types "inkdrop-backend/internal/shared"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
)

type stubBackfiller struct {
	calls int
	err   error
}

func (s *stubBackfiller) BackfillSizes(context.Context) (*migration.BackfillReport, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &migration.BackfillReport{Scanned: 3, Updated: 2}, nil
}

func TestBackfillSizesHandler(t *testing.T) {
	task := asynq.NewTask(types.TypeBackfillBookSizes, nil)

	ok := &stubBackfiller{}
	assert.NoError(t, NewBackfillSizesHandler(ok).ProcessTask(context.Background(), task))
	assert.Equal(t, 1, ok.calls)

	failing := &stubBackfiller{err: errors.New("db down")}
	err := NewBackfillSizesHandler(failing).ProcessTask(context.Background(), task)
	assert.ErrorContains(t, err, "db down")
}
