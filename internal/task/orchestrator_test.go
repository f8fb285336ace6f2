package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	seekerr "github.com/docuseek/docuseek/internal/errors"
)

func TestOrchestrator_SubmitAndReceive(t *testing.T) {
	o := New(4)

	err := o.Submit(context.Background(), KindSearch, func(ctx context.Context) (any, error) {
		return 42, nil
	})
	require.NoError(t, err)

	out, err := o.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindSearch, out.Kind)
	assert.Equal(t, 42, out.Payload)
	assert.NoError(t, out.Err)
}

func TestOrchestrator_RejectsDuplicateKind(t *testing.T) {
	o := New(4)
	release := make(chan struct{})

	err := o.Submit(context.Background(), KindScan, func(ctx context.Context) (any, error) {
		<-release
		return "done", nil
	})
	require.NoError(t, err)

	// A second scan while the first runs is rejected with a busy error.
	err = o.Submit(context.Background(), KindScan, func(ctx context.Context) (any, error) {
		return nil, nil
	})
	require.Error(t, err)
	assert.Equal(t, seekerr.ErrCodeTaskBusy, seekerr.GetCode(err))

	// The rejection must not disturb the running task.
	close(release)
	out, err := o.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, KindScan, out.Kind)
	assert.Equal(t, "done", out.Payload)
	assert.NoError(t, out.Err)

	// And the kind frees up once the first invocation completes.
	o.Wait()
	err = o.Submit(context.Background(), KindScan, func(ctx context.Context) (any, error) {
		return nil, nil
	})
	assert.NoError(t, err)
	o.Wait()
}

func TestOrchestrator_DifferentKindsRunConcurrently(t *testing.T) {
	o := New(4)
	release := make(chan struct{})

	err := o.Submit(context.Background(), KindScan, func(ctx context.Context) (any, error) {
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	err = o.Submit(context.Background(), KindImport, func(ctx context.Context) (any, error) {
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	assert.True(t, o.Running(KindScan))
	assert.True(t, o.Running(KindImport))
	close(release)
	o.Wait()
	assert.False(t, o.Running(KindScan))
	assert.False(t, o.Running(KindImport))
}

func TestOrchestrator_OutcomesAreFIFO(t *testing.T) {
	o := New(8)
	first := make(chan struct{})

	err := o.Submit(context.Background(), KindScan, func(ctx context.Context) (any, error) {
		return "scan", nil
	})
	require.NoError(t, err)
	out, err := o.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "scan", out.Payload)

	err = o.Submit(context.Background(), KindImport, func(ctx context.Context) (any, error) {
		close(first)
		return "import", nil
	})
	require.NoError(t, err)
	<-first
	o.Wait()

	err = o.Submit(context.Background(), KindSearch, func(ctx context.Context) (any, error) {
		return "search", nil
	})
	require.NoError(t, err)
	o.Wait()

	out, err = o.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "import", out.Payload)
	out, err = o.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "search", out.Payload)
}

func TestOrchestrator_TryRecvDoesNotBlock(t *testing.T) {
	o := New(4)

	_, ok := o.TryRecv()
	assert.False(t, ok)

	err := o.Submit(context.Background(), KindClear, func(ctx context.Context) (any, error) {
		return nil, nil
	})
	require.NoError(t, err)
	o.Wait()

	out, ok := o.TryRecv()
	require.True(t, ok)
	assert.Equal(t, KindClear, out.Kind)

	_, ok = o.TryRecv()
	assert.False(t, ok)
}

func TestOrchestrator_DeliversTaskError(t *testing.T) {
	o := New(4)
	boom := errors.New("scan exploded")

	err := o.Submit(context.Background(), KindScan, func(ctx context.Context) (any, error) {
		return nil, boom
	})
	require.NoError(t, err)

	out, err := o.Recv(context.Background())
	require.NoError(t, err)
	assert.ErrorIs(t, out.Err, boom)
}

func TestOrchestrator_RecvHonorsContext(t *testing.T) {
	o := New(4)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := o.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestOrchestrator_FullQueueDropsOldest(t *testing.T) {
	o := New(1)

	for i := 0; i < 3; i++ {
		payload := i
		err := o.Submit(context.Background(), KindSearch, func(ctx context.Context) (any, error) {
			return payload, nil
		})
		require.NoError(t, err)
		o.Wait()
	}

	out, ok := o.TryRecv()
	require.True(t, ok)
	assert.Equal(t, 2, out.Payload)
	_, ok = o.TryRecv()
	assert.False(t, ok)
}
