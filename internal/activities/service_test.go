// internal/activities/service_test.go
package activities

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergington-activities/internal/audit"
	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/logger"
	"mergington-activities/internal/common/metrics"
)

type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *recordingSink) Record(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return s.err
}

// stallingSink blocks every Record until its context ends, like a backend
// that accepted the connection but never answers.
type stallingSink struct {
	mu sync.Mutex
	n  int
}

func (s *stallingSink) Record(ctx context.Context, _ audit.Event) error {
	s.mu.Lock()
	s.n++
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(10 * time.Second):
		return nil
	}
}

func (s *stallingSink) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.n
}

func newTestService(t *testing.T, sink audit.Sink) *Service {
	t.Helper()
	return NewService(ServiceDependencies{
		Directory: newTestDirectory(),
		Audit:     sink,
		Logger:    logger.NewTestLogger(t),
	})
}

func TestService_SignUpMessage(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.SignUp(context.Background(), "Chess Club", "newstudent@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Signed up newstudent@mergington.edu for Chess Club", resp.Message)
}

func TestService_UnregisterMessage(t *testing.T) {
	svc := newTestService(t, nil)

	resp, err := svc.Unregister(context.Background(), "Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Unregistered michael@mergington.edu from Chess Club", resp.Message)
	assert.NotContains(t, svc.List(context.Background())["Chess Club"].Participants, "michael@mergington.edu")
}

func TestService_RecordsAuditEvents(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, sink)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "Science Club", "temp@mergington.edu")
	require.NoError(t, err)
	_, err = svc.Unregister(ctx, "Science Club", "temp@mergington.edu")
	require.NoError(t, err)

	require.Len(t, sink.events, 2)
	assert.Equal(t, audit.EventSignup, sink.events[0].Type)
	assert.Equal(t, audit.EventUnregister, sink.events[1].Type)
	assert.Equal(t, "Science Club", sink.events[1].Activity)
	assert.Equal(t, "temp@mergington.edu", sink.events[1].Email)
	assert.NotEqual(t, sink.events[0].ID, sink.events[1].ID)
}

func TestService_RejectedOperationsAreNotAudited(t *testing.T) {
	sink := &recordingSink{}
	svc := newTestService(t, sink)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "Chess Club", "michael@mergington.edu")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAlreadySignedUp))

	_, err = svc.Unregister(ctx, "Chess Club", "nobody@mergington.edu")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeNotSignedUp))

	_, err = svc.SignUp(ctx, "Nonexistent Activity", "a@mergington.edu")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeActivityNotFound))

	assert.Empty(t, sink.events)
}

func TestService_AuditFailureDoesNotFailOperation(t *testing.T) {
	sink := &recordingSink{err: errors.New("redis down")}
	svc := newTestService(t, sink)

	resp, err := svc.SignUp(context.Background(), "Debate Team", "speaker@mergington.edu")
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Contains(t, svc.List(context.Background())["Debate Team"].Participants, "speaker@mergington.edu")
	assert.Len(t, sink.events, 1)
}

func TestService_StalledAuditIsBoundedByTimeout(t *testing.T) {
	sink := &stallingSink{}
	svc := NewService(ServiceDependencies{
		Directory:    newTestDirectory(),
		Audit:        sink,
		AuditTimeout: 20 * time.Millisecond,
		Logger:       logger.NewTestLogger(t),
	})

	start := time.Now()
	resp, err := svc.Unregister(context.Background(), "Chess Club", "michael@mergington.edu")
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, sink.calls())
}

func TestService_AuditOutlivesCanceledRequest(t *testing.T) {
	var got error
	sink := sinkFunc(func(ctx context.Context, _ audit.Event) error {
		got = ctx.Err()
		return nil
	})
	svc := newTestService(t, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.SignUp(ctx, "Art Studio", "late@mergington.edu")
	require.NoError(t, err)
	assert.NoError(t, got)
}

func TestService_ParticipantGaugeTracksConcurrentChanges(t *testing.T) {
	const activity = "Programming Class"
	svc := newTestService(t, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			email := fmt.Sprintf("coder%d@mergington.edu", i)
			_, _ = svc.SignUp(ctx, activity, email)
			if i%2 == 0 {
				_, _ = svc.Unregister(ctx, activity, email)
			}
		}(i)
	}
	wg.Wait()

	want := len(svc.List(ctx)[activity].Participants)
	assert.Equal(t, float64(want), testutil.ToFloat64(metrics.ActivityParticipants.WithLabelValues(activity)))
}

type sinkFunc func(context.Context, audit.Event) error

func (f sinkFunc) Record(ctx context.Context, e audit.Event) error { return f(ctx, e) }
