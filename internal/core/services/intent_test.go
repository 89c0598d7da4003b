package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ewilliams-labs/pennywise/internal/core/domain"
)

type fakeDetector struct {
	mu      sync.Mutex
	calls   []domain.Query
	payload map[string]any
	err     error
}

func (f *fakeDetector) DetectIntent(_ context.Context, q domain.Query) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, q)
	if f.err != nil {
		return nil, f.err
	}
	// Echo the text so callers can tell replies apart.
	out := map[string]any{"queryText": q.Text}
	for k, v := range f.payload {
		out[k] = v
	}
	return out, nil
}

func newObservedService(d *fakeDetector) (*IntentService, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewIntentService(d, "fake", zap.New(core)), logs
}

func TestIntentService_DetectIntent_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		text      string
		field     string
	}{
		{name: "empty project", projectID: "", text: "hello", field: "project_id"},
		{name: "empty text", projectID: "proj", text: "", field: "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDetector{}
			svc, logs := newObservedService(d)

			_, err := svc.DetectIntent(context.Background(), tt.projectID, "s1", tt.text, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument)

			var invalid *domain.InvalidArgumentError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)

			assert.Empty(t, d.calls, "detector must not be called")
			assert.Zero(t, logs.Len())
		})
	}
}

func TestIntentService_DetectIntent_WhitespaceIsSent(t *testing.T) {
	tests := []struct {
		name      string
		projectID string
		text      string
		remoteErr error
		wantOK    bool
	}{
		{name: "whitespace text answered", projectID: "proj", text: "   ", wantOK: true},
		{name: "whitespace text rejected remotely", projectID: "proj", text: "\t\n", remoteErr: errors.New("dialogflow: INVALID_ARGUMENT (status 400): Input text not set."), wantOK: false},
		{name: "whitespace project rejected remotely", projectID: "  ", text: "hello", remoteErr: errors.New("dialogflow: NOT_FOUND (status 404): project not found"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDetector{err: tt.remoteErr}
			svc, _ := newObservedService(d)

			result, err := svc.DetectIntent(context.Background(), tt.projectID, "s1", tt.text, "")
			require.NoError(t, err)
			require.Len(t, d.calls, 1)
			assert.Equal(t, tt.text, d.calls[0].Text)
			assert.Equal(t, tt.projectID, d.calls[0].ProjectID)
			assert.Equal(t, tt.wantOK, result.OK())
			if !tt.wantOK {
				assert.Equal(t, "Failed to detect intent", result.AsMap()["message"])
			}
		})
	}
}

func TestIntentService_DetectIntent_Success(t *testing.T) {
	d := &fakeDetector{payload: map[string]any{
		"intent":                    map[string]any{"displayName": "save.money"},
		"intentDetectionConfidence": 0.92,
		"parameters":                map[string]any{"amount": []any{float64(20)}},
	}}
	svc, logs := newObservedService(d)

	result, err := svc.DetectIntent(context.Background(), "proj", "s1", "I want to save money", "")
	require.NoError(t, err)
	require.True(t, result.OK())

	got := result.AsMap()
	assert.Equal(t, "I want to save money", got["queryText"])
	assert.Equal(t, map[string]any{"displayName": "save.money"}, got["intent"])
	assert.Equal(t, 0.92, got["intentDetectionConfidence"])

	require.Len(t, d.calls, 1)
	assert.Equal(t, domain.DefaultLanguageCode, d.calls[0].LanguageCode)

	entries := logs.FilterMessage("intent detected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, 1, logs.Len())
}

func TestIntentService_DetectIntent_ExplicitLanguage(t *testing.T) {
	d := &fakeDetector{}
	svc, _ := newObservedService(d)

	_, err := svc.DetectIntent(context.Background(), "proj", "s1", "hola", "es")
	require.NoError(t, err)
	require.Len(t, d.calls, 1)
	assert.Equal(t, "es", d.calls[0].LanguageCode)
}

func TestIntentService_DetectIntent_RemoteFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "timeout", err: context.DeadlineExceeded},
		{name: "auth", err: errors.New("dialogflow: PERMISSION_DENIED (status 403): caller lacks permission")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDetector{err: tt.err}
			svc, logs := newObservedService(d)

			result, err := svc.DetectIntent(context.Background(), "proj", "s1", "hello", "")
			require.NoError(t, err)
			assert.False(t, result.OK())
			assert.Equal(t, map[string]any{
				"error":   tt.err.Error(),
				"message": "Failed to detect intent",
			}, result.AsMap())

			entries := logs.FilterMessage("failed to detect intent").All()
			require.Len(t, entries, 1)
			assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
			assert.Equal(t, 1, logs.Len())
		})
	}
}

func TestIntentService_DetectIntent_SameSessionIsIndependent(t *testing.T) {
	d := &fakeDetector{}
	svc, _ := newObservedService(d)
	ctx := context.Background()

	first, err := svc.DetectIntent(ctx, "proj", "shared", "log 20 dollars for lunch", "")
	require.NoError(t, err)
	second, err := svc.DetectIntent(ctx, "proj", "shared", "what are my savings tips", "")
	require.NoError(t, err)

	assert.Equal(t, "log 20 dollars for lunch", first.AsMap()["queryText"])
	assert.Equal(t, "what are my savings tips", second.AsMap()["queryText"])

	require.Len(t, d.calls, 2)
	assert.Equal(t, d.calls[0].SessionPath(), d.calls[1].SessionPath())
	assert.NotEqual(t, d.calls[0].Text, d.calls[1].Text)
}

func TestIntentService_DetectIntent_Concurrent(t *testing.T) {
	d := &fakeDetector{}
	svc := NewIntentService(d, "fake", nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.DetectIntent(context.Background(), "proj", "s", "hello", "en")
			assert.NoError(t, err)
			assert.True(t, result.OK())
		}()
	}
	wg.Wait()
	assert.Len(t, d.calls, 16)
}
