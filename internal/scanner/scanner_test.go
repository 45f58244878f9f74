package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mutawai/ThiQaX-sub002/internal/document/models"
	docservice "github.com/Mutawai/ThiQaX-sub002/internal/document/service"
	"github.com/Mutawai/ThiQaX-sub002/internal/document/store"
	"github.com/Mutawai/ThiQaX-sub002/internal/expiry"
	"github.com/Mutawai/ThiQaX-sub002/pkg/domain"
	dErrors "github.com/Mutawai/ThiQaX-sub002/pkg/domain-errors"
)

// The sweep works off wall-clock time, so fixtures are placed relative to now.
func seedDoc(t *testing.T, s *store.InMemory, expiresIn time.Duration) *models.Document {
	t.Helper()
	exp := time.Now().Add(expiresIn)
	doc, err := models.NewDocument(domain.NewDocumentID(), domain.NewUserID(), models.TypePassport, "ref", &exp, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.Create(context.Background(), doc))
	return doc
}

func newScanner(t *testing.T, docs *store.InMemory, opts ...Option) *Scanner {
	t.Helper()
	evaluator, err := expiry.NewEvaluator(expiry.DefaultThresholds())
	require.NoError(t, err)
	svc, err := docservice.New(docs, evaluator)
	require.NoError(t, err)
	sc, err := New(svc, evaluator, opts...)
	require.NoError(t, err)
	return sc
}

func TestSweepCollapsesAndNotifies(t *testing.T) {
	docs := store.NewInMemory()
	expired := seedDoc(t, docs, -48*time.Hour)
	critical := seedDoc(t, docs, 5*24*time.Hour)
	warning := seedDoc(t, docs, 20*24*time.Hour)
	valid := seedDoc(t, docs, 365*24*time.Hour)

	sc := newScanner(t, docs)
	sc.Sweep(context.Background())

	got, err := docs.FindByID(context.Background(), expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, got.Status)

	got, err = docs.FindByID(context.Background(), critical.ID)
	require.NoError(t, err)
	assert.True(t, got.ExpiryNotified)
	assert.Equal(t, models.StatusUploaded, got.Status)

	got, err = docs.FindByID(context.Background(), warning.ID)
	require.NoError(t, err)
	assert.False(t, got.ExpiryNotified, "warning bucket watches, critical notifies")

	got, err = docs.FindByID(context.Background(), valid.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUploaded, got.Status)
	assert.False(t, got.ExpiryNotified)
}

func TestSweepIsIdempotent(t *testing.T) {
	docs := store.NewInMemory()
	critical := seedDoc(t, docs, 5*24*time.Hour)

	sc := newScanner(t, docs)
	sc.Sweep(context.Background())
	first, err := docs.FindByID(context.Background(), critical.ID)
	require.NoError(t, err)

	sc.Sweep(context.Background())
	second, err := docs.FindByID(context.Background(), critical.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Version, second.Version, "repeat sweep must not rewrite")
}

func TestRunStopsOnCancel(t *testing.T) {
	sc := newScanner(t, store.NewInMemory(), WithInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sc.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("scanner did not stop on cancel")
	}
}

func TestNewValidatesConfiguration(t *testing.T) {
	evaluator, err := expiry.NewEvaluator(expiry.DefaultThresholds())
	require.NoError(t, err)

	_, err = New(nil, evaluator)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))

	docs := store.NewInMemory()
	svc, err := docservice.New(docs, evaluator)
	require.NoError(t, err)

	_, err = New(svc, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	_, err = New(svc, evaluator, WithInterval(0))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
	_, err = New(svc, evaluator, WithConcurrency(-1))
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConfiguration))
}
