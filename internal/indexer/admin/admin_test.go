package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/lumensearch/search-core/internal/core/domain"
	"github.com/lumensearch/search-core/internal/core/ports/driven"
)

type fakeStore struct {
	templateCalled bool
	dailyDate      string
	retentionDays  int
	retentionErr   error
}

func (f *fakeStore) EnsureTemplate(ctx context.Context) error {
	f.templateCalled = true
	return nil
}
func (f *fakeStore) EnsureDailyIndices(ctx context.Context, date string) error {
	f.dailyDate = date
	return nil
}
func (f *fakeStore) EnsureRetentionPolicy(ctx context.Context, days int) error {
	f.retentionDays = days
	return f.retentionErr
}
func (f *fakeStore) Bulk(ctx context.Context, actions []driven.BulkAction) ([]driven.BulkItemResult, error) {
	return nil, nil
}
func (f *fakeStore) MultiGet(ctx context.Context, ids []string) (map[string]*domain.Document, error) {
	return nil, nil
}
func (f *fakeStore) SearchChunks(ctx context.Context, q string, size int, fallback bool) ([]driven.SearchHit, error) {
	return nil, nil
}
func (f *fakeStore) HealthCheck(ctx context.Context) error { return nil }

func TestBootstrapRunsAllThreeSteps(t *testing.T) {
	store := &fakeStore{}
	if err := Bootstrap(context.Background(), Config{Store: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.templateCalled {
		t.Fatal("expected EnsureTemplate to be called")
	}
	if store.dailyDate == "" {
		t.Fatal("expected EnsureDailyIndices to be called with a date")
	}
	if store.retentionDays != defaultRetentionDays {
		t.Fatalf("expected default retention days, got %d", store.retentionDays)
	}
}

func TestBootstrapToleratesUnsupportedRetentionPolicy(t *testing.T) {
	store := &fakeStore{retentionErr: errors.New("not supported")}
	if err := Bootstrap(context.Background(), Config{Store: store}); err != nil {
		t.Fatalf("expected Bootstrap to succeed despite retention policy failure, got %v", err)
	}
}
