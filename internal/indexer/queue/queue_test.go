package queue

import (
	"context"
	"testing"
	"time"

	"github.com/lumensearch/search-core/internal/core/domain"
)

func TestPutGetRoundTrip(t *testing.T) {
	q := New(4, 4)
	item := &domain.QueueItem{Type: domain.ItemTypeDocument}

	if !q.Put(context.Background(), item, domain.PriorityHigh, time.Second) {
		t.Fatal("expected put to succeed")
	}

	got, ok := q.Get(context.Background())
	if !ok || got != item {
		t.Fatalf("expected to get back the enqueued item, got %+v ok=%v", got, ok)
	}
}

func TestGetDrainsHighBeforeStandard(t *testing.T) {
	q := New(4, 4)
	standardItem := &domain.QueueItem{Type: domain.ItemTypeChunk}
	highItem := &domain.QueueItem{Type: domain.ItemTypeDocument}

	q.Put(context.Background(), standardItem, domain.PriorityStandard, time.Second)
	q.Put(context.Background(), highItem, domain.PriorityHigh, time.Second)

	got, ok := q.Get(context.Background())
	if !ok || got != highItem {
		t.Fatalf("expected high-priority item first, got %+v", got)
	}
}

func TestPutBlocksWhenFullAndTimesOut(t *testing.T) {
	q := New(1, 1)
	item := &domain.QueueItem{Type: domain.ItemTypeDocument}
	q.Put(context.Background(), item, domain.PriorityHigh, time.Second)

	start := time.Now()
	ok := q.Put(context.Background(), item, domain.PriorityHigh, 50*time.Millisecond)
	if ok {
		t.Fatal("expected put to fail when queue is full")
	}
	if time.Since(start) < 40*time.Millisecond {
		t.Fatal("expected put to respect the timeout before failing")
	}
}

func TestIsFullAtNinetyPercent(t *testing.T) {
	q := New(10, 10)
	for i := 0; i < 9; i++ {
		q.Put(context.Background(), &domain.QueueItem{}, domain.PriorityHigh, time.Second)
	}
	if !q.IsFull() {
		t.Fatal("expected queue to report full at 90% capacity")
	}
}

func TestQSizeReportsBothPriorities(t *testing.T) {
	q := New(10, 10)
	q.Put(context.Background(), &domain.QueueItem{}, domain.PriorityHigh, time.Second)
	q.Put(context.Background(), &domain.QueueItem{}, domain.PriorityStandard, time.Second)

	high, standard := q.QSize()
	if high != 1 || standard != 1 {
		t.Fatalf("expected (1,1), got (%d,%d)", high, standard)
	}
}
