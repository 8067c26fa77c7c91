package metricstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/openbudget/adpilot/internal/models"
)

func TestMock_SnapshotsWindowAndOrder(t *testing.T) {
	store := NewMock()
	now := time.Now().Unix()

	// Recorded out of order; reads must come back oldest first.
	for _, offset := range []int64{-60, -3600, -600} {
		err := store.RecordSnapshot(context.Background(), models.MetricSnapshot{
			CampaignID: "camp-1",
			Timestamp:  now + offset,
		})
		if err != nil {
			t.Fatalf("record snapshot: %v", err)
		}
	}
	// Outside a 1-day window.
	if err := store.RecordSnapshot(context.Background(), models.MetricSnapshot{
		CampaignID: "camp-1",
		Timestamp:  now - 2*86400,
	}); err != nil {
		t.Fatalf("record snapshot: %v", err)
	}

	snaps, err := store.Snapshots(context.Background(), "camp-1", 1)
	if err != nil {
		t.Fatalf("snapshots: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("want 3 snapshots in window, got %d", len(snaps))
	}
	for i := 1; i < len(snaps); i++ {
		if snaps[i].Timestamp < snaps[i-1].Timestamp {
			t.Fatalf("snapshots out of order: %+v", snaps)
		}
	}
}

func TestMock_Latest(t *testing.T) {
	store := NewMock()

	_, ok, err := store.Latest(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if ok {
		t.Fatal("empty store must report no snapshot")
	}

	now := time.Now().Unix()
	for _, ts := range []int64{now - 60, now} {
		if err := store.RecordSnapshot(context.Background(), models.MetricSnapshot{CampaignID: "camp-1", Timestamp: ts}); err != nil {
			t.Fatalf("record snapshot: %v", err)
		}
	}

	snap, ok, err := store.Latest(context.Background(), "camp-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !ok || snap.Timestamp != now {
		t.Fatalf("want latest at %d, got %+v ok=%v", now, snap, ok)
	}
}

func TestMock_ErrPropagates(t *testing.T) {
	store := NewMock()
	store.Err = errors.New("down")

	if err := store.RecordSnapshot(context.Background(), models.MetricSnapshot{CampaignID: "c"}); err == nil {
		t.Fatal("expected record error")
	}
	if _, err := store.Snapshots(context.Background(), "c", 7); err == nil {
		t.Fatal("expected snapshots error")
	}
	if _, _, err := store.Latest(context.Background(), "c"); err == nil {
		t.Fatal("expected latest error")
	}
}

func TestClickHouse_NilIsUnavailable(t *testing.T) {
	var ch *ClickHouse

	if err := ch.RecordSnapshot(context.Background(), models.MetricSnapshot{}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if _, err := ch.Snapshots(context.Background(), "c", 7); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
	if _, _, err := ch.Latest(context.Background(), "c"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("want ErrUnavailable, got %v", err)
	}
}
