package snapshot

import (
	"sync"
	"testing"
	"time"

	"github.com/NeuralG/coin-trading-ai/internal/domain/models"
)

func TestCurrentNotReadyBeforePublish(t *testing.T) {
	p := NewPublisher()
	if _, ok := p.Current(); ok {
		t.Fatalf("expected not ready before first publish")
	}
}

func TestPublishSwapsWholeSnapshot(t *testing.T) {
	p := NewPublisher()
	first := &models.Snapshot{BuiltAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
	second := &models.Snapshot{BuiltAt: time.Date(2024, 6, 1, 11, 0, 0, 0, time.UTC)}

	p.Publish(first)
	if got, _ := p.Current(); got != first {
		t.Fatalf("expected first snapshot")
	}
	p.Publish(second)
	if got, _ := p.Current(); got != second {
		t.Fatalf("expected second snapshot")
	}
}

func TestConcurrentReadersSeeCompleteSnapshots(t *testing.T) {
	p := NewPublisher()
	snaps := make([]*models.Snapshot, 10)
	for i := range snaps {
		snaps[i] = &models.Snapshot{
			BuiltAt: time.Date(2024, 6, 1, i, 0, 0, 0, time.UTC),
			Rows:    make([]models.FeatureRow, i),
		}
	}
	p.Publish(snaps[0])

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap, ok := p.Current()
				if !ok {
					t.Errorf("snapshot vanished after first publish")
					return
				}
				// BuiltAt hour and row count were written together; a
				// torn read would break the pairing.
				if len(snap.Rows) != snap.BuiltAt.Hour() {
					t.Errorf("inconsistent snapshot observed")
					return
				}
			}
		}()
	}

	for _, s := range snaps {
		p.Publish(s)
	}
	close(stop)
	wg.Wait()
}
