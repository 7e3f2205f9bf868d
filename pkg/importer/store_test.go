package importer

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryJobStoreReturnsCopies(t *testing.T) {
	store := NewMemoryJobStore()
	job := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	store.Save(job)

	got, ok := store.Get(job.ID)
	if !ok {
		t.Fatal("expected job to be found")
	}

	// Mutating the returned copy must not leak into the store.
	got.Status = StatusFailed
	again, _ := store.Get(job.ID)
	if again.Status != StatusQueued {
		t.Fatalf("store state was mutated through a returned copy: %s", again.Status)
	}

	// Mutating the saved pointer after Save must not leak either.
	job.Status = StatusCancelled
	again, _ = store.Get(job.ID)
	if again.Status != StatusQueued {
		t.Fatalf("store state was mutated through the saved pointer: %s", again.Status)
	}
}

func TestMemoryJobStoreGetUnknown(t *testing.T) {
	store := NewMemoryJobStore()
	if _, ok := store.Get(uuid.New()); ok {
		t.Fatal("expected unknown id to be absent")
	}
}

func TestMemoryJobStoreListNewestFirst(t *testing.T) {
	store := NewMemoryJobStore()

	older := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	newer := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	store.Save(older)
	store.Save(newer)

	list := store.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(list))
	}
	if list[0].ID != newer.ID {
		t.Fatal("expected newest job first")
	}
}

func TestMemoryJobStoreCleanup(t *testing.T) {
	store := NewMemoryJobStore()

	expired := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	expired.MarkCompleted("done")
	expired.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)
	store.Save(expired)

	recentTerminal := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	recentTerminal.MarkCompleted("done")
	store.Save(recentTerminal)

	oldButActive := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	oldButActive.UpdatedAt = time.Now().UTC().Add(-48 * time.Hour)
	store.Save(oldButActive)

	removed := store.Cleanup(24 * time.Hour)
	if removed != 1 {
		t.Fatalf("expected 1 job removed, got %d", removed)
	}
	if _, ok := store.Get(expired.ID); ok {
		t.Fatal("expected expired terminal job to be removed")
	}
	if _, ok := store.Get(recentTerminal.ID); !ok {
		t.Fatal("expected recent terminal job to survive")
	}
	if _, ok := store.Get(oldButActive.ID); !ok {
		t.Fatal("expected active job to survive regardless of age")
	}
}

func TestMemoryJobStoreConcurrentAccess(t *testing.T) {
	store := NewMemoryJobStore()
	job := NewJob("mock", "tech", time.Now(), time.Now(), false, "tester")
	store.Save(job)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				updated, _ := store.Get(job.ID)
				updated.UpdateProgress(100, n, n, 0)
				store.Update(updated)
			}
		}()
		go func() {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				store.Get(job.ID)
				store.List()
			}
		}()
	}
	wg.Wait()

	if _, ok := store.Get(job.ID); !ok {
		t.Fatal("job disappeared under concurrent access")
	}
}
