package stats

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"sperm-survival/storage"
)

var epoch = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func session(i, score int) Session {
	start := epoch.Add(time.Duration(i) * time.Minute)
	return Session{
		ID:        uuid.New(),
		Character: "neo",
		Score:     score,
		Payout:    score / 10,
		Start:     start,
		End:       start.Add(30 * time.Second),
	}
}

func TestHistorySummary(t *testing.T) {
	h := NewHistory(storage.NewMemory())
	if got := h.Summary(); got.GamesPlayed != 0 || got.AverageScore != 0 {
		t.Fatalf("empty summary = %+v", got)
	}

	h.Add(session(0, 10))
	h.Add(session(1, 30))
	h.Add(session(2, 50))

	s := h.Summary()
	if s.GamesPlayed != 3 || s.AverageScore != 30 || s.MedianScore != 30 || s.BestScore != 50 {
		t.Fatalf("summary = %+v", s)
	}
	if s.TotalPayout != 9 || s.AverageDuration != 30 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestHistoryCompressesFullGroups(t *testing.T) {
	h := NewHistory(storage.NewMemory())
	for i := 0; i < GroupSize+5; i++ {
		h.Add(session(i, i))
	}

	records := h.Records()
	if len(records) != 6 {
		t.Fatalf("records = %d, want 1 group + 5 singles", len(records))
	}

	var group *Record
	for i := range records {
		if records[i].CompressionIndex == 1 {
			group = &records[i]
		}
	}
	if group == nil {
		t.Fatal("no compressed record")
	}
	if group.GamesCount != GroupSize || group.MinScore != 0 || group.MaxScore != GroupSize-1 {
		t.Fatalf("group = %+v", *group)
	}
	if group.AverageScore != float64(GroupSize-1)/2 {
		t.Fatalf("group average = %v", group.AverageScore)
	}

	s := h.Summary()
	if s.GamesPlayed != GroupSize+5 || s.BestScore != GroupSize+4 {
		t.Fatalf("summary = %+v", s)
	}
}

func TestHistoryPersists(t *testing.T) {
	kv := storage.NewMemory()
	h := NewHistory(kv)
	first := session(0, 42)
	h.Add(first)

	reloaded := NewHistory(kv)
	records := reloaded.Records()
	if len(records) != 1 || records[0].SessionID != first.ID || records[0].Score != 42 {
		t.Fatalf("reloaded = %+v", records)
	}
	if got := reloaded.Summary(); got != h.Summary() || got.BestScore != 42 {
		t.Fatalf("reloaded summary = %+v, want %+v", got, h.Summary())
	}

	reloaded.Add(session(1, 100))
	if got := reloaded.Summary(); got.GamesPlayed != 2 || got.BestScore != 100 {
		t.Fatalf("summary after add = %+v", got)
	}
}

func TestHistoryToleratesCorruptState(t *testing.T) {
	kv := storage.NewMemory()
	kv.Set(StorageKey, "[{oops")

	h := NewHistory(kv)
	if len(h.Records()) != 0 {
		t.Fatal("corrupt history produced records")
	}
	h.Add(session(0, 5))
	if len(h.Records()) != 1 {
		t.Fatal("history unusable after corrupt load")
	}
}
