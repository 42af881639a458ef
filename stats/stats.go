package stats

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"sperm-survival/storage"
)

const (
	StorageKey = "spermSurvivalSessions"
	GroupSize  = 100 // records per compressed group
)

// Record is either one finished session or a compressed group of them
type Record struct {
	SessionID        uuid.UUID `json:"sessionId,omitempty"`
	Character        string    `json:"character,omitempty"`
	StartTime        time.Time `json:"startTime"`
	EndTime          time.Time `json:"endTime"`
	Score            int       `json:"score"`
	Payout           int       `json:"payout"`
	CompressionIndex int       `json:"compressionIndex"` // 0 for a single session
	GamesCount       int       `json:"gamesCount"`
	AverageScore     float64   `json:"averageScore"`
	MedianScore      float64   `json:"medianScore"`
	MaxScore         int       `json:"maxScore"`
	MinScore         int       `json:"minScore"`
	AverageDuration  float64   `json:"averageDuration"` // seconds
	MaxDuration      float64   `json:"maxDuration"`
	MinDuration      float64   `json:"minDuration"`
}

// Session is what the game reports when a run ends
type Session struct {
	ID        uuid.UUID
	Character string
	Score     int
	Payout    int
	Start     time.Time
	End       time.Time
}

// History keeps past sessions in the local store, folding old ones into
// summary records so it never grows without bound
type History struct {
	kv      storage.KV
	records []Record
	summary Summary // recomputed whenever records change
	mutex   sync.RWMutex
}

func NewHistory(kv storage.KV) *History {
	h := &History{
		kv:      kv,
		records: make([]Record, 0),
	}
	if err := h.load(); err != nil {
		log.Printf("stats: starting with empty history: %v", err)
	}
	h.summary = summarizeRecords(h.records)
	return h
}

// Add records a finished session and persists the history
func (h *History) Add(s Session) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	duration := s.End.Sub(s.Start).Seconds()
	h.records = append(h.records, Record{
		SessionID:       s.ID,
		Character:       s.Character,
		StartTime:       s.Start,
		EndTime:         s.End,
		Score:           s.Score,
		Payout:          s.Payout,
		GamesCount:      1,
		AverageScore:    float64(s.Score),
		MedianScore:     float64(s.Score),
		MaxScore:        s.Score,
		MinScore:        s.Score,
		AverageDuration: duration,
		MaxDuration:     duration,
		MinDuration:     duration,
	})
	h.compress()
	h.summary = summarizeRecords(h.records)

	if err := h.save(); err != nil {
		log.Printf("stats: %v", err)
	}
}

// compress folds every full group of GroupSize records at one level into a
// single record at the next level
func (h *History) compress() {
	sort.SliceStable(h.records, func(i, j int) bool {
		if h.records[i].CompressionIndex != h.records[j].CompressionIndex {
			return h.records[i].CompressionIndex < h.records[j].CompressionIndex
		}
		return h.records[i].StartTime.Before(h.records[j].StartTime)
	})

	for level := 0; ; level++ {
		var atLevel, rest []Record
		for _, r := range h.records {
			if r.CompressionIndex == level {
				atLevel = append(atLevel, r)
			} else {
				rest = append(rest, r)
			}
		}
		if len(atLevel) < GroupSize {
			break
		}

		var folded []Record
		for i := 0; i < len(atLevel); i += GroupSize {
			if i+GroupSize > len(atLevel) {
				folded = append(folded, atLevel[i:]...)
				break
			}
			folded = append(folded, summarize(atLevel[i:i+GroupSize], level+1))
		}
		h.records = append(rest, folded...)
	}
}

func summarize(group []Record, level int) Record {
	out := Record{
		StartTime:        group[0].StartTime,
		EndTime:          group[0].EndTime,
		CompressionIndex: level,
		MaxScore:         group[0].MaxScore,
		MinScore:         group[0].MinScore,
		MaxDuration:      group[0].MaxDuration,
		MinDuration:      group[0].MinDuration,
	}

	var totalScore, totalDuration float64
	medians := make([]float64, 0, len(group))
	for _, r := range group {
		out.MaxScore = max(out.MaxScore, r.MaxScore)
		out.MinScore = min(out.MinScore, r.MinScore)
		out.MaxDuration = max(out.MaxDuration, r.MaxDuration)
		out.MinDuration = min(out.MinDuration, r.MinDuration)
		if r.StartTime.Before(out.StartTime) {
			out.StartTime = r.StartTime
		}
		if r.EndTime.After(out.EndTime) {
			out.EndTime = r.EndTime
		}
		totalScore += r.AverageScore * float64(r.GamesCount)
		totalDuration += r.AverageDuration * float64(r.GamesCount)
		out.GamesCount += r.GamesCount
		out.Payout += r.Payout
		for i := 0; i < r.GamesCount; i++ {
			medians = append(medians, r.MedianScore)
		}
	}

	out.AverageScore = totalScore / float64(out.GamesCount)
	out.AverageDuration = totalDuration / float64(out.GamesCount)
	out.MedianScore = median(medians)
	return out
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sort.Float64s(values)
	mid := len(values) / 2
	if len(values)%2 == 0 {
		return (values[mid-1] + values[mid]) / 2
	}
	return values[mid]
}

// Records returns a copy of the stored records
func (h *History) Records() []Record {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// Summary is the aggregate view shown on the menu and game over screens
type Summary struct {
	GamesPlayed     int     `json:"gamesPlayed"`
	AverageScore    float64 `json:"averageScore"`
	MedianScore     float64 `json:"medianScore"`
	BestScore       int     `json:"bestScore"`
	AverageDuration float64 `json:"averageDuration"`
	MaxDuration     float64 `json:"maxDuration"`
	TotalPayout     int     `json:"totalPayout"`
}

// Summary returns the aggregate over every recorded session
func (h *History) Summary() Summary {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.summary
}

func summarizeRecords(records []Record) Summary {
	var s Summary
	if len(records) == 0 {
		return s
	}

	var totalScore, totalDuration float64
	medians := make([]float64, 0)
	for _, r := range records {
		totalScore += r.AverageScore * float64(r.GamesCount)
		totalDuration += r.AverageDuration * float64(r.GamesCount)
		s.GamesPlayed += r.GamesCount
		s.BestScore = max(s.BestScore, r.MaxScore)
		s.MaxDuration = max(s.MaxDuration, r.MaxDuration)
		s.TotalPayout += r.Payout
		for i := 0; i < r.GamesCount; i++ {
			medians = append(medians, r.MedianScore)
		}
	}
	if s.GamesPlayed > 0 {
		s.AverageScore = totalScore / float64(s.GamesPlayed)
		s.AverageDuration = totalDuration / float64(s.GamesPlayed)
	}
	s.MedianScore = median(medians)
	return s
}

func (h *History) save() error {
	data, err := json.Marshal(h.records)
	if err != nil {
		return fmt.Errorf("failed to marshal session history: %w", err)
	}
	if err := h.kv.Set(StorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to save session history: %w", err)
	}
	return nil
}

func (h *History) load() error {
	raw, ok, err := h.kv.Get(StorageKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	var records []Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return fmt.Errorf("bad %s value: %w", StorageKey, err)
	}
	h.records = records
	return nil
}
