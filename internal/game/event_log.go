package game

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

const (
	eventBufferSize    = 1024                   // Circular buffer slots
	maxEventsPerSec    = 10000                  // Global emit rate limit
	maxEventsPerAvatar = 100                    // Per-avatar emit rate limit per second
	flushBatchSize     = 64                     // Events per disk write
	flushInterval      = 100 * time.Millisecond
	limiterStaleAfter  = 5 * time.Minute // Per-avatar limiter eviction age
)

// EventLog is the append-only simulation journal: bounded, rate-limited,
// flushed to newline-delimited JSON off the tick goroutine. The tick loop
// only ever touches the circular buffer; a slow disk can drop old events
// but can never stall the simulation.
type EventLog struct {
	buffer    [eventBufferSize]Event
	writeHead uint64 // atomic, producer position
	readHead  uint64 // atomic, consumer position

	globalLimiter  *rate.Limiter
	avatarLimiters sync.Map // map[string]*limiterEntry

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	file   *os.File
	fileMu sync.Mutex

	dropped uint64 // atomic
	total   uint64 // atomic
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// EventLogStats is a point-in-time view for monitoring endpoints.
type EventLogStats struct {
	Total   uint64 `json:"total"`
	Dropped uint64 `json:"dropped"`
	Pending uint64 `json:"pending"`
	Running bool   `json:"running"`
}

// NewEventLog creates a stopped event log.
func NewEventLog() *EventLog {
	return &EventLog{
		globalLimiter: rate.NewLimiter(maxEventsPerSec, maxEventsPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start opens the journal file (empty path keeps the log memory-only) and
// launches the background writer.
func (el *EventLog) Start(filePath string) error {
	if el.running.Load() {
		return nil
	}

	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		el.file = file
	}

	el.running.Store(true)
	el.wg.Add(1)
	go el.writerLoop()

	return nil
}

// Stop flushes what remains and closes the journal. Safe to call twice.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.wg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
		}
		el.fileMu.Unlock()
	})
}

// Record builds and emits an event. Returns false when rate limiting or
// backpressure dropped it.
func (el *EventLog) Record(eventType EventType, tickNum uint64, avatarID string, payload interface{}) bool {
	return el.Emit(NewEvent(eventType, tickNum, avatarID, payload))
}

// Emit appends an event to the buffer. Under overload the oldest unwritten
// events are overwritten first (rolling window) so the journal stays
// current rather than complete.
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.dropped, 1)
		return false
	}
	if event.AvatarID != "" && !el.avatarLimiter(event.AvatarID).Allow() {
		atomic.AddUint64(&el.dropped, 1)
		return false
	}

	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)
	if head-tail > eventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.dropped, 1)
	}

	// Event head occupies slot head-1; drain reads slots [tail, head).
	event.Sequence = head
	el.buffer[(head-1)%eventBufferSize] = event

	atomic.AddUint64(&el.total, 1)
	return true
}

func (el *EventLog) avatarLimiter(avatarID string) *rate.Limiter {
	if entry, ok := el.avatarLimiters.Load(avatarID); ok {
		e := entry.(*limiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}

	entry := &limiterEntry{
		limiter:  rate.NewLimiter(maxEventsPerAvatar, maxEventsPerAvatar/10),
		lastUsed: time.Now(),
	}
	actual, _ := el.avatarLimiters.LoadOrStore(avatarID, entry)
	return actual.(*limiterEntry).limiter
}

// writerLoop drains the buffer to disk in batches and periodically evicts
// limiters for avatars that left.
func (el *EventLog) writerLoop() {
	defer el.wg.Done()

	flush := time.NewTicker(flushInterval)
	defer flush.Stop()
	evict := time.NewTicker(limiterStaleAfter)
	defer evict.Stop()

	batch := make([]Event, 0, flushBatchSize)

	for {
		select {
		case <-el.stopChan:
			el.flush(el.drain(batch[:0]))
			return
		case <-flush.C:
			batch = el.drain(batch[:0])
			el.flush(batch)
		case <-evict.C:
			el.evictStaleLimiters()
		}
	}
}

// drain copies pending events out of the circular buffer.
func (el *EventLog) drain(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail; i < head && len(batch) < flushBatchSize; i++ {
		batch = append(batch, el.buffer[i%eventBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}
	return batch
}

// flush appends a batch as newline-delimited JSON.
func (el *EventLog) flush(batch []Event) {
	if len(batch) == 0 {
		return
	}

	el.fileMu.Lock()
	defer el.fileMu.Unlock()
	if el.file == nil {
		return
	}

	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		el.file.Write(data)
		el.file.Write([]byte("\n"))
	}
}

func (el *EventLog) evictStaleLimiters() {
	cutoff := time.Now().Add(-limiterStaleAfter)
	el.avatarLimiters.Range(func(key, value interface{}) bool {
		if value.(*limiterEntry).lastUsed.Before(cutoff) {
			el.avatarLimiters.Delete(key)
		}
		return true
	})
}

// Stats returns journal counters for the monitoring endpoint.
func (el *EventLog) Stats() EventLogStats {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)
	return EventLogStats{
		Total:   atomic.LoadUint64(&el.total),
		Dropped: atomic.LoadUint64(&el.dropped),
		Pending: head - tail,
		Running: el.running.Load(),
	}
}
