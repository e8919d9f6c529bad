package timerservice

import (
	"container/heap"
	"context"
	"strconv"
	"sync"
	"time"

	"roboone/internal/fabric"
	"roboone/internal/logging"
	"roboone/internal/wire"
)

// Key uniquely identifies a timer: the (id, source-port-that-armed-it) pair
// from §3's Timer record.
type Key struct {
	ID         uint16
	SourcePort uint16
}

type timerItem struct {
	key      Key
	deadline time.Time
	payload  wire.ShortMsg
	index    int
}

// timerHeap is a container/heap min-heap ordered by deadline, grounded in
// the min-heap + wakeup-channel scheduler idiom used for software timer
// tables elsewhere in the pack (see DESIGN.md).
type timerHeap []*timerItem

func (h timerHeap) Len() int           { return len(h) }
func (h timerHeap) Less(i, j int) bool { return h[i].deadline.Before(h[j].deadline) }
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *timerHeap) Push(x interface{}) {
	item := x.(*timerItem)
	item.index = len(*h)
	*h = append(*h, item)
}
func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Service owns the live timer table and the scheduler goroutine that
// delivers expiries. It is the Timer Service's sole concurrency exception
// within the single-threaded server model (§5): arming/cancelling runs on
// the fabric server's handler goroutine while the scheduler runs on its
// own, sharing only this mutex-guarded table.
type Service struct {
	mu    sync.Mutex
	heap  timerHeap
	byKey map[Key]*timerItem
	wake  chan struct{}
}

func NewService() *Service {
	return &Service{
		byKey: make(map[Key]*timerItem),
		wake:  make(chan struct{}, 1),
	}
}

// Arm schedules a one-shot expiry, replacing any existing timer for the
// same key (§3's replace-on-rearm invariant).
func (s *Service) Arm(key Key, expiryDeciSeconds uint32, payload wire.ShortMsg) {
	deadline := time.Now().Add(time.Duration(expiryDeciSeconds) * 100 * time.Millisecond)

	s.mu.Lock()
	if existing, ok := s.byKey[key]; ok {
		heap.Remove(&s.heap, existing.index)
		delete(s.byKey, key)
	}
	item := &timerItem{key: key, deadline: deadline, payload: payload}
	heap.Push(&s.heap, item)
	s.byKey[key] = item
	s.mu.Unlock()

	s.nudge()
}

// Cancel removes the timer matching key if present; silent if absent
// (§4.3).
func (s *Service) Cancel(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byKey[key]; ok {
		heap.Remove(&s.heap, existing.index)
		delete(s.byKey, key)
		s.nudge()
	}
}

// Len reports the number of currently live timers (used by the debug
// surface, §2.2).
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}

func (s *Service) nudge() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run drives the scheduler loop until ctx is cancelled: it sleeps until the
// next deadline (or is woken early by Arm/Cancel changing the heap's head),
// then delivers any expired timers by opening a fresh client connection to
// their source port and sending the payload verbatim, awaiting no response
// (§4.3). Delivery runs in its own goroutine per timer so a slow peer never
// delays the next timer's delivery.
func (s *Service) Run(ctx context.Context) {
	for {
		wait := s.nextWait()

		if wait == nil {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
				continue
			}
		}

		timer := time.NewTimer(*wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-s.wake:
			timer.Stop()
			continue
		case <-timer.C:
			s.fireExpired(ctx)
		}
	}
}

// nextWait returns how long until the earliest live timer's deadline, or
// nil if the table is empty.
func (s *Service) nextWait() *time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.heap) == 0 {
		return nil
	}
	d := time.Until(s.heap[0].deadline)
	if d < 0 {
		d = 0
	}
	return &d
}

func (s *Service) fireExpired(ctx context.Context) {
	now := time.Now()
	var expired []*timerItem

	s.mu.Lock()
	for len(s.heap) > 0 && !s.heap[0].deadline.After(now) {
		item := heap.Pop(&s.heap).(*timerItem)
		delete(s.byKey, item.key)
		expired = append(expired, item)
	}
	s.mu.Unlock()

	for _, item := range expired {
		go deliver(ctx, item)
	}
}

func deliver(ctx context.Context, item *timerItem) {
	frame, err := item.payload.ToMessage().Encode()
	if err != nil {
		logging.Errorf("timer %+v: encoding expiry payload: %v", item.key, err)
		return
	}
	_, rc := fabric.RunClient(ctx, "127.0.0.1", strconv.Itoa(int(item.key.SourcePort)), frame, false)
	if rc != fabric.ClientSuccess {
		// Best-effort delivery only (§4.3): dropped, no retries.
		logging.Errorf("timer %+v: delivery to port %d failed: %s", item.key, item.key.SourcePort, rc)
	}
}
