package services

import "sync"

// SyncState is the synchronizer's reconciliation memory: which external
// orders were already converted, the last status/payment values observed for
// each, and the link to the native order. It is rebuilt from the persisted
// syncedToPos flags at service start and maintained incrementally after
// that; it is the sole guard against duplicate native-order creation within
// a process lifetime.
type SyncState struct {
	mu          sync.Mutex
	processed   map[string]struct{}
	lastStatus  map[string]string
	lastPayment map[string]string
	links       map[string]uint // synthetic id -> native order id
}

func NewSyncState() *SyncState {
	return &SyncState{
		processed:   make(map[string]struct{}),
		lastStatus:  make(map[string]string),
		lastPayment: make(map[string]string),
		links:       make(map[string]uint),
	}
}

// MarkProcessed records the id; returns false if it was already present.
func (st *SyncState) MarkProcessed(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.processed[id]; ok {
		return false
	}
	st.processed[id] = struct{}{}
	return true
}

// Unmark removes the id so the next tick can retry a failed conversion.
func (st *SyncState) Unmark(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.processed, id)
}

func (st *SyncState) Processed(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.processed[id]
	return ok
}

func (st *SyncState) ProcessedCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.processed)
}

func (st *SyncState) Link(id string, orderID uint) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.links[id] = orderID
}

func (st *SyncState) LinkedOrder(id string) (uint, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	orderID, ok := st.links[id]
	return orderID, ok
}

// Changed reports whether the status/payment pair differs from the last
// recorded observation.
func (st *SyncState) Changed(id, status, payment string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.lastStatus[id] != status || st.lastPayment[id] != payment
}

// Record stores the observation. Callers record only after acting on a
// delta, so a failed update stays stale and is retried next tick.
func (st *SyncState) Record(id, status, payment string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.lastStatus[id] = status
	st.lastPayment[id] = payment
}
