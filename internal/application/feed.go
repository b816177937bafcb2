package application

import (
	"sync"
	"time"

	"github.com/SHREYASH1204/DASHBOARD-ASSESSMENT/internal/domain/model"
)

// ReviewFeed holds the most recently fetched review list for one dashboard.
// Every fetch is stamped by Begin; Apply accepts a result only if no newer
// fetch has started since, so a slow response can never overwrite a fresher one.
type ReviewFeed struct {
	mu        sync.RWMutex
	issued    uint64
	applied   uint64
	subs      []model.Submission
	updatedAt time.Time
	closed    bool
	now       func() time.Time
}

// NewReviewFeed creates an empty feed.
func NewReviewFeed() *ReviewFeed {
	return &ReviewFeed{
		subs: []model.Submission{},
		now:  time.Now,
	}
}

// Begin issues the generation for a new fetch.
func (f *ReviewFeed) Begin() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.issued++
	return f.issued
}

// Apply replaces the list with subs reversed to newest-first, provided gen is
// the latest issued generation and the feed is still open. It reports whether
// the result was applied.
func (f *ReviewFeed) Apply(gen uint64, subs []model.Submission) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || gen != f.issued {
		return false
	}

	f.subs = NewestFirst(subs)
	f.applied = gen
	f.updatedAt = f.now()
	return true
}

// IsCurrent reports whether gen is the latest issued generation and the feed
// is still open.
func (f *ReviewFeed) IsCurrent(gen uint64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.closed && gen == f.issued
}

// Close invalidates all in-flight fetches and rejects future results.
func (f *ReviewFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.issued++
}

// Snapshot returns the current list (newest first) and the generation that
// produced it. Generation 0 means nothing has been applied yet. The returned
// slice must not be modified.
func (f *ReviewFeed) Snapshot() ([]model.Submission, uint64) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.subs, f.applied
}

// UpdatedAt returns when the list was last replaced.
func (f *ReviewFeed) UpdatedAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.updatedAt
}

// NewestFirst returns a reversed copy of subs. The API returns records in
// insertion order, so the reversal puts the most recent first.
func NewestFirst(subs []model.Submission) []model.Submission {
	out := make([]model.Submission, len(subs))
	for i, s := range subs {
		out[len(subs)-1-i] = s
	}
	return out
}
