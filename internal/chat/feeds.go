package chat

import (
	"context"
	"sync"
)

// FeedStore holds the two room collections: joined ("my") and discoverable
// ("public"). Both are refreshed wholesale and replaced as a pair; a failed
// refresh leaves the previous collections untouched.
type FeedStore struct {
	api API

	mu           sync.RWMutex
	joined       []Room
	discoverable []Room
}

// NewFeedStore creates an empty feed store backed by the given API.
func NewFeedStore(api API) *FeedStore {
	return &FeedStore{api: api}
}

// Refresh re-queries both feeds concurrently. If either query fails the
// whole refresh fails and neither collection is updated: stale data beats an
// inconsistent mixed view. Requiring an authenticated session is the
// caller's responsibility.
func (f *FeedStore) Refresh(ctx context.Context) error {
	var (
		wg             sync.WaitGroup
		joined, public []Room
		jerr, perr     error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		joined, jerr = f.api.MyFeed(ctx)
	}()
	go func() {
		defer wg.Done()
		public, perr = f.api.PublicFeed(ctx)
	}()
	wg.Wait()

	if jerr != nil {
		return jerr
	}
	if perr != nil {
		return perr
	}

	f.mu.Lock()
	f.joined = joined
	f.discoverable = public
	f.mu.Unlock()
	return nil
}

// Joined returns the joined feed.
func (f *FeedStore) Joined() []Room {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.joined
}

// Discoverable returns the public feed.
func (f *FeedStore) Discoverable() []Room {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.discoverable
}

// IsJoined reports whether the room id appears in the joined feed.
func (f *FeedStore) IsJoined(roomID int64) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, r := range f.joined {
		if r.ID == roomID {
			return true
		}
	}
	return false
}

// Clear drops both collections. Used when the session ends.
func (f *FeedStore) Clear() {
	f.mu.Lock()
	f.joined = nil
	f.discoverable = nil
	f.mu.Unlock()
}
