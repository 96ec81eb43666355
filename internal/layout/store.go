package layout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CacheKey is the slot name the layout is cached under.
const CacheKey = "inphormed_layout_v1"

// DefaultPushTimeout bounds a single best-effort remote save.
const DefaultPushTimeout = 5 * time.Second

// ErrNotFound is returned by a Cache whose slot is empty.
var ErrNotFound = errors.New("layout not found")

// Remote is the backend-held copy of the layout.
type Remote interface {
	Fetch(ctx context.Context) (Layout, error)
	Push(ctx context.Context, l Layout) error
}

// Cache is a single string-keyed slot holding the serialized layout.
type Cache interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// Outcome classifies the result of reading one backend.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeMissing
	OutcomeUnavailable
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeMissing:
		return "missing"
	case OutcomeUnavailable:
		return "unavailable"
	case OutcomeMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// SourceResult is what one backend produced during Load.
type SourceResult struct {
	Outcome Outcome
	Err     error
}

// LoadResult reports how Load resolved the layout.
type LoadResult struct {
	Remote  SourceResult
	Cache   SourceResult
	Applied bool // a loaded value replaced the in-memory layout
	Stale   bool // a local mutation happened while loading; loaded value dropped
	Layout  Layout
}

// SaveResult reports the synchronous part of Save. The remote push is never
// reported.
type SaveResult struct {
	CacheErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for the silent failure paths.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithPushTimeout bounds each remote push.
func WithPushTimeout(d time.Duration) Option {
	return func(s *Store) { s.pushTimeout = d }
}

// WithInitial overrides the starting layout (Default otherwise).
func WithInitial(l Layout) Option {
	return func(s *Store) { s.current = l.Clone() }
}

// Store owns the single authoritative in-memory layout and mediates load and
// save against the remote store and the local cache.
type Store struct {
	mu          sync.Mutex
	current     Layout
	seq         uint64 // bumped on every local mutation
	subs        map[int]func(Layout)
	nextSub     int
	remote      Remote
	cache       Cache
	log         *zap.Logger
	pushTimeout time.Duration
	pushes      sync.WaitGroup
}

// NewStore creates a store holding Default(). remote and cache may be nil.
func NewStore(remote Remote, cache Cache, opts ...Option) *Store {
	s := &Store{
		current:     Default(),
		subs:        make(map[int]func(Layout)),
		remote:      remote,
		cache:       cache,
		log:         zap.NewNop(),
		pushTimeout: DefaultPushTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns a copy of the current layout.
func (s *Store) Get() Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Subscribe registers fn to be called with the new layout after every change.
// fn runs on the goroutine that made the change and must not block.
func (s *Store) Subscribe(fn func(Layout)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Load fetches the remote layout, then overlays the cached one (the cache
// wins), and applies the result. It never fails: every error is captured in
// the returned LoadResult and the in-memory layout is kept.
//
// If a local mutation happens while Load is in flight the loaded value is
// dropped, since the local edit is the more recent one.
func (s *Store) Load(ctx context.Context) LoadResult {
	s.mu.Lock()
	startSeq := s.seq
	s.mu.Unlock()

	var res LoadResult
	var candidate *Layout

	remote, remoteRes := s.fetchRemote(ctx)
	res.Remote = remoteRes
	if remoteRes.Outcome == OutcomeOK {
		candidate = &remote
	}

	cached, cacheRes := s.readCache()
	res.Cache = cacheRes
	if cacheRes.Outcome == OutcomeOK {
		candidate = &cached
	}

	s.mu.Lock()
	if candidate == nil {
		res.Layout = s.current.Clone()
		s.mu.Unlock()
		s.log.Debug("layout load kept current value",
			zap.Stringer("remote", res.Remote.Outcome),
			zap.Stringer("cache", res.Cache.Outcome))
		return res
	}
	if s.seq != startSeq {
		res.Stale = true
		res.Layout = s.current.Clone()
		s.mu.Unlock()
		s.log.Debug("layout load dropped, local edit happened while loading")
		return res
	}
	s.current = candidate.Clone()
	s.seq++
	res.Applied = true
	res.Layout = s.current.Clone()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs, res.Layout)
	return res
}

func (s *Store) fetchRemote(ctx context.Context) (Layout, SourceResult) {
	if s.remote == nil {
		return Layout{}, SourceResult{Outcome: OutcomeMissing}
	}
	l, err := s.remote.Fetch(ctx)
	if err != nil {
		s.log.Debug("remote layout fetch failed", zap.Error(err))
		if errors.Is(err, ErrMalformed) {
			return Layout{}, SourceResult{Outcome: OutcomeMalformed, Err: err}
		}
		return Layout{}, SourceResult{Outcome: OutcomeUnavailable, Err: err}
	}
	if err := l.Validate(); err != nil {
		s.log.Debug("remote layout rejected", zap.Error(err))
		return Layout{}, SourceResult{Outcome: OutcomeMalformed, Err: err}
	}
	return l, SourceResult{Outcome: OutcomeOK}
}

func (s *Store) readCache() (Layout, SourceResult) {
	if s.cache == nil {
		return Layout{}, SourceResult{Outcome: OutcomeMissing}
	}
	data, err := s.cache.Read()
	if errors.Is(err, ErrNotFound) {
		return Layout{}, SourceResult{Outcome: OutcomeMissing}
	}
	if err != nil {
		s.log.Debug("layout cache read failed", zap.Error(err))
		return Layout{}, SourceResult{Outcome: OutcomeUnavailable, Err: err}
	}
	l, err := Parse(data)
	if err != nil {
		s.log.Debug("layout cache unparseable", zap.Error(err))
		return Layout{}, SourceResult{Outcome: OutcomeMalformed, Err: err}
	}
	return l, SourceResult{Outcome: OutcomeOK}
}

// Save writes the current layout to the cache and pushes it to the remote
// store in the background. The push result is discarded.
func (s *Store) Save() SaveResult {
	s.mu.Lock()
	snapshot := s.current.Clone()
	s.mu.Unlock()
	return s.save(snapshot)
}

func (s *Store) save(l Layout) SaveResult {
	var res SaveResult
	data, err := json.Marshal(l)
	if err != nil {
		res.CacheErr = err
		return res
	}
	if s.cache != nil {
		if err := s.cache.Write(data); err != nil {
			s.log.Debug("layout cache write failed", zap.Error(err))
			res.CacheErr = err
		}
	}
	if s.remote != nil {
		s.pushes.Add(1)
		go func() {
			defer s.pushes.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
			defer cancel()
			if err := s.remote.Push(ctx, l); err != nil {
				s.log.Debug("remote layout push failed", zap.Error(err))
			}
		}()
	}
	return res
}

// Wait blocks until every background push started by Save has returned.
func (s *Store) Wait() {
	s.pushes.Wait()
}

// Replace swaps the whole layout, notifies subscribers and saves. An invalid
// layout is ignored and reported.
func (s *Store) Replace(l Layout) error {
	if err := l.Validate(); err != nil {
		s.log.Debug("layout replace rejected", zap.Error(err))
		return err
	}
	next := l.Clone()
	s.commit(func(Layout) Layout { return next })
	return nil
}

// Reorder rewrites every entry's order to its index in ids (entries missing
// from ids are left alone), notifies subscribers and saves.
func (s *Store) Reorder(ids []string) {
	s.commit(func(cur Layout) Layout { return cur.Reindex(ids) })
}

func (s *Store) commit(mutate func(Layout) Layout) {
	s.mu.Lock()
	s.current = mutate(s.current)
	s.seq++
	snapshot := s.current.Clone()
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.notify(subs, snapshot)
	s.save(snapshot)
}

func (s *Store) subscribersLocked() []func(Layout) {
	out := make([]func(Layout), 0, len(s.subs))
	for _, fn := range s.subs {
		out = append(out, fn)
	}
	return out
}

func (s *Store) notify(subs []func(Layout), l Layout) {
	for _, fn := range subs {
		fn(l.Clone())
	}
}
