package layout

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeRemote struct {
	mu       sync.Mutex
	layout   *Layout
	fetchErr error
	pushErr  error
	pushed   []Layout
	// onFetch runs inside Fetch, before it returns.
	onFetch func()
}

func (f *fakeRemote) Fetch(ctx context.Context) (Layout, error) {
	if f.onFetch != nil {
		f.onFetch()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return Layout{}, f.fetchErr
	}
	if f.layout == nil {
		return Layout{}, errors.New("status 404")
	}
	return f.layout.Clone(), nil
}

func (f *fakeRemote) Push(ctx context.Context, l Layout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushed = append(f.pushed, l.Clone())
	return f.pushErr
}

func (f *fakeRemote) pushes() []Layout {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Layout(nil), f.pushed...)
}

type memCache struct {
	data     []byte
	writeErr error
}

func (c *memCache) Read() ([]byte, error) {
	if c.data == nil {
		return nil, ErrNotFound
	}
	return c.data, nil
}

func (c *memCache) Write(data []byte) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.data = append([]byte(nil), data...)
	return nil
}

func layoutWithOrder(ids ...string) Layout {
	l := Layout{Version: 1}
	for i, id := range ids {
		l.Widgets = append(l.Widgets, Widget{ID: id, Order: i, Span: 2, Visible: true})
	}
	return l
}

func mustJSON(t *testing.T, l Layout) []byte {
	t.Helper()
	b, err := json.Marshal(l)
	require.NoError(t, err)
	return b
}

func TestStore_InitialValueIsDefault(t *testing.T) {
	s := NewStore(nil, nil)
	assert.Equal(t, Default(), s.Get())
}

func TestStore_Load_RemoteOnly(t *testing.T) {
	remoteLayout := layoutWithOrder("validate", "chat", "create")
	s := NewStore(&fakeRemote{layout: &remoteLayout}, &memCache{})

	res := s.Load(context.Background())

	assert.True(t, res.Applied)
	assert.Equal(t, OutcomeOK, res.Remote.Outcome)
	assert.Equal(t, OutcomeMissing, res.Cache.Outcome)
	assert.Equal(t, []string{"validate", "chat", "create"}, s.Get().OrderedIDs())
}

func TestStore_Load_CacheWinsOverRemote(t *testing.T) {
	remoteLayout := layoutWithOrder("validate", "chat", "create")
	cached := layoutWithOrder("create", "validate", "chat")
	s := NewStore(&fakeRemote{layout: &remoteLayout}, &memCache{data: mustJSON(t, cached)})

	res := s.Load(context.Background())

	assert.True(t, res.Applied)
	assert.Equal(t, OutcomeOK, res.Remote.Outcome)
	assert.Equal(t, OutcomeOK, res.Cache.Outcome)
	assert.Equal(t, cached, s.Get())
}

func TestStore_Load_FailuresKeepCurrentValue(t *testing.T) {
	tests := []struct {
		name       string
		remote     *fakeRemote
		cache      *memCache
		wantRemote Outcome
		wantCache  Outcome
	}{
		{
			name:       "remote down, no cache",
			remote:     &fakeRemote{fetchErr: errors.New("connection refused")},
			cache:      &memCache{},
			wantRemote: OutcomeUnavailable,
			wantCache:  OutcomeMissing,
		},
		{
			name:       "remote malformed, cache garbage",
			remote:     &fakeRemote{fetchErr: ErrMalformed},
			cache:      &memCache{data: []byte("{{{")},
			wantRemote: OutcomeMalformed,
			wantCache:  OutcomeMalformed,
		},
		{
			name:       "remote layout with duplicate ids",
			remote:     &fakeRemote{layout: &Layout{Widgets: []Widget{{ID: "chat"}, {ID: "chat"}}}},
			cache:      &memCache{data: []byte(`{"version":1}`)},
			wantRemote: OutcomeMalformed,
			wantCache:  OutcomeMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(tt.remote, tt.cache)

			res := s.Load(context.Background())

			assert.False(t, res.Applied)
			assert.Equal(t, tt.wantRemote, res.Remote.Outcome)
			assert.Equal(t, tt.wantCache, res.Cache.Outcome)
			assert.Equal(t, Default(), s.Get())
		})
	}
}

func TestStore_SaveThenFreshLoad_RoundTrip(t *testing.T) {
	defer goleak.VerifyNone(t)

	cache := &memCache{}
	remote := &fakeRemote{fetchErr: errors.New("unreachable")}
	s := NewStore(remote, cache)
	s.Reorder([]string{"create", "chat", "validate"})
	s.Wait()

	hidden := s.Get()
	hidden.Widgets[1].Visible = false
	require.NoError(t, s.Replace(hidden))
	s.Wait()

	fresh := NewStore(&fakeRemote{fetchErr: errors.New("unreachable")}, cache)
	res := fresh.Load(context.Background())

	require.True(t, res.Applied)
	got := fresh.Get()
	assert.Equal(t, s.Get().OrderedIDs(), got.OrderedIDs())
	for _, w := range s.Get().Widgets {
		gw, ok := got.Lookup(w.ID)
		require.True(t, ok, w.ID)
		assert.Equal(t, w.Visible, gw.Visible, w.ID)
	}
}

func TestStore_Save_PushesRemoteInBackground(t *testing.T) {
	defer goleak.VerifyNone(t)

	remote := &fakeRemote{pushErr: errors.New("500")}
	cache := &memCache{}
	s := NewStore(remote, cache)

	res := s.Save()
	s.Wait()

	assert.NoError(t, res.CacheErr)
	require.Len(t, remote.pushes(), 1)
	assert.Equal(t, Default(), remote.pushes()[0])
	assert.NotNil(t, cache.data)
}

func TestStore_Save_ReportsCacheFailure(t *testing.T) {
	s := NewStore(nil, &memCache{writeErr: errors.New("disk full")})
	res := s.Save()
	assert.EqualError(t, res.CacheErr, "disk full")
}

func TestStore_Reorder_NotifiesAndPersists(t *testing.T) {
	cache := &memCache{}
	s := NewStore(nil, cache)
	var seen []Layout
	unsubscribe := s.Subscribe(func(l Layout) { seen = append(seen, l) })

	s.Reorder([]string{"create", "chat", "validate"})

	require.Len(t, seen, 1)
	assert.Equal(t, []string{"create", "chat", "validate"}, seen[0].OrderedIDs())
	cached, err := Parse(cache.data)
	require.NoError(t, err)
	assert.Equal(t, seen[0], cached)

	unsubscribe()
	s.Reorder([]string{"chat", "validate", "create"})
	assert.Len(t, seen, 1)
}

func TestStore_Replace_RejectsInvalid(t *testing.T) {
	cache := &memCache{}
	s := NewStore(nil, cache)

	err := s.Replace(Layout{Version: 1})

	assert.ErrorIs(t, err, ErrMalformed)
	assert.Equal(t, Default(), s.Get())
	assert.Nil(t, cache.data, "rejected layout must not be saved")
}

func TestStore_Load_DropsResultWhenLocalEditHappenedMeanwhile(t *testing.T) {
	remoteLayout := layoutWithOrder("validate", "create", "chat")
	remote := &fakeRemote{layout: &remoteLayout}
	s := NewStore(remote, &memCache{})
	remote.onFetch = func() {
		// The user drags while the fetch is in flight.
		s.Reorder([]string{"create", "chat", "validate"})
	}

	res := s.Load(context.Background())
	s.Wait()

	assert.True(t, res.Stale)
	assert.False(t, res.Applied)
	assert.Equal(t, []string{"create", "chat", "validate"}, s.Get().OrderedIDs())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "ok", OutcomeOK.String())
	assert.Equal(t, "missing", OutcomeMissing.String())
	assert.Equal(t, "unavailable", OutcomeUnavailable.String())
	assert.Equal(t, "malformed", OutcomeMalformed.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
