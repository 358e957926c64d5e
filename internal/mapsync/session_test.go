package mapsync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

type fakeSource struct {
	mu      sync.Mutex
	anchor  *time.Time
	err     error
	calls   map[string]int
	release chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: make(map[string]int)}
}

func (f *fakeSource) AnchorDate(_ context.Context) (*time.Time, error) {
	return f.anchor, nil
}

func (f *fakeSource) MapData(ctx context.Context, date *time.Time) (domain.MapData, error) {
	key := ""
	if date != nil {
		key = domain.FormatDay(*date)
	}

	f.mu.Lock()
	f.calls[key]++
	release := f.release
	f.mu.Unlock()

	if release != nil {
		select {
		case <-release:
		case <-ctx.Done():
			return domain.MapData{}, ctx.Err()
		}
	}

	if f.err != nil {
		return domain.MapData{}, f.err
	}

	return domain.MapData{
		VendorsOnDate:   []domain.VendorForDate{},
		AllStallLayouts: []domain.StallLayout{},
		AllPois:         []domain.POI{},
		CurrentDate:     key,
	}, nil
}

func (f *fakeSource) DateOptions(_ context.Context) ([]domain.DateOption, error) {
	return []domain.DateOption{{Label: "Saturday, May 2, 2026", Value: "2026-05-02"}}, nil
}

func (f *fakeSource) callsFor(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[key]
}

func next(t *testing.T, s *Session) Outbound {
	t.Helper()

	select {
	case msg := <-s.Outbox():
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound message")
		return nil
	}
}

func TestSessionInitialLoad(t *testing.T) {
	anchor := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	source := newFakeSource()
	source.anchor = &anchor

	s := NewSession("s1", source, time.Millisecond)
	defer s.Close()

	assert.Equal(t, StateUninitialized, s.State())
	s.Start()
	assert.Equal(t, StateAwaitingIframeReady, s.State())
	assert.Equal(t, SessionOpened{SessionID: "s1"}, next(t, s))

	assert.ErrorIs(t, s.Handle(RequestDateData{Date: "2026-05-09"}), ErrNotReady)

	require.NoError(t, s.Handle(IframeReady{Status: "ok"}))
	assert.Equal(t, StateReady, s.State())

	assert.IsType(t, SetMarketDates{}, next(t, s))
	assert.Equal(t, MapLoading{}, next(t, s))
	loaded, ok := next(t, s).(LoadMapData)
	require.True(t, ok)
	assert.Equal(t, "2026-05-02", loaded.CurrentDate)
}

func TestSessionInitialLoadWithoutAnchor(t *testing.T) {
	s := NewSession("s1", newFakeSource(), time.Millisecond)
	defer s.Close()

	s.Start()
	next(t, s)
	require.NoError(t, s.Handle(IframeReady{}))

	next(t, s)
	next(t, s)
	loaded, ok := next(t, s).(LoadMapData)
	require.True(t, ok)
	assert.Empty(t, loaded.CurrentDate)
	assert.Empty(t, loaded.VendorsOnDate)
}

func TestSessionRequestDateData(t *testing.T) {
	s := readySession(t, newFakeSource())
	defer s.Close()

	require.NoError(t, s.Handle(RequestDateData{Date: "2026-05-09"}))
	assert.Equal(t, MapLoading{}, next(t, s))
	loaded, ok := next(t, s).(LoadMapData)
	require.True(t, ok)
	assert.Equal(t, "2026-05-09", loaded.CurrentDate)
}

func TestSessionLoadFailureStaysReady(t *testing.T) {
	source := newFakeSource()
	s := readySession(t, source)
	defer s.Close()

	source.mu.Lock()
	source.err = errors.New("database unreachable")
	source.mu.Unlock()

	require.NoError(t, s.Handle(RequestDateData{Date: "2026-05-09"}))
	assert.Equal(t, MapLoading{}, next(t, s))
	assert.IsType(t, MapDataError{}, next(t, s))
	assert.Equal(t, StateReady, s.State())
}

func TestSessionInvalidDate(t *testing.T) {
	s := readySession(t, newFakeSource())
	defer s.Close()

	require.NoError(t, s.Handle(RequestDateData{Date: "May 9"}))
	assert.IsType(t, MapDataError{}, next(t, s))
	assert.Equal(t, StateReady, s.State())
}

func TestSessionDropsSameDateWhileInFlight(t *testing.T) {
	source := newFakeSource()
	s := readySession(t, source)
	defer s.Close()

	release := make(chan struct{})
	source.mu.Lock()
	source.release = release
	source.mu.Unlock()

	require.NoError(t, s.Handle(RequestDateData{Date: "2026-05-09"}))
	assert.Equal(t, MapLoading{}, next(t, s))
	require.Eventually(t, func() bool { return source.callsFor("2026-05-09") == 1 }, time.Second, time.Millisecond)

	// Same date while the first load is blocked: dropped.
	require.NoError(t, s.Handle(RequestDateData{Date: "2026-05-09"}))
	// Another date: allowed to run alongside.
	require.NoError(t, s.Handle(RequestDateData{Date: "2026-05-16"}))
	assert.Equal(t, MapLoading{}, next(t, s))
	require.Eventually(t, func() bool { return source.callsFor("2026-05-16") == 1 }, time.Second, time.Millisecond)

	close(release)
	assert.IsType(t, LoadMapData{}, next(t, s))
	assert.IsType(t, LoadMapData{}, next(t, s))
	assert.Equal(t, 1, source.callsFor("2026-05-09"))

	// The guard is released once the load finishes.
	require.NoError(t, s.Handle(RequestDateData{Date: "2026-05-09"}))
	assert.Equal(t, MapLoading{}, next(t, s))
	assert.IsType(t, LoadMapData{}, next(t, s))
	assert.Equal(t, 2, source.callsFor("2026-05-09"))
}

func TestSessionSearchTextIsDebounced(t *testing.T) {
	s := NewSession("s1", newFakeSource(), 30*time.Millisecond)
	defer s.Close()

	s.SearchText("h")
	s.SearchText("ho")
	s.SearchText("honey")

	assert.Equal(t, SearchText{Term: "honey"}, next(t, s))
	select {
	case msg := <-s.Outbox():
		t.Fatalf("unexpected message %#v", msg)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestSessionHighlight(t *testing.T) {
	s := NewSession("s1", newFakeSource(), time.Millisecond)
	defer s.Close()

	s.SetHighlight("poiType", "Restroom")
	s.ClearHighlight()

	assert.Equal(t, SetHighlight{Kind: "poiType", ID: "Restroom"}, next(t, s))
	assert.Equal(t, ClearHighlight{}, next(t, s))
}

func TestSessionHighlightDoesNotWaitOnFullOutbox(t *testing.T) {
	s := NewSession("s1", newFakeSource(), time.Millisecond)
	defer s.Close()

	done := make(chan int)
	go func() {
		sent := 0
		for i := 0; i < outboxSize+4; i++ {
			if s.SetHighlight("tag", "organic") {
				sent++
			}
		}
		if s.ClearHighlight() {
			sent++
		}
		done <- sent
	}()

	select {
	case sent := <-done:
		assert.Equal(t, outboxSize, sent)
	case <-time.After(2 * time.Second):
		t.Fatal("highlight blocked on a full outbox")
	}

	assert.Len(t, s.Outbox(), outboxSize)
}

func TestSessionCloseUnblocksLoads(t *testing.T) {
	source := newFakeSource()
	source.release = make(chan struct{})
	s := readySession(t, source)

	require.NoError(t, s.Handle(RequestDateData{Date: "2026-05-09"}))
	s.Close()

	assert.ErrorIs(t, s.Handle(RequestDateData{Date: "2026-05-09"}), ErrSessionClosed)
}

func readySession(t *testing.T, source *fakeSource) *Session {
	t.Helper()

	s := NewSession("s1", source, time.Millisecond)
	s.Start()
	next(t, s)
	require.NoError(t, s.Handle(IframeReady{}))
	next(t, s)
	next(t, s)
	next(t, s)

	return s
}
