package mapsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

var (
	ErrNotReady      = errors.New("map view is not ready")
	ErrSessionClosed = errors.New("session closed")
)

type State int

const (
	StateUninitialized State = iota
	StateAwaitingIframeReady
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateAwaitingIframeReady:
		return "awaiting-iframe-ready"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DataSource answers the queries a map view can trigger.
type DataSource interface {
	AnchorDate(ctx context.Context) (*time.Time, error)
	MapData(ctx context.Context, date *time.Time) (domain.MapData, error)
	DateOptions(ctx context.Context) ([]domain.DateOption, error)
}

const outboxSize = 16

// Session drives one connected map view. Inbound messages go to Handle; every
// message for the view is delivered on Outbox until Done is closed.
//
// At most one load per distinct date runs at a time. A second request for a
// date that is still loading is dropped. Loads for different dates run
// concurrently and whichever finishes last wins on the view.
type Session struct {
	id       string
	source   DataSource
	debounce time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	out    chan Outbound
	wg     sync.WaitGroup

	mu          sync.Mutex
	state       State
	loading     map[string]struct{}
	searchTimer *time.Timer
}

func NewSession(id string, source DataSource, debounce time.Duration) *Session {
	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		id:       id,
		source:   source,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		out:      make(chan Outbound, outboxSize),
		state:    StateUninitialized,
		loading:  make(map[string]struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

func (s *Session) Outbox() <-chan Outbound {
	return s.out
}

func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Start marks the page as loaded and tells the view its session id.
func (s *Session) Start() {
	s.mu.Lock()
	if s.state == StateUninitialized {
		s.state = StateAwaitingIframeReady
	}
	s.mu.Unlock()

	s.emit(SessionOpened{SessionID: s.id})
}

func (s *Session) Handle(msg Inbound) error {
	if s.ctx.Err() != nil {
		return ErrSessionClosed
	}

	switch m := msg.(type) {
	case IframeReady:
		s.mu.Lock()
		if s.state == StateUninitialized {
			s.mu.Unlock()
			return ErrNotReady
		}
		s.state = StateReady
		s.mu.Unlock()

		s.goLoad(s.initialLoad)
		return nil

	case RequestDateData:
		if s.State() != StateReady {
			return ErrNotReady
		}

		date, err := domain.ParseDay(m.Date)
		if err != nil {
			s.emit(MapDataError{Message: fmt.Sprintf("invalid date %q", m.Date)})
			return nil
		}

		s.goLoad(func(ctx context.Context) {
			s.loadDate(ctx, &date)
		})
		return nil

	default:
		return fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}
}

func (s *Session) goLoad(load func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		load(s.ctx)
	}()
}

func (s *Session) initialLoad(ctx context.Context) {
	options, err := s.source.DateOptions(ctx)
	if err != nil {
		zap.L().Warn("failed to list market dates",
			zap.String("session_id", s.id), zap.Error(err))
	} else {
		s.emit(SetMarketDates{Dates: options})
	}

	anchor, err := s.source.AnchorDate(ctx)
	if err != nil {
		zap.L().Error("failed to resolve anchor date",
			zap.String("session_id", s.id), zap.Error(err))
		s.emit(MapDataError{Message: "Unable to determine the market date."})
		return
	}

	s.loadDate(ctx, anchor)
}

func (s *Session) loadDate(ctx context.Context, date *time.Time) {
	key := ""
	if date != nil {
		key = domain.FormatDay(*date)
	}

	s.mu.Lock()
	if _, busy := s.loading[key]; busy {
		s.mu.Unlock()
		zap.L().Debug("date already loading, request dropped",
			zap.String("session_id", s.id), zap.String("date", key))
		return
	}
	s.loading[key] = struct{}{}
	s.mu.Unlock()

	s.emit(MapLoading{})

	data, err := s.source.MapData(ctx, date)

	s.mu.Lock()
	delete(s.loading, key)
	s.mu.Unlock()

	if err != nil {
		zap.L().Error("failed to load map data",
			zap.String("session_id", s.id), zap.String("date", key), zap.Error(err))
		s.emit(MapDataError{Message: "Unable to load vendors for this date."})
		return
	}

	s.emit(LoadMapData{MapData: data})
}

// SearchText sends term to the view once no newer term has arrived for the
// debounce interval.
func (s *Session) SearchText(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchTimer != nil {
		s.searchTimer.Stop()
	}
	s.searchTimer = time.AfterFunc(s.debounce, func() {
		s.emit(SearchText{Term: term})
	})
}

// SetHighlight and ClearHighlight never wait on the view. When the outbox is
// full the command is dropped and false is returned.
func (s *Session) SetHighlight(kind, id string) bool {
	return s.offer(SetHighlight{Kind: kind, ID: id})
}

func (s *Session) ClearHighlight() bool {
	return s.offer(ClearHighlight{})
}

func (s *Session) emit(msg Outbound) {
	select {
	case s.out <- msg:
	case <-s.ctx.Done():
	}
}

func (s *Session) offer(msg Outbound) bool {
	if s.ctx.Err() != nil {
		return false
	}

	select {
	case s.out <- msg:
		return true
	default:
		zap.L().Warn("map view not keeping up, command dropped",
			zap.String("session_id", s.id), zap.String("type", msg.Type()))
		return false
	}
}

// Close stops the session and waits for in-flight loads to return.
func (s *Session) Close() {
	s.cancel()

	s.mu.Lock()
	if s.searchTimer != nil {
		s.searchTimer.Stop()
	}
	s.mu.Unlock()

	s.wg.Wait()
}
