// Package compare holds the side-by-side comparison state machine.
//
// A View starts in the loading state, fetches the property list on Mount and
// then keeps one detail slot per side. Each side fetches independently; a newer
// selection cancels the older fetch and any late result for a superseded
// selection is dropped, so the slot always ends up holding the latest choice.
package compare

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"eiendom_showcase/internal/domain"
)

// Fetcher is satisfied by app.QueryService and propertyapi.Client.
type Fetcher interface {
	ListProperties(ctx context.Context) ([]domain.Property, error)
	GetProperty(ctx context.Context, id string) (domain.Property, error)
}

type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

type Status int

const (
	Loading Status = iota
	Ready
)

type slot struct {
	selected string
	detail   *domain.Property
	gen      uint64
	cancel   context.CancelFunc
}

type View struct {
	fetcher Fetcher
	log     zerolog.Logger

	mu         sync.Mutex
	base       context.Context
	stop       context.CancelFunc
	status     Status
	properties []domain.Property
	sides      [2]slot

	wg sync.WaitGroup
}

// NewView returns a view whose fetches are bound to ctx.
func NewView(ctx context.Context, f Fetcher, log zerolog.Logger) *View {
	base, stop := context.WithCancel(ctx)
	return &View{fetcher: f, log: log, base: base, stop: stop}
}

// Mount fetches the property list and, when at least two exist, selects the
// first two. A failed list fetch is logged and leaves the list empty; either
// way the view leaves the loading state.
func (v *View) Mount(ctx context.Context) {
	list, err := v.fetcher.ListProperties(ctx)

	v.mu.Lock()
	v.status = Ready
	if err != nil {
		v.mu.Unlock()
		v.log.Error().Err(err).Msg("failed to fetch properties")
		return
	}
	v.properties = list
	v.mu.Unlock()

	if len(list) >= 2 {
		v.Select(Left, list[0].ID)
		v.Select(Right, list[1].ID)
	}
}

// Select changes one side's selection, drops that side's detail and starts
// fetching the new one. Selecting the current id again does nothing; an empty
// id clears the selection without fetching.
func (v *View) Select(side Side, id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectLocked(side, id)
}

// Swap exchanges the selected ids. The fetched details are not swapped: both
// sides are cleared and fetch again for their new selection.
func (v *View) Swap() {
	v.mu.Lock()
	defer v.mu.Unlock()
	l, r := v.sides[Left].selected, v.sides[Right].selected
	v.selectLocked(Left, r)
	v.selectLocked(Right, l)
}

func (v *View) selectLocked(side Side, id string) {
	s := &v.sides[side]
	if s.selected == id {
		return
	}
	// the old detail belongs to another id
	s.selected = id
	s.detail = nil
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if id == "" {
		return
	}

	ctx, cancel := context.WithCancel(v.base)
	s.cancel = cancel
	gen := s.gen

	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		defer cancel()
		p, err := v.fetcher.GetProperty(ctx, id)
		v.settle(side, gen, id, p, err)
	}()
}

func (v *View) settle(side Side, gen uint64, id string, p domain.Property, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	s := &v.sides[side]
	if s.gen != gen {
		v.log.Debug().Stringer("side", side).Str("id", id).Msg("dropping stale property detail")
		return
	}
	s.cancel = nil
	if err != nil {
		v.log.Error().Err(err).Stringer("side", side).Str("id", id).Msg("failed to fetch property")
		return
	}
	s.detail = &p
}

// Wait blocks until every started detail fetch has finished.
func (v *View) Wait() { v.wg.Wait() }

// Close cancels in-flight fetches and waits for them.
func (v *View) Close() {
	v.stop()
	v.wg.Wait()
}

// State is a consistent copy of the view for rendering.
type State struct {
	Status     Status
	Properties []domain.Property
	Selected   [2]string
	Detail     [2]*domain.Property
}

func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	st := State{Status: v.status, Properties: append([]domain.Property(nil), v.properties...)}
	for i := range v.sides {
		st.Selected[i] = v.sides[i].selected
		if d := v.sides[i].detail; d != nil {
			cp := *d
			st.Detail[i] = &cp
		}
	}
	return st
}

// Loading is true until the list fetch has settled.
func (s State) Loading() bool { return s.Status == Loading }

// Comparable is true once both sides have a loaded detail; only then is the table shown.
func (s State) Comparable() bool { return s.Detail[Left] != nil && s.Detail[Right] != nil }
