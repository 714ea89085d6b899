package compare_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"go.uber.org/goleak"

	"eiendom_showcase/internal/compare"
	"eiendom_showcase/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ---- fakes ----

type fakeFetcher struct {
	mu      sync.Mutex
	list    []domain.Property
	listErr error
	gates   map[string]chan struct{}
	calls   map[string]int
}

func newFetcher(ids ...string) *fakeFetcher {
	f := &fakeFetcher{gates: map[string]chan struct{}{}, calls: map[string]int{}}
	for _, id := range ids {
		f.list = append(f.list, domain.Property{ID: id, Adresse: id + "-gata 1, Oslo"})
	}
	return f
}

func (f *fakeFetcher) ListProperties(ctx context.Context) ([]domain.Property, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Property(nil), f.list...), nil
}

// GetProperty ignores ctx on purpose: a gated fetch completes only when the
// gate is closed, which is how a slow server that never sees the cancel behaves.
func (f *fakeFetcher) GetProperty(ctx context.Context, id string) (domain.Property, error) {
	f.mu.Lock()
	f.calls[id]++
	gate := f.gates[id]
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	for _, p := range f.list {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}

func (f *fakeFetcher) gate(id string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[id] = ch
	return ch
}

func (f *fakeFetcher) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func newView(t *testing.T, f compare.Fetcher) *compare.View {
	t.Helper()
	v := compare.NewView(context.Background(), f, zerolog.Nop())
	t.Cleanup(v.Close)
	return v
}

func detailID(p *domain.Property) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// ---- tests ----

func TestNewView_StartsLoading(t *testing.T) {
	v := newView(t, newFetcher())
	st := v.State()
	if !st.Loading() || st.Comparable() {
		t.Fatalf("expected loading and nothing to compare, got %+v", st)
	}
}

func TestMount_SelectsFirstTwo(t *testing.T) {
	v := newView(t, newFetcher("a", "b", "c"))
	v.Mount(context.Background())
	v.Wait()

	st := v.State()
	if st.Loading() {
		t.Fatalf("expected ready after mount")
	}
	if st.Selected != [2]string{"a", "b"} {
		t.Fatalf("unexpected defaults %v", st.Selected)
	}
	if !st.Comparable() || detailID(st.Detail[compare.Left]) != "a" || detailID(st.Detail[compare.Right]) != "b" {
		t.Fatalf("expected both details loaded, got %+v", st.Detail)
	}
	if len(st.Properties) != 3 {
		t.Fatalf("expected 3 properties, got %d", len(st.Properties))
	}
}

func TestMount_OneProperty_NoDefaults(t *testing.T) {
	f := newFetcher("a")
	v := newView(t, f)
	v.Mount(context.Background())
	v.Wait()

	st := v.State()
	if st.Selected != [2]string{} || st.Comparable() {
		t.Fatalf("expected no selection, got %+v", st)
	}
	if f.callCount("a") != 0 {
		t.Fatalf("no detail fetch expected")
	}
}

func TestMount_ListFailure_EndsLoading(t *testing.T) {
	f := newFetcher()
	f.listErr = errors.New("connection refused")
	v := newView(t, f)
	v.Mount(context.Background())

	st := v.State()
	if st.Loading() {
		t.Fatalf("loading must end even when the list fetch fails")
	}
	if len(st.Properties) != 0 || st.Comparable() {
		t.Fatalf("expected empty view, got %+v", st)
	}
}

func TestSwap_ExchangesSelectionsAndRefetches(t *testing.T) {
	f := newFetcher("a", "b")
	v := newView(t, f)
	v.Mount(context.Background())
	v.Wait()
	before := v.State().Properties

	v.Swap()
	v.Wait()

	st := v.State()
	if st.Selected != [2]string{"b", "a"} {
		t.Fatalf("expected swapped selection, got %v", st.Selected)
	}
	if detailID(st.Detail[compare.Left]) != "b" || detailID(st.Detail[compare.Right]) != "a" {
		t.Fatalf("expected swapped details, got %s/%s", detailID(st.Detail[0]), detailID(st.Detail[1]))
	}
	if f.callCount("a") != 2 || f.callCount("b") != 2 {
		t.Fatalf("expected both sides to refetch, calls a=%d b=%d", f.callCount("a"), f.callCount("b"))
	}
	if diff := cmp.Diff(before, st.Properties); diff != "" {
		t.Fatalf("swap must not touch the list (-before +after):\n%s", diff)
	}
}

func TestSelect_SameIDDoesNotRefetch(t *testing.T) {
	f := newFetcher("a", "b")
	v := newView(t, f)
	v.Mount(context.Background())
	v.Wait()

	v.Select(compare.Left, "a")
	v.Wait()
	if f.callCount("a") != 1 {
		t.Fatalf("expected a single fetch for a, got %d", f.callCount("a"))
	}
}

func TestSelect_FailureLeavesDetailUnset(t *testing.T) {
	v := newView(t, newFetcher("a", "b"))
	v.Select(compare.Left, "ghost")
	v.Select(compare.Right, "b")
	v.Wait()

	st := v.State()
	if st.Detail[compare.Left] != nil {
		t.Fatalf("expected left detail to stay unset, got %+v", st.Detail[compare.Left])
	}
	if st.Comparable() {
		t.Fatalf("table must not render with one side missing")
	}
}

func TestSelect_FailureAfterLoadClearsOldDetail(t *testing.T) {
	v := newView(t, newFetcher("a", "b"))
	v.Mount(context.Background())
	v.Wait()

	v.Select(compare.Left, "ghost")
	v.Wait()

	st := v.State()
	if st.Selected[compare.Left] != "ghost" {
		t.Fatalf("expected left selection ghost, got %q", st.Selected[compare.Left])
	}
	if st.Detail[compare.Left] != nil {
		t.Fatalf("left still shows %q after a failed fetch for ghost", detailID(st.Detail[compare.Left]))
	}
	if st.Comparable() {
		t.Fatalf("table must not render for a selection that never loaded")
	}
}

func TestSelect_ClearsDetailWhilePending(t *testing.T) {
	f := newFetcher("a", "b", "c")
	v := newView(t, f)
	v.Mount(context.Background())
	v.Wait()

	gate := f.gate("c")
	v.Select(compare.Left, "c")
	st := v.State()
	close(gate)
	if st.Detail[compare.Left] != nil {
		t.Fatalf("pending side must not keep the previous detail, got %q", detailID(st.Detail[compare.Left]))
	}
	v.Wait()
	if detailID(v.State().Detail[compare.Left]) != "c" {
		t.Fatalf("expected c to load")
	}
}

func TestSelect_EmptyIDDoesNotFetch(t *testing.T) {
	f := newFetcher("a")
	v := newView(t, f)
	v.Select(compare.Left, "")
	v.Wait()
	if len(f.calls) != 0 {
		t.Fatalf("expected no fetches, got %v", f.calls)
	}
}

func TestSelect_LatestWins(t *testing.T) {
	f := newFetcher("slow", "fast")
	slow := f.gate("slow")
	v := newView(t, f)

	v.Select(compare.Left, "slow")
	v.Select(compare.Left, "fast")

	// let the superseded fetch finish after the newer one
	close(slow)
	v.Wait()

	st := v.State()
	if st.Selected[compare.Left] != "fast" || detailID(st.Detail[compare.Left]) != "fast" {
		t.Fatalf("stale response overwrote newer selection: selected=%s detail=%s",
			st.Selected[compare.Left], detailID(st.Detail[compare.Left]))
	}
}

func TestSides_AreIndependent(t *testing.T) {
	f := newFetcher("a", "b")
	gate := f.gate("a")
	v := newView(t, f)

	v.Select(compare.Left, "a")
	v.Select(compare.Right, "b")

	// right resolves first while left is still in flight
	deadline := time.Now().Add(2 * time.Second)
	for detailID(v.State().Detail[compare.Right]) != "b" {
		if time.Now().After(deadline) {
			close(gate)
			t.Fatalf("right side never settled")
		}
		time.Sleep(time.Millisecond)
	}
	if v.State().Detail[compare.Left] != nil {
		t.Fatalf("left must still be pending")
	}
	close(gate)
	v.Wait()
	if !v.State().Comparable() {
		t.Fatalf("expected both sides loaded")
	}
}
