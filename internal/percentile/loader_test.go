package percentile_test

import (
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/mind-engage/growthchart/internal/percentile"
)

func TestEmbeddedTables(t *testing.T) {
	store, err := percentile.LoadStore(context.Background(), percentile.EmbeddedLoader())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	var want []string
	for _, p := range percentile.Partitions {
		tbl, err := store.Table(p)
		if err != nil {
			t.Fatalf("table %s: %v", p, err)
		}
		if err := tbl.Validate(); err != nil {
			t.Fatalf("table %s: %v", p, err)
		}
		if len(tbl.Rows) < 10 {
			t.Fatalf("table %s: only %d rows", p, len(tbl.Rows))
		}
		if want == nil {
			want = tbl.Labels
		}
		if strings.Join(tbl.Labels, ",") != strings.Join(want, ",") {
			t.Fatalf("table %s labels %v differ from %v", p, tbl.Labels, want)
		}
	}
	if strings.Join(want, ",") != "P3,P15,P50,P85,P97" {
		t.Fatalf("unexpected label set %v", want)
	}
}

func TestEmbeddedTables_MedianBoy(t *testing.T) {
	store, err := percentile.LoadStore(context.Background(), percentile.EmbeddedLoader())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	res, err := percentile.NewClassifier(store).Classify(percentile.Request{Sex: "H", Age: 1, Height: 75.0, Weight: 9.5})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res.Label != "P50" {
		t.Fatalf("label = %s, want P50", res.Label)
	}
}

func TestCSVLoader_Missing(t *testing.T) {
	fsys := fstest.MapFS{}
	for _, p := range percentile.Partitions[:3] {
		fsys["charts/"+percentile.FileName(p)] = &fstest.MapFile{Data: []byte("height,P50\n70,8\n")}
	}
	l := percentile.CSVLoader{Source: percentile.FSSource{FS: fsys}, Prefix: "charts/"}
	_, err := percentile.LoadStore(context.Background(), l)
	if !errors.Is(err, percentile.ErrMissingReferenceData) {
		t.Fatalf("expected ErrMissingReferenceData, got %v", err)
	}
}

func TestMemoryLoader_Missing(t *testing.T) {
	_, err := percentile.LoadStore(context.Background(), percentile.MemoryLoader{})
	if !errors.Is(err, percentile.ErrMissingReferenceData) {
		t.Fatalf("expected ErrMissingReferenceData, got %v", err)
	}
}

type countingLoader struct {
	calls atomic.Int32
	inner percentile.Loader
}

func (c *countingLoader) Load(ctx context.Context, p percentile.Partition) (*percentile.Table, error) {
	c.calls.Add(1)
	return c.inner.Load(ctx, p)
}

func TestLazy_LoadsOnce(t *testing.T) {
	cl := &countingLoader{inner: fixtureLoader()}
	z := percentile.NewLazy(cl)

	var wg sync.WaitGroup
	labels := make([]string, 16)
	errs := make([]error, 16)
	for i := range labels {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := z.Classify(percentile.Request{Sex: "H", Age: 1, Height: 75, Weight: 9.5})
			labels[i], errs[i] = res.Label, err
		}(i)
	}
	wg.Wait()

	for i := range labels {
		if errs[i] != nil || labels[i] != "P50" {
			t.Fatalf("goroutine %d: %q %v", i, labels[i], errs[i])
		}
	}
	if got := cl.calls.Load(); got != int32(len(percentile.Partitions)) {
		t.Fatalf("loader called %d times, want %d", got, len(percentile.Partitions))
	}
}

type failingSource struct{}

func (failingSource) Get(context.Context, string) (io.ReadCloser, error) {
	return nil, errors.New("bucket unreachable")
}

func TestLazy_StickyError(t *testing.T) {
	z := percentile.NewLazy(percentile.CSVLoader{Source: failingSource{}})
	for i := 0; i < 2; i++ {
		if _, err := z.Classify(percentile.Request{Sex: "F", Age: 1, Height: 75, Weight: 9}); !errors.Is(err, percentile.ErrMissingReferenceData) {
			t.Fatalf("call %d: expected ErrMissingReferenceData, got %v", i, err)
		}
	}
}

func TestLoadStore_RejectsNonFiniteTable(t *testing.T) {
	loader := fixtureLoader()
	bad := fixtureTable(maleInfant)
	bad.Rows[0].Breakpoints[0] = math.NaN()
	loader[maleInfant] = bad

	_, err := percentile.LoadStore(context.Background(), loader)
	if !errors.Is(err, percentile.ErrEmptyCandidateSet) {
		t.Fatalf("expected ErrEmptyCandidateSet, got %v", err)
	}
}

type nilLoader struct{}

func (nilLoader) Load(context.Context, percentile.Partition) (*percentile.Table, error) {
	return nil, nil
}

func TestLoadStore_NilTable(t *testing.T) {
	_, err := percentile.LoadStore(context.Background(), nilLoader{})
	if !errors.Is(err, percentile.ErrMissingReferenceData) {
		t.Fatalf("expected ErrMissingReferenceData, got %v", err)
	}
}
