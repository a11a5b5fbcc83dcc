package percentile

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sync"
)

// Loader produces the reference table for one partition. Implementations
// decide where tables live (embedded files, a blob store, a database).
type Loader interface {
	Load(ctx context.Context, p Partition) (*Table, error)
}

// Source is the read side of a blob store. storage.FSStore and
// storage.S3Store satisfy it.
type Source interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// FileName is the object key of a partition's CSV, e.g. "male_0_2.csv".
func FileName(p Partition) string { return p.String() + ".csv" }

// CSVLoader reads "<Prefix><partition>.csv" from Source.
type CSVLoader struct {
	Source Source
	Prefix string
}

func (l CSVLoader) Load(ctx context.Context, p Partition) (*Table, error) {
	key := l.Prefix + FileName(p)
	rc, err := l.Source.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingReferenceData, key, err)
	}
	defer rc.Close()
	return ParseCSV(p, rc)
}

// FSSource adapts an fs.FS to Source.
type FSSource struct{ FS fs.FS }

func (s FSSource) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return s.FS.Open(key)
}

//go:embed data/*.csv
var embedded embed.FS

// EmbeddedFS exposes the CSVs compiled into the binary, keyed by FileName.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err) // the embed pattern guarantees the directory
	}
	return sub
}

// EmbeddedLoader loads the default charts shipped with the binary.
func EmbeddedLoader() Loader {
	return CSVLoader{Source: FSSource{FS: EmbeddedFS()}}
}

// MemoryLoader serves tables already held in memory.
type MemoryLoader map[Partition]*Table

func (m MemoryLoader) Load(_ context.Context, p Partition) (*Table, error) {
	t, ok := m[p]
	if !ok || t == nil {
		return nil, fmt.Errorf("%w: no table for %s", ErrMissingReferenceData, p)
	}
	return t, nil
}

// LoadStore loads every partition from l and builds the store.
func LoadStore(ctx context.Context, l Loader) (*ReferenceDataStore, error) {
	tables := make([]*Table, 0, len(Partitions))
	for _, p := range Partitions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := l.Load(ctx, p)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("%w: loader returned no table for %s", ErrMissingReferenceData, p)
		}
		if t.Partition != p {
			// loaders may not know the key they were asked for
			cp := *t
			cp.Partition = p
			t = &cp
		}
		tables = append(tables, t)
	}
	return NewReferenceDataStore(tables...)
}

// Lazy defers LoadStore to first use. Concurrent first callers block on a
// single load and all observe its outcome.
type Lazy struct {
	loader Loader

	once  sync.Once
	store *ReferenceDataStore
	err   error
}

func NewLazy(l Loader) *Lazy { return &Lazy{loader: l} }

func (z *Lazy) Store(ctx context.Context) (*ReferenceDataStore, error) {
	z.once.Do(func() {
		z.store, z.err = LoadStore(ctx, z.loader)
	})
	return z.store, z.err
}

// Classify loads the tables on first call and classifies req. It has the same
// shape as (*Classifier).Classify so either can back a caller.
func (z *Lazy) Classify(req Request) (Result, error) {
	s, err := z.Store(context.Background())
	if err != nil {
		return Result{}, err
	}
	return NewClassifier(s).Classify(req)
}
