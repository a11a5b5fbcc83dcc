package main

import (
	"context"
	"fmt"
	"log"

	"github.com/mind-engage/growthchart/internal/config"
	"github.com/mind-engage/growthchart/internal/growth"
	"github.com/mind-engage/growthchart/internal/percentile"
	"github.com/mind-engage/growthchart/internal/storage"
)

// chartBlobs opens the blob store that holds chart CSVs, with the key prefix
// to read them under.
func chartBlobs(ctx context.Context, cfg config.Config) (storage.BlobStore, string, error) {
	switch cfg.RefSource {
	case config.RefFS:
		s, err := storage.NewFSStore(cfg.RefBasePath)
		return s, "", err
	case config.RefS3:
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			Region:          cfg.RefS3Region,
			Bucket:          cfg.RefS3Bucket,
			Endpoint:        cfg.RefS3Endpoint,
			AccessKeyID:     cfg.RefS3AccessKey,
			SecretAccessKey: cfg.RefS3SecretKey,
			PathStyle:       cfg.RefS3PathStyle,
		})
		return s, cfg.RefS3Prefix, err
	default:
		return nil, "", fmt.Errorf("no blob store for reference source %q", cfg.RefSource)
	}
}

func chartLoader(ctx context.Context, cfg config.Config) (percentile.Loader, error) {
	if cfg.RefSource == config.RefEmbedded {
		return percentile.EmbeddedLoader(), nil
	}
	bs, prefix, err := chartBlobs(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return percentile.CSVLoader{Source: bs, Prefix: prefix}, nil
}

// newClassifier loads the charts now, or defers them to first use when
// REFERENCE_LAZY is set.
func newClassifier(ctx context.Context, cfg config.Config) (growth.Classifier, error) {
	l, err := chartLoader(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.RefLazy {
		return percentile.NewLazy(l), nil
	}
	refs, err := percentile.LoadStore(ctx, l)
	if err != nil {
		return nil, err
	}
	return percentile.NewClassifier(refs), nil
}

// seedCharts copies the embedded charts into the configured blob store so an
// fs or s3 deployment starts from the shipped defaults.
func seedCharts(ctx context.Context, cfg config.Config) error {
	bs, prefix, err := chartBlobs(ctx, cfg)
	if err != nil {
		return err
	}
	src := percentile.EmbeddedFS()
	for _, p := range percentile.Partitions {
		name := percentile.FileName(p)
		f, err := src.Open(name)
		if err != nil {
			return err
		}
		key, err := bs.Put(ctx, prefix+name, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("put %s: %w", name, err)
		}
		log.Printf("seeded %s (%s)", key, bs.Driver())
	}
	// the written files must load back cleanly
	_, err = percentile.LoadStore(ctx, percentile.CSVLoader{Source: bs, Prefix: prefix})
	return err
}
