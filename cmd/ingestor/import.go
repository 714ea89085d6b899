package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"

	redisad "eiendom_showcase/internal/adapters/redis"
	"eiendom_showcase/internal/app"
	"eiendom_showcase/internal/domain"
	filestore "eiendom_showcase/internal/storage/file"
	mysqlrepo "eiendom_showcase/internal/storage/mysql"
)

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Upsert every valid property file into MySQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := opts.cfg

			log.Info().
				Str("dir", opts.dataDir).
				Int("workers", opts.workers).
				Msg("ingestor starting")

			store, err := filestore.Open(opts.dataDir)
			if err != nil {
				return err
			}

			db, err := sql.Open("mysql", cfg.MySQLDSN)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			log.Info().Msg("db ping ok")

			var cache domain.Cache
			if cfg.RedisAddr != "" {
				rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
				defer rc.Close()
				cache = rc
			}

			ing := app.NewIngestionService(mysqlrepo.New(db), cache)
			ok, failed := runImport(ctx, store, ing, opts.workers)
			log.Info().Int("ok", ok).Int("failed", failed).Msg("ingestion completed")
			return importErr(ok, failed)
		},
	}
}

// importErr turns a run with failed upserts into a non-zero exit.
func importErr(ok, failed int) error {
	if failed > 0 {
		return fmt.Errorf("%d of %d properties failed to import", failed, ok+failed)
	}
	return nil
}

// runImport records every skipped file as a miss, then upserts the valid
// properties with at most workers in flight.
func runImport(ctx context.Context, store *filestore.Store, ing *app.IngestionService, workers int) (ok, failed int) {
	for _, p := range store.Problems() {
		log.Warn().Str("file", p.Path).Err(p.Err).Msg("property file skipped")
		ing.RecordMiss(ctx, p.Path, p.Err)
	}

	items, err := store.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("read store failed")
		return 0, 0
	}

	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var nOK, nFailed atomic.Int64

	for _, p := range items {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}

		wg.Add(1)
		go func(p domain.Property) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestProperty(ctx, p); err != nil {
				nFailed.Add(1)
				src, _ := store.Source(p.ID)
				log.Warn().Str("id", p.ID).Err(err).Msg("ingest failed")
				ing.RecordMiss(ctx, src, err)
				return
			}
			nOK.Add(1)
			log.Info().Str("id", p.ID).Msg("ingest ok")
		}(p)
	}

	wg.Wait()
	return int(nOK.Load()), int(nFailed.Load())
}
