package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cesargomez89/sparkify/internal/constants"
	"github.com/cesargomez89/sparkify/internal/domain"
	"github.com/cesargomez89/sparkify/internal/extract"
	"github.com/cesargomez89/sparkify/internal/logger"
	"github.com/cesargomez89/sparkify/internal/storage"
	"github.com/cesargomez89/sparkify/internal/store"
)

// Options tunes a Loader. Zero values fall back to the defaults.
type Options struct {
	Extension string
	BatchSize int
}

// RunResult summarises one pass over a root directory
type RunResult struct {
	RunID          string
	Kind           domain.RecordKind
	Root           string
	FilesFound     int
	FilesProcessed int
	Records        int
}

// Loader drives file discovery, extraction and insertion for one database.
type Loader struct {
	Repo   *store.DB
	Logger *logger.Logger
	opts   Options
}

// NewLoader builds a Loader over repo. A nil log falls back to logger.Default.
func NewLoader(repo *store.DB, log *logger.Logger, opts Options) *Loader {
	if log == nil {
		log = logger.Default()
	}
	if opts.Extension == "" {
		opts.Extension = constants.DefaultExtension
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = constants.DefaultBatchSize
	}
	return &Loader{Repo: repo, Logger: log.WithComponent("loader"), opts: opts}
}

// RunAll loads the catalog root and then the event root.
func (l *Loader) RunAll(ctx context.Context, catalogRoot, eventRoot string) ([]*RunResult, error) {
	var results []*RunResult
	for _, pass := range []struct {
		root string
		kind domain.RecordKind
	}{
		{catalogRoot, domain.KindCatalog},
		{eventRoot, domain.KindEvent},
	} {
		res, err := l.Run(ctx, pass.root, pass.kind)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// Run processes every matching file under root in discovery order. Each file
// commits in its own transaction; the first failure rolls that file back and
// ends the run.
func (l *Loader) Run(ctx context.Context, root string, kind domain.RecordKind) (*RunResult, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKind, kind)
	}

	res := &RunResult{RunID: uuid.New().String(), Kind: kind, Root: root}
	log := l.Logger.WithRun(res.RunID, string(kind))

	files, err := storage.Locate(root, l.opts.Extension)
	if err != nil {
		return res, fmt.Errorf("failed to locate input files: %w", err)
	}
	res.FilesFound = len(files)
	log.Info("Files found", "count", len(files), "root", root)

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		flog := log.WithFile(path)
		n, err := l.processFile(ctx, path, kind)
		if err != nil {
			flog.Error("File failed", "processed", i, "total", len(files), "error", err)
			return res, &domain.FileError{Path: path, Err: err}
		}
		res.FilesProcessed++
		res.Records += n
		flog.Info("Processed file", "processed", i+1, "total", len(files), "records", n)
	}

	return res, nil
}

func (l *Loader) processFile(ctx context.Context, path string, kind domain.RecordKind) (int, error) {
	records, err := storage.ReadRecords(path)
	if err != nil {
		return 0, err
	}

	switch kind {
	case domain.KindCatalog:
		rows, err := extract.Catalog(records)
		if err != nil {
			return 0, err
		}
		return 1, l.Repo.RunInTx(ctx, func(tx *store.DB) error {
			if err := tx.InsertArtist(ctx, &rows.Artist); err != nil {
				return err
			}
			return tx.InsertSong(ctx, &rows.Song)
		})
	default:
		plays, err := extract.Events(records)
		if err != nil {
			return 0, err
		}
		return len(plays), l.Repo.RunInTx(ctx, func(tx *store.DB) error {
			return l.loadPlays(ctx, tx, plays)
		})
	}
}

// loadPlays writes the time, user and songplay rows of each play. With a batch
// size above one, time and songplay rows go out in multi-row statements; users
// are always upserted one by one so the last write per user wins.
func (l *Loader) loadPlays(ctx context.Context, tx *store.DB, plays []extract.EventRows) error {
	for start := 0; start < len(plays); start += l.opts.BatchSize {
		end := min(start+l.opts.BatchSize, len(plays))
		chunk := plays[start:end]

		times := make([]domain.Time, len(chunk))
		for i := range chunk {
			times[i] = chunk[i].Time
		}
		if err := tx.InsertTimes(ctx, times); err != nil {
			return err
		}

		songplays := make([]domain.Songplay, len(chunk))
		for i := range chunk {
			if err := tx.UpsertUser(ctx, &chunk[i].User); err != nil {
				return err
			}
			sp, err := resolve(ctx, tx, chunk[i])
			if err != nil {
				return err
			}
			songplays[i] = sp
		}
		if err := tx.InsertSongplays(ctx, songplays); err != nil {
			return err
		}
	}
	return nil
}

// resolve fills in the catalog song and artist of a play when one matches exactly.
func resolve(ctx context.Context, tx *store.DB, play extract.EventRows) (domain.Songplay, error) {
	sp := play.Songplay
	if !play.Key.Complete() {
		return sp, nil
	}
	match, err := tx.FindSongArtist(ctx, *play.Key.Title, *play.Key.Artist, *play.Key.Duration)
	if err != nil {
		return sp, err
	}
	if match != nil {
		sp.SongID = &match.SongID
		sp.ArtistID = &match.ArtistID
	}
	return sp, nil
}
