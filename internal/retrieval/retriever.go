package retrieval

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"reachwatch/internal/config"
	"reachwatch/internal/fileutil"
	"reachwatch/internal/itch"
	"reachwatch/internal/logging"
	"reachwatch/internal/services"
	"reachwatch/internal/textutil"
)

const component = "retrieval"

// Storefront resolves download URLs and fetches their bytes. *itch.Client
// satisfies it.
type Storefront interface {
	GetDownloadInfo(ctx context.Context, gameURL string, downloadID uint64, csrfToken string) (*itch.DownloadInfo, error)
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Options control where and what the retriever extracts.
type Options struct {
	GameURL      string
	CSRFToken    string
	WorkDir      string
	JarPrefix    string
	JarExtension string
	// ExpectSingle requires exactly one matching entry per archive.
	ExpectSingle bool
}

// OptionsFromConfig maps the storefront, selection and path settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		GameURL:      cfg.Storefront.GameURL,
		CSRFToken:    cfg.Storefront.CSRFToken,
		WorkDir:      cfg.Paths.WorkDir,
		JarPrefix:    cfg.Selection.JarPrefix,
		JarExtension: cfg.Selection.JarExtension,
		ExpectSingle: cfg.TitleMode(),
	}
}

// Retriever extracts game jars for individual download identifiers. It holds
// no mutable state and may serve concurrent Retrieve calls.
type Retriever struct {
	store  Storefront
	opts   Options
	logger *slog.Logger
}

// New constructs a Retriever.
func New(store Storefront, opts Options, logger *slog.Logger) *Retriever {
	if opts.WorkDir == "" {
		opts.WorkDir = "."
	}
	return &Retriever{
		store:  store,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, component),
	}
}

// DestDir returns the directory that receives files for id.
func (r *Retriever) DestDir(id uint64) string {
	return filepath.Join(r.opts.WorkDir, strconv.FormatUint(id, 10))
}

// Retrieve downloads id and returns the paths of the extracted jars, which may
// be empty.
func (r *Retriever) Retrieve(ctx context.Context, id uint64) ([]string, error) {
	ctx = services.WithDownloadID(ctx, id)
	logger := logging.WithContext(ctx, r.logger)

	info, err := r.store.GetDownloadInfo(ctx, r.opts.GameURL, id, r.opts.CSRFToken)
	if err != nil {
		return nil, err
	}
	logger.Debug("download url resolved", logging.String(logging.FieldURL, info.URL))

	body, err := r.store.Fetch(ctx, info.URL)
	if err != nil {
		return nil, err
	}
	logger.Debug("download fetched", logging.Int("bytes", len(body)))

	archive, err := zip.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return nil, services.Wrap(services.ErrArchive, component, "open zip", strconv.FormatUint(id, 10), err)
	}

	dest := r.DestDir(id)
	created, err := fileutil.EnsureDir(dest, 0o755)
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, component, "create destination", dest, err)
	}
	if !created {
		logger.Info("destination directory already exists", logging.String(logging.FieldPath, dest))
	}

	selected, collisions := r.selectEntries(logger, archive.File)
	if r.opts.ExpectSingle {
		if collisions > 0 {
			return nil, services.Wrap(services.ErrAmbiguous, component, "select entry",
				fmt.Sprintf("%d game jar entries share one extraction path", collisions+1), nil)
		}
		if len(selected) != 1 {
			return nil, services.Wrap(services.ErrArchive, component, "select entry",
				fmt.Sprintf("expected exactly one game jar, found %d", len(selected)), nil)
		}
	}

	paths := make([]string, 0, len(selected))
	for _, entry := range selected {
		target := filepath.Join(dest, filepath.FromSlash(entry.name))
		n, err := extract(entry.file, target)
		if err != nil {
			if r.opts.ExpectSingle {
				return nil, services.Wrap(services.ErrArchive, component, "extract", entry.name, err)
			}
			logging.WarnWithContext(logger, "entry extraction failed", "entry_extract_failed",
				logging.Int(logging.FieldEntryIndex, entry.index),
				logging.String(logging.FieldPath, target),
				logging.Error(err),
				logging.String(logging.FieldImpact, "entry skipped"),
			)
			continue
		}
		logger.Info("game jar extracted",
			logging.String(logging.FieldPath, target),
			logging.Int64("bytes", n),
		)
		paths = append(paths, target)
	}
	return paths, nil
}

type selectedEntry struct {
	index int
	name  string
	file  *zip.File
}

// selectEntries returns the game jar entries in archive order. Names are
// sanitized first; an entry whose sanitized name repeats an earlier one is
// skipped so every extracted path is unique. The second result counts those
// skipped entries.
func (r *Retriever) selectEntries(logger *slog.Logger, files []*zip.File) ([]selectedEntry, int) {
	var selected []selectedEntry
	seen := make(map[string]int)
	collisions := 0
	for i, f := range files {
		logger.Debug("archive entry", logging.Int(logging.FieldEntryIndex, i), logging.String("name", f.Name))
		if f.FileInfo().IsDir() {
			continue
		}
		name, ok := textutil.SanitizeEntryName(f.Name)
		if !ok {
			logging.WarnWithContext(logger, "archive entry name has no usable path", "entry_name_rejected",
				logging.Int(logging.FieldEntryIndex, i),
				logging.String("name", f.Name),
				logging.String(logging.FieldImpact, "entry skipped"),
			)
			continue
		}
		if !textutil.HasPrefixAndExt(name, r.opts.JarPrefix, r.opts.JarExtension) {
			continue
		}
		if first, dup := seen[name]; dup {
			collisions++
			logging.WarnWithContext(logger, "archive entry collides with an earlier entry", "entry_name_collision",
				logging.Int(logging.FieldEntryIndex, i),
				logging.Int("first_entry_index", first),
				logging.String("name", f.Name),
				logging.String(logging.FieldImpact, "later entry skipped"),
			)
			continue
		}
		seen[name] = i
		selected = append(selected, selectedEntry{index: i, name: name, file: f})
	}
	return selected, collisions
}

func extract(f *zip.File, target string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, err
	}
	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return fileutil.WriteStream(target, rc, 0o644)
}
