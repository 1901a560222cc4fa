package manifest

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"reachwatch/internal/digest"
	"reachwatch/internal/logging"
	"reachwatch/internal/services"
)

const component = "manifest"

// Getter performs a GET and returns the body of a 2xx response.
// *itch.Client satisfies it.
type Getter interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Fetcher retrieves the manifest from a fixed URL.
type Fetcher struct {
	getter Getter
	url    string
	diag   io.Writer
	logger *slog.Logger
}

// NewFetcher builds a fetcher. Bodies that fail to parse are copied to diag
// before the error is returned; a nil diag discards them.
func NewFetcher(getter Getter, url string, diag io.Writer, logger *slog.Logger) *Fetcher {
	if diag == nil {
		diag = io.Discard
	}
	return &Fetcher{
		getter: getter,
		url:    url,
		diag:   diag,
		logger: logging.NewComponentLogger(logger, component),
	}
}

// FetchManifest downloads and parses the whole manifest document.
func (f *Fetcher) FetchManifest(ctx context.Context) (*Manifest, error) {
	logger := logging.WithContext(ctx, f.logger)
	logger.Debug("fetching manifest", logging.String(logging.FieldURL, f.url))

	body, err := f.getter.Fetch(ctx, f.url)
	if err != nil {
		return nil, err
	}

	parsed, err := Parse(body)
	if err != nil {
		f.dump(body)
		return nil, services.Wrap(services.ErrParse, component, "decode", f.url, err)
	}
	logger.Debug("manifest parsed",
		logging.Int("versions", len(parsed.Versions)),
		logging.Int("channels", len(parsed.Latest)),
	)
	return parsed, nil
}

// Fetch downloads the manifest and reduces it to its digest set.
func (f *Fetcher) Fetch(ctx context.Context) (digest.Set, error) {
	parsed, err := f.FetchManifest(ctx)
	if err != nil {
		return digest.Set{}, err
	}
	set := parsed.Digests()

	logger := logging.WithContext(ctx, f.logger)
	if logger.Enabled(ctx, slog.LevelDebug) {
		for _, d := range set.Sorted() {
			logger.Debug("archived digest", logging.String("sha256", d.String()))
		}
	}
	logger.Info("manifest fetched",
		logging.Int("versions", len(parsed.Versions)),
		logging.Int("distinct_digests", set.Len()),
	)
	return set, nil
}

func (f *Fetcher) dump(body []byte) {
	_, _ = f.diag.Write(body)
	if !bytes.HasSuffix(body, []byte("\n")) {
		_, _ = io.WriteString(f.diag, "\n")
	}
}
