// Package discovery picks the storefront downloads that should contain the
// game jar.
package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"reachwatch/internal/config"
	"reachwatch/internal/itch"
	"reachwatch/internal/logging"
	"reachwatch/internal/services"
)

const component = "discovery"

// PageSource returns the parsed game page. *itch.Client satisfies it.
type PageSource interface {
	GetGamePage(ctx context.Context, gameURL string) (*itch.GamePage, error)
}

// Policy reduces a download list to candidate identifiers.
type Policy interface {
	Name() string
	Select(downloads []itch.Download) ([]uint64, error)
}

// PlatformPolicy selects every download advertising both Linux and Windows.
type PlatformPolicy struct{}

// Name implements Policy.
func (PlatformPolicy) Name() string { return config.SelectionPlatforms }

// Select implements Policy. Downloads without an identifier are skipped.
func (PlatformPolicy) Select(downloads []itch.Download) ([]uint64, error) {
	ids := make([]uint64, 0, len(downloads))
	for _, d := range downloads {
		if d.ID == 0 || !IsCrossPlatform(d) {
			continue
		}
		ids = append(ids, d.ID)
	}
	return ids, nil
}

// IsCrossPlatform reports whether d advertises both Linux and Windows.
func IsCrossPlatform(d itch.Download) bool {
	return d.Platforms.Has(itch.PlatformLinux) && d.Platforms.Has(itch.PlatformWindows)
}

// TitlePolicy selects the single download whose title equals Title exactly.
type TitlePolicy struct {
	Title string
}

// Name implements Policy.
func (TitlePolicy) Name() string { return config.SelectionTitle }

// Select implements Policy. Zero or several matches are errors.
func (p TitlePolicy) Select(downloads []itch.Download) ([]uint64, error) {
	var matches []itch.Download
	for _, d := range downloads {
		if d.Title == p.Title {
			matches = append(matches, d)
		}
	}
	switch len(matches) {
	case 0:
		return nil, services.Wrap(services.ErrNotFound, component, "select by title", fmt.Sprintf("no download titled %q", p.Title), nil)
	case 1:
	default:
		return nil, services.Wrap(services.ErrAmbiguous, component, "select by title", fmt.Sprintf("%d downloads titled %q", len(matches), p.Title), nil)
	}
	if matches[0].ID == 0 {
		return nil, services.Wrap(services.ErrNotFound, component, "select by title", fmt.Sprintf("download %q has no upload id", p.Title), nil)
	}
	return []uint64{matches[0].ID}, nil
}

// PolicyFor returns the policy named by the selection config.
func PolicyFor(sel config.Selection) Policy {
	if sel.Mode == config.SelectionTitle {
		return TitlePolicy{Title: sel.TargetTitle}
	}
	return PlatformPolicy{}
}

// Discoverer finds candidate download identifiers on the game page.
type Discoverer struct {
	source  PageSource
	gameURL string
	policy  Policy
	logger  *slog.Logger
}

// New constructs a Discoverer. A nil policy means PlatformPolicy.
func New(source PageSource, gameURL string, policy Policy, logger *slog.Logger) *Discoverer {
	if policy == nil {
		policy = PlatformPolicy{}
	}
	return &Discoverer{
		source:  source,
		gameURL: gameURL,
		policy:  policy,
		logger:  logging.NewComponentLogger(logger, component),
	}
}

// Discover returns candidate identifiers in storefront order. Storefront
// failures are returned unchanged.
func (d *Discoverer) Discover(ctx context.Context) ([]uint64, error) {
	page, err := d.source.GetGamePage(ctx, d.gameURL)
	if err != nil {
		return nil, err
	}
	ids, err := d.policy.Select(page.Downloads)
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, d.logger).Info("downloads discovered",
		logging.String("policy", d.policy.Name()),
		logging.Int("downloads", len(page.Downloads)),
		logging.Int("candidates", len(ids)),
		logging.Any("ids", ids),
	)
	return ids, nil
}
