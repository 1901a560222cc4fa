package discovery_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"reachwatch/internal/config"
	"reachwatch/internal/discovery"
	"reachwatch/internal/itch"
	"reachwatch/internal/services"
)

type stubSource struct {
	page *itch.GamePage
	err  error
}

func (s stubSource) GetGamePage(context.Context, string) (*itch.GamePage, error) {
	return s.page, s.err
}

func download(id uint64, title string, platforms ...itch.Platform) itch.Download {
	set := itch.PlatformSet{}
	for _, p := range platforms {
		set[p] = struct{}{}
	}
	return itch.Download{ID: id, Title: title, Platforms: set}
}

func samplePage() *itch.GamePage {
	return &itch.GamePage{Downloads: []itch.Download{
		download(30, "cosmic-reach-jar.zip", itch.PlatformLinux, itch.PlatformWindows, itch.PlatformMacOS),
		download(10, "windows installer", itch.PlatformWindows),
		download(0, "no id", itch.PlatformLinux, itch.PlatformWindows),
		download(20, "linux+windows bundle", itch.PlatformWindows, itch.PlatformLinux),
		download(40, "linux only", itch.PlatformLinux),
	}}
}

func TestPlatformPolicyKeepsStorefrontOrder(t *testing.T) {
	d := discovery.New(stubSource{page: samplePage()}, "https://example.itch.io/game", nil, nil)
	ids, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !slices.Equal(ids, []uint64{30, 20}) {
		t.Fatalf("unexpected ids %v", ids)
	}
}

func TestPlatformPolicyEmpty(t *testing.T) {
	d := discovery.New(stubSource{page: &itch.GamePage{}}, "u", discovery.PlatformPolicy{}, nil)
	ids, err := d.Discover(context.Background())
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestDiscoverPropagatesClientFailure(t *testing.T) {
	cause := services.Wrap(services.ErrNetwork, "itch", "get", "boom", nil)
	d := discovery.New(stubSource{err: cause}, "u", nil, nil)
	if _, err := d.Discover(context.Background()); err != cause {
		t.Fatalf("expected client error unchanged, got %v", err)
	}
}

func TestTitlePolicy(t *testing.T) {
	cases := []struct {
		name      string
		downloads []itch.Download
		want      []uint64
		marker    error
	}{
		{"single match", samplePage().Downloads, []uint64{30}, nil},
		{"no match", []itch.Download{download(1, "other")}, nil, services.ErrNotFound},
		{"ambiguous", []itch.Download{download(1, "cosmic-reach-jar.zip"), download(2, "cosmic-reach-jar.zip")}, nil, services.ErrAmbiguous},
		{"match without id", []itch.Download{download(0, "cosmic-reach-jar.zip")}, nil, services.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			policy := discovery.TitlePolicy{Title: "cosmic-reach-jar.zip"}
			ids, err := policy.Select(tc.downloads)
			if tc.marker != nil {
				if !errors.Is(err, tc.marker) {
					t.Fatalf("expected %v, got %v", tc.marker, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if !slices.Equal(ids, tc.want) {
				t.Fatalf("got %v want %v", ids, tc.want)
			}
		})
	}
}

func TestPolicyFor(t *testing.T) {
	sel := config.Default().Selection
	if _, ok := discovery.PolicyFor(sel).(discovery.PlatformPolicy); !ok {
		t.Fatal("expected platform policy by default")
	}
	sel.Mode = config.SelectionTitle
	policy, ok := discovery.PolicyFor(sel).(discovery.TitlePolicy)
	if !ok {
		t.Fatal("expected title policy")
	}
	if policy.Title != sel.TargetTitle {
		t.Fatalf("unexpected title %q", policy.Title)
	}
}
