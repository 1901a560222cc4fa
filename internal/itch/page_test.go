package itch_test

import (
	"strings"
	"testing"

	"reachwatch/internal/itch"
)

const gamePageHTML = `<!DOCTYPE html>
<html><body>
<h1 class="game_title">Cosmic Reach</h1>
<div class="upload_list_widget">
  <div class="upload">
    <div class="info_column">
      <div class="upload_name"><strong title="cosmic-reach-jar.zip" class="name">cosmic-reach-jar.zip</strong>
        <span class="file_size"><span>83 MB</span></span>
        <span class="download_platforms">
          <span title="Download for Windows" class="icon icon-windows8"></span>
          <span title="Download for Linux" class="icon icon-tux"></span>
          <span title="Download for macOS" class="icon icon-apple"></span>
        </span>
      </div>
    </div>
    <a data-upload_id="9012345" class="button download_btn" href="javascript:void(0)">Download</a>
  </div>
  <div class="upload">
    <div class="upload_name"><strong class="name">Cosmic Reach Windows Installer</strong>
      <span class="download_platforms"><span class="icon icon-windows8"></span></span>
    </div>
    <a data-upload_id="9012346" class="button download_btn">Download</a>
  </div>
  <div class="upload">
    <div class="upload_name"><strong class="name">Linux build</strong>
      <span class="download_platforms"><span title="Download for Linux" class="icon"></span></span>
    </div>
    <a data-upload_id="not-a-number" class="button download_btn">Download</a>
  </div>
</div>
</body></html>`

func TestParseGamePage(t *testing.T) {
	page, err := itch.ParseGamePage(strings.NewReader(gamePageHTML))
	if err != nil {
		t.Fatalf("ParseGamePage: %v", err)
	}
	if page.Title != "Cosmic Reach" {
		t.Fatalf("unexpected title %q", page.Title)
	}
	if len(page.Downloads) != 3 {
		t.Fatalf("expected 3 downloads, got %d", len(page.Downloads))
	}

	first := page.Downloads[0]
	if first.ID != 9012345 {
		t.Fatalf("unexpected id %d", first.ID)
	}
	if first.Title != "cosmic-reach-jar.zip" {
		t.Fatalf("unexpected title %q", first.Title)
	}
	if first.Size != "83 MB" {
		t.Fatalf("unexpected size %q", first.Size)
	}
	for _, p := range []itch.Platform{itch.PlatformWindows, itch.PlatformLinux, itch.PlatformMacOS} {
		if !first.Platforms.Has(p) {
			t.Fatalf("expected platform %s in %v", p, first.Platforms.Sorted())
		}
	}
	if first.Platforms.Has(itch.PlatformAndroid) {
		t.Fatal("did not expect android platform")
	}

	second := page.Downloads[1]
	if second.Title != "Cosmic Reach Windows Installer" {
		t.Fatalf("expected text title fallback, got %q", second.Title)
	}
	if second.Platforms.Has(itch.PlatformLinux) || !second.Platforms.Has(itch.PlatformWindows) {
		t.Fatalf("unexpected platforms %v", second.Platforms.Sorted())
	}

	third := page.Downloads[2]
	if third.ID != 0 {
		t.Fatalf("expected non-numeric upload id to be dropped, got %d", third.ID)
	}
	if !third.Platforms.Has(itch.PlatformLinux) {
		t.Fatal("expected title attribute to mark linux")
	}
}

func TestParseGamePageWithoutDownloads(t *testing.T) {
	page, err := itch.ParseGamePage(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	if err != nil {
		t.Fatalf("ParseGamePage: %v", err)
	}
	if len(page.Downloads) != 0 {
		t.Fatalf("expected no downloads, got %d", len(page.Downloads))
	}
}

func TestPlatformSetSorted(t *testing.T) {
	set := itch.PlatformSet{itch.PlatformWindows: {}, itch.PlatformLinux: {}, itch.PlatformAndroid: {}}
	got := set.Sorted()
	want := []itch.Platform{itch.PlatformAndroid, itch.PlatformLinux, itch.PlatformWindows}
	if len(got) != len(want) {
		t.Fatalf("unexpected platforms %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("position %d: got %s want %s", i, got[i], want[i])
		}
	}
}
