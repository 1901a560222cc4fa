package testsupport

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"reachwatch/internal/itch"
)

// Upload is one download listed by the fake storefront. A zero ID renders
// the download without an upload id. A non-zero Status makes the CDN answer
// with that status instead of Archive.
type Upload struct {
	ID        uint64
	Title     string
	Platforms []itch.Platform
	Archive   []byte
	Status    int
}

var platformIcons = map[itch.Platform]string{
	itch.PlatformWindows: "icon-windows8",
	itch.PlatformLinux:   "icon-tux",
	itch.PlatformMacOS:   "icon-apple",
	itch.PlatformAndroid: "icon-android",
}

// Storefront is an httptest server imitating an itch.io game page, its
// download-info endpoint, the CDN, and the archive manifest.
type Storefront struct {
	Server *httptest.Server

	mu             sync.Mutex
	uploads        []Upload
	manifest       string
	manifestStatus int
	pageStatus     int
	pageHits       int
	tokens         []string
}

// NewStorefront starts a fake storefront that is closed on test cleanup.
func NewStorefront(t testing.TB, uploads ...Upload) *Storefront {
	t.Helper()

	sf := &Storefront{
		uploads:        uploads,
		manifest:       ManifestJSON(),
		manifestStatus: http.StatusOK,
		pageStatus:     http.StatusOK,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /versions.json", sf.serveManifest)
	mux.HandleFunc("GET /cosmic-reach", sf.servePage)
	mux.HandleFunc("POST /cosmic-reach/file/{id}", sf.serveDownloadInfo)
	mux.HandleFunc("GET /cdn/{id}", sf.serveArchive)
	sf.Server = httptest.NewServer(mux)
	t.Cleanup(sf.Server.Close)
	return sf
}

// GameURL returns the fake game page URL.
func (s *Storefront) GameURL() string { return s.Server.URL + "/cosmic-reach" }

// ManifestURL returns the fake manifest URL.
func (s *Storefront) ManifestURL() string { return s.Server.URL + "/versions.json" }

// SetManifest replaces the manifest body and status.
func (s *Storefront) SetManifest(body string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manifest = body
	s.manifestStatus = status
}

// SetPageStatus makes the game page answer with status.
func (s *Storefront) SetPageStatus(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageStatus = status
}

// PageHits returns how many times the game page was requested.
func (s *Storefront) PageHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageHits
}

// Tokens returns the csrf tokens received by the download-info endpoint.
func (s *Storefront) Tokens() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tokens...)
}

func (s *Storefront) serveManifest(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	body, status := s.manifest, s.manifestStatus
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Storefront) servePage(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	s.pageHits++
	status := s.pageStatus
	uploads := append([]Upload(nil), s.uploads...)
	s.mu.Unlock()

	if status != http.StatusOK {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(RenderGamePage("Cosmic Reach", uploads)))
}

func (s *Storefront) serveDownloadInfo(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.tokens = append(s.tokens, r.PostForm.Get("csrf_token"))
	s.mu.Unlock()

	id := r.PathValue("id")
	if _, ok := s.upload(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"url":      s.Server.URL + "/cdn/" + id,
		"external": true,
	})
}

func (s *Storefront) serveArchive(w http.ResponseWriter, r *http.Request) {
	upload, ok := s.upload(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if upload.Status != 0 && upload.Status != http.StatusOK {
		http.Error(w, http.StatusText(upload.Status), upload.Status)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	_, _ = w.Write(upload.Archive)
}

func (s *Storefront) upload(rawID string) (Upload, bool) {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return Upload{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.uploads {
		if u.ID == id {
			return u, true
		}
	}
	return Upload{}, false
}

// RenderGamePage renders uploads in the markup itch.io uses for its
// download list.
func RenderGamePage(title string, uploads []Upload) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><body>")
	fmt.Fprintf(&b, `<h1 class="game_title">%s</h1><div class="upload_list_widget">`, html.EscapeString(title))
	for _, u := range uploads {
		b.WriteString(`<div class="upload"><div class="upload_name">`)
		fmt.Fprintf(&b, `<strong title="%[1]s" class="name">%[1]s</strong>`, html.EscapeString(u.Title))
		b.WriteString(`<span class="download_platforms">`)
		for _, p := range u.Platforms {
			fmt.Fprintf(&b, `<span class="icon %s"></span>`, platformIcons[p])
		}
		b.WriteString(`</span></div>`)
		if u.ID != 0 {
			fmt.Fprintf(&b, `<a data-upload_id="%d" class="button download_btn">Download</a>`, u.ID)
		} else {
			b.WriteString(`<a class="button download_btn">Download</a>`)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString("</div></body></html>")
	return b.String()
}
