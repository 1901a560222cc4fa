package itch_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"reachwatch/internal/itch"
	"reachwatch/internal/services"
)

func TestGetGamePage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		if r.URL.Path != "/cosmic-reach" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, gamePageHTML)
	}))
	defer srv.Close()

	client := itch.New(srv.Client(), "reachwatch/test")
	page, err := client.GetGamePage(context.Background(), srv.URL+"/cosmic-reach")
	if err != nil {
		t.Fatalf("GetGamePage: %v", err)
	}
	if len(page.Downloads) != 3 {
		t.Fatalf("expected 3 downloads, got %d", len(page.Downloads))
	}
	if gotUA != "reachwatch/test" {
		t.Fatalf("expected user agent to be forwarded, got %q", gotUA)
	}
}

func TestGetGamePageRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := itch.New(srv.Client(), "").GetGamePage(context.Background(), srv.URL)
	if !errors.Is(err, services.ErrNetwork) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestGetDownloadInfo(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotQuery  string
		gotToken  string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotToken = r.PostForm.Get("csrf_token")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"url":"https://cdn.example/file.zip","external":true}`)
	}))
	defer srv.Close()

	info, err := itch.New(srv.Client(), "").GetDownloadInfo(context.Background(), srv.URL+"/cosmic-reach/", 123, "tok")
	if err != nil {
		t.Fatalf("GetDownloadInfo: %v", err)
	}
	if info.URL != "https://cdn.example/file.zip" || !info.External {
		t.Fatalf("unexpected info %+v", info)
	}
	if gotMethod != http.MethodPost {
		t.Fatalf("expected POST, got %s", gotMethod)
	}
	if gotPath != "/cosmic-reach/file/123" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery != "source=game_download" {
		t.Fatalf("unexpected query %q", gotQuery)
	}
	if gotToken != "tok" {
		t.Fatalf("expected csrf token in form, got %q", gotToken)
	}
}

func TestGetDownloadInfoFailures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		marker error
	}{
		{"forbidden", http.StatusForbidden, `{}`, services.ErrNetwork},
		{"storefront errors", http.StatusOK, `{"errors":["invalid csrf token"]}`, services.ErrNetwork},
		{"empty url", http.StatusOK, `{"url":""}`, services.ErrParse},
		{"not json", http.StatusOK, `<html>`, services.ErrParse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := itch.New(srv.Client(), "").GetDownloadInfo(context.Background(), srv.URL, 1, "")
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected %v, got %v", tc.marker, err)
			}
		})
	}
}

func TestFetchReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "payload")
	}))
	defer srv.Close()

	body, err := itch.New(srv.Client(), "").Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "payload" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestNewHTTPClientKeepsCookies(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/page" {
			http.SetCookie(w, &http.Cookie{Name: "itchio_token", Value: "abc", Path: "/"})
			return
		}
		if c, err := r.Cookie("itchio_token"); err == nil && c.Value == "abc" {
			sawCookie = true
		}
		io.WriteString(w, `{"url":"x"}`)
	}))
	defer srv.Close()

	client := itch.New(itch.NewHTTPClient(0), "")
	if _, err := client.Fetch(context.Background(), srv.URL+"/page"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := client.GetDownloadInfo(context.Background(), srv.URL, 5, ""); err != nil {
		t.Fatalf("GetDownloadInfo: %v", err)
	}
	if !sawCookie {
		t.Fatal("expected session cookie to be replayed")
	}
}
