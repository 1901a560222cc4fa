package itch

import (
	"io"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Platform is a storefront platform tag.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformMacOS   Platform = "osx"
	PlatformAndroid Platform = "android"
)

var iconPlatforms = map[string]Platform{
	"icon-windows8": PlatformWindows,
	"icon-tux":      PlatformLinux,
	"icon-apple":    PlatformMacOS,
	"icon-android":  PlatformAndroid,
}

var titlePlatforms = map[string]Platform{
	"download for windows": PlatformWindows,
	"download for linux":   PlatformLinux,
	"download for macos":   PlatformMacOS,
	"download for android": PlatformAndroid,
}

// PlatformSet is the set of platforms a download advertises.
type PlatformSet map[Platform]struct{}

// Has reports whether p is in the set.
func (s PlatformSet) Has(p Platform) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the platforms in a stable order for display.
func (s PlatformSet) Sorted() []Platform {
	out := make([]Platform, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// Download describes one entry of a game's download list. ID is zero when
// the page does not expose a numeric upload identifier.
type Download struct {
	ID        uint64
	Title     string
	Size      string
	Platforms PlatformSet
}

// GamePage is the parsed subset of an itch.io game page.
type GamePage struct {
	Title     string
	Downloads []Download
}

// ParseGamePage extracts the game title and its downloads, in page order.
func ParseGamePage(r io.Reader) (*GamePage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	page := &GamePage{}
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		if n.DataAtom == atom.H1 && hasClass(n, "game_title") && page.Title == "" {
			page.Title = textContent(n)
			return false
		}
		if n.DataAtom == atom.Div && hasClass(n, "upload") {
			page.Downloads = append(page.Downloads, parseUpload(n))
			return false
		}
		return true
	})
	return page, nil
}

func parseUpload(n *html.Node) Download {
	download := Download{Platforms: PlatformSet{}}
	walk(n, func(child *html.Node) bool {
		if child.Type != html.ElementNode {
			return true
		}
		if raw, ok := attr(child, "data-upload_id"); ok && download.ID == 0 {
			if id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64); err == nil {
				download.ID = id
			}
		}
		if hasClass(child, "name") && download.Title == "" {
			if title, ok := attr(child, "title"); ok && strings.TrimSpace(title) != "" {
				download.Title = strings.TrimSpace(title)
			} else {
				download.Title = textContent(child)
			}
		}
		if hasClass(child, "file_size") && download.Size == "" {
			download.Size = textContent(child)
		}
		for _, class := range classes(child) {
			if p, ok := iconPlatforms[class]; ok {
				download.Platforms[p] = struct{}{}
			}
		}
		if title, ok := attr(child, "title"); ok {
			if p, ok := titlePlatforms[strings.ToLower(strings.TrimSpace(title))]; ok {
				download.Platforms[p] = struct{}{}
			}
		}
		return true
	})
	return download
}

// walk visits n and its descendants depth-first; fn returning false skips the
// node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func classes(n *html.Node) []string {
	raw, ok := attr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(raw)
}

func hasClass(n *html.Node, class string) bool {
	return slices.Contains(classes(n), class)
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(child *html.Node) bool {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
