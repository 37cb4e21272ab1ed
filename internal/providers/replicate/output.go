package replicate

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoOutput indicates a succeeded prediction carried zero usable image URLs.
var ErrNoOutput = errors.New("replicate: no valid image urls in output")

// ErrEmptyOutputObjects is the sub-case of ErrNoOutput where every raw output
// element was an empty object. Models emit this shape when the input image or
// parameters were unusable, so it gets its own diagnostic.
var ErrEmptyOutputObjects = errors.New("replicate: output contained only empty objects")

// entryKind tags the shapes a single output element can take. Models return
// plain URL strings, file objects with a url property, file objects exposing
// the URL through a urls.get accessor, or bare objects with nothing usable.
type entryKind int

const (
	entryString entryKind = iota
	entryURLProperty
	entryURLAccessor
	entryEmptyObject
	entryUnrecognized
)

type outputEntry struct {
	kind entryKind
	url  string
}

type fileObject struct {
	URL  string `json:"url"`
	URLs struct {
		Get string `json:"get"`
	} `json:"urls"`
}

// NormalizeOutput flattens a prediction's raw output into an ordered list of
// image URLs. A single string is treated as a one-element list. Elements that
// yield no usable URL are discarded; usable means a non-empty string starting
// with https://, http://, or data:. An empty result is an error.
func NormalizeOutput(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, ErrNoOutput
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if usableURL(single) {
			return []string{single}, nil
		}
		return nil, ErrNoOutput
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, ErrNoOutput
	}

	urls := make([]string, 0, len(elements))
	emptyObjects := 0
	for _, element := range elements {
		entry := decodeEntry(element)
		switch entry.kind {
		case entryString, entryURLProperty, entryURLAccessor:
			if usableURL(entry.url) {
				urls = append(urls, entry.url)
			}
		case entryEmptyObject:
			emptyObjects++
		case entryUnrecognized:
			// discarded
		}
	}

	if len(urls) == 0 {
		if len(elements) > 0 && emptyObjects == len(elements) {
			return nil, ErrEmptyOutputObjects
		}
		return nil, ErrNoOutput
	}
	return urls, nil
}

func decodeEntry(raw json.RawMessage) outputEntry {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return outputEntry{kind: entryString, url: s}
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return outputEntry{kind: entryUnrecognized}
	}
	if len(keys) == 0 {
		return outputEntry{kind: entryEmptyObject}
	}

	var file fileObject
	if err := json.Unmarshal(raw, &file); err != nil {
		return outputEntry{kind: entryUnrecognized}
	}
	if file.URL != "" {
		return outputEntry{kind: entryURLProperty, url: file.URL}
	}
	if file.URLs.Get != "" {
		return outputEntry{kind: entryURLAccessor, url: file.URLs.Get}
	}
	return outputEntry{kind: entryUnrecognized}
}

func usableURL(s string) bool {
	return strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "data:")
}
