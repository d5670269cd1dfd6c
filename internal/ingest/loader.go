// Package ingest reads post records from persisted search-result files.
// Files in the wild are messy: some hold a bare JSON array of posts, some
// wrap the array in an envelope, some are not JSON at all. The loader
// extracts what it can and silently skips the rest; only I/O failures are
// errors.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/postminer/postminer/internal/post"
)

// arrayKeys are envelope fields checked when the top level is an object.
var arrayKeys = []string{"posts", "data.children", "results"}

// LoadFile extracts post records from one file. Records without an id are
// dropped; a file that is not JSON yields no records and no error.
func LoadFile(path string) ([]post.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return Parse(data), nil
}

// Parse extracts post records from raw bytes.
func Parse(data []byte) []post.Post {
	if !gjson.ValidBytes(data) {
		return nil
	}

	parsed := gjson.ParseBytes(data)
	items := postArray(parsed)
	if !items.Exists() {
		return nil
	}

	var posts []post.Post
	items.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		// Reddit listings nest the record under "data".
		if inner := item.Get("data"); inner.IsObject() && inner.Get("id").Exists() {
			item = inner
		}
		if item.Get("id").String() == "" {
			return true
		}

		var p post.Post
		if err := json.Unmarshal([]byte(item.Raw), &p); err != nil {
			return true
		}
		posts = append(posts, p)
		return true
	})

	return posts
}

func postArray(parsed gjson.Result) gjson.Result {
	if parsed.IsArray() {
		return parsed
	}
	for _, key := range arrayKeys {
		if arr := parsed.Get(key); arr.IsArray() {
			return arr
		}
	}
	return gjson.Result{}
}

// LoadFiles loads and concatenates records from the given paths in order.
func LoadFiles(paths []string) ([]post.Post, error) {
	var posts []post.Post
	for _, path := range paths {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		posts = append(posts, loaded...)
	}
	return posts, nil
}

// LoadDir loads every .txt and .json file in a directory, in sorted name
// order so repeated runs see records in the same sequence.
func LoadDir(dir string) ([]post.Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".txt", ".json":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	return LoadFiles(paths)
}
