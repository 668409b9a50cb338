package main

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
)

// ExtensionIndex is an immutable snapshot of a scanned tree grouped by
// extension key. Each bucket is sorted by Path.
type ExtensionIndex struct {
	buckets map[string][]FileEntry
	keys    []string
	total   int
}

type ExtensionStat struct {
	Key       string
	Count     int
	TotalSize int64
	Category  string
}

// ExtensionKey derives the grouping key of a file name: the lower-cased text
// after the last dot of the final path element. Names without a dot, names
// whose only dot is leading and names ending in a dot all map to "".
func ExtensionKey(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if ext == "" || ext == base || ext == "." {
		return ""
	}
	return strings.ToLower(ext[1:])
}

// NormalizeKey turns operator input into an extension key. A single "." names
// the empty key.
func NormalizeKey(input string) string {
	key := strings.ToLower(strings.TrimSpace(input))
	if key == "." {
		return ""
	}
	return strings.TrimPrefix(key, ".")
}

func BuildIndex(entries []FileEntry) ExtensionIndex {
	buckets := map[string][]FileEntry{}
	for _, entry := range entries {
		key := ExtensionKey(entry.Path)
		buckets[key] = append(buckets[key], entry)
	}

	keys := make([]string, 0, len(buckets))
	for key, bucket := range buckets {
		slices.SortFunc(bucket, func(a, b FileEntry) int {
			return cmp.Compare(a.Path, b.Path)
		})
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return ExtensionIndex{buckets: buckets, keys: keys, total: len(entries)}
}

// Keys returns the extension keys present in the index, ascending.
func (idx ExtensionIndex) Keys() []string {
	return slices.Clone(idx.keys)
}

func (idx ExtensionIndex) Has(key string) bool {
	_, ok := idx.buckets[key]
	return ok
}

func (idx ExtensionIndex) Count(key string) int {
	return len(idx.buckets[key])
}

// Len is the number of files in the snapshot.
func (idx ExtensionIndex) Len() int {
	return idx.total
}

func (idx ExtensionIndex) Entries(key string) []FileEntry {
	return slices.Clone(idx.buckets[key])
}

// Paths returns the sorted paths of key's bucket, or an empty slice.
func (idx ExtensionIndex) Paths(key string) []string {
	bucket := idx.buckets[key]
	paths := make([]string, 0, len(bucket))
	for _, entry := range bucket {
		paths = append(paths, entry.Path)
	}
	return paths
}

func (idx ExtensionIndex) Stats() []ExtensionStat {
	stats := make([]ExtensionStat, 0, len(idx.keys))
	for _, key := range idx.keys {
		stat := ExtensionStat{Key: key, Category: categoryFor(key)}
		for _, entry := range idx.buckets[key] {
			stat.Count++
			stat.TotalSize += entry.Size
		}
		stats = append(stats, stat)
	}
	return stats
}
