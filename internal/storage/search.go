package storage

import (
	"os"
	"path/filepath"
	"strings"
)

// Search walks the media library for entries whose name contains the query
// (case-insensitive). Only media files, subtitle files, and directories are
// returned; hidden entries are skipped entirely.
func Search(basePath, query string, maxResults int) ([]*FileEntry, error) {
	query = strings.ToLower(query)
	var results []*FileEntry

	err := filepath.Walk(basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if len(results) >= maxResults {
			return filepath.SkipAll
		}
		if strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && !IsMediaFile(info.Name()) && !IsSubtitleFile(info.Name()) {
			return nil
		}
		if strings.Contains(strings.ToLower(info.Name()), query) {
			rel, _ := filepath.Rel(basePath, path)
			entry := &FileEntry{
				Name:  info.Name(),
				Path:  rel,
				IsDir: info.IsDir(),
			}
			if !info.IsDir() {
				entry.Size = info.Size()
			}
			results = append(results, entry)
		}
		return nil
	})
	return results, err
}
