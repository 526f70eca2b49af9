package main

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// removeOldFiles deletes files under dirPath modified before maxAge and
// returns how many were removed. A missing directory is not an error.
func removeOldFiles(dirPath string, maxAge time.Time) (int, error) {
	files, err := os.ReadDir(dirPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range files {
		filePath := filepath.Join(dirPath, file.Name())
		if file.IsDir() {
			n, err := removeOldFiles(filePath, maxAge)
			removed += n
			if err != nil {
				return removed, err
			}
			continue
		}
		info, err := file.Info()
		if err != nil {
			return removed, err
		}
		if info.ModTime().Before(maxAge) {
			if err := os.Remove(filePath); err != nil {
				return removed, err
			}
			log.Printf("Removed file: %s", filePath)
			removed++
		}
	}
	return removed, nil
}
