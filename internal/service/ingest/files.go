package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileSize bounds a single document read from disk or chat uploads.
const MaxFileSize = 50 << 20

// LoadFiles reads the PDFs at paths. Directories contribute their *.pdf files.
func LoadFiles(paths []string) ([]Source, error) {
	var sources []Source
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}

		files := []string{p}
		if info.IsDir() {
			files, err = filepath.Glob(filepath.Join(p, "*.pdf"))
			if err != nil {
				return nil, err
			}
		}

		for _, f := range files {
			src, err := loadFile(f)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		}
	}

	if len(sources) == 0 {
		return nil, fmt.Errorf("no pdf files in %s", strings.Join(paths, ", "))
	}
	return sources, nil
}

func loadFile(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	if info.Size() > MaxFileSize {
		return Source{}, fmt.Errorf("%s is larger than %d MB", path, MaxFileSize>>20)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, err
	}
	return Source{Name: filepath.Base(path), Data: data}, nil
}
