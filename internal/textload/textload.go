// Package textload provides the file-system collaborators of the core:
// permissive text loading and recursive script discovery.
package textload

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// ReadText reads a file and decodes it as UTF-8, stripping a leading BOM.
// Undecodable content degrades to an empty string with no error; the
// caller logs or skips as it sees fit. Only a failed read is an error.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read text file: %w", err)
	}
	data = stripBOM(data)
	if !utf8.Valid(data) {
		log.Warn().Str("path", path).Msg("File is not valid UTF-8, skipping content")
		return "", nil
	}
	return string(data), nil
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

// Walk discovers all files with the given extension under root, skipping
// any directory whose base name appears in skipDirs. Results come back in
// lexical order.
func Walk(root, ext string, skipDirs []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	skip := make(map[string]bool, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = true
	}

	var files []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}
		if info.IsDir() {
			if path != root && skip[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	log.Debug().Int("count", len(files)).Str("root", root).Msg("Discovered script files")
	return files, nil
}
