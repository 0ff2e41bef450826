package service

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ludo-technologies/pyplag/domain"
)

// FileReaderImpl reads Python sources and discovers submissions on disk
type FileReaderImpl struct {
	excludePatterns []string
}

// NewFileReader creates a new file reader service
func NewFileReader(excludePatterns ...string) *FileReaderImpl {
	return &FileReaderImpl{excludePatterns: excludePatterns}
}

// ReadSource reads a UTF-8 file and converts CRLF and lone CR line endings
// to LF
func (f *FileReaderImpl) ReadSource(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	if !utf8.Valid(content) {
		return nil, domain.NewFileNotFoundError(path, fmt.Errorf("invalid UTF-8 at byte %d", invalidUTF8Offset(content)))
	}
	return normalizeNewlines(content), nil
}

// invalidUTF8Offset returns the offset of the first invalid UTF-8 sequence
func invalidUTF8Offset(content []byte) int {
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return len(content)
}

// normalizeNewlines applies universal newline translation
func normalizeNewlines(content []byte) []byte {
	if bytes.IndexByte(content, '\r') < 0 {
		return content
	}
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(content, []byte("\r"), []byte("\n"))
}

// IsValidPythonFile checks if a file is a valid Python file
func (f *FileReaderImpl) IsValidPythonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".py" || ext == ".pyi"
}

// FileExists checks if a regular file exists at path
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// CollectPythonFiles expands each argument into Python files. An argument
// may be a file, a directory (walked recursively) or a doublestar glob such
// as "submissions/**/*.py". The result is sorted and free of duplicates.
func (f *FileReaderImpl) CollectPythonFiles(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		clean := filepath.Clean(path)
		if seen[clean] || f.isExcluded(clean) {
			return
		}
		seen[clean] = true
		files = append(files, clean)
	}

	for _, arg := range args {
		if hasGlobMeta(arg) {
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid glob pattern: %s", arg), err)
			}
			for _, match := range matches {
				if f.IsValidPythonFile(match) {
					add(match)
				}
			}
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, domain.NewFileNotFoundError(arg, err)
		}

		if !info.IsDir() {
			if f.IsValidPythonFile(arg) {
				add(arg)
			}
			continue
		}

		dirFiles, err := f.collectFromDirectory(arg)
		if err != nil {
			return nil, err
		}
		for _, file := range dirFiles {
			add(file)
		}
	}

	sort.Strings(files)
	return files, nil
}

// collectFromDirectory collects Python files below dirPath
func (f *FileReaderImpl) collectFromDirectory(dirPath string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped
			return nil
		}

		if path != dirPath && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != dirPath && f.shouldSkipDirectory(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if f.IsValidPythonFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

// isExcluded matches path against the exclude patterns
func (f *FileReaderImpl) isExcluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range f.excludePatterns {
		if matched, _ := doublestar.Match(pattern, slashed); matched {
			return true
		}
		if matched, _ := doublestar.Match(pattern, filepath.Base(path)); matched {
			return true
		}
	}
	return false
}

// shouldSkipDirectory checks if a directory never holds submissions
func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	skipDirs := []string{
		"__pycache__",
		"node_modules",
		"venv",
		"env",
		"build",
		"dist",
		"*.egg-info",
	}

	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if matched, _ := filepath.Match(skipDir, dirLower); matched {
			return true
		}
	}
	return false
}

func hasGlobMeta(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}
