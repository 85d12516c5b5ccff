package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

var (
	ErrNotFound    = errors.New("article file not found")
	ErrInvalidName = errors.New("invalid article filename")
)

const (
	fileExt         = ".md"
	maxTitleRunes   = 30
	maxNameAttempts = 100
)

var (
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	separators = regexp.MustCompile(`[-\s]+`)
)

// FileInfo describes a stored markdown article.
type FileInfo struct {
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// FileStore keeps generated articles as markdown files in one directory.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create articles directory: %w", err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

// Save writes body under YYYYMMDD_HHMMSS_<title>.md and returns the filename.
// An existing file is never overwritten: later saves within the same second
// get a _2, _3, ... suffix.
func (s *FileStore) Save(title, body string) (string, error) {
	base := s.now().Format("20060102_150405") + "_" + SafeTitle(title)

	for n := 1; n <= maxNameAttempts; n++ {
		name := base + fileExt
		if n > 1 {
			name = fmt.Sprintf("%s_%d%s", base, n, fileExt)
		}

		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create article file: %w", err)
		}

		_, err = f.WriteString(body)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return "", fmt.Errorf("failed to write article file: %w", err)
		}
		return name, nil
	}

	return "", fmt.Errorf("failed to find a free filename for %q after %d attempts", base, maxNameAttempts)
}

// List returns stored articles, newest first.
func (s *FileStore) List() ([]FileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read articles directory: %w", err)
	}

	files := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Filename:   entry.Name(),
			Title:      s.readTitle(entry.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModifiedAt.After(files[j].ModifiedAt)
	})
	return files, nil
}

func (s *FileStore) Read(name string) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read article file: %w", err)
	}
	return string(data), nil
}

// Update replaces the body of an existing file.
func (s *FileStore) Update(name, body string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return fmt.Errorf("failed to write article file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete article file: %w", err)
	}
	return nil
}

// Path validates name and returns its location inside the store.
func (s *FileStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) ||
		strings.HasPrefix(name, ".") || filepath.Ext(name) != fileExt {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, name), nil
}

func (s *FileStore) readTitle(name string) string {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return strings.TrimSuffix(name, fileExt)
}

// SafeTitle turns a title into a filename fragment: non-word characters
// removed, runs of spaces and dashes collapsed to '-', at most 30 runes.
func SafeTitle(title string) string {
	safe := nonWord.ReplaceAllString(title, "")
	safe = strings.Trim(separators.ReplaceAllString(safe, "-"), "-")

	runes := []rune(safe)
	if len(runes) > maxTitleRunes {
		safe = strings.Trim(string(runes[:maxTitleRunes]), "-")
	}
	if safe == "" {
		return "article"
	}
	return safe
}
