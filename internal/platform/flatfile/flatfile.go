// Package flatfile reads and writes one delimited text file per entity type.
// Each non-blank line is one record encoded with the codec package.
package flatfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/shms/shms/internal/platform/codec"
)

// Dir is a directory of record files on an afero filesystem.
type Dir struct {
	fs     afero.Fs
	root   string
	logger zerolog.Logger
}

// NewDir returns a Dir rooted at root.
func NewDir(fsys afero.Fs, root string, logger zerolog.Logger) *Dir {
	return &Dir{fs: fsys, root: root, logger: logger.With().Str("component", "flatfile").Logger()}
}

// Root returns the directory path.
func (d *Dir) Root() string { return d.root }

func (d *Dir) path(name string) string {
	return filepath.Join(d.root, name)
}

// Exists reports whether the named file is present.
func (d *Dir) Exists(name string) bool {
	ok, err := afero.Exists(d.fs, d.path(name))
	return err == nil && ok
}

// Read returns the decoded records of the named file. A missing file is an
// empty collection, not an error. Blank lines are skipped.
func (d *Dir) Read(name string) ([][]string, error) {
	data, err := afero.ReadFile(d.fs, d.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err) {
			d.logger.Debug().Str("file", name).Msg("file absent, treating as empty")
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var rows [][]string
	skipped := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			skipped++
			continue
		}
		rows = append(rows, codec.Decode(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", name, err)
	}

	d.logger.Debug().Str("file", name).Int("records", len(rows)).Int("blank", skipped).Msg("file read")
	return rows, nil
}

// Write replaces the named file with rows, one encoded line each. The file is
// rewritten in place; a failure part way through can leave it truncated.
func (d *Dir) Write(name string, rows [][]string) error {
	if err := d.fs.MkdirAll(d.root, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	var buf bytes.Buffer
	for _, r := range rows {
		buf.WriteString(codec.Encode(r))
		buf.WriteByte('\n')
	}
	if err := afero.WriteFile(d.fs, d.path(name), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	d.logger.Debug().Str("file", name).Int("records", len(rows)).Msg("file written")
	return nil
}
