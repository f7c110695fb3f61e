/*
	Wanderlog
	Copyright (c) 2013 Matthew Holt

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package journal

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mholt/archives"
)

// ListFiles opens root, which may be a folder or an archive file, and
// returns its file system along with the paths of all non-hidden files
// whose extension (case-insensitive) is one of exts, sorted by path.
// If root does not exist, the error wraps ErrAbsent.
func ListFiles(ctx context.Context, root string, exts ...string) (fs.FS, []string, error) {
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%s: %w", root, ErrAbsent)
		}
		return nil, nil, err
	}

	fsys, err := archives.FileSystem(ctx, root, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", root, err)
	}

	var matches []string
	err = fs.WalkDir(fsys, ".", func(fpath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if fpath == "." && !d.IsDir() {
			// root is a single, non-archive file
			fpath = path.Base(filepath.ToSlash(root))
		} else if fpath != "." && strings.HasPrefix(d.Name(), ".") {
			// skip hidden files & folders
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil // traverse into subdirectories
		}
		ext := strings.ToLower(path.Ext(fpath))
		for _, want := range exts {
			if ext == want {
				matches = append(matches, fpath)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(matches)

	return fsys, matches, nil
}

// WriteJSON encodes v as indented JSON and replaces the file at filename
// with it. The document is written to a temporary file in the same folder
// first and then renamed, so a failed run never leaves a partial document
// behind in place of the previous one.
func WriteJSON(filename string, v any) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output folder: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting permissions: %w", err)
	}

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding %s: %w", filename, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("replacing %s: %w", filename, err)
	}

	return nil
}
