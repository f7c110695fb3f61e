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

// Package exifgps builds the photo location index from the GPS
// coordinates embedded in the EXIF metadata of JPEG photos.
package exifgps

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/wanderlog/wanderlog/journal"
	"go.uber.org/zap"
)

func init() {
	err := journal.RegisterPipeline(journal.Pipeline{
		Name:        "photos",
		Title:       "Photo index",
		Description: "Index the GPS position of every JPEG photo in the photos folder",
		Run:         Run,
	})
	if err != nil {
		journal.Log.Fatal("registering pipeline", zap.Error(err))
	}
}

// PhotoRecord is one located photo in the index.
type PhotoRecord struct {
	File    string  `json:"file"`
	Title   string  `json:"title"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Caption string  `json:"caption"`
}

// Index is the photo index document.
type Index struct {
	Photos []PhotoRecord `json:"photos"`
}

// Run builds the photo index for the configured photos folder and writes it.
func Run(ctx context.Context, cfg journal.Config) error {
	logger := journal.Log.Named("photos")

	photosDir := cfg.Path(cfg.PhotosDir)
	outFile := cfg.Path(cfg.PhotosOut)

	index := Index{Photos: []PhotoRecord{}}

	fsys, files, err := journal.ListFiles(ctx, photosDir, ".jpg", ".jpeg")
	switch {
	case errors.Is(err, journal.ErrAbsent):
		logger.Info("no photos folder, nothing to do", zap.String("path", photosDir))
	case err != nil:
		return err
	default:
		index = BuildIndex(ctx, logger, fsys, files, relativeDir(cfg.Root, photosDir))
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := journal.WriteJSON(outFile, index); err != nil {
		return err
	}

	logger.Info("wrote photo index",
		zap.String("path", outFile),
		zap.Int("photos", len(index.Photos)))

	return nil
}

// BuildIndex decodes the GPS position of each file in fsys and returns the
// index of located photos. Photos without a usable position are logged and
// left out. Record paths are prefix joined with the file path.
func BuildIndex(ctx context.Context, logger *zap.Logger, fsys fs.FS, files []string, prefix string) Index {
	index := Index{Photos: []PhotoRecord{}}

	for _, fpath := range files {
		if ctx.Err() != nil {
			break
		}

		relPath := path.Join(prefix, fpath)

		pt, err := decodePhoto(fsys, fpath)
		if err != nil {
			logger.Info("photo without valid GPS, skipped",
				zap.String("file", relPath),
				zap.Error(err))
			continue
		}

		index.Photos = append(index.Photos, PhotoRecord{
			File:    relPath,
			Title:   titleFromFilename(fpath),
			Lat:     pt.Latitude,
			Lon:     pt.Longitude,
			Caption: "",
		})
	}

	return index
}

func decodePhoto(fsys fs.FS, fpath string) (journal.GeoPoint, error) {
	file, err := fsys.Open(fpath)
	if err != nil {
		return journal.GeoPoint{}, err
	}
	defer file.Close()

	return DecodeFile(file)
}

// titleFromFilename turns "2025-04-01_duomo_di-milano.jpg" into
// "2025 04 01 duomo di milano".
func titleFromFilename(fpath string) string {
	base := path.Base(fpath)
	stem := strings.TrimSuffix(base, path.Ext(base))
	return strings.NewReplacer("_", " ", "-", " ").Replace(stem)
}

// relativeDir returns dir relative to root as a forward-slashed path.
func relativeDir(root, dir string) string {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	rel, err := filepath.Rel(absRoot, absDir)
	if err != nil {
		return filepath.ToSlash(dir)
	}
	return filepath.ToSlash(rel)
}
