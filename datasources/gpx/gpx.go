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

// Package gpx summarizes GPS Exchange Format (https://en.wikipedia.org/wiki/GPS_Exchange_Format)
// track logs into one record per day of travel.
package gpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/ringsaturn/tzf"
	gpxgo "github.com/tkrajina/gpxgo/gpx"
	"github.com/wanderlog/wanderlog/journal"
	"go.uber.org/zap"
)

func init() {
	err := journal.RegisterPipeline(journal.Pipeline{
		Name:        "summary",
		Title:       "Trip summary",
		Description: "Summarize every .gpx track in the gpx folder into one record per day",
		Run:         Run,
	})
	if err != nil {
		journal.Log.Fatal("registering pipeline", zap.Error(err))
	}
}

// Summary is the trip summary document.
type Summary struct {
	Days []DaySummary `json:"days"`
}

// Run summarizes the configured GPX folder and writes the summary.
func Run(ctx context.Context, cfg journal.Config) error {
	logger := journal.Log.Named("summary")

	gpxDir := cfg.Path(cfg.GPXDir)
	outFile := cfg.Path(cfg.SummaryOut)

	var s Summarizer
	if cfg.TimeZones {
		finder, err := tzf.NewDefaultFinder()
		if err != nil {
			return fmt.Errorf("loading time zone data: %w", err)
		}
		s.TimeZones = finder
	}

	summary := Summary{Days: []DaySummary{}}

	fsys, files, err := journal.ListFiles(ctx, gpxDir, ".gpx")
	switch {
	case errors.Is(err, journal.ErrAbsent):
		logger.Info("no gpx folder, nothing to do", zap.String("path", gpxDir))
	case err != nil:
		return err
	default:
		summary = s.BuildSummary(ctx, logger, fsys, files)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := journal.WriteJSON(outFile, summary); err != nil {
		return err
	}

	logger.Info("wrote trip summary",
		zap.String("path", outFile),
		zap.Int("days", len(summary.Days)))

	return nil
}

// BuildSummary parses and summarizes each GPX file in fsys, in the given
// order. Files that cannot be read or parsed are logged and skipped.
func (s Summarizer) BuildSummary(ctx context.Context, logger *zap.Logger, fsys fs.FS, files []string) Summary {
	summary := Summary{Days: []DaySummary{}}

	for _, fpath := range files {
		if ctx.Err() != nil {
			break
		}

		logger.Info("processing track", zap.String("file", fpath))

		doc, err := parseFile(fsys, fpath)
		if err != nil {
			logger.Warn("unreadable track, skipped",
				zap.String("file", fpath),
				zap.Error(err))
			continue
		}

		summary.Days = append(summary.Days, s.Summarize(doc, path.Base(fpath)))
	}

	return summary
}

func parseFile(fsys fs.FS, fpath string) (*gpxgo.GPX, error) {
	file, err := fsys.Open(fpath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	doc, err := gpxgo.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing GPX: %w", err)
	}

	return doc, nil
}
