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

// Package spot updates the position history from the public JSON feed of a
// SPOT satellite tracker, and can generate a simulated history for testing
// the map without a device.
package spot

import (
	"context"
	"net/url"

	"github.com/wanderlog/wanderlog/datasources/geojson"
	"github.com/wanderlog/wanderlog/journal"
	"go.uber.org/zap"
)

func init() {
	err := journal.RegisterPipeline(journal.Pipeline{
		Name:        "positions",
		Title:       "Position history",
		Description: "Fetch the tracker feed and merge new positions into the position history",
		Run:         Update,
	})
	if err != nil {
		journal.Log.Fatal("registering pipeline", zap.Error(err))
	}
}

// Update fetches the feed, merges its messages into the position history
// and writes the history back. If the fetch fails, the error is returned
// and the history file is left untouched.
func Update(ctx context.Context, cfg journal.Config) error {
	logger := journal.Log.Named("positions")

	logger.Info("downloading feed", zap.String("source", redact(cfg.Feed.URL)))

	payload, err := NewClient(cfg.Feed.Timeout).Fetch(ctx, cfg.Feed.URL)
	if err != nil {
		return err
	}

	return UpdateFromPayload(ctx, logger, payload, cfg.Path(cfg.PositionsOut))
}

// UpdateFromPayload merges the messages of an already-fetched feed payload
// into the history at historyFile.
func UpdateFromPayload(ctx context.Context, logger *zap.Logger, payload []byte, historyFile string) error {
	fresh := Parse(logger, payload)
	existing := geojson.LoadHistory(logger, historyFile)
	merged := geojson.Merge(existing.Features, fresh)

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := journal.WriteJSON(historyFile, merged); err != nil {
		return err
	}

	logger.Info("wrote updated position history",
		zap.String("path", historyFile),
		zap.Int("fetched", len(fresh)),
		zap.Int("previous", len(existing.Features)),
		zap.Int("total", len(merged.Features)))

	return nil
}

// redact hides the path of feed URLs, which contains the private feed ID.
func redact(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return u.Scheme + "://" + u.Host + "/..."
}
