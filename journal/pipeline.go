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
	"errors"
	"fmt"
	"sort"
)

// Pipeline has information about a batch conversion
// that can be registered and run from the command line.
type Pipeline struct {
	// A snake_cased name that uniquely identifies the
	// pipeline; also the name of its subcommand.
	Name string

	// The human-readable name of the pipeline.
	Title string

	// Information shown in the command line help.
	Description string

	// Run performs the conversion. It must write its output
	// only after everything has been computed.
	Run func(ctx context.Context, cfg Config) error
}

// RegisterPipeline registers p as a pipeline.
func RegisterPipeline(p Pipeline) error {
	if p.Name == "" {
		return errors.New("missing name")
	}
	if p.Title == "" {
		return errors.New("missing title")
	}
	if p.Run == nil {
		return errors.New("missing run function")
	}
	if _, ok := pipelines[p.Name]; ok {
		return fmt.Errorf("pipeline already registered: %s", p.Name)
	}
	pipelines[p.Name] = p
	return nil
}

// GetPipeline gets the pipeline with the given name.
func GetPipeline(name string) (Pipeline, error) {
	p, ok := pipelines[name]
	if !ok {
		return Pipeline{}, fmt.Errorf("pipeline not found: %s", name)
	}
	return p, nil
}

// AllPipelines returns all registered pipelines sorted by name.
func AllPipelines() []Pipeline {
	all := make([]Pipeline, 0, len(pipelines))
	for _, p := range pipelines {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Name < all[j].Name
	})
	return all
}

var pipelines = make(map[string]Pipeline)
