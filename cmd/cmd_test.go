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

package wlcmd

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wanderlog/wanderlog/journal"
)

func init() {
	_ = journal.RegisterPipeline(journal.Pipeline{
		Name:        "cmd_test",
		Title:       "Test pipeline",
		Description: "Records that it ran",
		Run: func(ctx context.Context, cfg journal.Config) error {
			ran = append(ran, cfg.Root)
			return nil
		},
	})
}

var ran []string

func TestRunSubcommand(t *testing.T) {
	cfg := journal.DefaultConfig()
	cfg.Root = "/trip"

	require.NoError(t, runSubcommand(t.Context(), cfg, "cmd_test"))
	assert.Equal(t, []string{"/trip"}, ran)

	require.NoError(t, runSubcommand(t.Context(), cfg, "help"))
	require.NoError(t, runSubcommand(t.Context(), cfg, "version"))

	err := runSubcommand(t.Context(), cfg, "teleport")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestCommandLineHelp(t *testing.T) {
	help := commandLineHelp()

	assert.Contains(t, help, "cmd_test")
	assert.Contains(t, help, "Records that it ran")
	assert.True(t, strings.HasSuffix(help, "Print the version"))
}
