//go:build generator
/*
	Wanderlog
	Copyright (c) 2024 Sergio Rubio

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
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dave/jennifer/jen"
)

func main() {
	source := jen.NewFile("main")
	source.HeaderComment("//go:generate go run generator.go")

	list := pipelines()
	if len(list) == 0 {
		return
	}

	for _, pkg := range list {
		source.Anon(pkg)
	}

	f, err := os.Create("pipelines.go")
	if err != nil {
		genFailed(err)
	}
	defer f.Close()

	fmt.Fprintf(f, "%#v", source)
}

// pipelines reads the packages to link in, one per line, from
// .localpipelines if it exists, else from .pipelines.
func pipelines() []string {
	var pkgs []string

	listFile := ".localpipelines"
	if _, err := os.Stat(listFile); os.IsNotExist(err) {
		listFile = ".pipelines"
	}

	f, err := os.Open(listFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "** no .pipelines file found\n")
			return pkgs
		}
		genFailed(err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Split(bufio.ScanLines)

	for scanner.Scan() {
		pkg := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(pkg, "#") || pkg == "" {
			continue
		}

		// packages in this module are listed by folder name
		if !strings.Contains(pkg, ".") {
			pkg = "github.com/wanderlog/wanderlog/datasources/" + pkg
		}

		pkgs = append(pkgs, pkg)
	}
	if err := scanner.Err(); err != nil {
		genFailed(err)
	}

	return pkgs
}

func genFailed(err error) {
	fmt.Fprintf(os.Stderr, "generating pipelines.go failed: %s\n", err)
	os.Exit(1)
}
