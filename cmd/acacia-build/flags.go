/*******************************************************************************
*
* Copyright 2026 Acacia Linux contributors
*
* This file is part of Acacia Build.
*
* Acacia Build is free software: you can redistribute it and/or modify it
* under the terms of the GNU General Public License as published by the Free
* Software Foundation, either version 3 of the License, or (at your option)
* any later version.
*
* Acacia Build is distributed in the hope that it will be useful, but WITHOUT
* ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
* FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for
* more details.
*
* You should have received a copy of the GNU General Public License along
* with Acacia Build. If not, see <http://www.gnu.org/licenses/>.
*
*******************************************************************************/

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ogier/pflag"
)

// options is the parsed CLI surface named in spec.md §6 ("Builder CLI
// surface"), plus the ambient --verbose switch (spec.md/SPEC_FULL.md
// §4.J).
type options struct {
	formulaPath  string
	toolchain    string
	arch         string
	packageIndex string
	distDir      string
	workDir      string
	overlayDirs  []string
	verbose      bool
}

type stringSliceFlag struct {
	values *[]string
}

func (s stringSliceFlag) String() string {
	if s.values == nil {
		return ""
	}
	return fmt.Sprint(*s.values)
}

func (s stringSliceFlag) Set(v string) error {
	*s.values = append(*s.values, v)
	return nil
}

// parseArgs parses the CLI surface; the parser itself performs only type
// coercion (spec.md §1 treats argument parsing as external), leaving
// higher-level checks like "does the formula exist" to the components
// that own them.
func parseArgs(args []string) (*options, error) {
	fs := pflag.NewFlagSet("acacia-build", pflag.ContinueOnError)

	opts := &options{}
	fs.StringVar(&opts.toolchain, "toolchain", "", "toolchain root (appended with /bin for PATH)")
	fs.StringVar(&opts.arch, "arch", "", "override inferred architecture")
	fs.StringVar(&opts.packageIndex, "package-index", "", "override default packages.toml")
	fs.StringVar(&opts.distDir, "dist-dir", defaultDistDir(), "override packages root")
	fs.StringVar(&opts.workDir, "workdir", "", "override build working directory")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable verbose diagnostics")
	fs.Var(stringSliceFlag{&opts.overlayDirs}, "overlay-dirs", "extra overlay lower directory (repeatable)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one positional argument (path to formula file), got %d", fs.NArg())
	}
	opts.formulaPath = fs.Arg(0)

	if opts.packageIndex == "" {
		opts.packageIndex = filepath.Join(opts.distDir, "packages.toml")
	}
	if opts.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		opts.workDir = wd
	}

	return opts, nil
}

// defaultDistDir mirrors spec.md §6's "<home>/objects/…" default for the
// object store, applied here to the packages root the builder composes
// build environments from.
func defaultDistDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/var/lib/acacia"
	}
	return filepath.Join(home, ".acacia", "dist")
}

func defaultObjectStoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "/var/lib/acacia/objects"
	}
	return filepath.Join(home, ".acacia", "objects")
}
