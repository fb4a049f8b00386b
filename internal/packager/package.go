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

package packager

import (
	"path/filepath"

	"github.com/acacialinux/tooling/internal/object"
	"github.com/acacialinux/tooling/internal/pkgindex"
	"github.com/acacialinux/tooling/internal/validate"
)

// Options bundles Package's construction parameters.
type Options struct {
	DataDir     string // $PKG_INSTALL_DIR (itself the package's data/ directory), already validated
	LinkDir     string // <package-root>/link, may live under a runtime-chosen staging root
	DistDir     string // link-target base; callers must pass CanonicalDistDir, never a runtime flag
	Name        string
	Version     string
	Description string
	Arch        string
	Maintainer  string
	BuildID     string
	// Warning, when non-empty, is recorded onto package.toml to annotate a
	// package built despite a validation failure (spec.md §7). Patch
	// emission for that build must already have been skipped by the
	// caller; Package itself only carries the annotation through.
	Warning   string
	ExtraDeps []string
	Deps      []validate.Dependency
}

// Result is the outcome of packaging one build: the Tree and Package
// object IDs, plus the metadata written to package.toml.
type Result struct {
	TreeOID    object.OID
	PackageOID object.OID
	Metadata   *pkgindex.Metadata
}

// Package performs the three steps of spec.md §4.H: it populates link/,
// builds the Tree and final Package objects, and writes package.toml last
// so that it can record the Package object's own OID.
func Package(store *object.Store, opts Options) (*Result, error) {
	if err := BuildLinkDir(opts.LinkDir, opts.DistDir, opts.Deps); err != nil {
		return nil, err
	}

	treeOID, err := IngestDataDir(store, opts.DataDir)
	if err != nil {
		return nil, err
	}

	meta := BuildMetadata(opts.Name, opts.Version, opts.Description, opts.Arch, opts.Maintainer, opts.BuildID, opts.Warning, opts.ExtraDeps, opts.Deps)

	depLinks := make([]object.Link, 0, len(opts.Deps)+1)
	depLinks = append(depLinks, object.Link{OID: treeOID, Path: "tree"})
	for _, link := range meta.Dependencies {
		oid, err := object.ParseOID(link.OID)
		if err != nil {
			continue // dependency recorded no self-OID yet; link/ symlink still covers filesystem placement
		}
		depLinks = append(depLinks, object.Link{OID: oid, Path: link.Path})
	}

	payload := treeOID[:]
	pkgOID, err := store.PutBytes(payload, object.ClassAcacia, object.TypePackage, depLinks, object.CompressionNone, false)
	if err != nil {
		return nil, err
	}
	meta.OID = pkgOID.String()

	if err := WriteMetadata(filepath.Join(filepath.Dir(opts.LinkDir), "package.toml"), meta); err != nil {
		return nil, err
	}

	return &Result{TreeOID: treeOID, PackageOID: pkgOID, Metadata: meta}, nil
}
