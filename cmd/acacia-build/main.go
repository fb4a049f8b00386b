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
	"time"

	"github.com/acacialinux/tooling/internal/buildenv"
	"github.com/acacialinux/tooling/internal/diagnostics"
	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/executor"
	"github.com/acacialinux/tooling/internal/formula"
	"github.com/acacialinux/tooling/internal/object"
	"github.com/acacialinux/tooling/internal/packager"
	"github.com/acacialinux/tooling/internal/pkgindex"
	"github.com/acacialinux/tooling/internal/validate"
)

func main() {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		diagnostics.ReportError("cli", errs.New(errs.KindInvalidInput, "cli", nil, err))
		os.Exit(2)
	}
	diagnostics.SetVerbose(opts.verbose)

	os.Exit(run(opts))
}

func run(opts *options) int {
	f, loadErrs := formula.Load(opts.formulaPath)
	if len(loadErrs) > 0 {
		for _, e := range loadErrs {
			diagnostics.ReportError("formula", e)
		}
		return 2
	}

	arch := opts.arch
	if arch == "" && len(f.Arch) > 0 {
		arch = f.Arch[0]
	}
	if !f.SupportsArch(arch) {
		diagnostics.ReportError("formula", errs.New(errs.KindInvalidInput, "formula", map[string]string{"arch": arch}, fmt.Errorf("formula %q does not support architecture %q", f.Name, arch)))
		return 2
	}

	reg, err := pkgindex.Load(opts.packageIndex, opts.distDir)
	if err != nil {
		diagnostics.ReportError("pkgindex", err)
		return 1
	}
	installed, err := pkgindex.LoadInstalledPackages(reg)
	if err != nil {
		diagnostics.ReportError("pkgindex", err)
		return 1
	}
	fileMap, err := pkgindex.BuildFileMap(installed)
	if err != nil {
		diagnostics.ReportError("pkgindex", err)
		return 1
	}
	for _, a := range fileMap.Ambiguities {
		diagnostics.Warn("pkgindex", "ambiguous file across packages", map[string]string{"path": a.Path, "winner": a.Winner})
	}

	store := object.NewStore(defaultObjectStoreDir())

	for _, rp := range f.ResolvePackages() {
		hostDeps := resolveDeps(installed, rp.HostDependencies)
		targetDeps := resolveDeps(installed, rp.TargetDependencies)

		code := buildOnePackage(opts, f, rp, arch, store, fileMap, hostDeps, targetDeps)
		if code != 0 {
			return code
		}
	}

	return 0
}

func buildOnePackage(opts *options, f *formula.Formula, rp formula.ResolvedPackage, arch string, store *object.Store, fileMap *pkgindex.FileMap, hostDeps, targetDeps []*pkgindex.InstalledPackage) int {
	buildID := fmt.Sprintf("%s-%s-%d", rp.Name, f.Version, time.Now().UnixNano())
	diagnostics.Info("executor", "starting build", map[string]string{"build_id": buildID, "package": rp.Name})

	env, err := buildenv.Setup(buildenv.Options{
		BuildID:        buildID,
		WorkDir:        opts.workDir,
		DepRoots:       executor.DepRoots(targetDeps),
		ExtraLowerDirs: opts.overlayDirs,
		FormulaDir:     f.BaseDir,
		DistDir:        opts.distDir,
		ToolchainDir:   opts.toolchain,
	})
	if err != nil {
		diagnostics.ReportError("buildenv", err)
		return 5
	}
	defer func() {
		if err := env.Teardown(); err != nil {
			diagnostics.ReportError("buildenv", err)
		}
	}()

	ctx := executor.NewContext(buildID, f, arch, hostDeps, targetDeps, env, opts.toolchain)
	installSignalHandler(ctx)

	if err := executor.FetchSources(ctx, f.Sources, executor.ShellFetcher{}, executor.ShellExtractor{}); err != nil {
		diagnostics.ReportError("executor", err)
		return 3
	}

	if err := executor.RunStages(ctx, rp, nil); err != nil {
		diagnostics.ReportError("executor", err)
		return 3
	}

	report, validationErr := validate.Validate(env.PkgInstallDir, fileMap)
	var warning string
	if validationErr != nil {
		// spec.md §7: a validation error aborts patch emission, but
		// packaging still proceeds so package.toml carries a warning
		// annotation instead of being silently skipped.
		diagnostics.ReportError("validate", validationErr)
		warning = validationErr.Error()
	} else if err := validate.PrintActions(os.Stdout, report.Actions); err != nil {
		diagnostics.ReportError("validate", err)
		return 4
	}

	packageRoot := filepath.Join(opts.distDir, arch, rp.Name, f.Version)
	_, err = packager.Package(store, packager.Options{
		DataDir:     env.PkgInstallDir,
		LinkDir:     filepath.Join(packageRoot, "link"),
		DistDir:     packager.CanonicalDistDir,
		Name:        rp.Name,
		Version:     f.Version,
		Description: rp.Description,
		Arch:        arch,
		BuildID:     buildID,
		Warning:     warning,
		ExtraDeps:   rp.ExtraDependencies,
		Deps:        report.Dependencies,
	})
	if err != nil {
		diagnostics.ReportError("packager", err)
		return 1
	}
	if validationErr != nil {
		return 4
	}

	diagnostics.Info("executor", "build complete", map[string]string{"build_id": buildID, "package": rp.Name})
	return 0
}

func resolveDeps(installed []*pkgindex.InstalledPackage, names []string) []*pkgindex.InstalledPackage {
	byName := make(map[string]*pkgindex.InstalledPackage, len(installed))
	for _, pkg := range installed {
		byName[pkg.Entry.Name] = pkg
	}

	out := make([]*pkgindex.InstalledPackage, 0, len(names))
	for _, name := range names {
		if pkg, ok := byName[name]; ok {
			out = append(out, pkg)
		}
	}
	return out
}
