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

package buildenv

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acacialinux/tooling/internal/errs"
)

const maxUnmountRetries = 5

// Environment is the composed filesystem view for one build: the overlay
// stack, bind mounts, and virtual kernel filesystems described in
// spec.md §4.E, plus the reverse-order teardown stack that undoes them.
type Environment struct {
	BuildID       string
	WorkDir       string
	MergedDir     string
	PkgInstallDir string // exported as PKG_INSTALL_DIR, joined with "data/"
	mounter       Mounter
	teardown      []string // mount targets, in mount order
	cancelled     bool
}

// Options bundles Setup's construction parameters.
type Options struct {
	BuildID        string
	WorkDir        string          // W
	DepRoots       []string        // each dependency's InstalledPackage.Root, used as-is (no root/ subdirectory appended)
	ExtraLowerDirs []string        // L
	FormulaDir     string          // F
	DistDir        string          // chosen dist_dir
	ToolchainDir   string          // for PATH
	Mounter        Mounter
}

// Setup performs the seven-step composition of spec.md §4.E and registers
// each mount for reverse-order teardown. The environment never removes
// pre-existing user data under WorkDir.
func Setup(opts Options) (*Environment, error) {
	base := filepath.Join(opts.WorkDir, "overlay", opts.BuildID)
	lower := filepath.Join(base, "lower")
	upper := filepath.Join(base, "upper")
	work := filepath.Join(base, "work")
	merged := filepath.Join(base, "merged")

	for _, d := range []string{lower, upper, work, merged} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": d}, err)
		}
	}

	env := &Environment{
		BuildID:   opts.BuildID,
		WorkDir:   opts.WorkDir,
		MergedDir: merged,
		mounter:   opts.Mounter,
	}
	if env.mounter == nil {
		env.mounter = RealMounter{}
	}

	// step 2: overlay at merged, lower = dep roots ++ extra lower dirs
	lowerDirs := append(append([]string{}, opts.DepRoots...), opts.ExtraLowerDirs...)
	if err := env.mountOverlay(merged, lowerDirs, upper, work); err != nil {
		return nil, err
	}

	// step 3: second overlay inside merged exposing the formula directory
	formulaMount := filepath.Join(merged, "formula")
	if err := os.MkdirAll(formulaMount, 0755); err != nil {
		return nil, errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": formulaMount}, err)
	}
	formulaUpper := filepath.Join(base, "formula-upper")
	formulaWork := filepath.Join(base, "formula-work")
	for _, d := range []string{formulaUpper, formulaWork} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return nil, errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": d}, err)
		}
	}
	if err := env.mountOverlay(formulaMount, []string{opts.FormulaDir}, formulaUpper, formulaWork); err != nil {
		return nil, err
	}

	// step 4: bind-mount a writable archive directory for the package payload
	pkgDir := filepath.Join(base, "pkg")
	if err := os.MkdirAll(pkgDir, 0755); err != nil {
		return nil, errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": pkgDir}, err)
	}
	pkgMount := filepath.Join(merged, "pkg")
	if err := os.MkdirAll(pkgMount, 0755); err != nil {
		return nil, errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": pkgMount}, err)
	}
	if err := env.bindMount(pkgDir, pkgMount, false); err != nil {
		return nil, err
	}
	env.PkgInstallDir = filepath.Join(pkgDir, "data")
	if err := os.MkdirAll(env.PkgInstallDir, 0755); err != nil {
		return nil, errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": env.PkgInstallDir}, err)
	}

	// step 5: bind-mount dist_dir read-only at its own path inside merged
	distMount := filepath.Join(merged, strings.TrimPrefix(opts.DistDir, string(filepath.Separator)))
	if err := os.MkdirAll(distMount, 0755); err != nil {
		return nil, errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": distMount}, err)
	}
	if err := env.bindMount(opts.DistDir, distMount, true); err != nil {
		return nil, err
	}

	// step 6: virtual kernel filesystems
	if err := env.mountVirtualFS(merged); err != nil {
		return nil, err
	}

	return env, nil
}

func (env *Environment) mountOverlay(target string, lowerDirs []string, upper, work string) error {
	opts := []string{
		"lowerdir=" + strings.Join(lowerDirs, ":"),
		"upperdir=" + upper,
		"workdir=" + work,
	}
	spec := MountSpec{Target: target, FSType: "overlay", Opts: opts, Source: "overlay"}
	if err := env.mounter.Mount(spec); err != nil {
		return err
	}
	env.teardown = append(env.teardown, target)
	return nil
}

func (env *Environment) bindMount(source, target string, readOnly bool) error {
	opts := []string{"bind"}
	spec := MountSpec{Source: source, Target: target, Opts: opts}
	if err := env.mounter.Mount(spec); err != nil {
		return err
	}
	env.teardown = append(env.teardown, target)
	if readOnly {
		remount := MountSpec{Target: target, Opts: []string{"remount", "ro", "bind"}}
		if err := env.mounter.Mount(remount); err != nil {
			return err
		}
	}
	return nil
}

func (env *Environment) mountVirtualFS(merged string) error {
	virtual := []struct {
		target, fstype, source string
		opts                   []string
	}{
		{"dev", "", "/dev", []string{"bind"}},
		{"dev/pts", "", "/dev/pts", []string{"bind"}},
		{"sys", "sysfs", "", nil},
		{"proc", "proc", "", nil},
		{"run", "tmpfs", "", nil},
	}
	for _, v := range virtual {
		target := filepath.Join(merged, v.target)
		if err := os.MkdirAll(target, 0755); err != nil {
			return errs.New(errs.KindMountFailed, "buildenv", map[string]string{"path": target}, err)
		}
		spec := MountSpec{Target: target, FSType: v.fstype, Source: v.source, Opts: v.opts}
		if err := env.mounter.Mount(spec); err != nil {
			return err
		}
		env.teardown = append(env.teardown, target)
	}
	return nil
}

// Env returns the environment variables visible inside the chroot
// (spec.md §4.E, §6).
func (env *Environment) Env(toolchainDir, pkgName, pkgVersion, pkgArch string) []string {
	return []string{
		"PATH=" + filepath.Join(toolchainDir, "bin"),
		"PKG_INSTALL_DIR=" + env.PkgInstallDir,
		"PKG_NAME=" + pkgName,
		"PKG_VERSION=" + pkgVersion,
		"PKG_ARCH=" + pkgArch,
	}
}

// RegisterTeardown adds target to the reverse-order teardown stack without
// performing a mount itself. The build executor uses this to fold its own
// per-stage overlay mounts into the same teardown ordering as the base
// environment's mounts (Design Note, spec.md §9: "explicit stack of
// upper-directory handles so teardown order is well defined").
func (env *Environment) RegisterTeardown(target string) {
	env.teardown = append(env.teardown, target)
}

// Mounter exposes the environment's mount backend so the executor can
// compose additional overlays against the same capability abstraction.
func (env *Environment) Mounter() Mounter {
	return env.mounter
}

// MarkCancelled records that this build was cancelled. Teardown does not
// read this flag: a Teardown call after an already-completed teardown is a
// no-op because the first call empties the teardown stack.
func (env *Environment) MarkCancelled() {
	env.cancelled = true
}

// Teardown unmounts every registered mount in reverse order, retrying
// EBUSY with bounded exponential backoff before surfacing UnmountFailed.
// Directory removal is best-effort and never touches source data.
func (env *Environment) Teardown() error {
	if len(env.teardown) == 0 {
		return nil
	}

	var failures []string
	for i := len(env.teardown) - 1; i >= 0; i-- {
		target := env.teardown[i]
		if err := env.unmountWithRetry(target); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %s", target, err.Error()))
		}
	}
	env.teardown = nil

	base := filepath.Join(env.WorkDir, "overlay", env.BuildID, "merged")
	_ = os.RemoveAll(base) // best-effort; never touches W/sources

	if len(failures) > 0 {
		return errs.New(errs.KindUnmountFailed, "buildenv", map[string]string{"build_id": env.BuildID}, fmt.Errorf("%s", strings.Join(failures, "; ")))
	}
	return nil
}

func (env *Environment) unmountWithRetry(target string) error {
	var lastErr error
	backoff := 50 * time.Millisecond
	for attempt := 0; attempt < maxUnmountRetries; attempt++ {
		err := env.mounter.Unmount(target)
		if err == nil {
			return nil
		}
		lastErr = err
		if !strings.Contains(strings.ToLower(err.Error()), "busy") {
			return err
		}
		time.Sleep(backoff)
		backoff *= 2
	}
	return lastErr
}
