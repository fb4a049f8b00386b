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

// Package buildenv constructs and tears down the layered filesystem view
// (overlay + bind + virtual-kernel mounts) for one build (spec.md §4.E).
package buildenv

import (
	"os/exec"

	"github.com/acacialinux/tooling/internal/errs"
)

// MountSpec describes one mount(8) invocation.
type MountSpec struct {
	Source string
	Target string
	FSType string   // "overlay", "sysfs", "proc", "tmpfs", or "" (bind mounts and remounts)
	Opts   []string // e.g. "lowerdir=...", "bind", "ro"
}

// Mounter is the capability abstraction for mount/unmount named in the
// Design Note (spec.md §9): a real kernel-mount backend and a no-op stub
// for test environments, selected at construction rather than by a build
// tag, so both can be exercised from the same test binary.
type Mounter interface {
	Mount(spec MountSpec) error
	Unmount(target string) error
}

// RealMounter shells out to the mount(8)/umount(8) binaries, the same
// "no native syscall wrapper in this corpus, shell out like the teacher
// shells out to xz" idiom used by internal/object's compress.go.
type RealMounter struct{}

func (RealMounter) Mount(spec MountSpec) error {
	args := []string{}
	if spec.FSType != "" {
		args = append(args, "-t", spec.FSType)
	}
	for _, o := range spec.Opts {
		args = append(args, "-o", o)
	}
	if spec.Source != "" {
		args = append(args, spec.Source)
	}
	args = append(args, spec.Target)

	cmd := exec.Command("mount", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errs.New(errs.KindMountFailed, "buildenv", map[string]string{"target": spec.Target, "output": string(out)}, err)
	}
	return nil
}

func (RealMounter) Unmount(target string) error {
	cmd := exec.Command("umount", target)
	if out, err := cmd.CombinedOutput(); err != nil {
		return errs.New(errs.KindUnmountFailed, "buildenv", map[string]string{"target": target, "output": string(out)}, err)
	}
	return nil
}

// NoopMounter records requested mounts/unmounts without touching the
// kernel, for use in test environments per the Design Note.
type NoopMounter struct {
	Mounted   []MountSpec
	Unmounted []string
}

func (m *NoopMounter) Mount(spec MountSpec) error {
	m.Mounted = append(m.Mounted, spec)
	return nil
}

func (m *NoopMounter) Unmount(target string) error {
	m.Unmounted = append(m.Unmounted, target)
	return nil
}
