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

package executor

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/acacialinux/tooling/internal/buildenv"
	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/formula"
)

// stageOrder is the fixed sequence named in spec.md §4.F; stages are
// strictly sequential (spec.md §5).
var stageOrder = []string{"prepare", "build", "check", "package"}

// stageCommand extracts the command string for one stage of a resolved
// package, or "" if the stage is a no-op.
func stageCommand(rp formula.ResolvedPackage, stage string) string {
	switch stage {
	case "prepare":
		return rp.PrepareCmd
	case "build":
		return rp.BuildCmd
	case "check":
		return rp.CheckCmd
	case "package":
		return rp.PackageCmd
	}
	return ""
}

// RunStages runs prepare/build/check/package in order inside ctx's chroot.
// Each stage composes its own overlay (upper directory of stage N becomes
// a lower of stage N+1), so sub-packages can each append further overlays
// after the parent's upper (spec.md §4.F); extraLowers lets a sub-package
// build supply those.
func RunStages(ctx *Context, rp formula.ResolvedPackage, extraLowers []string) error {
	base := filepath.Join(ctx.Env.WorkDir, "overlay", ctx.ID, "stages")
	priorUpper := "" // "" means: the base environment's merged dir is lower enough on its own

	for _, stage := range stageOrder {
		select {
		case <-ctx.Cancel:
			return errs.New(errs.KindCancelled, "executor", map[string]string{"build_id": ctx.ID, "stage": stage}, nil)
		default:
		}

		upper, err := stageOverlay(ctx, base, stage, priorUpper, extraLowers)
		if err != nil {
			return err
		}

		cmd := stageCommand(rp, stage)
		if cmd == "" {
			priorUpper = upper
			continue
		}

		if err := runStageCommand(ctx, stage, cmd); err != nil {
			return err
		}
		priorUpper = upper
	}

	return nil
}

// stageOverlay composes the overlay for one stage: lower = the previous
// stage's upper (if any) plus the per-formula extra lowers, stacked on
// top of the base merged environment. The upper/work dirs are fresh per
// stage and registered for teardown via the shared Environment so the
// overall unmount order stays well defined.
func stageOverlay(ctx *Context, base, stage, priorUpper string, extraLowers []string) (string, error) {
	upper := filepath.Join(base, stage, "upper")
	work := filepath.Join(base, stage, "work")
	for _, d := range []string{upper, work} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return "", errs.New(errs.KindMountFailed, "executor", map[string]string{"path": d}, err)
		}
	}

	lowers := []string{ctx.Env.MergedDir}
	if priorUpper != "" {
		lowers = append([]string{priorUpper}, lowers...)
	}
	lowers = append(lowers, extraLowers...)

	mounter := ctx.Env.Mounter()
	spec := buildenv.MountSpec{
		Target: ctx.Env.MergedDir,
		FSType: "overlay",
		Source: "overlay",
		Opts: []string{
			"lowerdir=" + joinColon(lowers),
			"upperdir=" + upper,
			"workdir=" + work,
		},
	}
	if err := mounter.Mount(spec); err != nil {
		return "", errs.New(errs.KindMountFailed, "executor", map[string]string{"stage": stage}, err)
	}
	ctx.Env.RegisterTeardown(ctx.Env.MergedDir)

	return upper, nil
}

func runStageCommand(ctx *Context, stage, command string) error {
	env := ctx.Env.Env(ctx.ToolchainDir, ctx.Formula.Name, ctx.Formula.Version, ctx.Arch)

	cmd := exec.Command("chroot", ctx.Env.MergedDir, "env", "sh", "-e", "-c", command)
	cmd.Env = env
	cmd.Stdout = os.Stderr // stage output is diagnostic, never the patch-command stream
	cmd.Stderr = os.Stderr

	return runCommandRaced(ctx, stage, cmd)
}

// runCommandRaced starts cmd and races its completion against ctx.Cancel,
// killing the process and returning Cancelled if cancellation wins,
// otherwise translating a non-zero exit into StageFailed. Split out from
// runStageCommand so the racing logic can be exercised without a real
// chroot.
func runCommandRaced(ctx *Context, stage string, cmd *exec.Cmd) error {
	done := make(chan error, 1)
	if err := cmd.Start(); err != nil {
		return errs.NewFatal(errs.KindStageFailed, "executor", map[string]string{"stage": stage}, err)
	}
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Cancel:
		if cmd.Process != nil {
			_ = cmd.Process.Kill()
		}
		<-done
		return errs.New(errs.KindCancelled, "executor", map[string]string{"build_id": ctx.ID, "stage": stage}, nil)
	case err := <-done:
		if err == nil {
			return nil
		}
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return errs.StageFailed(stage, exitCode, ctx.ID)
	}
}

func joinColon(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ":"
		}
		out += p
	}
	return out
}
