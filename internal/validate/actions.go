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

package validate

import (
	"fmt"
	"io"
)

// ActionKind distinguishes the three corrective commands named in
// spec.md §4.G.
type ActionKind int

const (
	ActionSetInterpreter ActionKind = iota
	ActionReplaceNeeded
	ActionRewriteShebang
)

// Action is one (command, file, dependency) triple to render as a shell
// command line.
type Action struct {
	Kind     ActionKind
	File     string // path of the file being patched, relative to the inventory root
	Soname   string // DT_NEEDED soname being replaced; empty for interpreter/shebang actions
	LinkPath string // "<package-root>/link/<soname-or-p>"
}

// Shell renders the action as the literal command line named in
// spec.md §4.G.
func (a Action) Shell() string {
	switch a.Kind {
	case ActionSetInterpreter:
		return fmt.Sprintf("patchelf --set-interpreter %s %s", a.LinkPath, a.File)
	case ActionReplaceNeeded:
		return fmt.Sprintf("patchelf --replace-needed %s %s %s", a.Soname, a.LinkPath, a.File)
	case ActionRewriteShebang:
		return fmt.Sprintf("sed -i '1s|^#!.*|#!%s|' %s", a.LinkPath, a.File)
	}
	return ""
}

// PrintActions writes each action's shell command, one per line, to w.
// Callers must direct this at standard output and keep every diagnostic
// on standard error so the stream stays pipe-safe (spec.md §4.G).
func PrintActions(w io.Writer, actions []Action) error {
	for _, a := range actions {
		if _, err := fmt.Fprintln(w, a.Shell()); err != nil {
			return err
		}
	}
	return nil
}
