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

package walk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/acacialinux/tooling/internal/errs"
	"github.com/acacialinux/tooling/internal/object"
)

// PayloadGetter is the minimal object-store surface Apply needs: fetching
// a fully decoded object by OID. *object.Store satisfies this directly.
type PayloadGetter interface {
	Get(oid object.OID) (*object.Object, error)
}

// ApplyTree materializes a Tree's files (resolved via store), symlinks,
// and recursively-referenced subtrees under root.
func ApplyTree(tree *Tree, store PayloadGetter, root string) error {
	for _, e := range tree.Entries {
		path := filepath.Join(root, e.Name)
		switch e.Kind {
		case EntryFile:
			obj, err := store.Get(e.OID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, obj.Payload, os.FileMode(e.Mode)); err != nil {
				return errs.New(errs.KindIoError, "walk", map[string]string{"path": path}, err)
			}
			if err := chown(path, e.UID, e.GID); err != nil {
				return err
			}
		case EntrySymlink:
			if err := os.Symlink(e.Target, path); err != nil {
				return errs.New(errs.KindIoError, "walk", map[string]string{"path": path}, err)
			}
		case EntrySubtree:
			obj, err := store.Get(e.OID)
			if err != nil {
				return err
			}
			subtree, err := DecodeTree(obj.Payload)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(path, os.FileMode(e.Mode)); err != nil {
				return errs.New(errs.KindIoError, "walk", map[string]string{"path": path}, err)
			}
			if err := chown(path, e.UID, e.GID); err != nil {
				return err
			}
			if err := ApplyTree(subtree, store, path); err != nil {
				return err
			}
		default:
			return errs.New(errs.KindInvalidInput, "walk", nil, fmt.Errorf("unknown tree entry kind %d", e.Kind))
		}
	}
	return nil
}

// ApplyIndex materializes an Index's instructions under root, maintaining
// a virtual working directory stack. A DirectoryUp issued at VWD depth
// zero fails with IndexEscape rather than walking above root, satisfying
// the "applying an index never escapes its root" invariant (spec.md §3,
// §8 property 6) even for a hand-constructed Index that bypassed decode
// -time validation.
func ApplyIndex(index *Index, store PayloadGetter, root string) error {
	stack := []string{root}

	for _, op := range index.Ops {
		cur := stack[len(stack)-1]

		switch op.Kind {
		case OpDirectoryUp:
			if len(stack) <= 1 {
				return errs.New(errs.KindIndexEscape, "walk", nil, fmt.Errorf("DirectoryUp at VWD depth zero"))
			}
			stack = stack[:len(stack)-1]
		case OpDirectory:
			path := filepath.Join(cur, op.Name)
			if err := os.MkdirAll(path, os.FileMode(op.Mode)); err != nil {
				return errs.New(errs.KindIoError, "walk", map[string]string{"path": path}, err)
			}
			if err := chown(path, op.UID, op.GID); err != nil {
				return err
			}
			stack = append(stack, path)
		case OpFile:
			path := filepath.Join(cur, op.Name)
			obj, err := store.Get(op.OID)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, obj.Payload, os.FileMode(op.Mode)); err != nil {
				return errs.New(errs.KindIoError, "walk", map[string]string{"path": path}, err)
			}
			if err := chown(path, op.UID, op.GID); err != nil {
				return err
			}
		case OpSymlink:
			path := filepath.Join(cur, op.Name)
			if err := os.Symlink(op.Target, path); err != nil {
				return errs.New(errs.KindIoError, "walk", map[string]string{"path": path}, err)
			}
		default:
			return errs.New(errs.KindInvalidInput, "walk", nil, fmt.Errorf("unknown index op kind %d", op.Kind))
		}
	}

	return nil
}
