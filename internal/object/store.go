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

package object

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/acacialinux/tooling/internal/errs"
)

// Store is a content-addressed object store persisted under Root. Objects
// are sharded by the first byte of their OID, a deterministic (if
// unspecified-by-the-docs) scheme per the Open Question recorded in
// DESIGN.md.
type Store struct {
	Root string
}

// NewStore opens (without requiring it to already exist) a store rooted at
// dir. PutBytes creates dir, any missing parents, and the objects/ subtree
// on the first write.
func NewStore(dir string) *Store {
	return &Store{Root: dir}
}

func (s *Store) objectsDir() string {
	return filepath.Join(s.Root, "objects")
}

// shardPath returns the on-disk path for the object with the given OID,
// sharded by its first byte as two hex characters (e.g. objects/ab/cdef...).
func (s *Store) shardPath(oid OID) string {
	hex := oid.String()
	return filepath.Join(s.objectsDir(), hex[:2], hex[2:])
}

// Put reads the file at path, computes its OID, and writes it into the
// store unless an object with that OID already exists and force is false.
// The write is atomic (temp file + rename), per spec.md §4.B.
func (s *Store) Put(path string, class Class, typ Type, deps []Link, compression Compression, force bool) (OID, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return OID{}, errs.New(errs.KindIoError, "store", map[string]string{"path": path}, err)
	}
	return s.PutBytes(raw, class, typ, deps, compression, force)
}

// PutBytes is like Put but takes the raw payload directly.
func (s *Store) PutBytes(raw []byte, class Class, typ Type, deps []Link, compression Compression, force bool) (OID, error) {
	oid := Sum(raw)

	if !force {
		if _, err := os.Stat(s.shardPath(oid)); err == nil {
			return oid, nil
		}
	}

	encoded, _, err := Encode(class, typ, deps, raw, compression)
	if err != nil {
		return OID{}, err
	}

	dest := s.shardPath(oid)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return OID{}, errs.New(errs.KindIoError, "store", map[string]string{"oid": oid.String()}, err)
	}

	tmp, err := ioutil.TempFile(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return OID{}, errs.New(errs.KindIoError, "store", map[string]string{"oid": oid.String()}, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return OID{}, errs.New(errs.KindIoError, "store", map[string]string{"oid": oid.String()}, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return OID{}, errs.New(errs.KindIoError, "store", map[string]string{"oid": oid.String()}, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return OID{}, errs.New(errs.KindIoError, "store", map[string]string{"oid": oid.String()}, err)
	}

	return oid, nil
}

// Get loads and fully decodes the object with the given OID.
func (s *Store) Get(oid OID) (*Object, error) {
	data, err := ioutil.ReadFile(s.shardPath(oid))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.New(errs.KindNotFound, "store", map[string]string{"oid": oid.String()}, err)
		}
		return nil, errs.New(errs.KindIoError, "store", map[string]string{"oid": oid.String()}, err)
	}
	obj, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Has reports whether an object with the given OID is present, without
// decoding it.
func (s *Store) Has(oid OID) bool {
	_, err := os.Stat(s.shardPath(oid))
	return err == nil
}

// Dependencies returns the dependency links of the object with the given
// OID. It is cheap: the full payload need not be decompressed to answer
// this, but for simplicity this implementation decodes the whole object
// (decoding a header is dominated by I/O, not CPU, for typical object
// sizes).
func (s *Store) Dependencies(oid OID) ([]Link, error) {
	obj, err := s.Get(oid)
	if err != nil {
		return nil, err
	}
	return obj.Dependencies, nil
}

// PeerStore is any object source that Pull can copy objects from.
type PeerStore interface {
	Get(oid OID) (*Object, error)
	Dependencies(oid OID) ([]Link, error)
}

// Pull copies the object identified by oid from peer into this store. If
// recursive is true, it transitively pulls every dependency not already
// present, guarding against cycles with a visited set, and is idempotent:
// re-pulling an already-fully-present tree is a no-op write-wise.
func (s *Store) Pull(peer PeerStore, oid OID, recursive bool) (map[OID]bool, error) {
	fetched := map[OID]bool{}
	visited := map[OID]bool{}
	if err := s.pull(peer, oid, recursive, visited, fetched); err != nil {
		return fetched, err
	}
	return fetched, nil
}

func (s *Store) pull(peer PeerStore, oid OID, recursive bool, visited map[OID]bool, fetched map[OID]bool) error {
	if visited[oid] {
		return nil
	}
	visited[oid] = true

	if !s.Has(oid) {
		obj, err := peer.Get(oid)
		if err != nil {
			return errs.New(errs.KindPeerUnreachable, "store", map[string]string{"oid": oid.String()}, err)
		}
		if _, err := s.PutBytes(obj.Payload, obj.Class, obj.Type, obj.Dependencies, obj.Compression, false); err != nil {
			return err
		}
		fetched[oid] = true
	}

	if !recursive {
		return nil
	}

	deps, err := s.Dependencies(oid)
	if err != nil {
		return err
	}
	for _, dep := range deps {
		if err := s.pull(peer, dep.OID, recursive, visited, fetched); err != nil {
			return err
		}
	}
	return nil
}

// Ensure Store itself satisfies PeerStore, so stores can pull from one
// another directly.
var _ PeerStore = (*Store)(nil)
