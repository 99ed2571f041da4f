// Copyright 2025 The openec authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rollback maintains the anti-rollback version record kept in
// the MPU protected rollback flash range. The range is inaccessible
// outside a controlled unlock window, every update toggles the region
// lock around the write. Callers guarantee mutual exclusion, the
// underlying region update is not safely interruptible.
package rollback

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/coreos/go-semver/semver"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// record layout: length byte, version string, MAC
	versionLength = 63
	recordLength  = 1 + versionLength + sha256.Size

	iter = 4096
)

// ErrRollback is returned when the running version is older than the
// stored one.
var ErrRollback = errors.New("version rollback detected")

// Flash reads and programs the rollback byte range. Offsets are
// relative to the range base.
type Flash interface {
	Read(off uint32, buf []byte) error
	Write(off uint32, buf []byte) error
}

// Locker toggles the memory protection over the rollback range,
// satisfied by the MPU boot sequencer.
type Locker interface {
	LockRollback(lock bool) error
}

// Store authenticates and updates the version record.
type Store struct {
	flash Flash
	lock  Locker
	key   []byte
}

// Open derives the record MAC key from a device unique secret and
// returns a store over the protected range.
func Open(flash Flash, lock Locker, secret, diversifier []byte) *Store {
	return &Store{
		flash: flash,
		lock:  lock,
		key:   pbkdf2.Key(secret, diversifier, iter, sha256.Size, sha256.New),
	}
}

func (s *Store) mac(buf []byte) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write(buf)

	return h.Sum(nil)
}

// Current returns the stored version, nil when no record has ever
// been written (erased or zeroed flash).
func (s *Store) Current() (*semver.Version, error) {
	buf := make([]byte, recordLength)

	if err := s.flash.Read(0, buf); err != nil {
		return nil, err
	}

	n := int(buf[0])

	if n == 0 || n == 0xff {
		return nil, nil
	}

	if n > versionLength {
		return nil, errors.New("corrupt version record")
	}

	if !hmac.Equal(buf[1+versionLength:], s.mac(buf[:1+versionLength])) {
		return nil, errors.New("version record authentication failed")
	}

	return semver.NewVersion(string(buf[1 : 1+n]))
}

// write stores an authenticated record for v inside an unlock window.
// The range is re-locked even when the write fails, a failure to
// re-lock takes precedence as the secret would stay exposed.
func (s *Store) write(v *semver.Version) error {
	buf := make([]byte, recordLength)

	vs := v.String()
	buf[0] = byte(len(vs))
	copy(buf[1:1+versionLength], vs)
	copy(buf[1+versionLength:], s.mac(buf[:1+versionLength]))

	if err := s.lock.LockRollback(false); err != nil {
		return err
	}

	err := s.flash.Write(0, buf)

	if lockErr := s.lock.LockRollback(true); lockErr != nil {
		return lockErr
	}

	return err
}

// CheckVersion verifies the running version against the stored record.
//
// A stored version newer than the running one fails with ErrRollback.
// A running version newer than the stored one, or a missing record,
// updates the record.
func (s *Store) CheckVersion(running string) error {
	v, err := semver.NewVersion(running)

	if err != nil {
		return fmt.Errorf("invalid running version %q: %w", running, err)
	}

	stored, err := s.Current()

	if err != nil {
		return err
	}

	switch {
	case stored == nil:
		return s.write(v)
	case v.LessThan(*stored):
		return fmt.Errorf("stored %s, running %s: %w", stored, v, ErrRollback)
	case stored.Equal(*v):
		return nil
	}

	return s.write(v)
}
