// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Fingerprint accumulator for loaded specfiles (§4.11's supplemented
// digest feature, grounded in the original's selabel_digest()). The
// digest accumulator is an external collaborator per §1, so it is
// modeled as an injected DigestSink interface rather than baked in.
package specdb

import "crypto/sha256"

// DigestSink accumulates bytes across every specfile loaded, in load
// order, producing a fingerprint a caller can use to detect whether the
// on-disk policy matches what is currently loaded.
type DigestSink interface {
	Write(p []byte) (int, error)
	Sum() []byte
}

// newSHA256Digest is the default DigestSink, matching the original's
// eventual move to SHA-256 for selabel_digest().
func newSHA256Digest() DigestSink {
	return &sha256hasher{}
}

// sha256hasher buffers every write and hashes on demand; specfiles are
// small enough in practice that buffering the whole input is simpler
// than threading sha256.New()'s incremental hash.Hash through Write.
type sha256hasher struct {
	buf []byte
}

func (w *sha256hasher) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}

func (w *sha256hasher) Sum() []byte {
	sum := sha256.Sum256(w.buf)
	return sum[:]
}
