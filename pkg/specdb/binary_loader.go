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

// Binary Loader: maps a precompiled specfile read-only and decodes it
// into a Store, per §4.5.
package specdb

// LoadBinary maps path and appends every spec it contains to store. The
// mapped region is retained on store until the owning Handle closes.
//
// Unlike the original C implementation, the "serialized_regex" bytes
// this package writes carry no automaton payload: coregex exposes no
// way to serialize its compiled form, so a spec's regex is instead
// recompiled directly from regex_str as soon as it is decoded (when
// arch_ok), or attached as a tombstone (when not) — see regex_adapter.go
// and DESIGN.md. The length-prefixed serialized_regex section is still
// present on the wire for format compatibility and is skipped on read.
func LoadBinary(store *Store, path string) error {
	region, err := mapFile(path)
	if err != nil {
		return err
	}
	if err := decodeBinary(store, path, region.Bytes()); err != nil {
		region.Close()
		return err
	}
	store.addRegion(region)
	return nil
}

func decodeBinary(store *Store, path string, data []byte) error {
	c := &byteCursor{data: data, path: path}

	magic, err := c.u32()
	if err != nil {
		return err
	}
	if magic != binaryMagic {
		return c.fail("bad magic")
	}

	version, err := c.u32()
	if err != nil {
		return err
	}
	if version < versMin || version > maxSupported {
		return &VersionError{Path: path, Got: version, Max: maxSupported}
	}

	archOK := true
	if version >= versPCRE {
		regexVersion, err := c.lenPrefixedNulIncluded()
		if err != nil {
			return err
		}
		if string(regexVersion) != regexEngineVersionTag() {
			return &VersionError{Path: path, Msg: "regex engine version mismatch: " + string(regexVersion)}
		}
	}
	if version >= versRegexArch {
		arch, err := c.lenPrefixedNulIncluded()
		if err != nil {
			return err
		}
		if string(arch) != regexEngineArchTag() {
			archOK = false
		}
	}

	stemCount, err := c.u32()
	if err != nil {
		return err
	}
	if stemCount == 0 {
		return c.fail("missing stem count")
	}
	localStems := make([]int32, stemCount)
	for i := range localStems {
		content, err := c.stemField()
		if err != nil {
			return err
		}
		localStems[i] = store.Stems.Store(content, true)
	}

	specCount, err := c.u32()
	if err != nil {
		return err
	}
	if specCount == 0 {
		return c.fail("missing spec count")
	}
	for i := uint32(0); i < specCount; i++ {
		ctxRaw, err := c.lenPrefixedNulIncluded()
		if err != nil {
			return err
		}
		regexStr, err := c.lenPrefixedNulIncluded()
		if err != nil {
			return err
		}
		modeVal, err := c.modeField(version)
		if err != nil {
			return err
		}
		stemIDLocal, err := c.i32()
		if err != nil {
			return err
		}
		metaChars, err := c.u32()
		if err != nil {
			return err
		}
		prefixLen := 0
		if version >= versPrefixLen {
			pl, err := c.u32()
			if err != nil {
				return err
			}
			prefixLen = int(pl)
		}
		regexBlobLen, err := c.u32()
		if err != nil {
			return err
		}
		if _, err := c.bytesN(int(regexBlobLen)); err != nil {
			return err
		}

		stemID := NoStem
		if stemIDLocal >= 0 {
			if int(stemIDLocal) >= len(localStems) {
				return c.fail("stem id out of range")
			}
			stemID = localStems[stemIDLocal]
		}

		spec := &Spec{
			RegexStr:     string(regexStr),
			StemID:       stemID,
			PrefixLen:    prefixLen,
			HasMetaChars: metaChars != 0,
			Mode:         Mode(modeVal),
			CtxRaw:       string(ctxRaw),
			FromMmap:     true,
		}

		if archOK {
			// Recompile eagerly: with no automaton to deserialize, this is
			// this package's equivalent of "deserialize" (see doc comment
			// above). A compile failure here is left unattached so the
			// normal lazy path on first lookup records and reports it,
			// rather than failing the whole file load.
			if compiled, cerr := compileRegex(spec.RegexStr); cerr == nil {
				spec.attachCompiled(compiled)
			}
		} else {
			spec.attachCompiled(tombstoneRegex(spec.RegexStr))
		}

		store.Append(spec)
	}

	return nil
}
