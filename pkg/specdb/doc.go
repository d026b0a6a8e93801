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

// Package specdb implements the file-context labeling backend of a
// mandatory-access-control userspace library: given a filesystem path and
// an optional file mode, it resolves the security-context string that
// policy assigns to that path.
//
// A Handle is built from one or more rule files (text or precompiled
// binary) via Init, queried with Lookup/PartialMatch/LookupBestMatch, and
// released with Close. Two handles can be structurally compared with
// Compare. The package does not evaluate policy, talk to the kernel, or
// apply labels to inodes — it only resolves path to label.
package specdb
