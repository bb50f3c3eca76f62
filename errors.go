// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package mhtml2html

import (
	"errors"
	"fmt"
	"strings"
)

// InvalidArchiveError is returned when the input does not satisfy the
// structural invariants of an MHTML container: no multipart content type,
// no boundary parameter, no HTML index part, or a root resource that is not
// text/html.
type InvalidArchiveError struct {
	Reason string
}

func (e *InvalidArchiveError) Error() string {
	return "invalid archive: " + e.Reason
}

// PartHeaderError is returned in strict mode when a part lacks a required
// header. Lenient mode drops the part instead.
type PartHeaderError struct {
	// Part is the zero-based index of the offending part.
	Part int
	// Missing names the absent headers.
	Missing []string
}

func (e *PartHeaderError) Error() string {
	return fmt.Sprintf("part %d: missing header(s) %s", e.Part, strings.Join(e.Missing, ", "))
}

// DecodeError is returned when a transfer-encoded body cannot be decoded.
type DecodeError struct {
	Encoding string
	Location string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s body of %q: %v", e.Encoding, e.Location, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsInvalidArchive reports whether the error is an InvalidArchiveError.
func IsInvalidArchive(err error) bool {
	var target *InvalidArchiveError
	return errors.As(err, &target)
}
