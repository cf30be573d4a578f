// Copyright 2026 Blink Labs Software
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

package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEnd is returned when the input ends before a value is
	// fully read. It always wraps io.ErrUnexpectedEOF as well.
	ErrUnexpectedEnd = errors.New("unexpected end of input")

	// ErrStructureInvalid is returned for malformed framing: unknown tags,
	// unknown entry codes and wrong-size payloads
	ErrStructureInvalid = errors.New("invalid structure")

	// ErrInvalidData is returned when a structure decodes cleanly but
	// violates a cross-field invariant
	ErrInvalidData = errors.New("invalid data")

	// ErrTrailingBytes is returned when a bounded payload has bytes left
	// over after decoding
	ErrTrailingBytes = errors.New("unconsumed trailing bytes")
)

// StructureInvalid returns an error wrapping ErrStructureInvalid with a
// formatted description
func StructureInvalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrStructureInvalid, fmt.Sprintf(format, args...))
}

// InvalidData returns an error wrapping ErrInvalidData with a formatted
// description
func InvalidData(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidData, fmt.Sprintf(format, args...))
}
