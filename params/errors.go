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

package params

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/chaincore/codec"
)

var (
	ErrInvalidTag      = errors.New("invalid config parameter tag")
	ErrSizeInvalid     = errors.New("invalid config parameter size")
	ErrBoolInvalid     = errors.New("invalid boolean in config parameter")
	ErrPayloadTooLarge = errors.New("config parameter payload too large")

	// ErrStructureInvalid is shared with the codec so callers can classify
	// any malformed framing with a single errors.Is check
	ErrStructureInvalid = codec.ErrStructureInvalid
)

// UnknownStringError reports a value that could not be interpreted
type UnknownStringError struct {
	Value string
}

func (e *UnknownStringError) Error() string {
	return fmt.Sprintf("invalid config parameter string '%s'", e.Value)
}

func structureInvalid(format string, args ...any) error {
	return codec.StructureInvalid(format, args...)
}

// payloadErr maps a short or overlong payload read onto ErrStructureInvalid
func payloadErr(err error) error {
	if errors.Is(err, ErrStructureInvalid) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStructureInvalid, err)
}

func sizeInvalid(tag Tag, expected, got int) error {
	return fmt.Errorf(
		"%w: %s expects %d bytes, got %d",
		ErrSizeInvalid,
		tag,
		expected,
		got,
	)
}
