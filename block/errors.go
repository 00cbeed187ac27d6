// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package block

import "errors"

// ErrInternal reports a state-machine invariant violation: a token kind
// reached a block state the tokenizer should never produce it in.
var ErrInternal = errors.New("nme/block: internal state-machine invariant violated")
