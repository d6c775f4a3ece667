// Copyright 2024 The bsc-codec Authors
// This file is part of the bsc-codec library.
//
// The bsc-codec library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The bsc-codec library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the bsc-codec library. If not, see <http://www.gnu.org/licenses/>.

package evm

import (
	"github.com/bnb-chain/bsc-codec/format"
)

// StopDecodingError is returned, as a Go error, by decoders running in strict
// ABI mode when they meet a representable error. It aborts the whole decoding
// so that the caller can try another interpretation of the data.
type StopDecodingError struct {
	Err format.DecoderError
	// AllowRetry is set when the failure may be specific to this layout and
	// another candidate layout should be tried.
	AllowRetry bool
}

func (e *StopDecodingError) Error() string {
	return "decoding stopped: " + e.Err.Error()
}

func (e *StopDecodingError) Unwrap() error {
	return e.Err
}

// HandleDecodingError turns a representable error into a result of type t,
// or into a *StopDecodingError in strict mode.
func HandleDecodingError(t format.Type, err format.DecoderError, strict bool) (format.Result, error) {
	if strict {
		return nil, &StopDecodingError{Err: err}
	}
	return format.NewError(t, err), nil
}
