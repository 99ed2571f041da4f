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

package mpu

import "errors"

// Every failure in this package is a configuration-time logic error,
// never an environmental one, so callers must not retry.
var (
	// ErrInvalidSize flags a length below the hardware minimum or one
	// whose decomposition would need a sub-region smaller than the
	// hardware can express.
	ErrInvalidSize = errors.New("invalid region size")

	// ErrMisaligned flags a base address that is not a multiple of the
	// derived region size.
	ErrMisaligned = errors.New("misaligned region base")

	// ErrUnrepresentable flags a range that needs more than two
	// regions, or a spillover region where the purpose forbids one.
	ErrUnrepresentable = errors.New("range not representable")

	// ErrSlotOutOfRange flags a slot index the current topology does
	// not implement.
	ErrSlotOutOfRange = errors.New("region slot out of range")

	// ErrNoMPU is returned when the capability register reports no
	// implemented regions.
	ErrNoMPU = errors.New("no MPU present")

	// ErrUnsupportedTopology rejects cores that are not unified with 8
	// or 16 regions, the only two layouts this package drives.
	ErrUnsupportedTopology = errors.New("unsupported MPU topology")
)
