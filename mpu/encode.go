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

import (
	"fmt"
	"math/bits"
)

// Request is an arbitrary protection request over a byte range, before
// it is mapped onto the constrained hardware representation.
type Request struct {
	// Slot is the region slot the encoding starts at, a spillover
	// region uses Slot+1.
	Slot int
	// Base is the first protected address.
	Base uint32
	// Size is the length in bytes, zero is a deliberate no-op.
	Size uint32
	// Attr are the access attributes applied to every produced region.
	Attr Attr
	// Enable requests region activation, a false value programs the
	// slots disabled.
	Enable bool
	// Single forbids the spillover slot. Set for purposes whose
	// neighbouring slot is owned by someone else.
	Single bool
}

// Region is the exact hardware encoding for one region slot.
type Region struct {
	Slot int
	// Base must be a multiple of 1<<SizeBits.
	Base uint32
	// SizeBits is the region size exponent, region size = 2^SizeBits.
	SizeBits int
	// Disable excludes individual eighths of the region from
	// protection, bit i set = sub-region i disabled.
	Disable uint8
	Attr    Attr
	Enable  bool
}

// checkAlign verifies the self-alignment the region base address
// registers require: base must be a multiple of the region size.
func (r Region) checkAlign() error {
	if r.Base&(1<<r.SizeBits-1) != 0 {
		return fmt.Errorf("%#08x not a multiple of 2^%d: %w", r.Base, r.SizeBits, ErrMisaligned)
	}

	return nil
}

// Spans returns the address ranges the region protects once the
// sub-region disable mask is applied, in ascending order.
func (r Region) Spans() (spans []Range) {
	if r.Disable == 0 {
		return []Range{{r.Base, 1 << r.SizeBits}}
	}

	eighth := uint32(1) << (r.SizeBits - 3)

	for i := 0; i < 8; i++ {
		if r.Disable&(1<<i) != 0 {
			continue
		}

		base := r.Base + uint32(i)*eighth

		if n := len(spans); n > 0 && spans[n-1].Base+spans[n-1].Size == base {
			spans[n-1].Size += eighth
		} else {
			spans = append(spans, Range{base, eighth})
		}
	}

	return
}

// Encode maps a protection request onto at most two hardware regions.
//
// An exact power-of-two length becomes a single region. Any other
// length is rounded up to the next power of two and expressed through
// the sub-region disable mask: the first region covers the fully
// occupied eighths of the rounded size, an optional spillover region
// at one eighth of that size covers the remainder. Lengths that would
// need more than two regions, or a sub-region smaller than the
// hardware granularity, are rejected.
func (c Capability) Encode(req Request) ([]Region, error) {
	if req.Size == 0 {
		return nil, nil
	}

	// Index of the most significant set bit.
	sizeBits := bits.Len32(req.Size) - 1

	if sizeBits < c.MinSizeBits {
		return nil, fmt.Errorf("%d bytes below the %d byte minimum: %w",
			req.Size, uint32(1)<<c.MinSizeBits, ErrInvalidSize)
	}

	if req.Size&(req.Size-1) == 0 {
		r := Region{
			Slot:     req.Slot,
			Base:     req.Base,
			SizeBits: sizeBits,
			Attr:     req.Attr,
			Enable:   req.Enable,
		}

		if err := r.checkAlign(); err != nil {
			return nil, err
		}

		return []Region{r}, nil
	}

	// Sub-regions cannot express ranges below 128 bytes, an eighth
	// must remain at least twice the 16 byte hardware granule.
	if sizeBits < 7 {
		return nil, fmt.Errorf("%d bytes too small for sub-regions: %w", req.Size, ErrInvalidSize)
	}

	// At most 6 contiguous eighths of the rounded-up region may be
	// set, anything outside that envelope cannot be reached with two
	// regions.
	if req.Size&^(0x3f<<(sizeBits-5)) != 0 {
		return nil, fmt.Errorf("%d bytes need more than two regions: %w", req.Size, ErrUnrepresentable)
	}

	// Fully occupied eighth-blocks of the region rounded up to
	// 2^(sizeBits+1) bytes.
	blocks := req.Size >> (sizeBits - 2)

	// Occupied sub-region masks of the two candidate regions.
	occ1 := uint8(1)<<blocks - 1
	occ2 := uint8(1)<<(req.Size>>(sizeBits-5)&0x7) - 1

	if occ2 != 0 && (req.Single || sizeBits < 10) {
		return nil, fmt.Errorf("spillover region not available: %w", ErrUnrepresentable)
	}

	first := Region{
		Slot:     req.Slot,
		Base:     req.Base,
		SizeBits: sizeBits + 1,
		Disable:  ^occ1,
		Attr:     req.Attr,
		Enable:   req.Enable,
	}

	if err := first.checkAlign(); err != nil {
		return nil, err
	}

	if occ2 == 0 {
		return []Region{first}, nil
	}

	// The spillover region begins at the first eighth left unoccupied
	// in the first region and is one eighth of its size.
	second := Region{
		Slot:     req.Slot + 1,
		Base:     req.Base + blocks<<(sizeBits-2),
		SizeBits: sizeBits - 2,
		Disable:  ^occ2,
		Attr:     req.Attr,
		Enable:   req.Enable,
	}

	if err := second.checkAlign(); err != nil {
		return nil, err
	}

	return []Region{first, second}, nil
}
