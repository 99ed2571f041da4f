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
	"errors"
	"math/bits"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testCapability() Capability {
	return Capability{
		Regions:     16,
		Unified:     true,
		MinSizeBits: MinSizeBits,
	}
}

func TestEncode(t *testing.T) {
	for _, test := range []struct {
		name    string
		req     Request
		want    []Region
		wantErr error
	}{
		{
			name: "zero size is a no-op",
			req:  Request{Slot: 0, Base: 0x20000000, Size: 0, Enable: true},
		},
		{
			name: "smallest power of two",
			req:  Request{Slot: 2, Base: 0x20000020, Size: 32, Attr: AttrXN | AttrRWRW | AttrSRAM, Enable: true},
			want: []Region{
				{Slot: 2, Base: 0x20000020, SizeBits: 5, Attr: AttrXN | AttrRWRW | AttrSRAM, Enable: true},
			},
		},
		{
			name: "64KB power of two",
			req:  Request{Slot: 0, Base: 0x20000000, Size: 0x10000, Attr: AttrXN | AttrRWRW, Enable: true},
			want: []Region{
				{Slot: 0, Base: 0x20000000, SizeBits: 16, Attr: AttrXN | AttrRWRW, Enable: true},
			},
		},
		{
			name:    "below minimum size",
			req:     Request{Slot: 0, Base: 0x20000000, Size: 16, Enable: true},
			wantErr: ErrInvalidSize,
		},
		{
			name:    "power of two misaligned base",
			req:     Request{Slot: 0, Base: 0x20000020, Size: 64, Enable: true},
			wantErr: ErrMisaligned,
		},
		{
			// 96 bytes would need sub-regions of a 128 byte envelope,
			// below the sub-region floor.
			name:    "non power of two below sub-region floor",
			req:     Request{Slot: 0, Base: 0x20000000, Size: 96, Enable: true},
			wantErr: ErrInvalidSize,
		},
		{
			// 1536 = 6 eighths of 2048, one rounded region suffices.
			name: "rounded single region",
			req:  Request{Slot: 2, Base: 0x08000000, Size: 0x600, Attr: AttrXN | AttrRWRW | AttrFlash, Enable: true},
			want: []Region{
				{Slot: 2, Base: 0x08000000, SizeBits: 11, Disable: 0xc0, Attr: AttrXN | AttrRWRW | AttrFlash, Enable: true},
			},
		},
		{
			// 1120 = 4 eighths of 2048 plus 3 eighths of 256.
			name: "rounded with spillover region",
			req:  Request{Slot: 2, Base: 0x08000800, Size: 0x460, Attr: AttrXN | AttrRWRW | AttrFlash, Enable: true},
			want: []Region{
				{Slot: 2, Base: 0x08000800, SizeBits: 11, Disable: 0xf0, Attr: AttrXN | AttrRWRW | AttrFlash, Enable: true},
				{Slot: 3, Base: 0x08000c00, SizeBits: 8, Disable: 0xf8, Attr: AttrXN | AttrRWRW | AttrFlash, Enable: true},
			},
		},
		{
			name:    "spillover forbidden for single purpose",
			req:     Request{Slot: 1, Base: 0x08000800, Size: 0x460, Enable: true, Single: true},
			wantErr: ErrUnrepresentable,
		},
		{
			// 560 bytes would spill into a 128 byte region, too small
			// for its own sub-regions.
			name:    "spillover below threshold",
			req:     Request{Slot: 2, Base: 0x08000000, Size: 0x230, Enable: true},
			wantErr: ErrUnrepresentable,
		},
		{
			name:    "range needs more than two regions",
			req:     Request{Slot: 2, Base: 0x08000000, Size: 0x10000 + 0x10, Enable: true},
			wantErr: ErrUnrepresentable,
		},
		{
			name:    "rounded region misaligned base",
			req:     Request{Slot: 2, Base: 0x08000400, Size: 0x460, Enable: true},
			wantErr: ErrMisaligned,
		},
		{
			name: "disable request still encodes",
			req:  Request{Slot: 4, Base: 0x08010000, Size: 0x1000, Attr: AttrXN | AttrNoAccess},
			want: []Region{
				{Slot: 4, Base: 0x08010000, SizeBits: 12, Attr: AttrXN | AttrNoAccess},
			},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			got, err := testCapability().Encode(test.req)

			if !errors.Is(err, test.wantErr) {
				t.Fatalf("Encode: %v, want %v", err, test.wantErr)
			}

			if err != nil {
				return
			}

			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Fatalf("Encode diff: %s", diff)
			}
		})
	}
}

func TestEncodePowersOfTwo(t *testing.T) {
	// Every self-aligned power of two length is a single exact region
	// with all sub-regions enabled.
	for bit := MinSizeBits; bit < 32; bit++ {
		size := uint32(1) << bit

		got, err := testCapability().Encode(Request{Base: size, Size: size, Enable: true})

		if err != nil {
			t.Fatalf("Encode(%#x): %v", size, err)
		}

		if len(got) != 1 {
			t.Fatalf("Encode(%#x): %d regions, want 1", size, len(got))
		}

		if r := got[0]; r.SizeBits != bit || r.Disable != 0 {
			t.Fatalf("Encode(%#x): size exponent %d disable %#x", size, r.SizeBits, r.Disable)
		}
	}
}

// TestEncodeCoverage verifies that the union of the enabled address
// spans of a decomposition covers exactly the requested byte range.
func TestEncodeCoverage(t *testing.T) {
	for _, test := range []struct {
		base uint32
		size uint32
	}{
		{0x08000800, 0x460},
		{0x08000000, 0x600},
		{0x20000000, 0x500},
		{0x08001000, 0xf80},
		{0x08000000, 0x10000},
	} {
		regions, err := testCapability().Encode(Request{Slot: 2, Base: test.base, Size: test.size, Enable: true})

		if err != nil {
			t.Fatalf("Encode(%#x, %#x): %v", test.base, test.size, err)
		}

		var spans []Range

		for _, r := range regions {
			spans = append(spans, r.Spans()...)
		}

		next := test.base

		for _, s := range spans {
			if s.Base != next {
				t.Fatalf("Encode(%#x, %#x): gap or overlap at %#x, span starts at %#x",
					test.base, test.size, next, s.Base)
			}

			next += s.Size
		}

		if next != test.base+test.size {
			t.Fatalf("Encode(%#x, %#x): covers up to %#x, want %#x",
				test.base, test.size, next, test.base+test.size)
		}
	}
}

func TestSpans(t *testing.T) {
	for _, test := range []struct {
		name   string
		region Region
		want   []Range
	}{
		{
			name:   "full region",
			region: Region{Base: 0x20000000, SizeBits: 10},
			want:   []Range{{0x20000000, 0x400}},
		},
		{
			name:   "leading eighths",
			region: Region{Base: 0x20000000, SizeBits: 11, Disable: 0xf0},
			want:   []Range{{0x20000000, 0x400}},
		},
		{
			name:   "split eighths",
			region: Region{Base: 0x20000000, SizeBits: 11, Disable: 0x7e},
			want:   []Range{{0x20000000, 0x100}, {0x20001c00, 0x100}},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(test.want, test.region.Spans()); diff != "" {
				t.Fatalf("Spans diff: %s", diff)
			}
		})
	}
}

func TestEncodeSizeBits(t *testing.T) {
	// The derived exponent always is the index of the most significant
	// set bit of the length, or one above it for rounded regions.
	for _, size := range []uint32{0x80, 0x100, 0x460, 0x600, 0x10000} {
		regions, err := testCapability().Encode(Request{Base: 0, Size: size, Enable: true})

		if err != nil {
			t.Fatalf("Encode(%#x): %v", size, err)
		}

		msb := bits.Len32(size) - 1
		want := msb

		if size&(size-1) != 0 {
			want = msb + 1
		}

		if got := regions[0].SizeBits; got != want {
			t.Fatalf("Encode(%#x): first size exponent %d, want %d", size, got, want)
		}
	}
}
