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

//go:build !tamago
// +build !tamago

package main

import (
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/google/go-cmp/cmp"

	"github.com/openec-dev/openec/mpu"
)

func TestBoardLayout(t *testing.T) {
	var board boardConfig

	if _, err := toml.DecodeFile("testdata/kelp.toml", &board); err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	layout, err := board.layout()

	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	want := mpu.Layout{
		DataRAM:     mpu.Range{Base: 0x20000000, Size: 0x10000},
		DataRAMText: mpu.Range{Base: 0x20000000, Size: 0x800},
		FlashRO:     mpu.Range{Base: 0x08000000, Size: 0x10000},
		FlashRW:     mpu.Range{Base: 0x08010000, Size: 0x10000},
		Rollback:    mpu.Range{Base: 0x0801e000, Size: 0x2000},
		Uncached:    mpu.Range{Base: 0x2000c000, Size: 0x4000},
		Storage:     mpu.StorageMappedFlash,
	}

	if diff := cmp.Diff(want, layout); diff != "" {
		t.Fatalf("layout diff (-want +got):\n%s", diff)
	}
}

func TestBoardLayoutUnknownStorage(t *testing.T) {
	board := boardConfig{Storage: "nvram"}

	if _, err := board.layout(); err == nil {
		t.Fatal("expected storage layout error")
	}
}

func TestPlanSimulation(t *testing.T) {
	var board boardConfig

	if _, err := toml.DecodeFile("testdata/kelp.toml", &board); err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	layout, err := board.layout()

	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	hw := newSimHW(16)
	seq := mpu.NewSequencer(hw, mpu.DefaultTable(), layout, nil)

	if err := seq.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if err := seq.ProtectDataRAM(); err != nil {
		t.Fatalf("ProtectDataRAM: %v", err)
	}

	if err := seq.ProtectStorage(); err != nil {
		t.Fatalf("ProtectStorage: %v", err)
	}

	var slots []int

	for _, r := range hw.regions() {
		slots = append(slots, r.Slot)
	}

	// data RAM, its text carve-out, the RW image, uncached DMA RAM
	// and the rollback secret.
	if diff := cmp.Diff([]int{0, 1, 2, 6, 8}, slots); diff != "" {
		t.Fatalf("enabled slots diff (-want +got):\n%s", diff)
	}
}
