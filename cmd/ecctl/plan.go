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
	"fmt"

	"github.com/BurntSushi/toml"
	"k8s.io/klog"

	"github.com/openec-dev/openec/mpu"
)

// boardConfig mirrors the board memory map TOML description.
type boardConfig struct {
	Name    string `toml:"name"`
	Storage string `toml:"storage"`

	DataRAM     rangeConfig `toml:"data-ram"`
	DataRAMText rangeConfig `toml:"data-ram-text"`
	CodeRAM     rangeConfig `toml:"code-ram"`
	FlashRO     rangeConfig `toml:"flash-ro"`
	FlashRW     rangeConfig `toml:"flash-rw"`
	Rollback    rangeConfig `toml:"rollback"`
	Uncached    rangeConfig `toml:"uncached"`
}

type rangeConfig struct {
	Base uint32 `toml:"base"`
	Size uint32 `toml:"size"`
}

func (r rangeConfig) Range() mpu.Range {
	return mpu.Range{Base: r.Base, Size: r.Size}
}

func (b *boardConfig) layout() (mpu.Layout, error) {
	l := mpu.Layout{
		DataRAM:     b.DataRAM.Range(),
		DataRAMText: b.DataRAMText.Range(),
		CodeRAM:     b.CodeRAM.Range(),
		FlashRO:     b.FlashRO.Range(),
		FlashRW:     b.FlashRW.Range(),
		Rollback:    b.Rollback.Range(),
		Uncached:    b.Uncached.Range(),
	}

	switch b.Storage {
	case "code-ram":
		l.Storage = mpu.StorageCodeRAM
	case "mapped-flash":
		l.Storage = mpu.StorageMappedFlash
	default:
		return l, fmt.Errorf("unknown storage layout %q", b.Storage)
	}

	return l, nil
}

type planCmd struct {
	Board   string `arg:"" type:"existingfile" help:"Board description TOML file."`
	Regions int    `default:"16" help:"MPU region count of the target part (8 or 16)."`
}

func (cmd *planCmd) Run() error {
	var board boardConfig

	if _, err := toml.DecodeFile(cmd.Board, &board); err != nil {
		return err
	}

	layout, err := board.layout()

	if err != nil {
		return err
	}

	klog.V(1).Infof("board %q, %d regions", board.Name, cmd.Regions)

	hw := newSimHW(cmd.Regions)
	seq := mpu.NewSequencer(hw, mpu.DefaultTable(), layout, nil)

	if err := seq.Run(); err != nil {
		return err
	}

	if err := seq.ProtectDataRAM(); err != nil {
		return err
	}

	if err := seq.ProtectStorage(); err != nil {
		return err
	}

	fmt.Printf("# %s (%d regions, %s)\n", board.Name, cmd.Regions, seq.State())

	for _, r := range hw.regions() {
		fmt.Printf("region %2d: %#08x-%#08x size 2^%-2d disable %#02x attr %#06x\n",
			r.Slot, r.Base, r.Base+1<<r.SizeBits-1, r.SizeBits, r.Disable, r.Attr)

		for _, s := range r.Spans() {
			klog.V(1).Infof("region %2d span %#08x-%#08x", r.Slot, s.Base, s.Base+s.Size-1)
		}
	}

	return nil
}

type encodeCmd struct {
	Base   uint32 `arg:"" help:"First protected address."`
	Size   uint32 `arg:"" help:"Length in bytes."`
	Slot   int    `default:"0" help:"Region slot the encoding starts at."`
	Single bool   `help:"Forbid the spillover slot."`
}

func (cmd *encodeCmd) Run() error {
	cap := mpu.Capability{
		Regions:     mpu.MaxRegions,
		Unified:     true,
		MinSizeBits: mpu.MinSizeBits,
	}

	regions, err := cap.Encode(mpu.Request{
		Slot:   cmd.Slot,
		Base:   cmd.Base,
		Size:   cmd.Size,
		Enable: true,
		Single: cmd.Single,
	})

	if err != nil {
		return err
	}

	for _, r := range regions {
		fmt.Printf("region %2d: %#08x size 2^%-2d disable %#02x\n",
			r.Slot, r.Base, r.SizeBits, r.Disable)

		for _, s := range r.Spans() {
			fmt.Printf("  span %#08x-%#08x\n", s.Base, s.Base+s.Size-1)
		}
	}

	return nil
}
