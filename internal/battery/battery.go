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

// Package battery implements smart battery presence, disconnect and
// charging policy checks on top of a board supplied parameter table.
// All previously-global state lives in an explicitly constructed
// Context with a single owner.
package battery

import (
	"errors"
	"fmt"
	"strings"

	"k8s.io/klog"
)

// Present reports physical battery presence.
type Present int

const (
	NotSure Present = iota
	Absent
	Attached
)

// Disconnect reports the gauge FET disconnect state.
type Disconnect int

const (
	NotDisconnected Disconnect = iota
	Disconnected
	DisconnectError
)

// Info holds the charging envelope of one battery pack. Voltages are
// mV, currents mA, temperatures °C.
type Info struct {
	VoltageMax    int
	VoltageNormal int
	VoltageMin    int

	PrechargeCurrent int

	StartChargingMinC int
	StartChargingMaxC int
	ChargingMinC      int
	ChargingMaxC      int
	DischargingMinC   int
	DischargingMaxC   int
}

// Params ties a pack's manufacturer name to its charging envelope.
type Params struct {
	ManufName string
	Info      Info
}

// ChargeState is the charger request being built for the current
// control cycle. Temperature is in deci-Kelvin as reported by the
// gauge.
type ChargeState struct {
	Temperature      int
	RequestedCurrent int
	RequestedVoltage int
	WantCharge       bool
	Idle             bool
}

// Config assembles a battery context. HWPresent reports the presence
// GPIO, ExtPower the external power rail.
type Config struct {
	Bus       SMBus
	HWPresent func() bool
	ExtPower  func() bool
	Table     []Params
	// Default indexes Table for use before detection succeeds.
	Default int
}

// Context owns all battery state: the detected pack type, the previous
// presence reading and the sticky disconnect probe result.
type Context struct {
	cfg Config

	typ             int
	presPrev        Present
	cutOff          bool
	notDisconnected bool
}

// New returns a battery context with no pack detected yet.
func New(cfg Config) *Context {
	return &Context{
		cfg: cfg,
		typ: -1,
	}
}

// DetectType matches the gauge manufacturer name against the board
// table. Detection runs as soon as the bus is up, the charger driver
// needs the pack parameters for its very first cycle.
func (c *Context) DetectType() {
	var name [3]byte

	if err := c.cfg.Bus.ReadBlock(regManufacturerName, name[:]); err != nil {
		klog.Infof("battery not found, %v", err)
		return
	}

	for i, p := range c.cfg.Table {
		if strings.EqualFold(string(name[:2]), p.ManufName[:2]) {
			c.typ = i
			klog.Infof("found battery: %s", p.ManufName)
			return
		}
	}

	klog.Infof("unknown battery manufacturer %q", name[:2])
}

// Info returns the parameters of the detected pack, or the board
// default when detection has not succeeded.
func (c *Context) Info() *Info {
	if c.typ < 0 {
		return &c.cfg.Table[c.cfg.Default].Info
	}

	return &c.cfg.Table[c.typ].Info
}

// CutOff places the battery in ship mode. The command must be sent
// twice to take effect.
func (c *Context) CutOff() error {
	for i := 0; i < 2; i++ {
		if err := c.cfg.Bus.WriteWord(regManufacturerAccess, shutdownData); err != nil {
			return fmt.Errorf("ship mode write %d: %w", i, err)
		}
	}

	c.cutOff = true

	return nil
}

// readMfgAcc selects an alternate manufacturer access parameter and
// block reads its response.
func (c *Context) readMfgAcc(param uint16, buf []byte) error {
	if err := c.cfg.Bus.WriteWord(regAltManufacturerAccess, param); err != nil {
		return err
	}

	return c.cfg.Bus.ReadBlock(regAltManufacturerAccess, buf)
}

// initialized reports whether the gauge finished its own startup,
// distinguishing a working pack from one booting out of cut-off.
func (c *Context) initialized() bool {
	status, err := c.cfg.Bus.ReadWord(regBatteryStatus)

	return err == nil && status&statusInitialized != 0
}

// IsPresent reports physical battery presence. A pack whose gauge is
// not initialized and was not cut off by us is reported absent, its
// FETs are still open after power shutdown.
func (c *Context) IsPresent() Present {
	pres := Absent

	if c.cfg.HWPresent() {
		pres = Attached
	}

	if pres == Attached && c.presPrev != pres && !c.cutOff && !c.initialized() {
		pres = Absent
	}

	c.presPrev = pres

	return pres
}

// Initialized reports whether presence has settled since the last
// reading.
func (c *Context) Initialized() bool {
	pres := Absent

	if c.cfg.HWPresent() {
		pres = Attached
	}

	return pres == c.presPrev
}

// DisconnectState probes whether the pack sits in the factory
// disconnect state. Once a pack is seen connected the probe result
// sticks, a battery does not enter disconnect at runtime.
func (c *Context) DisconnectState() Disconnect {
	if c.notDisconnected {
		return NotDisconnected
	}

	if !c.cfg.ExtPower() {
		c.notDisconnected = true
		return NotDisconnected
	}

	var data [6]byte

	if err := c.readMfgAcc(paramOperationStatus, data[:]); err != nil {
		return DisconnectError
	}

	if ^data[3]&(opDischargingDisabled|opChargingDisabled) != 0 {
		c.notDisconnected = true
		return NotDisconnected
	}

	// Neither charging nor discharging, make sure no safety fault put
	// us here.
	if err := c.readMfgAcc(paramSafetyStatus, data[:]); err != nil ||
		data[2]|data[3]|data[4]|data[5] != 0 {
		return DisconnectError
	}

	if c.IsPresent() == Attached {
		return Disconnected
	}

	c.notDisconnected = true

	return NotDisconnected
}

// ProfileOverride adjusts the charger request for the current cycle,
// charging is inhibited outside the pack's temperature window.
func (c *Context) ProfileOverride(st *ChargeState) {
	info := c.Info()

	// deci-°C from deci-Kelvin
	tempC := st.Temperature - 2731

	if tempC >= info.ChargingMaxC*10 || tempC < info.ChargingMinC*10 {
		st.RequestedCurrent = 0
		st.RequestedVoltage = 0
		st.WantCharge = false
		st.Idle = true
	}
}

// Voltage returns the pack voltage in mV.
func (c *Context) Voltage() (int, error) {
	v, err := c.cfg.Bus.ReadWord(regVoltage)

	if err != nil {
		return 0, errors.New("gauge voltage read failed")
	}

	return int(v), nil
}

// Temperature returns the pack temperature in deci-Kelvin.
func (c *Context) Temperature() (int, error) {
	t, err := c.cfg.Bus.ReadWord(regTemperature)

	if err != nil {
		return 0, errors.New("gauge temperature read failed")
	}

	return int(t), nil
}
