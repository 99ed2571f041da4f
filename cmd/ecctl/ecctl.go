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

// ecctl is the host-side planning tool for the EC memory protection
// map. It simulates the boot lockdown over a board description and
// prints the region slots exactly as the firmware would program them,
// so a layout change can be reviewed before it ships.
package main

import (
	"flag"

	"github.com/alecthomas/kong"
	"k8s.io/klog"
)

type cli struct {
	Verbose bool `short:"v" help:"Enable verbose logging."`

	Plan   planCmd   `cmd:"" help:"Simulate the boot lockdown for a board description."`
	Encode encodeCmd `cmd:"" help:"Encode a single protection request."`
}

func main() {
	var c cli

	ctx := kong.Parse(&c,
		kong.Name("ecctl"),
		kong.Description("EC memory protection planning tool"),
		kong.UsageOnError(),
	)

	klog.InitFlags(nil)

	if c.Verbose {
		flag.Set("v", "1")
	}

	defer klog.Flush()

	ctx.FatalIfErrorf(ctx.Run())
}
