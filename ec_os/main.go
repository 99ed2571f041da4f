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

package main

import (
	"log"
	"os"
	"runtime"
	"time"

	"github.com/usbarmory/tamago/soc/nxp/imx6ul"

	"github.com/openec-dev/openec/internal/hooks"
)

// initialized at compile time (see Makefile)
var (
	Build     string
	Revision  string
	Version   string
	PublicKey string
)

// chargeInterval paces the charging policy loop.
const chargeInterval = 250 * time.Millisecond

func init() {
	log.SetFlags(log.Ltime)
	log.SetOutput(os.Stdout)

	if len(PublicKey) == 0 {
		log.Fatal("EC RW image verification key is missing")
	}

	if imx6ul.Native {
		imx6ul.SetARMFreq(imx6ul.Freq198)
		imx6ul.DCP.Init()
	}

	log.Printf("%s/%s (%s) • embedded controller • %s %s",
		runtime.GOOS, runtime.GOARCH, runtime.Version(),
		Revision, Build)
}

func main() {
	// Memory protection runs from the first hook, before anything
	// else executes.
	if err := hooks.Init.Run(); err != nil {
		log.Fatalf("EC boot hook failure, %v", err)
	}

	if err := checkRollback(); err != nil {
		log.Fatalf("EC firmware rollback check failure, %v", err)
	}

	if err := verifyRW(); err != nil {
		log.Fatalf("EC RW image verification error, %v", err)
	}

	log.Printf("EC init complete (%s)", Version)

	for {
		chargeCycle()
		time.Sleep(chargeInterval)
	}
}
