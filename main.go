// Copyright 2026 The Hotspot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/jcodagnone/hotspot/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
