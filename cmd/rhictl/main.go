// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command rhictl inspects backend modules and graphics adapters.
package main

import (
	"os"
	"runtime"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
