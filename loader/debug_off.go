// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build !rhidebug

package loader

const debugBuild = false
