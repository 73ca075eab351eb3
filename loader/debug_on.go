// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build rhidebug

package loader

// Debug builds look for modules with the "d" suffix.
const debugBuild = true
