// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

// window is an SDL window and the platform handle devices are created for.
type window struct {
	*sdl.Window
	Handle uintptr
}

func openWindow(title string, width, height int32) (*window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, err
	}
	w, err := sdl.CreateWindow(title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		width,
		height,
		sdl.WINDOW_VULKAN|sdl.WINDOW_HIDDEN)
	if err != nil {
		sdl.Quit()
		return nil, err
	}
	handle, err := nativeHandle(w)
	if err != nil {
		w.Destroy()
		sdl.Quit()
		return nil, err
	}
	return &window{Window: w, Handle: handle}, nil
}

// nativeHandle returns the platform window behind w.
func nativeHandle(w *sdl.Window) (uintptr, error) {
	info, err := w.GetWMInfo()
	if err != nil {
		return 0, err
	}
	switch info.Subsystem {
	case sdl.SYSWM_X11:
		return uintptr(info.GetX11Info().Window), nil
	case sdl.SYSWM_WINDOWS:
		return uintptr(unsafe.Pointer(info.GetWindowsInfo().Window)), nil
	case sdl.SYSWM_COCOA:
		return uintptr(unsafe.Pointer(info.GetCocoaInfo().Window)), nil
	}
	return 0, fmt.Errorf("unsupported window system %d", info.Subsystem)
}

// Close destroys the window and shuts SDL down
func (w *window) Close() {
	w.Destroy()
	sdl.Quit()
}
