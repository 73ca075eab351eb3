// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

//go:build linux || darwin || freebsd

package loader

import "plugin"

// pluginModule is a module opened through the Go plugin runtime. The
// runtime never unmaps a plugin, so Close only drops the reference.
type pluginModule struct {
	p *plugin.Plugin
}

func (m *pluginModule) Lookup(symbol string) (interface{}, error) {
	if m.p == nil {
		return nil, ErrModuleClosed
	}
	sym, err := m.p.Lookup(symbol)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

func (m *pluginModule) Close() error {
	m.p = nil
	return nil
}

type pluginOpener struct{}

func (pluginOpener) Open(path string) (Module, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &pluginModule{p: p}, nil
}

func platformOpener() Opener {
	return pluginOpener{}
}
