// Copyright (c) 2026 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package loader finds, opens and validates backend modules, and wraps the
// raw contract they export in typed Library and Device values. Nothing
// outside this package calls through an abi.Contract directly.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/rhi/abi"
	"github.com/devblok/rhi/api"
)

// package errors
var (
	ErrNoModule            = errors.New("backend has no loadable module")
	ErrSymbolNotFound      = errors.New("factory symbol not found")
	ErrFactoryType         = errors.New("factory symbol has the wrong type")
	ErrTeardownType        = errors.New("teardown symbol has the wrong type")
	ErrNilContract         = errors.New("factory returned a nil contract")
	ErrVersionMismatch     = errors.New("ABI version mismatch")
	ErrBackendMismatch     = errors.New("module implements a different backend")
	ErrIncompleteContract  = errors.New("contract has a nil function pointer")
	ErrDevicesOutstanding  = errors.New("devices created by this library are still alive")
	ErrLibraryClosed       = errors.New("library is closed")
	ErrDeviceDestroyed     = errors.New("device is destroyed")
	ErrModuleClosed        = errors.New("module is closed")
	ErrUnsupportedPlatform = errors.New("dynamic modules are not supported on this platform")
)

// LoadError reports a failed load, naming the backend and the module
// file that was attempted.
type LoadError struct {
	Backend api.Backend
	Module  string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Module == "" {
		return fmt.Sprintf("loading %s backend: %v", e.Backend, e.Err)
	}
	return fmt.Sprintf("loading %s backend from '%s': %v", e.Backend, e.Module, e.Err)
}

// Unwrap returns the underlying cause
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Loader locates and opens backend modules.
type Loader struct {
	// Opener opens module files. The platform opener when nil.
	Opener Opener

	// SearchPaths are directories tried, in order, after the directory
	// of the running executable.
	SearchPaths []string

	// SkipExecutableDir leaves the executable's directory out of the search.
	SkipExecutableDir bool
}

// DefaultLoader searches next to the running executable only.
var DefaultLoader = &Loader{}

// Load opens the module of the given backend with DefaultLoader.
func Load(b api.Backend) (*Library, error) {
	return DefaultLoader.Load(b)
}

func (l *Loader) opener() Opener {
	if l.Opener != nil {
		return l.Opener
	}
	return platformOpener()
}

// Candidates returns every path Load would try for the module name,
// in order.
func (l *Loader) Candidates(name string) []string {
	var paths []string
	if !l.SkipExecutableDir {
		if exe, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(exe), name))
		}
	}
	for _, dir := range l.SearchPaths {
		paths = append(paths, filepath.Join(dir, name))
	}
	if len(paths) == 0 {
		paths = append(paths, name)
	}
	return paths
}

// Load opens the module of backend b, resolves its factory and validates
// the contract it returns. The first candidate path that opens is used.
// On every failure after a module was opened, the module is closed
// again before returning.
func (l *Loader) Load(b api.Backend) (*Library, error) {
	name := ModuleName(b)
	if name == "" {
		return nil, &LoadError{Backend: b, Err: ErrNoModule}
	}

	var (
		mod     Module
		path    string
		openErr error
	)
	for _, candidate := range l.Candidates(name) {
		m, err := l.opener().Open(candidate)
		if err == nil {
			mod, path = m, candidate
			break
		}
		log.WithFields(log.Fields{
			"backend": b,
			"module":  candidate,
		}).Debug("module candidate failed: ", err)
		if openErr == nil {
			openErr = &LoadError{Backend: b, Module: candidate, Err: err}
		}
	}
	if mod == nil {
		log.WithField("backend", b).Error(openErr)
		return nil, openErr
	}

	lib, err := bind(b, path, mod)
	if err != nil {
		if cerr := mod.Close(); cerr != nil {
			log.WithField("module", path).Warn("closing rejected module: ", cerr)
		}
		log.WithField("backend", b).Error(err)
		return nil, err
	}
	log.WithFields(log.Fields{
		"backend": b,
		"module":  path,
	}).Debug("backend module loaded")
	return lib, nil
}

func bind(b api.Backend, path string, mod Module) (*Library, error) {
	sym, err := mod.Lookup(abi.FactorySymbol)
	if err != nil {
		return nil, &LoadError{Backend: b, Module: path, Err: fmt.Errorf("%w: %s: %v", ErrSymbolNotFound, abi.FactorySymbol, err)}
	}
	factory, err := asFactory(sym)
	if err != nil {
		return nil, &LoadError{Backend: b, Module: path, Err: err}
	}
	var teardown abi.Teardown
	if sym, err := mod.Lookup(abi.TeardownSymbol); err == nil {
		if teardown, err = asTeardown(sym); err != nil {
			return nil, &LoadError{Backend: b, Module: path, Err: err}
		}
	}
	contract, err := validate(b, factory)
	if err != nil {
		return nil, &LoadError{Backend: b, Module: path, Err: err}
	}
	lib := newLibrary(b, path, mod, contract)
	lib.teardown = teardown
	return lib, nil
}

func asTeardown(sym interface{}) (abi.Teardown, error) {
	switch f := sym.(type) {
	case *abi.Teardown:
		if f != nil && *f != nil {
			return *f, nil
		}
	case abi.Teardown:
		if f != nil {
			return f, nil
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrTeardownType, sym)
	}
	return nil, fmt.Errorf("%w: nil %s", ErrTeardownType, abi.TeardownSymbol)
}

// asFactory accepts both an exported factory variable and an exported
// factory function.
func asFactory(sym interface{}) (abi.Factory, error) {
	switch f := sym.(type) {
	case *abi.Factory:
		if f == nil || *f == nil {
			return nil, fmt.Errorf("%w: nil %s", ErrFactoryType, abi.FactorySymbol)
		}
		return *f, nil
	case abi.Factory:
		if f == nil {
			return nil, fmt.Errorf("%w: nil %s", ErrFactoryType, abi.FactorySymbol)
		}
		return f, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrFactoryType, sym)
}

func validate(b api.Backend, factory abi.Factory) (*abi.Contract, error) {
	contract := factory()
	if contract == nil {
		return nil, ErrNilContract
	}
	if contract.ABIVersion != abi.Version {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrVersionMismatch, abi.Version, contract.ABIVersion)
	}
	if missing := contract.Missing(); missing != "" {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteContract, missing)
	}
	if id := api.Backend(contract.BackendID()); id != b {
		return nil, fmt.Errorf("%w: wanted %s, module reports %s", ErrBackendMismatch, b, id)
	}
	return contract, nil
}
