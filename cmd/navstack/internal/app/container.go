// Package app wires the navstack CLI services with a dependency injection
// container.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/samber/do"

	"github.com/go-drift/navstack/cmd/navstack/internal/sim"
	"github.com/go-drift/navstack/pkg/assets"
	"github.com/go-drift/navstack/pkg/async"
	"github.com/go-drift/navstack/pkg/config"
	"github.com/go-drift/navstack/pkg/errors"
	"github.com/go-drift/navstack/pkg/logging"
	"github.com/go-drift/navstack/pkg/navigation"
)

// Options are the inputs the container is built from.
type Options struct {
	Config *config.Config
	Script *sim.Script
	// LogLevel overrides the config's log_level when set.
	LogLevel string
	LogOut   io.Writer
}

// Container wraps the do.Injector holding the simulation services.
type Container struct {
	*do.Injector
}

// NewContainer registers every service provider. Services are built lazily
// on first invoke.
func NewContainer(opts Options) *Container {
	i := do.New()
	do.ProvideValue(i, opts.Config)
	do.ProvideValue(i, opts.Script)

	do.Provide(i, func(i *do.Injector) (*slog.Logger, error) {
		raw := opts.LogLevel
		if raw == "" {
			raw = opts.Config.LogLevel
		}
		level, err := logging.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
		out := opts.LogOut
		if out == nil {
			out = io.Discard
		}
		logger, _ := logging.New(out, level)
		return logger, nil
	})
	do.Provide(i, func(i *do.Injector) (*async.Scheduler, error) {
		return async.NewScheduler(), nil
	})
	do.Provide(i, func(i *do.Injector) (assets.Loader, error) {
		return sim.NewLoader(do.MustInvoke[*sim.Script](i)), nil
	})
	do.Provide(i, func(i *do.Injector) (*navigation.Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		regOpts, err := navigation.ConfigOptions(cfg)
		if err != nil {
			return nil, err
		}
		logger, err := do.Invoke[*slog.Logger](i)
		if err != nil {
			return nil, err
		}
		regOpts = append(regOpts, navigation.WithLogger(logger))
		errors.SetHandler(&errors.LogHandler{Logger: logger})
		return navigation.NewRegistry(
			do.MustInvoke[*async.Scheduler](i),
			do.MustInvoke[assets.Loader](i),
			regOpts...,
		), nil
	})
	do.Provide(i, func(i *do.Injector) (*navigation.LinkRouter, error) {
		reg, err := do.Invoke[*navigation.Registry](i)
		if err != nil {
			return nil, err
		}
		return reg.Build(do.MustInvoke[*config.Config](i))
	})
	do.Provide(i, func(i *do.Injector) (*sim.Runner, error) {
		links, err := do.Invoke[*navigation.LinkRouter](i)
		if err != nil {
			return nil, err
		}
		reg := do.MustInvoke[*navigation.Registry](i)
		return sim.NewRunner(reg, links, do.MustInvoke[*slog.Logger](i)), nil
	})
	return &Container{Injector: i}
}

// Runner builds the simulation runner and everything it depends on.
func (c *Container) Runner() (*sim.Runner, error) {
	r, err := do.Invoke[*sim.Runner](c.Injector)
	if err != nil {
		return nil, fmt.Errorf("failed to build simulation: %w", err)
	}
	return r, nil
}
