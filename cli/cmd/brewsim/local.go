package main

import (
	"context"

	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// local simulates in-process against the built-in defaults.
type local struct {
	engine *flavor.Engine
}

func newLocal() *local {
	return &local{engine: flavor.NewEngine(flavor.DefaultCacheSize)}
}

func (l *local) Simulate(_ context.Context, patch types.ParamPatch, locale string) (flavor.Simulation, error) {
	return l.engine.Simulate(flavor.ParseLocale(locale), patch.Apply(types.Defaults()))
}

func (l *local) Defaults(context.Context) (types.BrewParameters, error) {
	return types.Defaults(), nil
}
