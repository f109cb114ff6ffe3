package city

import (
	"errors"
	"fmt"
)

// TestCity is a headless harness for scripted placement sessions, used by the
// package tests and by cmd/headless-report. It plays clicks the way the input
// layer would: press opens a road drag, hold extends it, release commits.
type TestCity struct {
	Width  int
	Height int
	Engine *Engine
	Purse  *Purse // nil when placements are free
	Log    *EventLog
	Feed   *Feed

	seed       int64
	prices     Prices
	refundRate float64
	houses     Catalog
	specials   Catalog
	engineOpts []Option
	listeners  []Listener
}

// cityOptionKind controls the pass in which an option is applied.
type cityOptionKind int

const (
	cityOptInfra    cityOptionKind = iota // grid size, seed, money; applied first
	cityOptRoad                           // road drags, once the engine exists
	cityOptBuilding                       // houses and specials, after roads
)

// CityOption is a builder function applied to a TestCity during construction.
type CityOption struct {
	kind cityOptionKind
	fn   func(*TestCity) error
}

// WithGridSize sets the grid dimensions.
func WithGridSize(w, h int) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.Width, tc.Height = w, h
		return nil
	}}
}

// WithCitySeed seeds model selection.
func WithCitySeed(seed int64) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.seed = seed
		return nil
	}}
}

// WithBudget gives the city a Purse holding balance. Deletions refund
// refundRate of the price.
func WithBudget(balance int, refundRate float64) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.Purse = &Purse{Balance: balance}
		tc.refundRate = refundRate
		return nil
	}}
}

// WithCityPrices overrides the per-piece costs.
func WithCityPrices(p Prices) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.prices = p
		return nil
	}}
}

// WithCityModels sets the model catalogs.
func WithCityModels(houses, specials Catalog) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.houses, tc.specials = houses, specials
		return nil
	}}
}

// WithVerbose records reshape events in the log.
func WithVerbose(v bool) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.Log = NewEventLog(v)
		return nil
	}}
}

// WithEngineOption passes an Option straight to NewEngine.
func WithEngineOption(o Option) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.engineOpts = append(tc.engineOpts, o)
		return nil
	}}
}

// WithCityListener subscribes l after the log and feed.
func WithCityListener(l Listener) CityOption {
	return CityOption{cityOptInfra, func(tc *TestCity) error {
		tc.listeners = append(tc.listeners, l)
		return nil
	}}
}

// WithRoad drags a road through the given cells and releases it.
func WithRoad(points ...Pos) CityOption {
	return CityOption{cityOptRoad, func(tc *TestCity) error {
		return tc.DragRoad(points...)
	}}
}

// WithHouse places a house.
func WithHouse(x, z int) CityOption {
	return CityOption{cityOptBuilding, func(tc *TestCity) error {
		_, err := tc.Engine.PlaceHouse(Pos{X: x, Z: z})
		return err
	}}
}

// WithSpecial places a special building.
func WithSpecial(x, z int) CityOption {
	return CityOption{cityOptBuilding, func(tc *TestCity) error {
		_, err := tc.Engine.PlaceSpecial(Pos{X: x, Z: z})
		return err
	}}
}

// NewTestCity constructs a TestCity from the given options in ordered passes:
//  1. Infrastructure (grid size, seed, budget, prices, verbose)
//  2. Build the Engine
//  3. Roads
//  4. Buildings
func NewTestCity(opts ...CityOption) (*TestCity, error) {
	tc := &TestCity{
		Width:  10,
		Height: 10,
		Log:    NewEventLog(false),
		Feed:   NewFeed(0),
		seed:   1,
		prices: DefaultPrices,
	}
	for _, o := range opts {
		if o.kind == cityOptInfra {
			if err := o.fn(tc); err != nil {
				return nil, err
			}
		}
	}
	if err := tc.buildEngine(); err != nil {
		return nil, err
	}
	for _, kind := range []cityOptionKind{cityOptRoad, cityOptBuilding} {
		for _, o := range opts {
			if o.kind != kind {
				continue
			}
			if err := o.fn(tc); err != nil {
				return nil, err
			}
		}
	}
	return tc, nil
}

func (tc *TestCity) buildEngine() error {
	opts := []Option{
		WithPrices(tc.prices),
		WithSeed(tc.seed),
		WithModels(tc.houses, tc.specials),
		WithListener(tc.Log.Listener()),
		WithListener(tc.Feed.Listener()),
	}
	if tc.Purse != nil {
		opts = append(opts,
			WithWallet(tc.Purse),
			WithListener(RefundOnRemoval(tc.Purse, tc.prices, tc.refundRate)))
	}
	for _, l := range tc.listeners {
		opts = append(opts, WithListener(l))
	}
	opts = append(opts, tc.engineOpts...)
	e, err := NewEngine(tc.Width, tc.Height, opts...)
	if err != nil {
		return err
	}
	tc.Engine = e
	return nil
}

// Balance returns the purse balance, or 0 when placements are free.
func (tc *TestCity) Balance() int {
	if tc.Purse == nil {
		return 0
	}
	return tc.Purse.Balance
}

// HoldRoad presses on the first cell and holds through the rest without
// releasing. Hold errors on individual cells are collected; the drag stays
// open so the caller can Release or Cancel.
func (tc *TestCity) HoldRoad(points ...Pos) error {
	if len(points) == 0 {
		return nil
	}
	roads := tc.Engine.Roads()
	if err := roads.PlaceRoad(points[0]); err != nil {
		return fmt.Errorf("press %s: %w", points[0], err)
	}
	var errs []error
	for _, p := range points[1:] {
		if err := roads.PlaceRoad(p); err != nil {
			errs = append(errs, fmt.Errorf("hold %s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

// DragRoad is HoldRoad followed by a release.
func (tc *TestCity) DragRoad(points ...Pos) error {
	err := tc.HoldRoad(points...)
	tc.Engine.Roads().Finish()
	return err
}

// Report renders the city with its event log.
func (tc *TestCity) Report(title string, lastEvents int) string {
	opts := ReportOptions{Title: title, Log: tc.Log, LastEvents: lastEvents}
	if tc.Purse != nil {
		bal := tc.Purse.Balance
		opts.Balance = &bal
	}
	return Report(tc.Engine, opts)
}
