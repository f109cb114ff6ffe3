package tuning

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/City-Sense/internal/city"
)

// Tuning is the city configuration supplied by the owning application.
type Tuning struct {
	Grid          GridSize `yaml:"grid"`
	StartingMoney int      `yaml:"starting_money"`
	RefundRate    float64  `yaml:"refund_rate"`
	Costs         Costs    `yaml:"costs"`
	Seed          int64    `yaml:"seed"`
	Models        Models   `yaml:"models"`
	// RoadAccess requires houses and specials to touch a road.
	RoadAccess *bool `yaml:"road_access"`
}

type GridSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type Costs struct {
	Road    int `yaml:"road"`
	House   int `yaml:"house"`
	Special int `yaml:"special"`
}

type Model struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type Models struct {
	Houses   []Model `yaml:"houses"`
	Specials []Model `yaml:"specials"`
}

// Default returns the stock settings.
func Default() Tuning {
	return Tuning{
		Grid:          GridSize{Width: 20, Height: 12},
		StartingMoney: 1000,
		RefundRate:    0.7,
		Costs:         Costs{Road: 20, House: 100, Special: 300},
		Seed:          1,
		Models: Models{
			Houses: []Model{
				{Name: "house_small", Weight: 0.5},
				{Name: "house_medium", Weight: 0.3},
				{Name: "house_large", Weight: 0.2},
			},
			Specials: []Model{
				{Name: "park", Weight: 0.6},
				{Name: "town_hall", Weight: 0.4},
			},
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate reports every out-of-range setting at once.
func (t Tuning) Validate() error {
	var errs []error
	if t.Grid.Width <= 0 || t.Grid.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid %dx%d must be positive", t.Grid.Width, t.Grid.Height))
	}
	if t.Costs.Road < 0 || t.Costs.House < 0 || t.Costs.Special < 0 {
		errs = append(errs, errors.New("costs must not be negative"))
	}
	if t.RefundRate < 0 || t.RefundRate > 1 {
		errs = append(errs, fmt.Errorf("refund_rate %.2f outside [0,1]", t.RefundRate))
	}
	for _, m := range append(append([]Model{}, t.Models.Houses...), t.Models.Specials...) {
		if m.Name == "" {
			errs = append(errs, errors.New("model without a name"))
		}
		if m.Weight < 0 {
			errs = append(errs, fmt.Errorf("model %q has negative weight", m.Name))
		}
	}
	return errors.Join(errs...)
}

// Prices converts the cost table for the engine.
func (t Tuning) Prices() city.Prices {
	return city.Prices{Road: t.Costs.Road, House: t.Costs.House, Special: t.Costs.Special}
}

// HouseCatalog returns the weighted house models.
func (t Tuning) HouseCatalog() city.Catalog { return catalog(t.Models.Houses) }

// SpecialCatalog returns the weighted special-building models.
func (t Tuning) SpecialCatalog() city.Catalog { return catalog(t.Models.Specials) }

func catalog(ms []Model) city.Catalog {
	c := make(city.Catalog, len(ms))
	for i, m := range ms {
		c[i] = city.WeightedModel{Name: m.Name, Weight: m.Weight}
	}
	return c
}

// RequireRoadAccess reports whether buildings need an adjacent road.
func (t Tuning) RequireRoadAccess() bool {
	return t.RoadAccess == nil || *t.RoadAccess
}

// CityOptions turns the tuning into harness options.
func (t Tuning) CityOptions() []city.CityOption {
	opts := []city.CityOption{
		city.WithGridSize(t.Grid.Width, t.Grid.Height),
		city.WithCitySeed(t.Seed),
		city.WithCityPrices(t.Prices()),
		city.WithCityModels(t.HouseCatalog(), t.SpecialCatalog()),
		city.WithBudget(t.StartingMoney, t.RefundRate),
	}
	if !t.RequireRoadAccess() {
		opts = append(opts, city.WithEngineOption(city.WithoutRoadAccess()))
	}
	return opts
}
