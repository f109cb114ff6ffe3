package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/City-Sense/internal/city"
)

// scenario is a scripted list of clicks replayed against a city.
type scenario struct {
	Name    string   `yaml:"name"`
	Actions []action `yaml:"actions"`
}

// action is one input: exactly one field is set.
//
//	road:    [[0,5],[9,5]]  press, hold through each cell, release
//	hold:    [[2,0],[2,4]]  press and hold, no release
//	release: true
//	cancel:  true
//	house:   [3,6]
//	special: [4,6]
//	delete:  [5,5]
type action struct {
	Road    [][2]int `yaml:"road,omitempty"`
	Hold    [][2]int `yaml:"hold,omitempty"`
	Release bool     `yaml:"release,omitempty"`
	Cancel  bool     `yaml:"cancel,omitempty"`
	House   *[2]int  `yaml:"house,omitempty"`
	Special *[2]int  `yaml:"special,omitempty"`
	Delete  *[2]int  `yaml:"delete,omitempty"`
}

func (a action) kinds() []string {
	var k []string
	if len(a.Road) > 0 {
		k = append(k, "road")
	}
	if len(a.Hold) > 0 {
		k = append(k, "hold")
	}
	if a.Release {
		k = append(k, "release")
	}
	if a.Cancel {
		k = append(k, "cancel")
	}
	if a.House != nil {
		k = append(k, "house")
	}
	if a.Special != nil {
		k = append(k, "special")
	}
	if a.Delete != nil {
		k = append(k, "delete")
	}
	return k
}

// String describes the action for the report, e.g. "road (0,5)->(9,5)".
func (a action) String() string {
	kinds := a.kinds()
	if len(kinds) != 1 {
		return "invalid"
	}
	switch kinds[0] {
	case "road", "hold":
		pts := a.Road
		if kinds[0] == "hold" {
			pts = a.Hold
		}
		parts := make([]string, len(pts))
		for i, p := range pts {
			parts[i] = toPos(p).String()
		}
		return kinds[0] + " " + strings.Join(parts, "->")
	case "house":
		return "house " + toPos(*a.House).String()
	case "special":
		return "special " + toPos(*a.Special).String()
	case "delete":
		return "delete " + toPos(*a.Delete).String()
	default:
		return kinds[0]
	}
}

func toPos(p [2]int) city.Pos { return city.Pos{X: p[0], Z: p[1]} }

func toPositions(ps [][2]int) []city.Pos {
	out := make([]city.Pos, len(ps))
	for i, p := range ps {
		out[i] = toPos(p)
	}
	return out
}

// validate checks that every action sets exactly one input.
func (s scenario) validate() error {
	var errs []error
	for i, a := range s.Actions {
		if n := len(a.kinds()); n != 1 {
			errs = append(errs, fmt.Errorf("action %d: expected one input, got %d", i+1, n))
		}
	}
	return errors.Join(errs...)
}

func loadScenario(path string) (scenario, error) {
	var s scenario
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, err
	}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	if err := s.validate(); err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	if s.Name == "" {
		s.Name = path
	}
	return s, nil
}

// mainStreet is the built-in scenario: a street with a side road, a drag
// that is abandoned, houses along the street, one house with no road access
// and one demolition.
func mainStreet() scenario {
	return scenario{
		Name: "main-street",
		Actions: []action{
			{Road: [][2]int{{1, 5}, {6, 5}, {14, 5}}},
			{Road: [][2]int{{8, 4}, {8, 1}}},
			{Hold: [][2]int{{2, 2}, {5, 2}}},
			{Cancel: true},
			{House: &[2]int{3, 6}},
			{House: &[2]int{4, 6}},
			{House: &[2]int{7, 3}},
			{Special: &[2]int{10, 6}},
			{House: &[2]int{12, 9}},
			{Delete: &[2]int{14, 5}},
		},
	}
}

// apply replays a onto tc. Hold errors inside a drag are reported but do not
// stop the drag, matching how a real pointer keeps moving.
func apply(tc *city.TestCity, a action) error {
	e := tc.Engine
	tc.Log.Annotate(a.String())
	defer tc.Log.Annotate("")
	switch {
	case len(a.Road) > 0:
		return tc.DragRoad(toPositions(a.Road)...)
	case len(a.Hold) > 0:
		return tc.HoldRoad(toPositions(a.Hold)...)
	case a.Release:
		e.Roads().Finish()
		return nil
	case a.Cancel:
		e.Roads().Cancel()
		return nil
	case a.House != nil:
		_, err := e.PlaceHouse(toPos(*a.House))
		return err
	case a.Special != nil:
		_, err := e.PlaceSpecial(toPos(*a.Special))
		return err
	case a.Delete != nil:
		_, err := e.Delete(toPos(*a.Delete))
		return err
	}
	return errors.New("empty action")
}
