// Package catalog holds the fixed routine-to-exercise mapping the session draft
// is validated against.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Routine is a named, ordered list of exercises.
type Routine struct {
	Name      string   `yaml:"name" json:"name"`
	Exercises []string `yaml:"exercises" json:"exercises"`
}

// Catalog preserves routine order for display.
type Catalog struct {
	routines []Routine
	byName   map[string]int
}

type file struct {
	Routines []Routine `yaml:"routines"`
}

// Default returns the built-in three-day split.
func Default() *Catalog {
	c, _ := New([]Routine{
		{Name: "Mon", Exercises: []string{
			"Split Squat", "Bench Press", "Pull-Ups", "Close-Grip Push-Up", "EZ Curl", "Lateral Raise",
		}},
		{Name: "Wed", Exercises: []string{
			"RDL", "Incline DB Press", "1-Arm Row", "Skullcrusher", "Incline Curl", "Lateral Raise",
		}},
		{Name: "Sat", Exercises: []string{
			"Reverse Lunge", "Step-Up", "Chin-Ups", "Dips", "Shrugs / Carries", "Plank / Hollow Hold", "Lateral Raise",
		}},
	})
	return c
}

// New validates routines and builds a catalog.
func New(routines []Routine) (*Catalog, error) {
	if len(routines) == 0 {
		return nil, fmt.Errorf("catalog has no routines")
	}
	c := &Catalog{byName: make(map[string]int, len(routines))}
	for _, r := range routines {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return nil, fmt.Errorf("routine name is required")
		}
		if _, dup := c.byName[r.Name]; dup {
			return nil, fmt.Errorf("duplicate routine %q", r.Name)
		}
		if len(r.Exercises) == 0 {
			return nil, fmt.Errorf("routine %q has no exercises", r.Name)
		}
		seen := make(map[string]bool, len(r.Exercises))
		exercises := make([]string, 0, len(r.Exercises))
		for _, ex := range r.Exercises {
			ex = strings.TrimSpace(ex)
			if ex == "" {
				return nil, fmt.Errorf("routine %q has an empty exercise name", r.Name)
			}
			if seen[ex] {
				return nil, fmt.Errorf("routine %q lists %q twice", r.Name, ex)
			}
			seen[ex] = true
			exercises = append(exercises, ex)
		}
		c.byName[r.Name] = len(c.routines)
		c.routines = append(c.routines, Routine{Name: r.Name, Exercises: exercises})
	}
	return c, nil
}

// Load reads a YAML catalog:
//
//	routines:
//	  - name: Mon
//	    exercises: [Split Squat, Bench Press]
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	c, err := New(f.Routines)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Names lists routine names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.routines))
	for i, r := range c.routines {
		names[i] = r.Name
	}
	return names
}

// Routines returns a copy of every routine.
func (c *Catalog) Routines() []Routine {
	out := make([]Routine, len(c.routines))
	for i, r := range c.routines {
		out[i] = Routine{Name: r.Name, Exercises: append([]string(nil), r.Exercises...)}
	}
	return out
}

// Exercises returns the exercises of routine name.
func (c *Catalog) Exercises(name string) ([]string, bool) {
	i, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), c.routines[i].Exercises...), true
}
