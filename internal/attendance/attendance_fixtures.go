package attendance

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

func LoadFixtures(path string) (Fixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("read fixtures: %w", err)
	}

	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return Fixtures{}, fmt.Errorf("parse fixtures %s: %w", path, err)
	}
	if err := validator.New().Struct(fx); err != nil {
		return Fixtures{}, fmt.Errorf("invalid fixtures %s: %w", path, err)
	}

	known := make(map[int64]struct{}, len(fx.Locations))
	for _, l := range fx.Locations {
		known[l.ID] = struct{}{}
	}
	for _, e := range fx.Employees {
		for _, id := range e.AllowedLocationIDs {
			if _, ok := known[id]; !ok {
				return Fixtures{}, fmt.Errorf("employee %s references unknown location %d", e.Username, id)
			}
		}
	}
	return fx, nil
}
