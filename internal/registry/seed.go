package registry

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var builtinSeed []byte

// DefaultActivities returns the built-in activity catalog.
func DefaultActivities() []Activity {
	activities, err := ParseSeed(builtinSeed)
	if err != nil {
		// The embedded catalog is part of the binary.
		panic(fmt.Sprintf("registry: built-in seed is broken: %v", err))
	}
	return activities
}

// LoadSeedFile reads an activity catalog from a YAML file with the same
// shape as the built-in one.
func LoadSeedFile(path string) ([]Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes a YAML list of activities and validates it.
func ParseSeed(data []byte) ([]Activity, error) {
	var activities []Activity
	if err := yaml.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	if err := validateSeed(activities); err != nil {
		return nil, err
	}
	return activities, nil
}

func validateSeed(activities []Activity) error {
	seen := make(map[string]struct{}, len(activities))
	for i, a := range activities {
		if a.Name == "" {
			return fmt.Errorf("%w: activity #%d has no name", ErrInvalidSeed, i)
		}
		if _, dup := seen[a.Name]; dup {
			return fmt.Errorf("%w: duplicate activity %q", ErrInvalidSeed, a.Name)
		}
		seen[a.Name] = struct{}{}

		if a.MaxParticipants <= 0 {
			return fmt.Errorf("%w: activity %q has max_participants %d", ErrInvalidSeed, a.Name, a.MaxParticipants)
		}

		emails := make(map[string]struct{}, len(a.Participants))
		for _, email := range a.Participants {
			if _, dup := emails[email]; dup {
				return fmt.Errorf("%w: activity %q lists %s twice", ErrInvalidSeed, a.Name, email)
			}
			emails[email] = struct{}{}
		}
	}
	return nil
}
