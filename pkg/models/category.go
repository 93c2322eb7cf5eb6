package models

import "fmt"

// Category identifies one of the tracked in-game event types.
type Category int

const (
	Helltide Category = iota
	Legion
	WorldBoss
)

// Categories lists every category in a stable order.
var Categories = [3]Category{Helltide, Legion, WorldBoss}

// String returns the wire name used by the schedule API and persisted keys.
func (c Category) String() string {
	switch c {
	case Helltide:
		return "helltide"
	case Legion:
		return "legion"
	case WorldBoss:
		return "world_boss"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// DisplayName returns the user-facing name.
func (c Category) DisplayName() string {
	switch c {
	case Helltide:
		return "Helltide"
	case Legion:
		return "Legion"
	case WorldBoss:
		return "World Boss"
	}
	return "Unknown"
}

// ParseCategory parses a wire name back into a Category.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "helltide":
		return Helltide, true
	case "legion":
		return Legion, true
	case "world_boss":
		return WorldBoss, true
	}
	return 0, false
}

func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(b []byte) error {
	parsed, ok := ParseCategory(string(b))
	if !ok {
		return fmt.Errorf("unknown category %q", string(b))
	}
	*c = parsed
	return nil
}
