package fogdb

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// rawConnection is the on-disk shape of a single world connection.
type rawConnection struct {
	To        string   `yaml:"to"`
	Condition string   `yaml:"condition"`
	Tags      []string `yaml:"tags"`
}

// rawArea is the on-disk shape of a single area entry.
type rawArea struct {
	Maps        []string        `yaml:"maps"`
	Tags        []string        `yaml:"tags"`
	DefeatFlag  *int            `yaml:"defeat_flag"`
	Connections []rawConnection `yaml:"connections"`
}

// rawFog is the on-disk shape of a single fog-gate entry.
type rawFog struct {
	Name     string   `yaml:"name"`
	ASide    string   `yaml:"a_side"`
	BSide    string   `yaml:"b_side"`
	Tags     []string `yaml:"tags"`
	Model    string   `yaml:"model"`
	EntityID int64    `yaml:"entity_id"`
	MapID    string   `yaml:"map_id"`
}

// rawFogDB is the top-level on-disk document shape.
type rawFogDB struct {
	Areas map[string]rawArea `yaml:"areas"`
	Fogs  []rawFog           `yaml:"fogs"`
}

// Load reads and parses a fog-database document from path.
func Load(ctx context.Context, path string) (*DB, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FogDBParseError{Reason: "reading file", Err: err}
	}
	return LoadFromBytes(ctx, data)
}

// LoadFromBytes parses a fog-database document already in memory.
func LoadFromBytes(ctx context.Context, data []byte) (*DB, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var raw rawFogDB
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &FogDBParseError{Reason: "invalid YAML", Err: err}
	}

	db := &DB{
		Areas: make(map[string]*Area, len(raw.Areas)),
		Fogs:  make([]*Fog, 0, len(raw.Fogs)),
	}

	for name, ra := range raw.Areas {
		area, err := convertArea(name, ra)
		if err != nil {
			return nil, err
		}
		db.Areas[name] = area
	}

	for _, rf := range raw.Fogs {
		if rf.Name == "" {
			return nil, &FogDBParseError{Reason: "fog entry missing name"}
		}
		if rf.ASide == "" || rf.BSide == "" {
			return nil, &FogDBParseError{Path: rf.Name, Reason: "fog missing a_side or b_side"}
		}
		db.Fogs = append(db.Fogs, &Fog{
			Name:     rf.Name,
			ASide:    rf.ASide,
			BSide:    rf.BSide,
			Tags:     NewTagSet(rf.Tags...),
			Model:    rf.Model,
			EntityID: rf.EntityID,
			MapID:    rf.MapID,
		})
	}

	return db, nil
}

func convertArea(name string, ra rawArea) (*Area, error) {
	area := &Area{
		Name:        name,
		Maps:        ra.Maps,
		Tags:        NewTagSet(ra.Tags...),
		DefeatFlag:  ra.DefeatFlag,
		Connections: make([]WorldConnection, 0, len(ra.Connections)),
	}

	for _, rc := range ra.Connections {
		if rc.To == "" {
			return nil, &FogDBParseError{Path: name, Reason: "world connection missing target area"}
		}
		cond, err := ParseCondition(rc.Condition)
		if err != nil {
			return nil, &FogDBParseError{Path: fmt.Sprintf("%s -> %s", name, rc.To), Reason: "invalid condition", Err: err}
		}
		area.Connections = append(area.Connections, WorldConnection{
			To:        rc.To,
			Condition: cond,
			Tags:      NewTagSet(rc.Tags...),
		})
	}

	return area, nil
}
