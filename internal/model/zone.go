// Package model defines the domain types shared by the scoring engine, the
// zone recommender, persistence and the CLI.
package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// ZoneType is a category of government-designated industrial area.
type ZoneType int

// Zone types in dataset column order.
const (
	ZoneSEZ ZoneType = iota
	ZoneCorridor
	ZoneNIMZ
	ZonePark
	ZonePLI
)

type zoneInfo struct {
	code   string
	label  string
	weight float64
}

var zoneInfos = [...]zoneInfo{
	ZoneSEZ:      {"sez", "Special Economic Zones (SEZs)", 0.25},
	ZoneCorridor: {"corridor", "Industrial Corridors", 0.25},
	ZoneNIMZ:     {"nimz", "National Investment and Manufacturing Zones (NIMZs)", 0.20},
	ZonePark:     {"park", "Industrial Parks & Clusters", 0.15},
	ZonePLI:      {"pli", "PLI Scheme Zones", 0.15},
}

// ZoneTypes returns every zone type in dataset column order.
func ZoneTypes() []ZoneType {
	return []ZoneType{ZoneSEZ, ZoneCorridor, ZoneNIMZ, ZonePark, ZonePLI}
}

func (z ZoneType) valid() bool {
	return z >= ZoneSEZ && z <= ZonePLI
}

// String returns the human-readable zone label.
func (z ZoneType) String() string {
	if !z.valid() {
		return "Unknown Zone"
	}
	return zoneInfos[z].label
}

// Code returns the short identifier used in reference data files.
func (z ZoneType) Code() string {
	if !z.valid() {
		return ""
	}
	return zoneInfos[z].code
}

// Weight returns the zone's contribution to the infrastructure score.
// Weights over all zone types sum to 1.0.
func (z ZoneType) Weight() float64 {
	if !z.valid() {
		return 0
	}
	return zoneInfos[z].weight
}

// ParseZoneType resolves a zone code ("sez") or label
// ("Special Economic Zones (SEZs)"), case-insensitively.
func ParseZoneType(s string) (ZoneType, error) {
	key := strings.TrimSpace(s)
	for _, z := range ZoneTypes() {
		if strings.EqualFold(key, z.Code()) || strings.EqualFold(key, z.String()) {
			return z, nil
		}
	}
	return 0, eris.Errorf("model: unknown zone type %q", s)
}
