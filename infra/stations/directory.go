// Package stations loads the EV charging station directory from CSV and
// answers radius queries against it.
package stations

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

// milesPerDegree approximates great-circle distance for the small radii the
// directory is queried with.
const milesPerDegree = 69

// Station is one directory entry.
type Station struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	TotalPorts int     `json:"total_ports"`
	HasDCFast  bool    `json:"has_dc_fast"`
	IsPublic   bool    `json:"is_public"`
	Network    string  `json:"network"`
}

// NearbyStation is a Station annotated with its distance from the query point.
type NearbyStation struct {
	Station
	DistanceMiles float64 `json:"distance_miles"`
}

// Directory holds the loaded station list.
type Directory struct {
	stations []Station
}

// Load reads the directory from the CSV at path. Expected header columns:
// id, station_name, latitude, longitude, total_charging_ports, has_dc_fast,
// is_public, ev_network. Rows with unparsable coordinates are skipped.
func Load(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return Read(f)
}

// Read parses directory CSV data from r.
func Read(r io.Reader) (*Directory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"latitude", "longitude"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	var stations []Station
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		lat, latErr := strconv.ParseFloat(field(rec, col, "latitude"), 64)
		lon, lonErr := strconv.ParseFloat(field(rec, col, "longitude"), 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		ports, _ := strconv.Atoi(field(rec, col, "total_charging_ports"))
		stations = append(stations, Station{
			ID:         field(rec, col, "id"),
			Name:       field(rec, col, "station_name"),
			Latitude:   lat,
			Longitude:  lon,
			TotalPorts: ports,
			HasDCFast:  parseBool(field(rec, col, "has_dc_fast")),
			IsPublic:   parseBool(field(rec, col, "is_public")),
			Network:    field(rec, col, "ev_network"),
		})
	}
	return &Directory{stations: stations}, nil
}

// Len returns the number of loaded stations.
func (d *Directory) Len() int { return len(d.stations) }

// Nearby returns up to limit stations within radiusMiles of the point,
// closest first.
func (d *Directory) Nearby(lat, lon, radiusMiles float64, limit int) []NearbyStation {
	var out []NearbyStation
	for _, s := range d.stations {
		dist := math.Hypot(s.Latitude-lat, s.Longitude-lon) * milesPerDegree
		if dist <= radiusMiles {
			out = append(out, NearbyStation{Station: s, DistanceMiles: dist})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceMiles != out[j].DistanceMiles {
			return out[i].DistanceMiles < out[j].DistanceMiles
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func field(rec []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}
