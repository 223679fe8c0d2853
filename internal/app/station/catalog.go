/*
Package station holds the static metro station catalog and the per-station occupancy aggregation.

The catalog is an embedded YAML file listing, for each supported city, the stations a rider
can pick on the map. Aggregation turns the flat user collection into the sparse
waiting/connected counts served to the waiting room.
*/
package station

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed stations.yaml
var embeddedCatalog []byte

// Station is one entry of a city's static list.
type Station struct {
	Name      string `yaml:"name" json:"name"`
	Line      string `yaml:"line" json:"line"`
	LineColor string `yaml:"lineColor" json:"lineColor"`
}

// City groups the stations of one metro network.
type City struct {
	Code     string    `yaml:"code" json:"code"`
	Name     string    `yaml:"name" json:"name"`
	Stations []Station `yaml:"stations" json:"stations"`
}

// Catalog is the read-only set of supported cities. It is safe for concurrent use.
type Catalog struct {
	cities []City
	byCode map[string]int
	names  map[string]map[string]struct{}
}

type catalogFile struct {
	Cities []City `yaml:"cities"`
}

// LoadCatalog parses the embedded station catalog.
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedCatalog)
}

// MustLoadCatalog is LoadCatalog for package-level initialization and tests.
func MustLoadCatalog() *Catalog {
	c, err := LoadCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCatalog builds a Catalog from YAML data.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse station catalog: %w", err)
	}

	c := &Catalog{
		cities: file.Cities,
		byCode: make(map[string]int, len(file.Cities)),
		names:  make(map[string]map[string]struct{}, len(file.Cities)),
	}

	for i, city := range file.Cities {
		if city.Code == "" {
			return nil, fmt.Errorf("station catalog: city #%d has no code", i)
		}
		if _, dup := c.byCode[city.Code]; dup {
			return nil, fmt.Errorf("station catalog: duplicate city %q", city.Code)
		}
		c.byCode[city.Code] = i

		set := make(map[string]struct{}, len(city.Stations))
		for _, st := range city.Stations {
			if _, dup := set[st.Name]; dup {
				return nil, fmt.Errorf("station catalog: duplicate station %q in %s", st.Name, city.Code)
			}
			set[st.Name] = struct{}{}
		}
		c.names[city.Code] = set
	}

	return c, nil
}

// Cities returns the supported cities in catalog order.
func (c *Catalog) Cities() []City {
	return c.cities
}

// HasCity reports whether code is a supported city.
func (c *Catalog) HasCity(code string) bool {
	_, ok := c.byCode[code]
	return ok
}

// Stations returns the static station list of city, or nil for an unknown city.
func (c *Catalog) Stations(city string) []Station {
	i, ok := c.byCode[city]
	if !ok {
		return nil
	}
	return c.cities[i].Stations
}

// HasStation reports whether name is listed for city.
func (c *Catalog) HasStation(city, name string) bool {
	_, ok := c.names[city][name]
	return ok
}
