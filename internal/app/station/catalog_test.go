package station

import "testing"

func TestEmbeddedCatalog(t *testing.T) {
	c, err := LoadCatalog()
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	for _, city := range []string{"spb", "msk"} {
		if !c.HasCity(city) {
			t.Errorf("HasCity(%q) = false", city)
		}
		if len(c.Stations(city)) == 0 {
			t.Errorf("Stations(%q) is empty", city)
		}
	}

	if !c.HasStation("spb", "Площадь Восстания") {
		t.Error("HasStation(spb, Площадь Восстания) = false")
	}
	if c.HasStation("msk", "Площадь Восстания") {
		t.Error("station of spb reported in msk")
	}
	if c.HasCity("kzn") || c.Stations("kzn") != nil {
		t.Error("unknown city reported as known")
	}
}

func TestParseCatalogRejectsDuplicates(t *testing.T) {
	tests := map[string]string{
		"duplicate city": `
cities:
  - { code: spb, name: A, stations: [] }
  - { code: spb, name: B, stations: [] }
`,
		"duplicate station": `
cities:
  - code: spb
    name: A
    stations:
      - { name: X, line: "1", lineColor: "#000000" }
      - { name: X, line: "2", lineColor: "#000000" }
`,
		"missing code": `
cities:
  - { name: A, stations: [] }
`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseCatalog([]byte(data)); err == nil {
				t.Fatal("ParseCatalog() error = nil, want error")
			}
		})
	}
}
