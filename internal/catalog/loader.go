package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/astrofauna/totemeter/internal/errors"
	"github.com/astrofauna/totemeter/internal/zodiac"
)

// Table source layout, shared by the weight and multiplier CSVs: the first
// column is labelled "Planet" and the remaining columns are celestial point
// identifiers. The weight file carries a single "PlanetWeight" row; the
// multiplier file carries one row per zodiac sign.
const (
	headerLabel    = "Planet"
	weightRowLabel = "PlanetWeight"
	animalKey      = "ANIMAL"
)

// Load reads and validates the three catalogue sources and assembles an
// immutable Catalog. Any schema or consistency failure aborts the load; no
// partially constructed catalogue is ever returned.
func Load(scoresPath, weightsPath, multipliersPath string) (*Catalog, error) {
	animals, err := loadAffinities(scoresPath)
	if err != nil {
		return nil, err
	}

	weights, err := loadWeights(weightsPath)
	if err != nil {
		return nil, err
	}

	multipliers, err := loadMultipliers(multipliersPath)
	if err != nil {
		return nil, err
	}

	return New(animals, weights, multipliers)
}

func loadAffinities(path string) ([]AnimalAffinity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("cannot open affinity matrix %s", path), err)
	}
	defer errors.SafeClose(f, "affinity matrix")

	var doc struct {
		Animals []map[string]json.RawMessage `json:"animals"`
	}
	dec := json.NewDecoder(f)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("affinity matrix %s is not valid JSON", path), err)
	}
	if doc.Animals == nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("affinity matrix %s has no \"animals\" key", path), nil)
	}

	animals := make([]AnimalAffinity, 0, len(doc.Animals))
	for i, row := range doc.Animals {
		rawName, ok := row[animalKey]
		if !ok {
			return nil, errors.NewSchemaError(fmt.Sprintf("affinity row %d has no %q key", i, animalKey), nil)
		}
		var name string
		if err := json.Unmarshal(rawName, &name); err != nil {
			return nil, errors.NewSchemaError(fmt.Sprintf("affinity row %d has a non-string animal name", i), err)
		}

		scores := make(map[zodiac.Sign]float64, len(zodiac.Signs))
		for key, raw := range row {
			if key == animalKey {
				continue
			}
			sign, err := zodiac.ParseSign(key)
			if err != nil {
				return nil, errors.NewSchemaError(fmt.Sprintf("animal %q: %v", name, err), nil)
			}
			var score float64
			if err := json.Unmarshal(raw, &score); err != nil {
				return nil, errors.NewSchemaError(fmt.Sprintf("animal %q has a non-numeric score for %s", name, sign), err)
			}
			scores[sign] = score
		}

		animals = append(animals, AnimalAffinity{Name: name, Scores: scores})
	}

	return animals, nil
}

func loadWeights(path string) (map[zodiac.Point]float64, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	points, err := parsePointHeader(path, records[0])
	if err != nil {
		return nil, err
	}

	weights := make(map[zodiac.Point]float64, len(points))
	found := false
	for _, record := range records[1:] {
		if record[0] != weightRowLabel {
			continue
		}
		if found {
			return nil, errors.NewSchemaError(fmt.Sprintf("weight table %s has duplicate %q rows", path, weightRowLabel), nil)
		}
		found = true
		for i, point := range points {
			weight, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, errors.NewSchemaError(fmt.Sprintf("weight table %s: non-numeric weight %q for %s", path, record[i+1], point), err)
			}
			weights[point] = weight
		}
	}
	if !found {
		return nil, errors.NewSchemaError(fmt.Sprintf("weight table %s has no %q row", path, weightRowLabel), nil)
	}

	return weights, nil
}

func loadMultipliers(path string) (map[zodiac.Point]map[zodiac.Sign]float64, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	points, err := parsePointHeader(path, records[0])
	if err != nil {
		return nil, err
	}

	multipliers := make(map[zodiac.Point]map[zodiac.Sign]float64, len(points))
	for _, point := range points {
		multipliers[point] = make(map[zodiac.Sign]float64, len(zodiac.Signs))
	}

	seen := make(map[zodiac.Sign]bool, len(zodiac.Signs))
	for _, record := range records[1:] {
		// Sign labels are capitalized in the source files.
		sign, err := zodiac.ParseSign(strings.ToUpper(strings.TrimSpace(record[0])))
		if err != nil {
			return nil, errors.NewSchemaError(fmt.Sprintf("multiplier table %s: %v", path, err), nil)
		}
		if seen[sign] {
			return nil, errors.NewSchemaError(fmt.Sprintf("multiplier table %s has duplicate rows for sign %s", path, sign), nil)
		}
		seen[sign] = true

		for i, point := range points {
			mult, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
			if err != nil {
				return nil, errors.NewSchemaError(fmt.Sprintf("multiplier table %s: non-numeric multiplier %q for %s/%s", path, record[i+1], point, sign), err)
			}
			multipliers[point][sign] = mult
		}
	}

	for _, sign := range zodiac.Signs {
		if !seen[sign] {
			return nil, errors.NewSchemaError(fmt.Sprintf("multiplier table %s has no row for sign %s", path, sign), nil)
		}
	}

	return multipliers, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("cannot open table %s", path), err)
	}
	defer errors.SafeClose(f, "catalogue table")

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.NewSchemaError(fmt.Sprintf("cannot parse table %s", path), err)
	}
	if len(records) < 2 {
		return nil, errors.NewSchemaError(fmt.Sprintf("table %s has no data rows", path), nil)
	}

	return records, nil
}

func parsePointHeader(path string, header []string) ([]zodiac.Point, error) {
	if len(header) < 2 || header[0] != headerLabel {
		return nil, errors.NewSchemaError(fmt.Sprintf("table %s must start with a %q column", path, headerLabel), nil)
	}

	points := make([]zodiac.Point, 0, len(header)-1)
	seen := make(map[zodiac.Point]bool, len(header)-1)
	for _, column := range header[1:] {
		point, err := zodiac.ParsePoint(strings.TrimSpace(column))
		if err != nil {
			return nil, errors.NewSchemaError(fmt.Sprintf("table %s: %v", path, err), nil)
		}
		if seen[point] {
			return nil, errors.NewSchemaError(fmt.Sprintf("table %s has duplicate column %s", path, point), nil)
		}
		seen[point] = true
		points = append(points, point)
	}

	return points, nil
}
