package postprocess

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// gridInfo is one element of a results folder's grids_info.json. Only the
// fields needed to locate result files are decoded; the raw payload is
// copied verbatim into the metric sub-folders.
type gridInfo struct {
	Identifier string `json:"identifier"`
	FullID     string `json:"full_id"`
}

func (g gridInfo) name() string {
	if g.FullID != "" {
		return g.FullID
	}
	return g.Identifier
}

// readResultsFolder loads grids_info.json and sun-up-hours.txt, the two
// descriptor files every annual recipe output folder carries.
func readResultsFolder(resultsFolder string) ([]gridInfo, []byte, []float64, error) {
	infoPath := filepath.Join(resultsFolder, "grids_info.json")
	raw, err := os.ReadFile(infoPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", infoPath, err)
	}
	var grids []gridInfo
	if err := json.Unmarshal(raw, &grids); err != nil {
		return nil, nil, nil, fmt.Errorf("parsing %s: %w", infoPath, err)
	}
	sunUp, err := readSunUpHours(filepath.Join(resultsFolder, "sun-up-hours.txt"))
	if err != nil {
		return nil, nil, nil, err
	}
	return grids, raw, sunUp, nil
}

// readSunUpHours parses the sun-up hours of the year, one fractional hour
// per line, in the column order of the result files.
func readSunUpHours(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading sun-up hours: %w", err)
	}
	defer f.Close()

	var hours []float64
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		h, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: parsing %q: %w", path, line, text, err)
		}
		hours = append(hours, h)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return hours, nil
}

// DefaultSchedule returns an annual occupancy of 8:00 to 18:00, every day of
// the year.
func DefaultSchedule() []int {
	occ := make([]int, 8760)
	for i := range occ {
		if h := i % 24; h >= 8 && h < 18 {
			occ[i] = 1
		}
	}
	return occ
}

// filterScheduleByHours maps an annual schedule onto the sun-up hour columns
// of the result files. The returned total is the occupied hours of the whole
// schedule, dark ones included. A nil schedule uses DefaultSchedule.
func filterScheduleByHours(sunUp []float64, schedule []int) ([]int, int) {
	if schedule == nil {
		schedule = DefaultSchedule()
	}
	occ := make([]int, len(sunUp))
	for i, h := range sunUp {
		if idx := int(h); idx >= 0 && idx < len(schedule) && schedule[idx] != 0 {
			occ[i] = 1
		}
	}
	total := 0
	for _, s := range schedule {
		if s != 0 {
			total++
		}
	}
	return occ, total
}

// MetricsFromFolder computes the annual metrics of every grid in an annual
// daylight results folder: grids_info.json, sun-up-hours.txt and one
// <grid>.ill file per grid. A nil schedule uses DefaultSchedule.
func MetricsFromFolder(resultsFolder string, schedule []int, th Thresholds) ([]*GridMetrics, error) {
	grids, _, sunUp, err := readResultsFolder(resultsFolder)
	if err != nil {
		return nil, err
	}
	occ, total := filterScheduleByHours(sunUp, schedule)
	out := make([]*GridMetrics, 0, len(grids))
	for _, g := range grids {
		m, err := Metrics(filepath.Join(resultsFolder, g.name()+".ill"), occ, th, total)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// MetricsToFolder computes the annual metrics of every grid in an annual
// daylight results folder and writes them under resultsFolder/subFolder, one
// sub-folder per metric plus a grids_info.json copy for downstream tooling.
func MetricsToFolder(resultsFolder string, schedule []int, th Thresholds, subFolder string) (string, error) {
	if subFolder == "" {
		subFolder = "metrics"
	}
	grids, raw, sunUp, err := readResultsFolder(resultsFolder)
	if err != nil {
		return "", err
	}
	occ, total := filterScheduleByHours(sunUp, schedule)
	metricsFolder := filepath.Join(resultsFolder, subFolder)
	for _, g := range grids {
		ill := filepath.Join(resultsFolder, g.name()+".ill")
		if err := MetricsToFiles(ill, occ, metricsFolder, th, g.name(), total); err != nil {
			return "", err
		}
	}
	for _, name := range []string{"da", "cda", "udi_lower", "udi", "udi_upper"} {
		if err := writeGridsInfo(filepath.Join(metricsFolder, name), raw); err != nil {
			return "", err
		}
	}
	return metricsFolder, nil
}

func writeGridsInfo(dir string, raw []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("preparing %s: %w", dir, err)
	}
	path := filepath.Join(dir, "grids_info.json")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
