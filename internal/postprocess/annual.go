// Package postprocess computes annual daylight metrics from raw simulation
// result files.
package postprocess

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Thresholds hold the illuminance levels the annual metrics are computed
// against, in lux.
type Thresholds struct {
	// DA is the daylight autonomy threshold.
	DA float64
	// UDIMin and UDIMax bound the useful daylight illuminance band.
	UDIMin float64
	UDIMax float64
}

// DefaultThresholds returns the customary 300/100/3000 lux levels.
func DefaultThresholds() Thresholds {
	return Thresholds{DA: 300, UDIMin: 100, UDIMax: 3000}
}

// GridMetrics are the per-sensor annual metrics of one grid, each a
// percentage of occupied hours.
type GridMetrics struct {
	DA       []float64 // daylight autonomy
	CDA      []float64 // continuous daylight autonomy
	UDILower []float64 // below the useful band
	UDI      []float64 // within the useful band
	UDIUpper []float64 // above the useful band
}

// occupiedHour reports whether result column i counts as occupied. A nil
// pattern marks every column occupied: the columns of a result file are
// sun-up hours already.
func occupiedHour(occ []int, i int) bool {
	if len(occ) == 0 {
		return true
	}
	return i < len(occ) && occ[i] != 0
}

// occupiedTotal sums a pattern's occupied hours when the caller gave no
// explicit total.
func occupiedTotal(occ []int, totalHours int) int {
	if totalHours > 0 {
		return totalHours
	}
	for _, o := range occ {
		if o != 0 {
			totalHours++
		}
	}
	return totalHours
}

// sensorMetrics folds one sensor's hourly values against the occupancy
// pattern. totalHours is the number of occupied hours in the full schedule;
// zero derives it from the occupied columns of this row.
func sensorMetrics(values []float64, occ []int, th Thresholds, totalHours int) (da, cda, udiLower, udi, udiUpper float64) {
	var daN, udiLowerN, udiN, udiUpperN, occupied int
	var cdaV float64
	for i, v := range values {
		if !occupiedHour(occ, i) {
			continue
		}
		occupied++
		if v > th.DA {
			daN++
			cdaV++
		} else {
			cdaV += v / th.DA
		}
		switch {
		case v < th.UDIMin:
			udiLowerN++
		case v > th.UDIMax:
			udiUpperN++
		default:
			udiN++
		}
	}
	if totalHours <= 0 {
		totalHours = occupied
	}
	if totalHours == 0 {
		return 0, 0, 0, 0, 0
	}
	pct := func(v float64) float64 {
		return round2(100 * v / float64(totalHours))
	}
	return pct(float64(daN)), pct(cdaV), pct(float64(udiLowerN)), pct(float64(udiN)), pct(float64(udiUpperN))
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// scanRows parses a whitespace-separated result file, one sensor row at a
// time, and hands each row's values to fn. Empty lines are skipped.
func scanRows(path string, fn func(values []float64)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening results: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		values := make([]float64, len(fields))
		for i, fv := range fields {
			v, err := strconv.ParseFloat(fv, 64)
			if err != nil {
				return fmt.Errorf("%s line %d: parsing %q: %w", path, line, fv, err)
			}
			values[i] = v
		}
		fn(values)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// Metrics computes the annual metrics for one .ill result file: one
// whitespace-separated row of sun-up-hour illuminance values per sensor, no
// header. occ is the occupancy pattern aligned with the value columns; nil
// counts every column, since the columns already are sun-up hours.
// totalHours <= 0 derives the total from the occupied columns.
func Metrics(illFile string, occ []int, th Thresholds, totalHours int) (*GridMetrics, error) {
	if len(occ) > 0 {
		if totalHours = occupiedTotal(occ, totalHours); totalHours == 0 {
			return nil, fmt.Errorf("occupancy pattern for %s has no occupied hours", illFile)
		}
	}
	out := &GridMetrics{}
	err := scanRows(illFile, func(values []float64) {
		da, cda, udiLower, udi, udiUpper := sensorMetrics(values, occ, th, totalHours)
		out.DA = append(out.DA, da)
		out.CDA = append(out.CDA, cda)
		out.UDILower = append(out.UDILower, udiLower)
		out.UDI = append(out.UDI, udi)
		out.UDIUpper = append(out.UDIUpper, udiUpper)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MetricsToFiles computes the metrics of one .ill file and writes each list
// into its own sub-folder of outputFolder, one value per line. gridName
// names the output files; empty falls back to the .ill file's base name.
func MetricsToFiles(illFile string, occ []int, outputFolder string, th Thresholds,
	gridName string, totalHours int) error {

	metrics, err := Metrics(illFile, occ, th, totalHours)
	if err != nil {
		return err
	}
	if gridName == "" {
		base := filepath.Base(illFile)
		gridName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	outputs := []struct {
		folder string
		ext    string
		values []float64
	}{
		{"da", "da", metrics.DA},
		{"cda", "cda", metrics.CDA},
		{"udi_lower", "udi", metrics.UDILower},
		{"udi", "udi", metrics.UDI},
		{"udi_upper", "udi", metrics.UDIUpper},
	}
	for _, o := range outputs {
		dir := filepath.Join(outputFolder, o.folder)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("preparing %s: %w", dir, err)
		}
		var b strings.Builder
		for _, v := range o.values {
			b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
			b.WriteString("\n")
		}
		path := filepath.Join(dir, gridName+"."+o.ext)
		if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
