package postprocess

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultGlareThreshold is the daylight glare probability above which an
// occupied hour counts as glary.
const DefaultGlareThreshold = 0.4

// sensorGlareAutonomy folds one sensor's hourly DGP values against the
// occupancy pattern and returns the percentage of glare-free occupied hours.
func sensorGlareAutonomy(values []float64, occ []int, threshold float64, totalHours int) float64 {
	var above, occupied int
	for i, v := range values {
		if !occupiedHour(occ, i) {
			continue
		}
		occupied++
		if v > threshold {
			above++
		}
	}
	if totalHours <= 0 {
		totalHours = occupied
	}
	if totalHours == 0 {
		return 0
	}
	return round2(100 * float64(totalHours-above) / float64(totalHours))
}

// GlareAutonomy computes the glare autonomy for one .dgp result file: one
// whitespace-separated row of sun-up-hour DGP values per sensor, no header.
// The occupancy contract matches Metrics.
func GlareAutonomy(dgpFile string, occ []int, threshold float64, totalHours int) ([]float64, error) {
	if len(occ) > 0 {
		if totalHours = occupiedTotal(occ, totalHours); totalHours == 0 {
			return nil, fmt.Errorf("occupancy pattern for %s has no occupied hours", dgpFile)
		}
	}
	var ga []float64
	err := scanRows(dgpFile, func(values []float64) {
		ga = append(ga, sensorGlareAutonomy(values, occ, threshold, totalHours))
	})
	if err != nil {
		return nil, err
	}
	return ga, nil
}

// GlareAutonomyToFiles computes the glare autonomy of one .dgp file and
// writes it into the ga sub-folder of outputFolder, one value per line.
// gridName names the output file; empty falls back to the .dgp file's base
// name.
func GlareAutonomyToFiles(dgpFile string, occ []int, outputFolder string,
	threshold float64, gridName string, totalHours int) error {

	ga, err := GlareAutonomy(dgpFile, occ, threshold, totalHours)
	if err != nil {
		return err
	}
	if gridName == "" {
		base := filepath.Base(dgpFile)
		gridName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	dir := filepath.Join(outputFolder, "ga")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("preparing %s: %w", dir, err)
	}
	var b strings.Builder
	for _, v := range ga {
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
		b.WriteString("\n")
	}
	path := filepath.Join(dir, gridName+".ga")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// GlareAutonomyToFolder computes the glare autonomy of every grid in an
// imageless-glare results folder and writes it under
// resultsFolder/subFolder/ga, plus a grids_info.json copy for downstream
// tooling. The folder contract matches MetricsToFolder, with one <grid>.dgp
// file per grid.
func GlareAutonomyToFolder(resultsFolder string, schedule []int,
	threshold float64, subFolder string) (string, error) {

	if subFolder == "" {
		subFolder = "metrics"
	}
	grids, raw, sunUp, err := readResultsFolder(resultsFolder)
	if err != nil {
		return "", err
	}
	occ, total := filterScheduleByHours(sunUp, schedule)
	outFolder := filepath.Join(resultsFolder, subFolder)
	for _, g := range grids {
		dgp := filepath.Join(resultsFolder, g.name()+".dgp")
		if err := GlareAutonomyToFiles(dgp, occ, outFolder, threshold, g.name(), total); err != nil {
			return "", err
		}
	}
	if err := writeGridsInfo(filepath.Join(outFolder, "ga"), raw); err != nil {
		return "", err
	}
	return outFolder, nil
}
