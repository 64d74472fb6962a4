package postprocess

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGridsInfo = `[{"identifier": "office", "full_id": "office", "count": 2}]`

// writeResultsFolder lays out a minimal annual daylight recipe output: the
// two descriptor files plus one .ill file per grid.
func writeResultsFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"grids_info.json":  testGridsInfo,
		"sun-up-hours.txt": "8.5\n9.5\n10.5\n11.5\n",
		"office.ill":       "50 400 200 5000\n400 400 400 400\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// fourHourSchedule occupies exactly the four sun-up hours of the test data.
func fourHourSchedule() []int {
	schedule := make([]int, 8760)
	for h := 8; h < 12; h++ {
		schedule[h] = 1
	}
	return schedule
}

func TestDefaultSchedule(t *testing.T) {
	schedule := DefaultSchedule()
	require.Len(t, schedule, 8760)

	total := 0
	for _, s := range schedule {
		total += s
	}
	assert.Equal(t, 3650, total, "ten occupied hours per day")
	assert.Equal(t, 0, schedule[7], "7:00 unoccupied")
	assert.Equal(t, 1, schedule[8], "8:00 occupied")
	assert.Equal(t, 1, schedule[17], "17:00 occupied")
	assert.Equal(t, 0, schedule[18], "18:00 unoccupied")
}

func TestFilterScheduleByHours(t *testing.T) {
	occ, total := filterScheduleByHours([]float64{7.5, 8.5}, nil)
	assert.Equal(t, []int{0, 1}, occ, "7:30 is before the default workday")
	assert.Equal(t, 3650, total, "total covers the whole schedule, dark hours included")

	occ, total = filterScheduleByHours([]float64{7.5, 8.5}, fourHourSchedule())
	assert.Equal(t, []int{0, 1}, occ)
	assert.Equal(t, 4, total)
}

func TestMetricsFromFolder(t *testing.T) {
	results := writeResultsFolder(t)

	grids, err := MetricsFromFolder(results, fourHourSchedule(), DefaultThresholds())
	require.NoError(t, err)
	require.Len(t, grids, 1)
	require.Len(t, grids[0].DA, 2)
	assert.Equal(t, 50.0, grids[0].DA[0])
	assert.Equal(t, 100.0, grids[0].DA[1])
}

func TestMetricsToFolder(t *testing.T) {
	results := writeResultsFolder(t)

	out, err := MetricsToFolder(results, fourHourSchedule(), DefaultThresholds(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(results, "metrics"), out)

	data, err := os.ReadFile(filepath.Join(out, "da", "office.da"))
	require.NoError(t, err)
	assert.Equal(t, "50\n100\n", string(data))

	// every metric sub-folder carries a verbatim descriptor copy
	for _, name := range []string{"da", "cda", "udi_lower", "udi", "udi_upper"} {
		info, err := os.ReadFile(filepath.Join(out, name, "grids_info.json"))
		require.NoError(t, err, name)
		assert.JSONEq(t, testGridsInfo, string(info), name)
	}
}

func TestMetricsToFolderMissingDescriptors(t *testing.T) {
	dir := t.TempDir()
	_, err := MetricsToFolder(dir, nil, DefaultThresholds(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grids_info.json")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "grids_info.json"), []byte(testGridsInfo), 0644))
	_, err = MetricsToFolder(dir, nil, DefaultThresholds(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sun-up hours")
}
