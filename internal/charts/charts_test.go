package charts

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testTeams = []string{"Boston Bruins", "Anaheim Ducks", "Edmonton Oilers"}
	testX     = []float64{22.2, 15.6, 32.4}
	testY     = []float64{87.3, 72.4, 77.5}
)

func render(t *testing.T, r Renderer) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	return buf.String()
}

func TestScatterCarriesLabelsAndCorrelation(t *testing.T) {
	r := 0.4567
	sc, err := Scatter(ScatterSpec{
		Title:       "Correlation between Powerplay Percentage and Penalty Kill Percentage",
		XLabel:      "Powerplay Percentage",
		YLabel:      "Penalty Kill Percentage",
		Color:       "red",
		Labels:      testTeams,
		X:           testX,
		Y:           testY,
		Correlation: &r,
	})
	require.NoError(t, err)
	html := render(t, sc)
	for _, want := range append([]string{"Correlation coefficient: 0.46", "Powerplay Percentage", "Penalty Kill Percentage"}, testTeams...) {
		assert.Contains(t, html, want)
	}
}

func TestScatterConstantSeriesShowsNA(t *testing.T) {
	r := math.NaN()
	sc, err := Scatter(ScatterSpec{
		Title:       "Correlation between Average Age and Wins",
		Labels:      testTeams,
		X:           []float64{27, 27, 27},
		Y:           testY,
		Correlation: &r,
	})
	require.NoError(t, err)
	html := render(t, sc)
	assert.Contains(t, html, "Correlation coefficient: n/a")
	assert.NotContains(t, html, "NaN")
}

func TestCorrelationText(t *testing.T) {
	assert.Equal(t, "Correlation coefficient: 0.46", CorrelationText(0.4567))
	assert.Equal(t, "Correlation coefficient: 0.00", CorrelationText(0))
	assert.Equal(t, "Correlation coefficient: n/a", CorrelationText(math.NaN()))
}

func TestScatterRejectsMismatchedSeries(t *testing.T) {
	_, err := Scatter(ScatterSpec{Title: "bad", Labels: testTeams, X: testX, Y: testY[:2]})
	assert.Error(t, err)
}

func TestWinLossPutsFirstTeamOnTop(t *testing.T) {
	bar, err := WinLoss(testTeams, []float64{65, 23, 50}, []float64{12, 47, 23}, Size{})
	require.NoError(t, err)
	html := render(t, bar)
	assert.Contains(t, html, "Win-Loss Record for Each Team")
	assert.Contains(t, html, "Number of Games")
	// reversed category order: the last team is emitted first
	assert.Less(t, strings.Index(html, "Edmonton Oilers"), strings.Index(html, "Boston Bruins"))

	_, err = WinLoss(testTeams, []float64{1}, []float64{1, 2, 3}, Size{})
	assert.Error(t, err)
}

func TestElbowChart(t *testing.T) {
	line := Elbow([]ElbowPoint{{K: 1, Inertia: 120.5}, {K: 2, Inertia: 40.25}}, Size{Width: "800px"})
	html := render(t, line)
	assert.Contains(t, html, "Number of Clusters")
	assert.Contains(t, html, "Inertia")
	assert.Contains(t, html, "800px")
	assert.Contains(t, html, "40.25")
}

func TestClustersOneSeriesPerGroup(t *testing.T) {
	sc, err := Clusters(ClusterSpec{
		Title:  "N Clusters: 2",
		XLabel: "Powerplay %",
		YLabel: "Penalty Kill %",
		Labels: testTeams,
		X:      testX,
		Y:      testY,
		Groups: []int{0, 1, 0},
	})
	require.NoError(t, err)
	html := render(t, sc)
	assert.Contains(t, html, "Cluster 0")
	assert.Contains(t, html, "Cluster 1")
	assert.NotContains(t, html, "Cluster 2")
	assert.Contains(t, html, "N Clusters: 2")

	_, err = Clusters(ClusterSpec{Labels: testTeams, X: testX, Y: testY, Groups: []int{0}})
	assert.Error(t, err)
}

func TestGridAndWriteHTML(t *testing.T) {
	var panels []components.Charter
	for k := 1; k <= 2; k++ {
		groups := make([]int, len(testTeams))
		if k == 2 {
			groups[1] = 1
		}
		sc, err := Clusters(ClusterSpec{Title: "panel", Labels: testTeams, X: testX, Y: testY, Groups: groups})
		require.NoError(t, err)
		panels = append(panels, sc)
	}
	path := filepath.Join(t.TempDir(), "nested", "grid.html")
	require.NoError(t, WriteHTML(path, Grid(panels...)))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Anaheim Ducks")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}
