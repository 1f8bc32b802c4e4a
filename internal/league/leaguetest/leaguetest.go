// Package leaguetest provides standings fixtures for tests.
package leaguetest

import (
	"os"
	"path/filepath"
	"testing"
)

// SampleCSV is a trimmed sports-reference standings export: eight teams, the
// playoff marker on qualifying teams and a trailing league average row.
const SampleCSV = `Rk,Team,AvAge,GP,W,L,OL,PTS,PTS%,GF,GA,PP%,PK%
1,Boston Bruins*,28.9,82,65,12,5,135,.823,301,174,22.2,87.3
2,Carolina Hurricanes*,28.3,82,52,21,9,113,.689,266,213,19.8,84.4
3,New Jersey Devils*,26.3,82,52,22,8,112,.683,291,226,21.9,82.6
4,Vegas Golden Knights*,29.3,82,51,22,9,111,.677,272,229,20.3,77.4
5,Toronto Maple Leafs*,29.1,82,50,21,11,111,.677,279,222,26.0,81.9
6,Edmonton Oilers*,28.2,82,50,23,9,109,.665,325,260,32.4,77.5
7,Chicago Blackhawks,27.4,82,26,49,7,59,.360,204,301,17.6,74.2
8,Anaheim Ducks,27.0,82,23,47,12,58,.354,209,338,15.6,72.4
,League Average,27.9,82,41,32,9,91,.555,260,260,21.3,78.7
`

// Teams lists the cleaned team names of SampleCSV in file order.
var Teams = []string{
	"Boston Bruins", "Carolina Hurricanes", "New Jersey Devils", "Vegas Golden Knights",
	"Toronto Maple Leafs", "Edmonton Oilers", "Chicago Blackhawks", "Anaheim Ducks",
}

// WriteSample writes SampleCSV into a temp dir and returns its path.
func WriteSample(t testing.TB) string {
	t.Helper()
	return WriteFile(t, "sportsref_download.csv", SampleCSV)
}

// WriteFile writes content to name inside a fresh temp dir.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}
