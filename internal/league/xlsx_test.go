package league

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	testWorkbookXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Notes" sheetId="1" r:id="rId1"/><sheet name="Standings" sheetId="2" r:id="rId2"/></sheets>
</workbook>`
	testRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`
	testSharedXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<si><t>Team</t></si><si><t>W</t></si><si><t>PP%</t></si><si><r><t>Boston </t></r><r><t>Bruins*</t></r></si><si><t>Anaheim Ducks</t></si>
</sst>`
	testSheet1XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="inlineStr"><is><t>scratch</t></is></c></row>
</sheetData></worksheet>`
	testSheet2XML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c><c r="D1" t="s"><v>2</v></c></row>
<row r="2"><c r="A2" t="s"><v>3</v></c><c r="B2"><v>65</v></c><c r="D2"><v>22.2</v></c></row>
<row r="3"><c r="A3" t="s"><v>4</v></c><c r="B3"><v>23</v></c><c r="D3"><v>15.6</v></c></row>
</sheetData></worksheet>`
)

func writeTestWorkbook(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "standings.xlsx")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	zw := zip.NewWriter(f)
	entries := map[string]string{
		"xl/workbook.xml":            testWorkbookXML,
		"xl/_rels/workbook.xml.rels": testRelsXML,
		"xl/sharedStrings.xml":       testSharedXML,
		"xl/worksheets/sheet1.xml":   testSheet1XML,
		"xl/worksheets/sheet2.xml":   testSheet2XML,
	}
	for name, body := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return p
}

func TestLoadXLSXBySheetName(t *testing.T) {
	p := writeTestWorkbook(t)
	opt := DefaultOptions()
	opt.SheetName = "standings"
	tbl, err := Load(p, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tbl.Len() != 2 || tbl.Teams[0] != "Boston Bruins" || tbl.Teams[1] != "Anaheim Ducks" {
		t.Fatalf("teams = %#v", tbl.Teams)
	}
	if tbl.Columns[2] != "" || tbl.Columns[3] != "PP%" {
		t.Fatalf("columns = %#v", tbl.Columns)
	}
	pp, err := tbl.Float("PP%", opt)
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if pp[0] != 22.2 || pp[1] != 15.6 {
		t.Fatalf("pp = %v", pp)
	}
}

func TestLoadXLSXByIndex(t *testing.T) {
	p := writeTestWorkbook(t)
	opt := DefaultOptions()
	opt.SheetIndex = 2
	tbl, err := Load(p, opt)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	w, err := tbl.Float("W", opt)
	if err != nil {
		t.Fatalf("Float: %v", err)
	}
	if w[0] != 65 || w[1] != 23 {
		t.Fatalf("wins = %v", w)
	}
}

func TestLoadXLSXUnknownSheet(t *testing.T) {
	p := writeTestWorkbook(t)
	opt := DefaultOptions()
	opt.SheetName = "Playoffs"
	_, err := Load(p, opt)
	if err == nil || !strings.Contains(err.Error(), "Notes, Standings") {
		t.Fatalf("err = %v, want available sheet list", err)
	}
}

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"/worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
		{"worksheets/sheet1.xml", "xl/worksheets/sheet1.xml"},
	}
	for _, tt := range tests {
		if got := normalizeRelPath(tt.input); got != tt.expected {
			t.Errorf("normalizeRelPath(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestColIndexFromRef(t *testing.T) {
	for ref, want := range map[string]int{"A1": 0, "D12": 3, "Z3": 25, "AA7": 26, "ab2": 27} {
		if got := colIndexFromRef(ref); got != want {
			t.Errorf("colIndexFromRef(%q) = %d, want %d", ref, got, want)
		}
	}
}
