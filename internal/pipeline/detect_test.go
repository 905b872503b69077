package pipeline

import (
	"context"
	"path/filepath"
	"testing"
)

func TestDetectProcessorColumn(t *testing.T) {
	cases := []struct {
		name   string
		table  *Table
		column string
		index  int
	}{
		{
			name: "header and values",
			table: &Table{
				Header: []string{"sku", "cpu_list", "qty"},
				Rows:   [][]string{{"1", "['Intel Core i5']", "2"}, {"2", "", "1"}},
			},
			column: "cpu_list",
			index:  1,
		},
		{
			name: "values only",
			table: &Table{
				Header: []string{"sku", "models"},
				Rows:   [][]string{{"1", "AMD Athlon II X2 250"}, {"2", "Intel Pentium B940"}, {"3", ""}},
			},
			column: "models",
			index:  1,
		},
		{
			name: "nothing looks like a processor",
			table: &Table{
				Header: []string{"sku", "qty"},
				Rows:   [][]string{{"1", "2"}},
			},
			index: -1,
		},
		{
			name:  "empty table",
			table: &Table{},
			index: -1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectProcessorColumn(tc.table)
			if got.Index != tc.index || got.Column != tc.column {
				t.Fatalf("got %+v want column %q index %d", got, tc.column, tc.index)
			}
			if tc.index >= 0 && got.Reason != "rules_positive" {
				t.Fatalf("reason=%s", got.Reason)
			}
		})
	}
}

func TestProcessFileAutoColumn(t *testing.T) {
	tmp := t.TempDir()
	cfg := testConfig(tmp)
	cfg.RecordRuns = false
	cfg.ProcessColumn = AutoColumn

	input := filepath.Join(tmp, "parts.csv")
	writeFile(t, input, "sku,CPU\nKVR1,Intel Pentium B940 Intel HM65\n")

	svc := NewProcessingService(nil, cfg, nil)
	res, err := svc.ProcessFile(context.Background(), input, "")
	if err != nil {
		t.Fatal(err)
	}
	out, err := ReadTable(res.Output)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Rows[0]; got[1] != "['Intel Pentium B940']" || got[2] != "['Intel HM65']" {
		t.Fatalf("row=%v", got)
	}
}
