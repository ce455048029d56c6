package contract

import (
	"reflect"
	"testing"

	"github.com/fyrsmithlabs/nominationd/internal/docx"
)

func TestNormalizeRow(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  NormalizedRow
	}{
		{
			name:  "single-line value becomes one-element sequence",
			cells: []string{"Buyer", "Acme Co"},
			want:  NormalizedRow{Label: "Buyer", ValueLines: []string{"Acme Co"}},
		},
		{
			name:  "multi-line value splits and trims",
			cells: []string{"Cargo Quantity", "First line. \n\n  Second line."},
			want:  NormalizedRow{Label: "Cargo Quantity", ValueLines: []string{"First line.", "Second line."}},
		},
		{
			name:  "empty value cell still yields one element",
			cells: []string{"Notes", ""},
			want:  NormalizedRow{Label: "Notes", ValueLines: []string{""}},
		},
		{
			name:  "label is trimmed",
			cells: []string{"  Seller ", "Globex Inc"},
			want:  NormalizedRow{Label: "Seller", ValueLines: []string{"Globex Inc"}},
		},
		{
			name:  "extra cells stay scalar",
			cells: []string{"Port", "Rotterdam", "remark", "another"},
			want:  NormalizedRow{Label: "Port", ValueLines: []string{"Rotterdam"}, ExtraCells: []string{"remark", "another"}},
		},
		{
			name:  "label-only row has no value lines",
			cells: []string{"Heading"},
			want:  NormalizedRow{Label: "Heading"},
		},
		{
			name:  "empty row",
			cells: nil,
			want:  NormalizedRow{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRow(tt.cells)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeRow(%q) = %+v, want %+v", tt.cells, got, tt.want)
			}
		})
	}
}

func TestNormalizeTable(t *testing.T) {
	table := docx.Table{
		{"Buyer", "Acme Co"},
		{"Seller", "Globex Inc"},
	}
	rows := NormalizeTable(table)
	if len(rows) != 2 {
		t.Fatalf("NormalizeTable returned %d rows, want 2", len(rows))
	}
	if rows[0].Label != "Buyer" || rows[1].Label != "Seller" {
		t.Errorf("labels = %q, %q", rows[0].Label, rows[1].Label)
	}
}
