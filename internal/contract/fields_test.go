package contract

import "testing"

func TestExtractParties(t *testing.T) {
	tests := []struct {
		name string
		rows []NormalizedRow
		want Parties
	}{
		{
			name: "both present",
			rows: []NormalizedRow{
				{Label: "Buyer", ValueLines: []string{"Acme Co"}},
				{Label: "Seller", ValueLines: []string{"Globex Inc"}},
			},
			want: Parties{Buyer: "Acme Co", Seller: "Globex Inc"},
		},
		{
			name: "case-insensitive labels",
			rows: []NormalizedRow{
				{Label: "BUYER", ValueLines: []string{"Acme Co"}},
				{Label: "seller", ValueLines: []string{"Globex Inc"}},
			},
			want: Parties{Buyer: "Acme Co", Seller: "Globex Inc"},
		},
		{
			name: "last occurrence wins",
			rows: []NormalizedRow{
				{Label: "Buyer", ValueLines: []string{"First Buyer"}},
				{Label: "Buyer", ValueLines: []string{"Second Buyer"}},
			},
			want: Parties{Buyer: "Second Buyer"},
		},
		{
			name: "first value line only",
			rows: []NormalizedRow{
				{Label: "Seller", ValueLines: []string{"Globex Inc", "123 Harbour Road"}},
			},
			want: Parties{Seller: "Globex Inc"},
		},
		{
			name: "prefix labels do not match",
			rows: []NormalizedRow{
				{Label: "Buyer's Agent", ValueLines: []string{"Broker LLC"}},
			},
			want: Parties{},
		},
		{
			name: "absent fields stay empty",
			rows: []NormalizedRow{
				{Label: "Cargo", ValueLines: []string{"LNG"}},
			},
			want: Parties{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractParties(tt.rows); got != tt.want {
				t.Errorf("ExtractParties = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPartiesComplete(t *testing.T) {
	if (Parties{Buyer: "A"}).Complete() {
		t.Error("missing seller reported complete")
	}
	if !(Parties{Buyer: "A", Seller: "B"}).Complete() {
		t.Error("both parties reported incomplete")
	}
}
