package contract

import "testing"

func TestAssemble(t *testing.T) {
	anchor := CivilDate{2025, 8, 16}
	parties := Parties{Buyer: "Acme Co", Seller: "Globex Inc"}
	clauses := []KeywordedClause{
		{
			Clause: Clause{
				NominationType: "Cargo Quantity",
				DaySentence:    "Declare no later than 20 days prior to delivery",
			},
			Keyword: "Cargo Quantity as 130,000 m3",
		},
		{
			Clause: Clause{
				NominationType: "Arrival Period",
				DaySentence:    "Seller shall narrow the window (10) days prior to arrival",
			},
			Keyword: "Arrival Window as 16-19 Aug 2025",
		},
	}

	records := Assemble("LNG SPA 2025-07", anchor, parties, clauses)
	if len(records) != 2 {
		t.Fatalf("Assemble returned %d records, want 2", len(records))
	}

	r := records[0]
	if r.ID == "" {
		t.Error("record ID is empty")
	}
	if r.ContractName != "LNG SPA 2025-07" || r.Buyer != "Acme Co" || r.Seller != "Globex Inc" {
		t.Errorf("identity fields wrong: %+v", r)
	}
	if r.ArrivalPeriod != anchor {
		t.Errorf("arrival period = %v, want %v", r.ArrivalPeriod, anchor)
	}
	if r.NominationDate != (CivilDate{2025, 7, 27}) {
		t.Errorf("nomination date = %v, want 2025/7/27", r.NominationDate)
	}
	if r.Type != "Cargo Quantity" || r.Keyword != "Cargo Quantity as 130,000 m3" {
		t.Errorf("type/keyword wrong: %+v", r)
	}
	if r.Description != "Declare no later than 20 days prior to delivery" {
		t.Errorf("description = %q", r.Description)
	}
	if r.Party != PartyBuyer {
		t.Errorf("party = %q, want buyer (no 'seller' in sentence)", r.Party)
	}

	if records[1].Party != PartySeller {
		t.Errorf("party = %q, want seller", records[1].Party)
	}
	if records[1].NominationDate != (CivilDate{2025, 8, 6}) {
		t.Errorf("nomination date = %v, want 2025/8/6", records[1].NominationDate)
	}
}

func TestAssembleDropsZeroDays(t *testing.T) {
	anchor := CivilDate{2025, 8, 16}
	clauses := []KeywordedClause{
		{Clause: Clause{NominationType: "Cargo", DaySentence: "(0) days prior to delivery"}},
		{Clause: Clause{NominationType: "Cargo", DaySentence: "some days prior to delivery"}},
	}

	if records := Assemble("c", anchor, Parties{Buyer: "A", Seller: "B"}, clauses); len(records) != 0 {
		t.Errorf("Assemble = %+v, want no records for zero or unparsable day counts", records)
	}
}

func TestClassifyParty(t *testing.T) {
	tests := []struct {
		sentence string
		want     Party
	}{
		{"Seller shall nominate 20 days prior to delivery", PartySeller},
		{"the SELLER confirms (5) days prior to arrival", PartySeller},
		{"Declare no later than 20 days prior to delivery", PartyBuyer},
		{"Buyer narrows the window 10 days prior to arrival", PartyBuyer},
	}

	for _, tt := range tests {
		if got := ClassifyParty(tt.sentence); got != tt.want {
			t.Errorf("ClassifyParty(%q) = %q, want %q", tt.sentence, got, tt.want)
		}
	}
}
