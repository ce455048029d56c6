package contract

import "strings"

// Parties holds the counterparties named in a contract table. Either field
// may be empty when the document omits the row; the orchestrator decides
// whether that is fatal for the document.
type Parties struct {
	Buyer  string
	Seller string
}

// Complete reports whether both parties were found.
func (p Parties) Complete() bool {
	return p.Buyer != "" && p.Seller != ""
}

// ExtractParties scans normalized rows for "buyer" and "seller" labels
// (case-insensitive exact match on the trimmed label) and captures the first
// value line of each. When a label occurs more than once the last occurrence
// wins.
func ExtractParties(rows []NormalizedRow) Parties {
	var p Parties
	for _, row := range rows {
		if len(row.ValueLines) == 0 {
			continue
		}
		switch strings.ToLower(row.Label) {
		case "buyer":
			p.Buyer = strings.TrimSpace(row.ValueLines[0])
		case "seller":
			p.Seller = strings.TrimSpace(row.ValueLines[0])
		}
	}
	return p
}
