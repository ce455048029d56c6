package contract

import (
	"strings"

	"github.com/google/uuid"
)

// Party designates which counterparty a nomination obligation concerns.
type Party string

const (
	PartySeller Party = "seller"
	PartyBuyer  Party = "buyer"
)

// Record is one assembled nomination obligation, ready for persistence.
type Record struct {
	ID             string    `json:"id"`
	ContractName   string    `json:"contract_name"`
	Buyer          string    `json:"buyer"`
	Seller         string    `json:"seller"`
	ArrivalPeriod  CivilDate `json:"arrival_period"`
	NominationDate CivilDate `json:"nomination_date"`
	Type           string    `json:"nomination_type"`
	Keyword        string    `json:"nomination_keyword"`
	Description    string    `json:"nomination_description"`
	Party          Party     `json:"for_seller_or_buyer"`
}

// KeywordedClause pairs a detected clause with its oracle-normalized keyword.
type KeywordedClause struct {
	Clause
	Keyword string
}

// ClassifyParty decides the obligated party by a case-insensitive substring
// check for "seller" within the day sentence; absence means buyer.
func ClassifyParty(daySentence string) Party {
	if strings.Contains(strings.ToLower(daySentence), "seller") {
		return PartySeller
	}
	return PartyBuyer
}

// Assemble combines the anchor date, parties, and keyworded clauses into
// nomination records. A clause whose day count is zero or unparsable cannot
// represent a deadline before the anchor date and is dropped.
func Assemble(contractName string, anchor CivilDate, parties Parties, clauses []KeywordedClause) []Record {
	var records []Record
	for _, kc := range clauses {
		days := DaysPrior(kc.DaySentence)
		if days <= 0 {
			continue
		}
		records = append(records, Record{
			ID:             uuid.NewString(),
			ContractName:   contractName,
			Buyer:          parties.Buyer,
			Seller:         parties.Seller,
			ArrivalPeriod:  anchor,
			NominationDate: anchor.AddDays(-days),
			Type:           kc.NominationType,
			Keyword:        kc.Keyword,
			Description:    kc.DaySentence,
			Party:          ClassifyParty(kc.DaySentence),
		})
	}
	return records
}
