package contract

import (
	"regexp"
	"strconv"
	"strings"
)

// Clause is one detected "days prior to" sentence fragment plus the context
// it came from. One nomination may be derived per clause.
type Clause struct {
	// NominationType is the label of the row the clause was found in
	// (e.g. "Cargo Quantity").
	NominationType string
	// DaySentence is the matched fragment, up to sentence boundaries.
	DaySentence string
	// FullContext is all value lines of the row, newline-joined, for the
	// keyword oracle.
	FullContext string
}

// clausePattern matches "<text> (N) days prior to <text>" up to a sentence
// boundary, tolerating every spacing variant seen in real contracts:
// "(30)days", "30days", "(15) days", "15 days". Deliberately permissive;
// precision filters (the zero-days rule) live in the assembler.
var clausePattern = regexp.MustCompile(`(?i)[^.]*\(?\s*\d+\s*\)?\s*days\s+prior\s+to[^.]*`)

// daysPattern extracts the numeral from a matched day sentence.
var daysPattern = regexp.MustCompile(`(?i)\(?\s*(\d+)\s*\)?\s*days\s+prior\s+to`)

// DetectClauses scans every value line of every normalized row and emits one
// Clause per pattern match. A line may yield several clauses.
func DetectClauses(rows []NormalizedRow) []Clause {
	var clauses []Clause
	for _, row := range rows {
		if len(row.ValueLines) == 0 {
			continue
		}
		context := strings.Join(row.ValueLines, "\n")
		for _, line := range row.ValueLines {
			for _, match := range clausePattern.FindAllString(line, -1) {
				sentence := strings.TrimSpace(match)
				if sentence == "" {
					continue
				}
				clauses = append(clauses, Clause{
					NominationType: row.Label,
					DaySentence:    sentence,
					FullContext:    context,
				})
			}
		}
	}
	return clauses
}

// DaysPrior parses the day count out of a day sentence. Returns 0 when no
// numeral can be recovered; the assembler drops such clauses.
func DaysPrior(sentence string) int {
	m := daysPattern.FindStringSubmatch(sentence)
	if m == nil {
		return 0
	}
	days, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return days
}
