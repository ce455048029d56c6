package oracle

// Prompt contracts. The date and keyword prompts constrain output shape hard
// enough that a single regex-plus-parse validation decides acceptance; prose
// answers fail validation rather than leaking downstream.

const dateSystemPrompt = "You are a date extractor. Return only the requested date in Y/m/d format, nothing else."

const dateUserPromptTemplate = `Extract the date from this table data: %s

Find "Delivery Window" content and return ONLY the date in Y/m/d format.

Rules:
- For ranges, pick the FIRST date
- Return format: Y/m/d (like 2025/8/16)
- Return ONLY the date, no explanations

Examples:
"Delivery Window: 03/08/2025" -> 2025/8/3
"Delivery Window: 16-19 Aug 2025" -> 2025/8/16
"Delivery Window: 25 Dec 2024 - 02 Jan 2025" -> 2024/12/25

Output only the date:`

const keywordSystemPrompt = `You are a contract analyst. Given the full text of one contract clause, name its substantive term as a single short phrase of the form "<Label> as <Value>". Return only that phrase, nothing else.`

const keywordUserPromptTemplate = `Summarize the substantive term of this clause as "<Label> as <Value>".

Examples:
Clause: "Buyer shall declare the cargo quantity no later than (20) days prior to delivery. The quantity shall be 145,000 CBM plus or minus 5 percent."
Output: Cargo Quantity as 145,000 CBM

Clause: "Seller shall narrow the delivery window to 24 hours (10) days prior to arrival. Delivery Window: 16-19 Aug 2025."
Output: Delivery Window as 16-19 Aug 2025

Clause: "The discharge port shall be nominated by Buyer 30 days prior to the first day of the arrival period. Discharge Port: Zeebrugge LNG Terminal."
Output: Discharge Port as Zeebrugge

Clause:
%s

Output:`

const (
	dateMaxTokens    = 20
	keywordMaxTokens = 30
)
