package main

import "strings"

// answer is one canned reply of the demo backend keyed by the question it answers.
type answer struct {
	question string
	reply    string
}

// cannedAnswers are checked in order; the first fuzzy match wins.
var cannedAnswers = []answer{
	{"list the hotels in france", `Here are the hotels in France:

**Paris:**
- Grand Victoria
- Majestic Plaza
- Obsidian Tower

**Nice:**
- Imperial Crown
- Royal Sovereign`},
	{"prices for triple premium rooms in paris", `Triple Premium Room prices in Paris:

**Grand Victoria:**
- Peak Season: €450/night
- Off Season: €320/night

**Majestic Plaza:**
- Peak Season: €480/night
- Off Season: €350/night

**Obsidian Tower:**
- Peak Season: €520/night
- Off Season: €380/night`},
	{"compare the triple room prices at off season for room and breakfast at the hotels in nice", `Triple Room prices at Off Season with Room and Breakfast in Nice:

**Imperial Crown:**
- Standard Triple: €180/night + €25/person breakfast = €255/night total
- Premium Triple: €240/night + €25/person breakfast = €315/night total

**Royal Sovereign:**
- Standard Triple: €190/night + €25/person breakfast = €265/night total
- Premium Triple: €250/night + €25/person breakfast = €325/night total`},
	{"lowest price for a standard sigle room in nice considering no meal plan", `Lowest price for Standard Single Room in Nice (No Meal Plan):

**Imperial Crown:** €80/night (Off Season)
**Royal Sovereign:** €85/night (Off Season)

The lowest price is at **Imperial Crown** with €80/night during off season.`},
	{"hotels in paris the meal charge for half board", `Meal charges for Half Board in Paris hotels:

**Grand Victoria:** €45/person/day
**Majestic Plaza:** €50/person/day
**Obsidian Tower:** €55/person/day

*Half Board includes breakfast and dinner*`},
	{"amount of rooms per type for hotels in paris", `Room distribution by type in Paris hotels:

**Grand Victoria:**
- Single: 30 rooms
- Double: 50 rooms
- Triple: 20 rooms

**Majestic Plaza:**
- Single: 25 rooms
- Double: 45 rooms
- Triple: 30 rooms

**Obsidian Tower:**
- Single: 40 rooms
- Double: 60 rooms
- Triple: 25 rooms`},
	{"price of a double room standard category in g victoria for peak and off season", `Double Room Standard Category pricing at Grand Victoria:

**Peak Season:** €280/night
**Off Season:** €180/night

Difference: €100/night (35.7% discount in off season)`},
	{"price for a premium triple room for obsidian tower next october 14th considering room and breakfast and 4 guests", `Price calculation for Premium Triple Room at Obsidian Tower (October 14th):

**Room Rate:** €380/night (Off Season - October)
**Breakfast:** €25/person × 4 guests = €100
**Total:** €480/night

*Note: October is considered off season, and the premium triple room can accommodate up to 4 guests.*`},
}

const fallbackReply = `I'm a demo backend with canned answers.

Try asking questions about:
- Hotels in France
- Room prices in Paris or Nice
- Meal plans and charges
- Room availability

Example: "list the hotels in France" or "tell me the prices for triple premium rooms in Paris"`

// minOverlap is the share of a canned question's words that must appear in
// the query for a fuzzy match.
const minOverlap = 0.6

// matchAnswer picks the reply for query: exact question first, then the first
// question whose words overlap the query enough, else the help text.
func matchAnswer(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, a := range cannedAnswers {
		if a.question == q {
			return a.reply
		}
	}
	queryWords := wordSet(q)
	for _, a := range cannedAnswers {
		keyWords := wordSet(a.question)
		shared := 0
		for w := range keyWords {
			if _, ok := queryWords[w]; ok {
				shared++
			}
		}
		if float64(shared)/float64(len(keyWords)) >= minOverlap {
			return a.reply
		}
	}
	return fallbackReply
}

func wordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}
