package domain

import (
	"strings"
)

// Phrases whose presence anywhere in the response means the domain is registered.
// They are checked before the availability phrases.
var registrationIndicators = []string{
	"registrar:",
	"creation date:",
	"created:",
	"registry expiry date:",
	"registrar registration expiration date:",
	"expires:",
	"name server:",
	"nameserver:",
	"registry domain id:",
	"domain status:",
}

var availabilityIndicators = []string{
	"no match",
	"not found",
	"no matching record",
	"status: available",
	"no data found",
	"no entries found",
	"domain not found",
	"not registered",
	"no records matching",
	"no matching record found",
	"domain status: no object found",
	"object does not exist",
	"status: free",
}

type field int

const (
	fieldRegistrar field = iota
	fieldCreated
	fieldUpdated
	fieldExpiry
	fieldNameServer
)

// fieldLabels lists, per field, the lowercase labels that mark a line as carrying that field.
var fieldLabels = []struct {
	field  field
	labels []string
}{
	{fieldRegistrar, []string{"registrar:"}},
	{fieldCreated, []string{
		"creation date:", "created:", "created on:", "registered:", "registered on:",
		"registration date:", "domain registered:", "created date:",
	}},
	{fieldUpdated, []string{
		"updated date:", "updated:", "updated on:", "last updated:", "last modified:",
		"changed:", "modified:", "last update:",
	}},
	{fieldExpiry, []string{
		"expiry date:", "expires:", "registry expiry date:", "registrar registration expiration date:",
		"expiration date:", "expire date:", "expires on:", "domain expires:", "paid-till:",
		"renewal date:", "expiration time:", "expire:", "valid until:",
	}},
	{fieldNameServer, []string{"name server:", "nameserver:"}},
}

// lineMatch is one field recognized on a line together with its raw value.
type lineMatch struct {
	field field
	value string
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func hasRegistrationSignal(lower string) bool {
	return containsAny(lower, registrationIndicators)
}

func hasAvailabilitySignal(lower string) bool {
	return containsAny(lower, availabilityIndicators)
}

// classifyLine returns every field whose label appears on the line.
// The value is the original-case text after the first colon, trimmed.
func classifyLine(line string) []lineMatch {
	lower := strings.ToLower(line)
	var matches []lineMatch
	for _, fl := range fieldLabels {
		if !containsAny(lower, fl.labels) {
			continue
		}
		matches = append(matches, lineMatch{field: fl.field, value: valueAfterColon(line)})
	}
	return matches
}

func valueAfterColon(line string) string {
	_, after, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(after)
}

// extraction accumulates fields while folding over the response lines.
// absorb never mutates its receiver.
type extraction struct {
	registrar   string
	createdDate string
	updatedDate string
	expiryDate  string
	nameServers []string
}

func (e extraction) absorb(line string) extraction {
	next := e
	for _, m := range classifyLine(line) {
		switch m.field {
		case fieldRegistrar:
			if next.registrar == "" {
				next.registrar = m.value
			}
		case fieldCreated:
			next.createdDate = firstDate(next.createdDate, m.value)
		case fieldUpdated:
			next.updatedDate = firstDate(next.updatedDate, m.value)
		case fieldExpiry:
			next.expiryDate = firstDate(next.expiryDate, m.value)
		case fieldNameServer:
			if m.value != "" && !containsExact(next.nameServers, m.value) {
				// full slice expression forces a copy so earlier accumulators stay intact
				next.nameServers = append(next.nameServers[:len(next.nameServers):len(next.nameServers)], m.value)
			}
		}
	}
	return next
}

// firstDate keeps an already extracted date, otherwise tries to normalize the candidate.
func firstDate(current, candidate string) string {
	if current != "" {
		return current
	}
	if date, ok := NormalizeDate(candidate); ok {
		return date
	}
	return ""
}

func containsExact(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// BuildRecord interprets a raw WHOIS response for domain.
//
// A registration phrase anywhere in the text marks the domain unavailable and fields are extracted.
// Otherwise an availability phrase finalizes the record as available with no details.
// With neither, the domain is reported unavailable and extraction still runs.
func BuildRecord(domain, raw string) DomainRecord {
	record := DomainRecord{
		Domain:      domain,
		NameServers: []string{},
		Source:      SourceInternal,
	}

	lower := strings.ToLower(raw)
	if !hasRegistrationSignal(lower) && hasAvailabilitySignal(lower) {
		record.Available = true
		return record
	}

	acc := extraction{}
	for _, line := range strings.Split(raw, "\n") {
		acc = acc.absorb(strings.TrimRight(line, "\r"))
	}

	record.Registrar = acc.registrar
	record.CreatedDate = acc.createdDate
	record.UpdatedDate = acc.updatedDate
	record.ExpiryDate = acc.expiryDate
	if acc.nameServers != nil {
		record.NameServers = acc.nameServers
	}
	return record
}
