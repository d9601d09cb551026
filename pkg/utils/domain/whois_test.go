package domain

import (
	"strings"
	"testing"

	"github.com/function61/gokit/assert"
)

const registeredResponse = "Domain Name: TEST.COM\nRegistrar: ACME Inc\nCreation Date: 2020-05-01\nRegistry Expiry Date: 2026-05-01\nName Server: ns1.acme.com\nName Server: ns2.acme.com"

func TestBuildRecordRegistered(t *testing.T) {
	record := BuildRecord("test.com", registeredResponse)

	assert.Assert(t, !record.Available)
	assert.EqualString(t, record.Domain, "test.com")
	assert.EqualString(t, record.Registrar, "ACME Inc")
	assert.EqualString(t, record.CreatedDate, "2020-05-01")
	assert.EqualString(t, record.UpdatedDate, "")
	assert.EqualString(t, record.ExpiryDate, "2026-05-01")
	assert.EqualString(t, strings.Join(record.NameServers, ","), "ns1.acme.com,ns2.acme.com")
	assert.EqualString(t, string(record.Source), "internal")
	assert.Assert(t, !record.Fallback)
	assert.Assert(t, !record.FromCache)
}

func TestBuildRecordAvailable(t *testing.T) {
	record := BuildRecord("free123.com", `No match for domain "FREE123.COM".`)

	assert.Assert(t, record.Available)
	assert.EqualString(t, record.Registrar, "")
	assert.EqualString(t, record.CreatedDate, "")
	assert.EqualString(t, record.UpdatedDate, "")
	assert.EqualString(t, record.ExpiryDate, "")
	assert.Assert(t, len(record.NameServers) == 0)
	assert.Assert(t, record.NameServers != nil)
}

func TestBuildRecordAvailabilityPhrases(t *testing.T) {
	for _, raw := range []string{
		"NOT FOUND",
		"Status: AVAILABLE",
		"%% No entries found for the selected source(s).",
		"No Data Found\r\n>>> Last update of WHOIS database",
		"The queried object does not exist: ",
		"Status: free",
	} {
		t.Run(raw, func(t *testing.T) {
			assert.Assert(t, BuildRecord("example.net", raw).Available)
		})
	}
}

func TestBuildRecordRegistrationBeatsAvailability(t *testing.T) {
	raw := "Domain not found in the reserved list\nRegistrar: Example Registrar\nCreated: 2001-01-01"
	record := BuildRecord("example.org", raw)

	assert.Assert(t, !record.Available)
	assert.EqualString(t, record.Registrar, "Example Registrar")
	assert.EqualString(t, record.CreatedDate, "2001-01-01")
}

func TestBuildRecordNoSignalIsUnavailable(t *testing.T) {
	record := BuildRecord("example.io", "Rate limit exceeded, try again later\nUpdated on: 2022-01-02")

	assert.Assert(t, !record.Available)
	assert.EqualString(t, record.Registrar, "")
	assert.EqualString(t, record.UpdatedDate, "2022-01-02")
}

func TestBuildRecordAnyRegistrarLineMeansTaken(t *testing.T) {
	for _, raw := range []string{
		"registrar:",
		"No match\nregistrar: whatever",
		"Status: free\nREGISTRAR: X",
	} {
		assert.Assert(t, !BuildRecord("example.com", raw).Available)
	}
}

func TestBuildRecordFirstMatchWins(t *testing.T) {
	raw := strings.Join([]string{
		"Registrar: First Registrar",
		"Registrar: Second Registrar",
		"Creation Date: not-a-date",
		"Created: 2010-10-10",
		"Creation Date: 2011-11-11",
		"Updated Date: 2023-02-03T10:00:00Z",
		"Last Modified: 2020-01-01",
	}, "\n")
	record := BuildRecord("example.com", raw)

	assert.EqualString(t, record.Registrar, "First Registrar")
	// an unparseable value does not occupy the field
	assert.EqualString(t, record.CreatedDate, "2010-10-10")
	assert.EqualString(t, record.UpdatedDate, "2023-02-03")
}

func TestBuildRecordNameServerDedup(t *testing.T) {
	raw := "Registrar: X\nName Server: ns1.example.com\nnameserver: ns1.example.com\nName Server: NS1.EXAMPLE.COM\nName Server:"
	record := BuildRecord("example.com", raw)

	// exact-text dedup: case variants are kept, empty values dropped
	assert.EqualString(t, strings.Join(record.NameServers, ","), "ns1.example.com,NS1.EXAMPLE.COM")
}

func TestBuildRecordValueAfterFirstColon(t *testing.T) {
	raw := "Registrar: Example: The Registrar\r\nRegistrar Registration Expiration Date: 2025-03-04T00:00:00Z\r\n"
	record := BuildRecord("example.com", raw)

	assert.EqualString(t, record.Registrar, "Example: The Registrar")
	assert.EqualString(t, record.ExpiryDate, "2025-03-04")
}

func TestBuildRecordRegionalLabels(t *testing.T) {
	raw := strings.Join([]string{
		"domain:        EXAMPLE.RU",
		"nserver:       ns.example.ru.",
		"created:       2004.05.06",
		"paid-till:     24.12.2025",
		"registrar:     RU-CENTER-RU",
	}, "\n")
	record := BuildRecord("example.ru", raw)

	assert.Assert(t, !record.Available)
	assert.EqualString(t, record.Registrar, "RU-CENTER-RU")
	assert.EqualString(t, record.CreatedDate, "2004-05-06")
	assert.EqualString(t, record.ExpiryDate, "2025-12-24")
	assert.Assert(t, len(record.NameServers) == 0)
}

func TestClassifyLine(t *testing.T) {
	matches := classifyLine("Registry Expiry Date: 2026-05-01T00:00:00Z")
	assert.Assert(t, len(matches) == 1)
	assert.Assert(t, matches[0].field == fieldExpiry)
	assert.EqualString(t, matches[0].value, "2026-05-01T00:00:00Z")

	assert.Assert(t, len(classifyLine("Domain Name: EXAMPLE.COM")) == 0)
	assert.Assert(t, len(classifyLine("")) == 0)
}

func TestAbsorbDoesNotShareState(t *testing.T) {
	base := extraction{}.absorb("Name Server: a.example")
	left := base.absorb("Name Server: b.example")
	right := base.absorb("Name Server: c.example")

	assert.EqualString(t, strings.Join(base.nameServers, ","), "a.example")
	assert.EqualString(t, strings.Join(left.nameServers, ","), "a.example,b.example")
	assert.EqualString(t, strings.Join(right.nameServers, ","), "a.example,c.example")
}
