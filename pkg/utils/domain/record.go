package domain

// Source tells whether a record was derived from raw WHOIS text or from a structured API.
type Source string

const (
	SourceInternal Source = "internal"
	SourceExternal Source = "external"
)

// ParseSource maps a query value onto a Source, defaulting to internal.
func ParseSource(s string) (Source, bool) {
	switch Source(s) {
	case "", SourceInternal:
		return SourceInternal, true
	case SourceExternal:
		return SourceExternal, true
	default:
		return "", false
	}
}

// DomainRecord is the normalized result of one lookup.
// Empty strings stand for absent values; dates are either canonical YYYY-MM-DD or empty.
type DomainRecord struct {
	Domain      string   `json:"domain"`
	Available   bool     `json:"available"`
	Registrar   string   `json:"registrar,omitempty"`
	CreatedDate string   `json:"createdDate,omitempty"`
	UpdatedDate string   `json:"updatedDate,omitempty"`
	ExpiryDate  string   `json:"expiryDate,omitempty"`
	NameServers []string `json:"nameServers"`
	Source      Source   `json:"source"`
	Fallback    bool     `json:"fallback,omitempty"`
	Error       string   `json:"error,omitempty"`
	FromCache   bool     `json:"fromCache"`

	// Only set by the external API client.
	Provider    string `json:"provider,omitempty"`
	APIResponse string `json:"apiResponse,omitempty"`
}

// Clone returns a deep copy so callers can flag it without touching the original.
func (r DomainRecord) Clone() DomainRecord {
	c := r
	c.NameServers = make([]string, len(r.NameServers))
	copy(c.NameServers, r.NameServers)
	return c
}

// WithFromCache returns a copy of the record carrying the given cache flag.
func (r DomainRecord) WithFromCache(fromCache bool) DomainRecord {
	c := r.Clone()
	c.FromCache = fromCache
	return c
}
