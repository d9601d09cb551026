package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"github.com/vit0-9/domain_lookup/pkg/metrics"
	"github.com/vit0-9/domain_lookup/pkg/utils"
)

const (
	DefaultWhoisFreaksURL = "https://api.whoisfreaks.com/v1.0/whois"
	DefaultWhoAPIURL      = "https://api.whoapi.com/"
)

// ExternalConfig configures the structured WHOIS API client.
type ExternalConfig struct {
	WhoisFreaksKey string
	WhoAPIKey      string
	WhoisFreaksURL string
	WhoAPIURL      string
	Timeout        time.Duration
}

// ExternalClient looks domains up through WhoisFreaks, falling back to WhoAPI.
type ExternalClient struct {
	cfg        ExternalConfig
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Collector
}

// NewExternalClient creates the client; empty URLs select the public endpoints.
func NewExternalClient(cfg ExternalConfig, log *zap.Logger, m *metrics.Collector) *ExternalClient {
	if cfg.WhoisFreaksURL == "" {
		cfg.WhoisFreaksURL = DefaultWhoisFreaksURL
	}
	if cfg.WhoAPIURL == "" {
		cfg.WhoAPIURL = DefaultWhoAPIURL
	}
	if cfg.WhoisFreaksKey == "" {
		cfg.WhoisFreaksKey = "demo"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ExternalClient{
		cfg:        cfg,
		httpClient: utils.NewHTTPClient(cfg.Timeout),
		log:        log,
		metrics:    m,
	}
}

// Lookup asks WhoisFreaks first and WhoAPI if that fails for any reason.
func (c *ExternalClient) Lookup(ctx context.Context, domain string) (DomainRecord, error) {
	start := time.Now()

	record, err := c.lookupWhoisFreaks(ctx, domain)
	if err == nil {
		c.metrics.ObserveLookup(string(SourceExternal), metrics.OutcomeOK, time.Since(start))
		return record, nil
	}
	c.log.Warn("WhoisFreaks lookup failed, trying WhoAPI", zap.String("domain", domain), zap.Error(err))

	record, fallbackErr := c.lookupWhoAPI(ctx, domain)
	if fallbackErr != nil {
		c.metrics.ObserveLookup(string(SourceExternal), metrics.OutcomeError, time.Since(start))
		return DomainRecord{}, fmt.Errorf("external API error: %w; fallback also failed: %w", err, fallbackErr)
	}
	c.metrics.ObserveLookup(string(SourceExternal), metrics.OutcomeFallback, time.Since(start))
	return record, nil
}

type whoisFreaksResponse struct {
	DomainRegistered json.RawMessage `json:"domain_registered"`
	DomainRegistrar  json.RawMessage `json:"domain_registrar"`
	Registrar        json.RawMessage `json:"registrar"`
	RegistrarName    string          `json:"registrar_name"`

	CreateDate    string `json:"create_date"`
	CreationDate  string `json:"creation_date"`
	CreatedDate   string `json:"created_date"`
	DomainCreated string `json:"domain_created"`

	UpdateDate    string `json:"update_date"`
	UpdatedDate   string `json:"updated_date"`
	LastUpdated   string `json:"last_updated"`
	DomainUpdated string `json:"domain_updated"`

	ExpiryDate         string `json:"expiry_date"`
	ExpirationDate     string `json:"expiration_date"`
	Expires            string `json:"expires"`
	DomainExpires      string `json:"domain_expires"`
	RegistryExpiryDate string `json:"registry_expiry_date"`

	NameServers json.RawMessage `json:"name_servers"`
	Nameservers []string        `json:"nameservers"`
	WhoisServer string          `json:"whois_server"`
}

type registrarInfo struct {
	RegistrarName string `json:"registrar_name"`
}

func (c *ExternalClient) lookupWhoisFreaks(ctx context.Context, domain string) (DomainRecord, error) {
	q := url.Values{}
	q.Set("apiKey", c.cfg.WhoisFreaksKey)
	q.Set("whois", "live")
	q.Set("domainName", domain)
	q.Set("format", "json")

	var data whoisFreaksResponse
	if err := utils.FetchJSON(ctx, c.httpClient, c.cfg.WhoisFreaksURL+"?"+q.Encode(), &data); err != nil {
		return DomainRecord{}, err
	}
	return mapWhoisFreaks(domain, data), nil
}

func mapWhoisFreaks(domain string, data whoisFreaksResponse) DomainRecord {
	record := DomainRecord{
		Domain:    domain,
		Available: !jsonTruthy(data.DomainRegistered) || jsonStringEquals(data.DomainRegistered, "no"),
		Registrar: firstNonEmpty(
			registrarFromRaw(data.DomainRegistrar),
			registrarFromRaw(data.Registrar),
			data.RegistrarName,
		),
		CreatedDate: externalDate(firstNonEmpty(data.CreateDate, data.CreationDate, data.CreatedDate, data.DomainCreated)),
		UpdatedDate: externalDate(firstNonEmpty(data.UpdateDate, data.UpdatedDate, data.LastUpdated, data.DomainUpdated)),
		ExpiryDate: externalDate(firstNonEmpty(
			data.ExpiryDate, data.ExpirationDate, data.Expires, data.DomainExpires, data.RegistryExpiryDate,
		)),
		NameServers: nameServerList(data.NameServers, data.Nameservers),
		Source:      SourceExternal,
		Provider:    "WhoisFreaks",
		APIResponse: "WhoisFreaks API",
	}
	if data.WhoisServer != "" {
		record.APIResponse = "Data from: " + data.WhoisServer
	}
	return record
}

type whoAPIResponse struct {
	Taken         json.RawMessage `json:"taken"`
	RegistrarName string          `json:"registrar_name"`
	Registrar     string          `json:"registrar"`
	DateCreated   string          `json:"date_created"`
	DateUpdated   string          `json:"date_updated"`
	DateExpires   string          `json:"date_expires"`
	Nameservers   []string        `json:"nameservers"`
}

func (c *ExternalClient) lookupWhoAPI(ctx context.Context, domain string) (DomainRecord, error) {
	q := url.Values{}
	q.Set("apikey", c.cfg.WhoAPIKey)
	q.Set("r", "taken")
	q.Set("domain", domain)

	var data whoAPIResponse
	if err := utils.FetchJSON(ctx, c.httpClient, c.cfg.WhoAPIURL+"?"+q.Encode(), &data); err != nil {
		return DomainRecord{}, err
	}
	return mapWhoAPI(domain, data), nil
}

func mapWhoAPI(domain string, data whoAPIResponse) DomainRecord {
	nameServers := dedupNonEmpty(data.Nameservers)
	return DomainRecord{
		Domain:      domain,
		Available:   jsonNumberEquals(data.Taken, 0) || jsonBoolEquals(data.Taken, false),
		Registrar:   firstNonEmpty(data.RegistrarName, data.Registrar),
		CreatedDate: externalDate(data.DateCreated),
		UpdatedDate: externalDate(data.DateUpdated),
		ExpiryDate:  externalDate(data.DateExpires),
		NameServers: nameServers,
		Source:      SourceExternal,
		Provider:    "WhoAPI (Fallback)",
		APIResponse: "WhoAPI Fallback Service",
	}
}

// externalDate brings an API date to the canonical form, or drops it.
func externalDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if date, ok := NormalizeDate(raw); ok {
		return date
	}
	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return t.Format("2006-01-02")
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// registrarFromRaw accepts either {"registrar_name": "..."} or a plain string.
func registrarFromRaw(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var info registrarInfo
	if err := json.Unmarshal(raw, &info); err == nil && info.RegistrarName != "" {
		return info.RegistrarName
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// nameServerList accepts name_servers as an array or as an object of values.
func nameServerList(raw json.RawMessage, alternate []string) []string {
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var list []string
		if err := json.Unmarshal(raw, &list); err == nil {
			return dedupNonEmpty(list)
		}
		var byKey map[string]string
		if err := json.Unmarshal(raw, &byKey); err == nil {
			keys := make([]string, 0, len(byKey))
			for k := range byKey {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			values := make([]string, 0, len(keys))
			for _, k := range keys {
				values = append(values, byKey[k])
			}
			return dedupNonEmpty(values)
		}
	}
	return dedupNonEmpty(alternate)
}

func dedupNonEmpty(list []string) []string {
	out := []string{}
	for _, v := range list {
		if v != "" && !containsExact(out, v) {
			out = append(out, v)
		}
	}
	return out
}

// jsonTruthy follows the loose truthiness the vendor APIs rely on:
// null, false, 0 and "" are false.
func jsonTruthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

func jsonStringEquals(raw json.RawMessage, want string) bool {
	var s string
	return json.Unmarshal(raw, &s) == nil && strings.EqualFold(s, want)
}

func jsonNumberEquals(raw json.RawMessage, want float64) bool {
	var n float64
	return len(raw) > 0 && json.Unmarshal(raw, &n) == nil && n == want
}

func jsonBoolEquals(raw json.RawMessage, want bool) bool {
	var b bool
	return len(raw) > 0 && json.Unmarshal(raw, &b) == nil && b == want
}
