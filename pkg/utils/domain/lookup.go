package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/likexian/whois"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"

	"github.com/vit0-9/domain_lookup/pkg/metrics"
)

// WhoisQuerier fetches the raw WHOIS text for a domain.
type WhoisQuerier interface {
	Query(ctx context.Context, domain string) (string, error)
}

// WhoisError is returned for WHOIS failures that are not recovered into a fallback record.
type WhoisError struct {
	Domain string
	Err    error
}

func (e *WhoisError) Error() string {
	return fmt.Sprintf("whois lookup failed for %s: %v", e.Domain, e.Err)
}

func (e *WhoisError) Unwrap() error {
	return e.Err
}

// WhoisClient queries WHOIS servers over TCP, following registry referrals.
type WhoisClient struct {
	client *whois.Client
}

// NewWhoisClient creates a client with a per-query timeout.
// The dialer honors ALL_PROXY and NO_PROXY.
func NewWhoisClient(timeout time.Duration) *WhoisClient {
	client := whois.NewClient()
	client.SetTimeout(timeout)
	client.SetDialer(proxy.FromEnvironment())
	return &WhoisClient{client: client}
}

// Query runs the blocking WHOIS call in a goroutine so ctx can abandon it.
func (w *WhoisClient) Query(ctx context.Context, domain string) (string, error) {
	type result struct {
		raw string
		err error
	}
	ch := make(chan result, 1)
	go func() {
		raw, err := w.client.Whois(domain)
		ch <- result{raw: raw, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		return res.raw, res.err
	}
}

// Resolver turns one WHOIS query into a DomainRecord.
type Resolver struct {
	querier WhoisQuerier
	log     *zap.Logger
	metrics *metrics.Collector
}

// NewResolver wires a querier; log and m may be nil.
func NewResolver(querier WhoisQuerier, log *zap.Logger, m *metrics.Collector) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{querier: querier, log: log, metrics: m}
}

// Lookup queries WHOIS for domain. Host-not-found, timeout and connection-refused failures
// produce a fallback record instead of an error; any other failure is returned.
func (r *Resolver) Lookup(ctx context.Context, domain string) (DomainRecord, error) {
	start := time.Now()

	raw, err := r.querier.Query(ctx, domain)
	if err != nil {
		if cause, ok := transportFailure(err); ok {
			r.log.Warn("whois transport failure, returning fallback record",
				zap.String("domain", domain),
				zap.String("cause", cause),
				zap.Error(err))
			r.metrics.ObserveLookup(string(SourceInternal), metrics.OutcomeFallback, time.Since(start))
			return FallbackRecord(domain), nil
		}
		r.metrics.ObserveLookup(string(SourceInternal), metrics.OutcomeError, time.Since(start))
		return DomainRecord{}, &WhoisError{Domain: domain, Err: err}
	}

	record := BuildRecord(domain, raw)
	r.log.Debug("whois response parsed",
		zap.String("domain", domain),
		zap.Int("bytes", len(raw)),
		zap.Bool("available", record.Available))
	r.metrics.ObserveLookup(string(SourceInternal), metrics.OutcomeOK, time.Since(start))
	return record, nil
}

// FallbackRecord is the degraded record returned when the WHOIS server cannot be reached.
func FallbackRecord(domain string) DomainRecord {
	tld := topLevelLabel(domain)
	return DomainRecord{
		Domain:      domain,
		Available:   false,
		Registrar:   fmt.Sprintf("Information not available (%s WHOIS server issue)", tld),
		NameServers: []string{},
		Source:      SourceInternal,
		Fallback:    true,
		Error:       fmt.Sprintf("WHOIS lookup failed for .%s domains", tld),
	}
}

func topLevelLabel(domain string) string {
	labels := strings.Split(strings.ToLower(domain), ".")
	return labels[len(labels)-1]
}

// transportFailure reports whether err is one of the expected transport conditions
// and names it: "not-found", "timeout" or "refused".
func transportFailure(err error) (string, bool) {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return "not-found", true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout", true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout", true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "refused", true
	}

	// likexian/whois does not always wrap the dial error, so fall back to its text
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "no such host"), strings.Contains(msg, "enotfound"):
		return "not-found", true
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "timed out"):
		return "timeout", true
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "econnrefused"):
		return "refused", true
	}
	return "", false
}
