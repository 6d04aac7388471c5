package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/miekg/dns"
)

// maxBodySize bounds the response read from an HTTP address service.
const maxBodySize = 256

// ExternalIPResolver discovers the external IP address.
type ExternalIPResolver interface {
	ExternalIP(ctx context.Context) (string, error)
}

// HTTPResolver fetches the external IP from a service that responds with
// the caller's address as plain text.
type HTTPResolver struct {
	Client *http.Client
	URL    string
}

// NewHTTPResolver creates an [HTTPResolver] for url.
func NewHTTPResolver(url string) *HTTPResolver {
	return &HTTPResolver{URL: url, Client: http.DefaultClient}
}

// ExternalIP implements [ExternalIPResolver].
func (r *HTTPResolver) ExternalIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", r.URL, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Ignore errors.

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("get %s: unexpected status %s", r.URL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return parseAddress(string(body))
}

// DNSResolver discovers the external IP by querying a resolver that answers
// a special name with the caller's address.
type DNSResolver struct {
	Client *dns.Client
	Name   string
	Server string
}

// NewDNSResolver creates a [DNSResolver] querying name at server.
func NewDNSResolver(name, server string) *DNSResolver {
	return &DNSResolver{
		Name:   name,
		Server: server,
		Client: &dns.Client{Net: "udp"},
	}
}

// ExternalIP implements [ExternalIPResolver].
func (r *DNSResolver) ExternalIP(ctx context.Context) (string, error) {
	m := &dns.Msg{}
	m.SetQuestion(dns.Fqdn(r.Name), dns.TypeA)
	m.RecursionDesired = false

	resp, _, err := r.Client.ExchangeContext(ctx, m, r.Server)
	if err != nil {
		return "", fmt.Errorf("query %s at %s: %w", r.Name, r.Server, err)
	}

	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("query %s at %s: %s", r.Name, r.Server, dns.RcodeToString[resp.Rcode])
	}

	for _, rr := range resp.Answer {
		if a, ok := rr.(*dns.A); ok {
			return a.A.String(), nil
		}
	}

	return "", fmt.Errorf("query %s at %s: no A record in answer", r.Name, r.Server)
}

// NewExternalIPResolver returns the resolver selected by cfg.
//
//nolint:ireturn // Returns one of several implementations.
func NewExternalIPResolver(cfg *ExternalIPConfig) (ExternalIPResolver, error) {
	switch cfg.Method {
	case MethodHTTP, "":
		return NewHTTPResolver(cfg.URL), nil
	case MethodDNS:
		return NewDNSResolver(cfg.DNSName, cfg.DNSServer), nil
	}

	return nil, fmt.Errorf("unknown external IP method %q", cfg.Method)
}

var errEmptyAddress = errors.New("empty address")

// parseAddress validates and canonicalizes a textual IP address.
func parseAddress(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errEmptyAddress
	}

	ip := net.ParseIP(s)
	if ip == nil {
		return "", fmt.Errorf("%q is not an IP address", s)
	}

	return ip.String(), nil
}
