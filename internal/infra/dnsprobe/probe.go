// Package dnsprobe answers "does this domain exist in the DNS at all"
// via an SOA query, used to annotate diagnostics when both registry
// protocols fail.
package dnsprobe

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/miekg/dns"
)

const queryTimeout = 5 * time.Second

type Prober struct {
	client   *dns.Client
	resolver string
}

// New builds a prober against the system resolver from
// /etc/resolv.conf.
func New() (*Prober, error) {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return nil, fmt.Errorf("failed to read DNS config: %w", err)
	}
	if len(conf.Servers) == 0 {
		return nil, fmt.Errorf("no DNS servers configured")
	}
	return &Prober{
		client:   &dns.Client{},
		resolver: net.JoinHostPort(conf.Servers[0], conf.Port),
	}, nil
}

// Registered reports whether the domain has an SOA record. A missing
// SOA usually means the registration lapsed or never existed.
func (p *Prober) Registered(ctx context.Context, domain string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	m := dns.Msg{}
	m.SetQuestion(dns.Fqdn(domain), dns.TypeSOA)

	resp, _, err := p.client.ExchangeContext(ctx, &m, p.resolver)
	if err != nil {
		return false, fmt.Errorf("DNS query failed: %w", err)
	}
	return len(resp.Answer) > 0, nil
}
