package blocker

import (
	"context"
	"net"
)

// Resolver resolves host names. *net.Resolver satisfies it.
type Resolver interface {
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// SelfTestResult is the outcome of resolving one blocked host.
type SelfTestResult struct {
	Host    string   `json:"host"`
	Addrs   []string `json:"addrs"`
	Blocked bool     `json:"blocked"`
	Err     string   `json:"error,omitempty"`
}

// SelfTest resolves the first site and its www variant and reports
// whether they resolve to the redirect address.
func (m *Manager) SelfTest(ctx context.Context, sites []string) []SelfTestResult {
	if len(sites) == 0 {
		return nil
	}

	var results []SelfTestResult
	for _, host := range []string{sites[0], "www." + sites[0]} {
		r := SelfTestResult{Host: host}
		addrs, err := m.resolver.LookupHost(ctx, host)
		if err != nil {
			r.Err = err.Error()
		} else {
			r.Addrs = addrs
			r.Blocked = resolvesTo(addrs, m.redirectIP)
		}

		if r.Blocked {
			m.logger.Info("self-test: host is blocked", "host", host)
		} else {
			m.logger.Warn("self-test: host still resolves", "host", host, "addrs", r.Addrs, "error", r.Err)
		}
		results = append(results, r)
	}
	return results
}

func resolvesTo(addrs []string, ip string) bool {
	want := net.ParseIP(ip)
	if want == nil || len(addrs) == 0 {
		return false
	}
	for _, a := range addrs {
		if !net.ParseIP(a).Equal(want) {
			return false
		}
	}
	return true
}
