// SPDX-FileCopyrightText: 2023 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package restwirehost

import (
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/xmidt-org/restwire/representation"
)

// HostConfig describes a virtual host.  Domain, Port, and Scheme are regular
// expressions that must match the whole value.  An empty pattern matches
// anything.
type HostConfig struct {
	// Name identifies this host in logs
	Name string

	// Domain is matched case-insensitively against the request's host name
	Domain string

	// Port is matched against the request's port.  When the Host header has
	// no port, the scheme's default port is used.
	Port string

	// Scheme is matched case-insensitively against "http" or "https"
	Scheme string

	// Routes is the routing table of this host, in matching order
	Routes []RouteConfig
}

// RouteConfig describes a single route of a virtual host.
type RouteConfig struct {
	// Path is a gorilla/mux path template, e.g. /models/{name}
	Path string

	// Prefix matches every path that starts with Path
	Prefix bool

	// Methods restricts the HTTP methods.  Empty allows all methods.
	Methods []string

	// Produces restricts the route to requests whose Accept header
	// negotiates one of these media types.  Empty accepts every request.
	Produces []representation.MediaType

	// Handler names a NamedHandler component
	Handler string
}

// Matcher is a compiled HostConfig.
type Matcher struct {
	domain *regexp.Regexp
	port   *regexp.Regexp
	scheme *regexp.Regexp
}

func compile(pattern string, caseInsensitive bool) (*regexp.Regexp, error) {
	if len(pattern) == 0 {
		return nil, nil
	}

	expr := "^(?:" + pattern + ")$"
	if caseInsensitive {
		expr = "(?i)" + expr
	}

	return regexp.Compile(expr)
}

// NewMatcher compiles the patterns of a HostConfig.
func (hc HostConfig) NewMatcher() (m Matcher, err error) {
	if m.domain, err = compile(hc.Domain, true); err != nil {
		return m, fmt.Errorf("invalid domain pattern for host %q: %w", hc.Name, err)
	}

	if m.port, err = compile(hc.Port, false); err != nil {
		return m, fmt.Errorf("invalid port pattern for host %q: %w", hc.Name, err)
	}

	if m.scheme, err = compile(hc.Scheme, true); err != nil {
		return m, fmt.Errorf("invalid scheme pattern for host %q: %w", hc.Name, err)
	}

	return m, nil
}

// Matches compiles this HostConfig and tests the request against it.  An
// invalid pattern never matches.  Use NewMatcher to match repeatedly.
func (hc HostConfig) Matches(request *http.Request) bool {
	m, err := hc.NewMatcher()
	return err == nil && m.Matches(request)
}

func schemeOf(request *http.Request) string {
	switch {
	case request.TLS != nil:
		return "https"

	case request.URL != nil && len(request.URL.Scheme) > 0:
		return strings.ToLower(request.URL.Scheme)

	default:
		return "http"
	}
}

func hostPortOf(request *http.Request, scheme string) (host, port string) {
	host = request.Host
	if len(host) == 0 && request.URL != nil {
		host = request.URL.Host
	}

	if h, p, err := net.SplitHostPort(host); err == nil {
		return h, p
	}

	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if scheme == "https" {
		return host, "443"
	}

	return host, "80"
}

// Matches tests if a request is addressed to this host.
func (m Matcher) Matches(request *http.Request) bool {
	scheme := schemeOf(request)
	host, port := hostPortOf(request, scheme)

	return (m.scheme == nil || m.scheme.MatchString(scheme)) &&
		(m.domain == nil || m.domain.MatchString(host)) &&
		(m.port == nil || m.port.MatchString(port))
}
