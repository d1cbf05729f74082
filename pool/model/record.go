package model

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// Protocol is the proxy scheme a record speaks.
type Protocol string

const (
	ProtocolHTTP   Protocol = "http"
	ProtocolHTTPS  Protocol = "https"
	ProtocolSOCKS4 Protocol = "socks4"
	ProtocolSOCKS5 Protocol = "socks5"
)

// DefaultUnknown is used for attributes the candidate source did not report.
const DefaultUnknown = "unknown"

// ParseProtocol validates a protocol string against the supported set.
func ParseProtocol(s string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(s)); p {
	case ProtocolHTTP, ProtocolHTTPS, ProtocolSOCKS4, ProtocolSOCKS5:
		return p, nil
	}
	return "", &ValidationError{Field: "protocol", Value: s, Reason: "unsupported protocol"}
}

// Record holds one proxy endpoint with its routing attributes and
// accumulated feedback counters. It is the unit the pool stores, indexes
// and persists.
type Record struct {
	// ID is an immutable identity assigned at creation, used in logs.
	// It is not part of the persisted snapshot.
	ID string `msgpack:"-" json:"-"`

	// URL is the normalized endpoint: scheme://[user:pass@]host:port.
	URL string `msgpack:"url" json:"url"`

	Protocol  Protocol `msgpack:"protocol" json:"protocol"`
	Country   string   `msgpack:"country" json:"country"`
	Anonymity string   `msgpack:"anonymity" json:"anonymity"`

	TimesFailed      uint32 `msgpack:"times_failed" json:"times_failed"`
	TimesSucceed     uint32 `msgpack:"times_succeed" json:"times_succeed"`
	TimesFailedInRow uint32 `msgpack:"times_failed_in_row" json:"times_failed_in_row"`
}

// EnsureID assigns an identity to records that were decoded from a
// snapshot, which does not carry IDs.
func (r *Record) EnsureID() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
}

// Candidate is one raw entry from an ingestion source. Only URL is
// required; missing attributes default during NewRecord.
type Candidate struct {
	URL       string `json:"url"`
	Protocol  string `json:"protocol,omitempty"`
	Country   string `json:"country,omitempty"`
	Anonymity string `json:"anonymity,omitempty"`
}

// NewRecord validates and normalizes a candidate into a fresh record with
// all counters at zero. The protocol, when not given explicitly, is taken
// from the URL scheme.
func NewRecord(c Candidate) (*Record, error) {
	raw := strings.TrimSpace(c.URL)
	if raw == "" {
		return nil, &ValidationError{Field: "url", Value: c.URL, Reason: "url is required"}
	}

	var proto Protocol
	if c.Protocol != "" {
		p, err := ParseProtocol(c.Protocol)
		if err != nil {
			return nil, err
		}
		proto = p
	}

	// Bare host:port entries are common in list sources; they carry no
	// scheme, so the explicit protocol is mandatory for them.
	if !strings.Contains(raw, "://") {
		if proto == "" {
			return nil, &ValidationError{Field: "url", Value: raw, Reason: "no scheme and no protocol given"}
		}
		raw = string(proto) + "://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ValidationError{Field: "url", Value: c.URL, Reason: fmt.Sprintf("parse: %v", err)}
	}
	if u.Host == "" {
		return nil, &ValidationError{Field: "url", Value: c.URL, Reason: "missing host"}
	}
	if proto == "" {
		proto, err = ParseProtocol(u.Scheme)
		if err != nil {
			return nil, err
		}
	}

	normalized := url.URL{
		Scheme: string(proto),
		User:   u.User,
		Host:   strings.ToLower(u.Host),
	}

	return &Record{
		ID:        uuid.NewString(),
		URL:       normalized.String(),
		Protocol:  proto,
		Country:   orUnknown(c.Country),
		Anonymity: orUnknown(c.Anonymity),
	}, nil
}

func orUnknown(s string) string {
	if s == "" {
		return DefaultUnknown
	}
	return s
}
