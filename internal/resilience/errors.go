// Package resilience classifies outbound call failures. Nothing here retries:
// every external call is attempted exactly once and the classification is
// reported to the caller.
package resilience

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"strings"
	"syscall"
)

// FailureKind describes why an outbound call failed.
type FailureKind string

const (
	KindNone       FailureKind = ""
	KindTimeout    FailureKind = "timeout"
	KindDNS        FailureKind = "dns"
	KindConnection FailureKind = "connection"
	KindTLS        FailureKind = "tls"
	KindCanceled   FailureKind = "canceled"
	KindUnknown    FailureKind = "unknown"
)

// Classify maps a transport error to a FailureKind. Checks run from the most
// specific error type to string heuristics for wrapped client errors.
func Classify(err error) FailureKind {
	if err == nil {
		return KindNone
	}

	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return KindTLS
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return KindConnection
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "tls handshake timeout"),
		strings.Contains(msg, "i/o timeout"),
		strings.Contains(msg, "client.timeout exceeded"):
		return KindTimeout
	case strings.Contains(msg, "no such host"),
		strings.Contains(msg, "temporary failure in name resolution"):
		return KindDNS
	case strings.Contains(msg, "x509:"),
		strings.Contains(msg, "tls:"):
		return KindTLS
	case strings.Contains(msg, "connection reset by peer"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "server closed idle connection"):
		return KindConnection
	}

	return KindUnknown
}

// IsTransient returns true if the error looks like a condition that could
// clear up on its own (timeouts, resets, DNS hiccups).
func IsTransient(err error) bool {
	switch Classify(err) {
	case KindTimeout, KindConnection, KindDNS:
		return true
	default:
		return false
	}
}

// IsTransientHTTPStatus returns true if the HTTP status code indicates a
// transient server-side issue.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, // Request Timeout
		429, // Too Many Requests
		500, // Internal Server Error
		502, // Bad Gateway
		503, // Service Unavailable
		504: // Gateway Timeout
		return true
	default:
		return false
	}
}
