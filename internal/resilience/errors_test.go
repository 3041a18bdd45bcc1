package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

func TestClassify_Nil(t *testing.T) {
	if got := Classify(nil); got != KindNone {
		t.Errorf("expected KindNone, got %q", got)
	}
	if IsTransient(nil) {
		t.Error("nil error should not be transient")
	}
}

func TestClassify_Context(t *testing.T) {
	if got := Classify(fmt.Errorf("fetch: %w", context.Canceled)); got != KindCanceled {
		t.Errorf("expected KindCanceled, got %q", got)
	}
	if got := Classify(fmt.Errorf("fetch: %w", context.DeadlineExceeded)); got != KindTimeout {
		t.Errorf("expected KindTimeout, got %q", got)
	}
}

func TestClassify_DNS(t *testing.T) {
	err := &net.DNSError{Err: "no such host", Name: "nope.invalid", IsNotFound: true}
	if got := Classify(err); got != KindDNS {
		t.Errorf("expected KindDNS, got %q", got)
	}

	timeout := &net.DNSError{IsTimeout: true, Err: "timeout"}
	if got := Classify(timeout); got != KindTimeout {
		t.Errorf("expected KindTimeout for DNS timeout, got %q", got)
	}
}

func TestClassify_Connection(t *testing.T) {
	for _, errno := range []syscall.Errno{syscall.ECONNRESET, syscall.ECONNREFUSED, syscall.ECONNABORTED} {
		err := fmt.Errorf("dial tcp: %w", errno)
		if got := Classify(err); got != KindConnection {
			t.Errorf("%v: expected KindConnection, got %q", errno, got)
		}
		if !IsTransient(err) {
			t.Errorf("%v: expected transient", errno)
		}
	}
}

func TestClassify_StringPatterns(t *testing.T) {
	tests := []struct {
		msg  string
		want FailureKind
	}{
		{"net/http: TLS handshake timeout", KindTimeout},
		{"read tcp: i/o timeout", KindTimeout},
		{"Client.Timeout exceeded while awaiting headers", KindTimeout},
		{"dial tcp: lookup example.invalid: no such host", KindDNS},
		{"x509: certificate signed by unknown authority", KindTLS},
		{"connection reset by peer", KindConnection},
		{"write: broken pipe", KindConnection},
		{"invalid input: missing field", KindUnknown},
	}
	for _, tt := range tests {
		if got := Classify(errors.New(tt.msg)); got != tt.want {
			t.Errorf("%q: expected %q, got %q", tt.msg, tt.want, got)
		}
	}
}

func TestIsTransient_TLSIsPermanent(t *testing.T) {
	if IsTransient(errors.New("x509: certificate has expired")) {
		t.Error("certificate errors should not be transient")
	}
}

func TestIsTransientHTTPStatus(t *testing.T) {
	transient := []int{408, 429, 500, 502, 503, 504}
	for _, code := range transient {
		if !IsTransientHTTPStatus(code) {
			t.Errorf("expected HTTP %d to be transient", code)
		}
	}

	permanent := []int{200, 201, 400, 401, 403, 404, 405, 409, 422}
	for _, code := range permanent {
		if IsTransientHTTPStatus(code) {
			t.Errorf("expected HTTP %d to NOT be transient", code)
		}
	}
}
