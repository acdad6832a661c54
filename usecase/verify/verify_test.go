package verify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/northroot-labs/dnsops/domain/model"
)

// fakeReader returns scripted nameserver answers, one per attempt.
type fakeReader struct {
	answers [][]string
	records model.RecordSet
	calls   int
	err     error
}

func (r *fakeReader) Nameservers(ctx context.Context, domain string) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	i := r.calls
	if i >= len(r.answers) {
		i = len(r.answers) - 1
	}
	r.calls++
	return r.answers[i], nil
}

func (r *fakeReader) Records(ctx context.Context, zone string, scope []model.Key) (model.RecordSet, error) {
	return r.records, nil
}

type fakeProber struct {
	probe *model.HTTPProbe
	err   error
}

func (p *fakeProber) Probe(ctx context.Context, target string) (*model.HTTPProbe, error) {
	return p.probe, p.err
}

func TestVerify_ConvergesMidBudget(t *testing.T) {
	reader := &fakeReader{answers: [][]string{
		{"dns1.registrar.invalid", "dns2.registrar.invalid"},
		{"dns1.registrar.invalid", "dns2.registrar.invalid"},
		{"ns1.host.invalid", "ns2.host.invalid"},
	}}
	uc := &UseCase{Reader: reader, Prober: &fakeProber{}}

	out, err := uc.Verify(context.Background(), &Input{
		Zone:        "example.com",
		Expect:      Expectation{Nameservers: []string{"ns1.host.invalid", "ns2.host.invalid"}},
		MaxAttempts: 5,
		Interval:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !out.Matched {
		t.Fatalf("Verify should match on the third attempt, observed %+v", out.Observed)
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", out.Attempts)
	}
}

func TestVerify_ExhaustsBudget(t *testing.T) {
	reader := &fakeReader{answers: [][]string{{"dns1.registrar.invalid"}}}
	uc := &UseCase{Reader: reader, Prober: &fakeProber{}}

	out, err := uc.Verify(context.Background(), &Input{
		Zone:        "example.com",
		Expect:      Expectation{Nameservers: []string{"ns1.host.invalid"}},
		MaxAttempts: 3,
		Interval:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if out.Matched {
		t.Errorf("Verify should not match")
	}
	if out.Attempts != 3 {
		t.Errorf("Attempts = %d, want the full budget of 3", out.Attempts)
	}
	if len(out.Observed.Mismatches) == 0 {
		t.Errorf("last observation should carry the mismatch reasons")
	}
}

func TestVerify_NoDelayAfterFinalAttempt(t *testing.T) {
	reader := &fakeReader{answers: [][]string{{"dns1.registrar.invalid"}}}
	uc := &UseCase{Reader: reader, Prober: &fakeProber{}}

	interval := 250 * time.Millisecond
	out, err := uc.Verify(context.Background(), &Input{
		Zone:        "example.com",
		Expect:      Expectation{Nameservers: []string{"ns1.host.invalid"}},
		MaxAttempts: 2,
		Interval:    interval,
	})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if out.Matched || out.Attempts != 2 {
		t.Fatalf("Matched = %v, Attempts = %d, want exhaustion after 2", out.Matched, out.Attempts)
	}
	// The delay runs between attempts only: one sleep for two attempts.
	if out.Elapsed < interval {
		t.Errorf("Elapsed = %s, want at least one interval (%s)", out.Elapsed, interval)
	}
	if out.Elapsed >= 2*interval {
		t.Errorf("Elapsed = %s, want under MaxAttempts x interval (%s)", out.Elapsed, 2*interval)
	}
}

func TestVerify_OrderInsensitiveNameservers(t *testing.T) {
	reader := &fakeReader{answers: [][]string{{"NS2.Host.Invalid.", "ns1.host.invalid"}}}
	uc := &UseCase{Reader: reader, Prober: &fakeProber{}}

	out, err := uc.Verify(context.Background(), &Input{
		Zone:        "example.com",
		Expect:      Expectation{Nameservers: []string{"ns1.host.invalid", "ns2.host.invalid"}},
		MaxAttempts: 1,
	})
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !out.Matched {
		t.Errorf("nameserver comparison should ignore order, case, and trailing dots: %+v", out.Observed)
	}
}

func TestVerify_ReadErrorCountsAsMismatch(t *testing.T) {
	reader := &fakeReader{err: fmt.Errorf("SERVFAIL")}
	uc := &UseCase{Reader: reader, Prober: &fakeProber{}}

	out, err := uc.Verify(context.Background(), &Input{
		Zone:        "example.com",
		Expect:      Expectation{Nameservers: []string{"ns1.host.invalid"}},
		MaxAttempts: 2,
		Interval:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("transient read errors should not abort the loop, got: %v", err)
	}
	if out.Matched {
		t.Errorf("Verify should not match on read errors")
	}
	if out.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2", out.Attempts)
	}
}

func TestVerify_ForwardingSignature(t *testing.T) {
	parked := &model.HTTPProbe{
		StatusCode: 302,
		Location:   "http://parkingpage.example.net/",
		Server:     "namecheap-nginx",
		Headers:    map[string]string{"x-served-by": "Namecheap URL Forward"},
	}
	hosted := &model.HTTPProbe{
		StatusCode: 200,
		Server:     "GitHub.com",
		Headers:    map[string]string{"server": "GitHub.com"},
	}

	in := func() *Input {
		return &Input{
			Zone:        "example.com",
			ProbeTarget: "http://example.com/",
			Expect: Expectation{
				ForwardingAbsent: true,
				Signature:        model.DefaultForwardingSignature(),
			},
			MaxAttempts: 1,
		}
	}

	uc := &UseCase{Reader: &fakeReader{}, Prober: &fakeProber{probe: parked}}
	out, err := uc.Verify(context.Background(), in())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if out.Matched {
		t.Errorf("Verify should detect the forwarding signature on a parked domain")
	}

	uc = &UseCase{Reader: &fakeReader{}, Prober: &fakeProber{probe: hosted}}
	out, err = uc.Verify(context.Background(), in())
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !out.Matched {
		t.Errorf("Verify should pass once the forwarding signature is gone: %+v", out.Observed)
	}
}

func TestVerify_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &fakeReader{answers: [][]string{{"dns1.registrar.invalid"}}}
	uc := &UseCase{Reader: reader, Prober: &fakeProber{}}

	_, err := uc.Verify(ctx, &Input{
		Zone:        "example.com",
		Expect:      Expectation{Nameservers: []string{"ns1.host.invalid"}},
		MaxAttempts: 5,
		Interval:    time.Hour,
	})
	if err == nil {
		t.Fatalf("Verify should return the context error when cancelled between attempts")
	}
}
