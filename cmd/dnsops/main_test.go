package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/northroot-labs/dnsops/domain/model"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"generic error", fmt.Errorf("boom"), 1},
		{"validation error", &model.ValidationError{Msg: "bad"}, 2},
		{"wrapped validation error", fmt.Errorf("load: %w", &model.ValidationError{Msg: "bad"}), 2},
		{"explicit exit code", ExitCodeError{Code: 2, Err: fmt.Errorf("config")}, 2},
		{"explicit exit code wins", ExitCodeError{Code: 1, Err: &model.ValidationError{Msg: "bad"}}, 1},
		{"provider error", &model.ProviderError{Provider: "cloudflare", Message: "down"}, 1},
		{"convergence error", &model.ConvergenceError{Attempts: 30}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestPrintPlan(t *testing.T) {
	plan := &model.Plan{
		Create: model.RecordSet{
			{Name: "@", Type: model.RecordTypeA, Value: "185.199.108.153"},
		},
		Update: model.RecordSet{
			{Name: "www", Type: model.RecordTypeCNAME, Value: "example.github.io", TTL: 300},
		},
		Delete: model.RecordSet{
			{Name: "@", Type: model.RecordTypeA, Value: "162.255.119.15"},
		},
	}
	var buf bytes.Buffer
	printPlan(&buf, plan)
	got := buf.String()
	want := "create: A @ -> 185.199.108.153\n" +
		"update: CNAME www -> example.github.io (ttl 300)\n" +
		"delete: A @ -> 162.255.119.15\n"
	if got != want {
		t.Errorf("printPlan output:\n%s\nwant:\n%s", got, want)
	}

	buf.Reset()
	printPlan(&buf, &model.Plan{})
	if !strings.Contains(buf.String(), "No changes") {
		t.Errorf("empty plan output = %q", buf.String())
	}
}

func TestGetSnapshotURL_Precedence(t *testing.T) {
	root := newRootCmd()
	if err := root.PersistentFlags().Set("snapshot-url", "sqlite:./test.db"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	if got := getSnapshotURL(root, nil); got != "sqlite:./test.db" {
		t.Errorf("flag should win: %s", got)
	}

	root = newRootCmd()
	t.Setenv("DNSOPS_SNAPSHOT_URL", "file:/tmp/snaps")
	if got := getSnapshotURL(root, nil); got != "file:/tmp/snaps" {
		t.Errorf("env should win over config: %s", got)
	}

	t.Setenv("DNSOPS_SNAPSHOT_URL", "")
	if got := getSnapshotURL(root, nil); got != "file:./snapshots" {
		t.Errorf("default = %s, want file:./snapshots", got)
	}
}
