// Package preflight checks that provider credentials and tooling are
// ready before a run, with actionable guidance instead of hard failures
// unless strict mode asks for them.
package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
)

// Check is the readiness result for one provider.
type Check struct {
	Name    string   `json:"name"`
	OK      bool     `json:"ok"`
	Summary string   `json:"summary"`
	Details []string `json:"details,omitempty"`
}

// Input holds parameters for a preflight run.
type Input struct {
	Require []string `json:"require,omitempty"` // providers that must be ready
	Strict  bool     `json:"strict,omitempty"`  // fail when a required provider is not ready
}

// Output holds all check results.
type Output struct {
	Checks          []Check  `json:"checks"`
	MissingRequired []string `json:"missing_required,omitempty"`
}

// UseCase runs provider readiness checks. The process hooks exist so
// tests can substitute the environment and external commands.
type UseCase struct {
	Getenv   func(string) string
	LookPath func(string) (string, error)
	RunCmd   func(ctx context.Context, name string, args ...string) error
}

// New returns a UseCase bound to the real environment.
func New() *UseCase {
	return &UseCase{
		Getenv:   os.Getenv,
		LookPath: exec.LookPath,
		RunCmd: func(ctx context.Context, name string, args ...string) error {
			cmd := exec.CommandContext(ctx, name, args...)
			cmd.Stdout = nil
			cmd.Stderr = nil
			return cmd.Run()
		},
	}
}

// Names lists the known check names.
func Names() []string { return []string{"cloudflare", "namecheap", "azure", "github"} }

func (u *UseCase) env(name string) string { return strings.TrimSpace(u.Getenv(name)) }

// Run executes every check. When strict is set and a required provider
// is not ready, the error names the missing providers.
func (u *UseCase) Run(ctx context.Context, in *Input) (*Output, error) {
	if in == nil {
		in = &Input{}
	}
	required := map[string]bool{}
	for _, r := range in.Require {
		required[r] = true
	}

	out := &Output{}
	for _, name := range Names() {
		var c Check
		switch name {
		case "cloudflare":
			c = u.checkCloudflare()
		case "namecheap":
			c = u.checkNamecheap()
		case "azure":
			c = u.checkAzure()
		case "github":
			c = u.checkGitHub(ctx)
		}
		out.Checks = append(out.Checks, c)
		if required[name] && !c.OK {
			out.MissingRequired = append(out.MissingRequired, name)
		}
	}
	sort.Strings(out.MissingRequired)

	if in.Strict && len(out.MissingRequired) > 0 {
		return out, fmt.Errorf("required providers not ready: %s", strings.Join(out.MissingRequired, ", "))
	}
	return out, nil
}

func (u *UseCase) checkCloudflare() Check {
	if u.env("CLOUDFLARE_API_TOKEN") != "" {
		return Check{Name: "cloudflare", OK: true, Summary: "Cloudflare token present"}
	}
	return Check{Name: "cloudflare", OK: false, Summary: "Cloudflare token missing", Details: []string{
		"Set CLOUDFLARE_API_TOKEN (and CLOUDFLARE_ACCOUNT_ID if creating zones).",
		"For CI, put these in protected environment secrets.",
	}}
}

func (u *UseCase) checkNamecheap() Check {
	required := []string{"NAMECHEAP_API_USER", "NAMECHEAP_API_KEY", "NAMECHEAP_USERNAME", "NAMECHEAP_CLIENT_IP"}
	var missing []string
	for _, k := range required {
		if u.env(k) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return Check{Name: "namecheap", OK: true, Summary: "Namecheap registrar creds present"}
	}
	return Check{Name: "namecheap", OK: false, Summary: "Namecheap registrar creds missing", Details: []string{
		"Missing: " + strings.Join(missing, ", "),
	}}
}

func (u *UseCase) checkAzure() Check {
	if u.env("AZURE_SUBSCRIPTION_ID") == "" {
		return Check{Name: "azure", OK: false, Summary: "Azure subscription missing", Details: []string{
			"Set AZURE_SUBSCRIPTION_ID and AZURE_RESOURCE_GROUP to use the azuredns driver.",
		}}
	}
	if u.env("AZURE_CLIENT_ID") != "" && u.env("AZURE_TENANT_ID") != "" {
		return Check{Name: "azure", OK: true, Summary: "Azure service principal wiring present"}
	}
	if _, err := u.LookPath("az"); err == nil {
		return Check{Name: "azure", OK: true, Summary: "Azure CLI present", Details: []string{"Run: az login"}}
	}
	return Check{Name: "azure", OK: false, Summary: "Azure auth missing", Details: []string{
		"Local: install az and run: az login",
		"CI preferred: set AZURE_TENANT_ID + AZURE_CLIENT_ID (+ secret or federated credential).",
	}}
}

func (u *UseCase) checkGitHub(ctx context.Context) Check {
	if _, err := u.LookPath("gh"); err != nil {
		return Check{Name: "github", OK: false, Summary: "GitHub CLI missing", Details: []string{
			"Install gh and run: gh auth login",
		}}
	}
	if err := u.RunCmd(ctx, "gh", "auth", "status"); err != nil {
		return Check{Name: "github", OK: false, Summary: "GitHub auth missing", Details: []string{
			"gh found but not authenticated.",
			"Run: gh auth login",
		}}
	}
	return Check{Name: "github", OK: true, Summary: "GitHub auth ready"}
}
