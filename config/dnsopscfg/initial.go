package dnsopscfg

import "fmt"

// DefaultConfigPath is the configuration file the CLI looks for when
// --config is not set.
const DefaultConfigPath = "dnsops.yml"

// InitialConfigYAML returns a starter dnsops.yml for a registrar-parked
// domain moving to GitHub Pages. Every credential goes through env:
// indirection so the file is safe to commit.
func InitialConfigYAML(domain string) []byte {
	if domain == "" {
		domain = "example.com"
	}
	return []byte(fmt.Sprintf(`version: v1
domain: %[1]s

registrar:
  name: namecheap
  driver: namecheap
  settings:
    NAMECHEAP_API_USER: env:NAMECHEAP_API_USER
    NAMECHEAP_API_KEY: env:NAMECHEAP_API_KEY
    NAMECHEAP_USERNAME: env:NAMECHEAP_USERNAME
    NAMECHEAP_CLIENT_IP: env:NAMECHEAP_CLIENT_IP

dns:
  name: cloudflare
  driver: cloudflare
  settings:
    CLOUDFLARE_API_TOKEN: env:CLOUDFLARE_API_TOKEN
    CLOUDFLARE_ACCOUNT_ID: env:CLOUDFLARE_ACCOUNT_ID

records:
  desired:
    - {name: "@", type: A, value: 185.199.108.153, ttl: 300}
    - {name: "@", type: A, value: 185.199.109.153, ttl: 300}
    - {name: "@", type: A, value: 185.199.110.153, ttl: 300}
    - {name: "@", type: A, value: 185.199.111.153, ttl: 300}
    - {name: www, type: CNAME, value: OWNER.github.io, ttl: 300}
  managed:
    - {name: "@", type: A}
    - {name: www, type: CNAME}

verify:
  attempts: 30
  interval: 10s
  resolver: 1.1.1.1

snapshots:
  url: file:./snapshots
`, domain))
}
