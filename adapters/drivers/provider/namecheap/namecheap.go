// Package namecheap implements the provider driver for the Namecheap XML
// API. It serves the registrar role: registrar-hosted DNS records
// (getHosts/setHosts) and the domain's nameserver assignment
// (getList/setCustom).
package namecheap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	providerdrv "github.com/northroot-labs/dnsops/adapters/drivers/provider"
	"github.com/northroot-labs/dnsops/domain/model"
)

const defaultAPIURL = "https://api.namecheap.com/xml.response"

var requiredSettings = []string{
	"NAMECHEAP_API_USER",
	"NAMECHEAP_API_KEY",
	"NAMECHEAP_USERNAME",
	"NAMECHEAP_CLIENT_IP",
}

// driver implements the Namecheap provider driver.
type driver struct {
	apiUser  string
	apiKey   string
	username string
	clientIP string
	apiURL   string
	client   *http.Client

	// mu serializes record mutations. setHosts replaces the complete
	// host list, so interleaved getHosts/setHosts cycles from concurrent
	// callers would drop each other's records.
	mu sync.Mutex
}

func (d *driver) ID() string { return "namecheap" }

func init() {
	providerdrv.Register("namecheap", func(settings map[string]string) (providerdrv.Driver, error) {
		get := func(k string) string {
			if settings == nil {
				return ""
			}
			return strings.TrimSpace(settings[k])
		}
		var missing []string
		for _, k := range requiredSettings {
			if get(k) == "" {
				missing = append(missing, k)
			}
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required Namecheap settings: %s", strings.Join(missing, ", "))
		}
		apiURL := get("NAMECHEAP_API_URL")
		if apiURL == "" {
			apiURL = defaultAPIURL
		}
		return &driver{
			apiUser:  get("NAMECHEAP_API_USER"),
			apiKey:   get("NAMECHEAP_API_KEY"),
			username: get("NAMECHEAP_USERNAME"),
			clientIP: get("NAMECHEAP_CLIENT_IP"),
			apiURL:   apiURL,
			client:   &http.Client{Timeout: 30 * time.Second},
		}, nil
	})
}

type apiResponse struct {
	XMLName     xml.Name   `xml:"ApiResponse"`
	Status      string     `xml:"Status,attr"`
	Errors      []apiError `xml:"Errors>Error"`
	Hosts       []apiHost  `xml:"CommandResponse>DomainDNSGetHostsResult>host"`
	Nameservers []string   `xml:"CommandResponse>DomainDNSGetListResult>Nameserver"`
}

type apiError struct {
	Number  string `xml:"Number,attr"`
	Message string `xml:",chardata"`
}

type apiHost struct {
	Name    string `xml:"Name,attr"`
	Type    string `xml:"Type,attr"`
	Address string `xml:"Address,attr"`
	TTL     string `xml:"TTL,attr"`
	MXPref  string `xml:"MXPref,attr"`
}

// parseDomain splits a domain into the SLD/TLD pair the API wants.
func parseDomain(domain string) (string, string, error) {
	parts := strings.Split(strings.TrimSuffix(strings.ToLower(domain), "."), ".")
	if len(parts) < 2 {
		return "", "", &model.ValidationError{Msg: fmt.Sprintf("invalid domain: %s", domain)}
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}

func (d *driver) call(ctx context.Context, command string, params url.Values) (*apiResponse, error) {
	q := url.Values{
		"ApiUser":  {d.apiUser},
		"ApiKey":   {d.apiKey},
		"UserName": {d.username},
		"ClientIp": {d.clientIP},
		"Command":  {command},
	}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.apiURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build namecheap request: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, &model.ProviderError{Provider: "namecheap", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.ProviderError{Provider: "namecheap", Message: err.Error(), Err: err}
	}
	var out apiResponse
	if err := xml.Unmarshal(data, &out); err != nil {
		return nil, &model.ProviderError{Provider: "namecheap", Code: fmt.Sprintf("http %d", resp.StatusCode), Message: "invalid XML response", Err: err}
	}
	if !strings.EqualFold(out.Status, "OK") {
		code, msg := "", "request failed"
		if len(out.Errors) > 0 {
			code = out.Errors[0].Number
			msg = strings.TrimSpace(out.Errors[0].Message)
		}
		return nil, &model.ProviderError{Provider: "namecheap", Code: code, Message: msg}
	}
	return &out, nil
}

func (d *driver) getHosts(ctx context.Context, zone string) ([]apiHost, error) {
	sld, tld, err := parseDomain(zone)
	if err != nil {
		return nil, err
	}
	resp, err := d.call(ctx, "namecheap.domains.dns.getHosts", url.Values{"SLD": {sld}, "TLD": {tld}})
	if err != nil {
		return nil, err
	}
	return resp.Hosts, nil
}

// setHosts replaces the complete host list; Namecheap has no per-record
// mutation, so every change is a read-modify-write of the full set.
func (d *driver) setHosts(ctx context.Context, zone string, hosts []apiHost) error {
	sld, tld, err := parseDomain(zone)
	if err != nil {
		return err
	}
	params := url.Values{"SLD": {sld}, "TLD": {tld}}
	for i, h := range hosts {
		idx := strconv.Itoa(i + 1)
		params.Set("HostName"+idx, h.Name)
		params.Set("RecordType"+idx, h.Type)
		params.Set("Address"+idx, h.Address)
		if h.TTL != "" {
			params.Set("TTL"+idx, h.TTL)
		}
		if h.MXPref != "" {
			params.Set("MXPref"+idx, h.MXPref)
		}
	}
	_, err = d.call(ctx, "namecheap.domains.dns.setHosts", params)
	return err
}

func (d *driver) ListRecords(ctx context.Context, zone string) (model.RecordSet, error) {
	hosts, err := d.getHosts(ctx, zone)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(hosts))
	for _, h := range hosts {
		ttl, _ := strconv.ParseUint(h.TTL, 10, 32)
		out = append(out, model.Record{
			Name:  h.Name,
			Type:  model.RecordType(strings.ToUpper(h.Type)),
			Value: h.Address,
			TTL:   uint32(ttl),
		})
	}
	return model.NormalizeRecords(out, zone)
}

func hostMatches(h apiHost, rec model.Record, zone string, byValue bool) bool {
	n := model.NormalizeRecord(model.Record{Name: h.Name, Type: model.RecordType(strings.ToUpper(h.Type)), Value: h.Address}, zone)
	if n.Name != rec.Name || n.Type != rec.Type {
		return false
	}
	return !byValue || n.Value == rec.Value
}

func toHost(rec model.Record) apiHost {
	ttl := ""
	if rec.TTL > 0 {
		ttl = strconv.FormatUint(uint64(rec.TTL), 10)
	}
	return apiHost{Name: rec.Name, Type: string(rec.Type), Address: rec.Value, TTL: ttl}
}

func (d *driver) CreateRecord(ctx context.Context, zone string, rec model.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	hosts, err := d.getHosts(ctx, zone)
	if err != nil {
		return err
	}
	for _, h := range hosts {
		if hostMatches(h, rec, zone, true) {
			return nil // already present
		}
	}
	return d.setHosts(ctx, zone, append(hosts, toHost(rec)))
}

func (d *driver) UpdateRecord(ctx context.Context, zone string, rec model.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	hosts, err := d.getHosts(ctx, zone)
	if err != nil {
		return err
	}
	found := false
	for i, h := range hosts {
		if hostMatches(h, rec, zone, false) {
			hosts[i] = toHost(rec)
			found = true
			break
		}
	}
	if !found {
		hosts = append(hosts, toHost(rec))
	}
	return d.setHosts(ctx, zone, hosts)
}

func (d *driver) DeleteRecord(ctx context.Context, zone string, rec model.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	hosts, err := d.getHosts(ctx, zone)
	if err != nil {
		return err
	}
	kept := hosts[:0]
	for _, h := range hosts {
		if !hostMatches(h, rec, zone, true) {
			kept = append(kept, h)
		}
	}
	if len(kept) == len(hosts) {
		return nil // already gone
	}
	return d.setHosts(ctx, zone, kept)
}

func (d *driver) Nameservers(ctx context.Context, domain string) ([]string, error) {
	sld, tld, err := parseDomain(domain)
	if err != nil {
		return nil, err
	}
	resp, err := d.call(ctx, "namecheap.domains.dns.getList", url.Values{"SLD": {sld}, "TLD": {tld}})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(resp.Nameservers))
	for _, ns := range resp.Nameservers {
		ns = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(ns), "."))
		if ns != "" {
			out = append(out, ns)
		}
	}
	return out, nil
}

func (d *driver) SetNameservers(ctx context.Context, domain string, nameservers []string) error {
	sld, tld, err := parseDomain(domain)
	if err != nil {
		return err
	}
	if len(nameservers) == 0 {
		return &model.ValidationError{Msg: "at least one nameserver is required"}
	}
	_, err = d.call(ctx, "namecheap.domains.dns.setCustom", url.Values{
		"SLD":         {sld},
		"TLD":         {tld},
		"Nameservers": {strings.Join(nameservers, ",")},
	})
	return err
}
