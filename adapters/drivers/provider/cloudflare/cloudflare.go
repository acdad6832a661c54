// Package cloudflare implements the provider driver for the Cloudflare
// v4 API. It serves the secondary DNS host role: hosted zone records and
// the nameservers Cloudflare assigns to a zone.
package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	providerdrv "github.com/northroot-labs/dnsops/adapters/drivers/provider"
	"github.com/northroot-labs/dnsops/domain/model"
)

const defaultAPIBase = "https://api.cloudflare.com/client/v4"

// driver implements the Cloudflare provider driver.
type driver struct {
	token     string
	accountID string
	base      string
	client    *http.Client

	mu      sync.Mutex
	zoneIDs map[string]string // zone name -> zone ID
}

func (d *driver) ID() string { return "cloudflare" }

func init() {
	providerdrv.Register("cloudflare", func(settings map[string]string) (providerdrv.Driver, error) {
		get := func(k string) string {
			if settings == nil {
				return ""
			}
			return strings.TrimSpace(settings[k])
		}
		token := get("CLOUDFLARE_API_TOKEN")
		if token == "" {
			return nil, fmt.Errorf("missing required Cloudflare setting: CLOUDFLARE_API_TOKEN")
		}
		base := get("CLOUDFLARE_API_BASE")
		if base == "" {
			base = defaultAPIBase
		}
		return &driver{
			token:     token,
			accountID: get("CLOUDFLARE_ACCOUNT_ID"),
			base:      strings.TrimSuffix(base, "/"),
			client:    &http.Client{Timeout: 30 * time.Second},
			zoneIDs:   map[string]string{},
		}, nil
	})
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Errors  []apiError      `json:"errors"`
	Result  json.RawMessage `json:"result"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type apiZone struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	NameServers []string `json:"name_servers"`
}

type apiRecord struct {
	ID      string `json:"id,omitempty"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
	TTL     int    `json:"ttl,omitempty"`
	Proxied bool   `json:"proxied"`
}

func (d *driver) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode cloudflare payload: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, d.base+path, body)
	if err != nil {
		return fmt.Errorf("build cloudflare request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return &model.ProviderError{Provider: "cloudflare", Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &model.ProviderError{Provider: "cloudflare", Message: err.Error(), Err: err}
	}
	var env apiEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &model.ProviderError{Provider: "cloudflare", Code: fmt.Sprintf("http %d", resp.StatusCode), Message: "invalid API response", Err: err}
	}
	if resp.StatusCode >= 400 || !env.Success {
		msg := "request failed"
		code := fmt.Sprintf("http %d", resp.StatusCode)
		if len(env.Errors) > 0 {
			msg = env.Errors[0].Message
			code = fmt.Sprintf("%d", env.Errors[0].Code)
		}
		return &model.ProviderError{Provider: "cloudflare", Code: code, Message: msg}
	}
	if out != nil && len(env.Result) > 0 {
		if err := json.Unmarshal(env.Result, out); err != nil {
			return &model.ProviderError{Provider: "cloudflare", Message: "decode result", Err: err}
		}
	}
	return nil
}

// zone looks up the zone by name, caching the ID per driver instance.
func (d *driver) zone(ctx context.Context, name string) (*apiZone, error) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	var zones []apiZone
	if err := d.do(ctx, http.MethodGet, "/zones?"+url.Values{"name": {name}}.Encode(), nil, &zones); err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, fmt.Errorf("cloudflare: %q: %w", name, model.ErrZoneNotFound)
	}
	d.mu.Lock()
	d.zoneIDs[name] = zones[0].ID
	d.mu.Unlock()
	return &zones[0], nil
}

func (d *driver) zoneID(ctx context.Context, name string) (string, error) {
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	d.mu.Lock()
	id, ok := d.zoneIDs[name]
	d.mu.Unlock()
	if ok {
		return id, nil
	}
	z, err := d.zone(ctx, name)
	if err != nil {
		return "", err
	}
	return z.ID, nil
}

func (d *driver) listRaw(ctx context.Context, zoneID string) ([]apiRecord, error) {
	var recs []apiRecord
	if err := d.do(ctx, http.MethodGet, "/zones/"+zoneID+"/dns_records?per_page=100", nil, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (d *driver) ListRecords(ctx context.Context, zone string) (model.RecordSet, error) {
	zoneID, err := d.zoneID(ctx, zone)
	if err != nil {
		return nil, err
	}
	recs, err := d.listRaw(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Record, 0, len(recs))
	for _, r := range recs {
		ttl := uint32(r.TTL)
		if r.TTL <= 1 { // 1 means "automatic"
			ttl = 0
		}
		out = append(out, model.Record{
			Name:  r.Name,
			Type:  model.RecordType(r.Type),
			Value: r.Content,
			TTL:   ttl,
		})
	}
	return model.NormalizeRecords(out, zone)
}

// fqdn turns a zone-relative name back into the FQDN Cloudflare expects.
func fqdn(name, zone string) string {
	if name == "@" || name == "" {
		return zone
	}
	return name + "." + zone
}

func toAPIRecord(rec model.Record, zone string) apiRecord {
	ttl := int(rec.TTL)
	if ttl == 0 {
		ttl = 1 // automatic
	}
	return apiRecord{
		Type:    string(rec.Type),
		Name:    fqdn(rec.Name, zone),
		Content: rec.Value,
		TTL:     ttl,
	}
}

func (d *driver) CreateRecord(ctx context.Context, zone string, rec model.Record) error {
	zoneID, err := d.zoneID(ctx, zone)
	if err != nil {
		return err
	}
	return d.do(ctx, http.MethodPost, "/zones/"+zoneID+"/dns_records", toAPIRecord(rec, zone), nil)
}

// findRecordID locates an existing record: by (name, type, value) when
// byValue is set, by (name, type) otherwise.
func (d *driver) findRecordID(ctx context.Context, zoneID, zone string, rec model.Record, byValue bool) (string, error) {
	recs, err := d.listRaw(ctx, zoneID)
	if err != nil {
		return "", err
	}
	want := fqdn(rec.Name, zone)
	for _, r := range recs {
		if !strings.EqualFold(r.Type, string(rec.Type)) || !strings.EqualFold(strings.TrimSuffix(r.Name, "."), want) {
			continue
		}
		if byValue && !strings.EqualFold(strings.TrimSuffix(r.Content, "."), strings.TrimSuffix(rec.Value, ".")) {
			continue
		}
		return r.ID, nil
	}
	return "", &model.ProviderError{Provider: "cloudflare", Message: fmt.Sprintf("record %s not found", rec)}
}

func (d *driver) UpdateRecord(ctx context.Context, zone string, rec model.Record) error {
	zoneID, err := d.zoneID(ctx, zone)
	if err != nil {
		return err
	}
	// Multi-value types never produce updates from the differ, so the
	// (name, type) identity is enough here.
	id, err := d.findRecordID(ctx, zoneID, zone, rec, false)
	if err != nil {
		return err
	}
	return d.do(ctx, http.MethodPut, "/zones/"+zoneID+"/dns_records/"+id, toAPIRecord(rec, zone), nil)
}

func (d *driver) DeleteRecord(ctx context.Context, zone string, rec model.Record) error {
	zoneID, err := d.zoneID(ctx, zone)
	if err != nil {
		return err
	}
	id, err := d.findRecordID(ctx, zoneID, zone, rec, true)
	if err != nil {
		return err
	}
	return d.do(ctx, http.MethodDelete, "/zones/"+zoneID+"/dns_records/"+id, nil, nil)
}

func (d *driver) Nameservers(ctx context.Context, domain string) ([]string, error) {
	z, err := d.zone(ctx, domain)
	if err != nil {
		return nil, err
	}
	return z.NameServers, nil
}

// SetNameservers is a registrar operation; Cloudflare assigns zone
// nameservers itself.
func (d *driver) SetNameservers(ctx context.Context, domain string, nameservers []string) error {
	return fmt.Errorf("cloudflare: set nameservers: %w", model.ErrNotSupported)
}

// CreateZone creates a full zone and returns its assigned nameservers.
func (d *driver) CreateZone(ctx context.Context, domain string) ([]string, error) {
	if d.accountID == "" {
		return nil, &model.ValidationError{Msg: "creating a Cloudflare zone requires CLOUDFLARE_ACCOUNT_ID"}
	}
	payload := map[string]any{
		"name":    strings.ToLower(strings.TrimSuffix(domain, ".")),
		"account": map[string]string{"id": d.accountID},
		"type":    "full",
	}
	var z apiZone
	if err := d.do(ctx, http.MethodPost, "/zones", payload, &z); err != nil {
		return nil, err
	}
	d.mu.Lock()
	d.zoneIDs[strings.ToLower(strings.TrimSuffix(domain, "."))] = z.ID
	d.mu.Unlock()
	return z.NameServers, nil
}

var _ model.ZoneCreator = (*driver)(nil)
