// Package azuredns implements the provider driver for Azure DNS zones.
// Like Cloudflare it serves the secondary DNS host role; nameserver
// assignment at the registrar stays with the registrar driver.
package azuredns

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/dns/armdns"

	providerdrv "github.com/northroot-labs/dnsops/adapters/drivers/provider"
	"github.com/northroot-labs/dnsops/domain/model"
)

const defaultRecordTTL = 300

// driver implements the Azure DNS provider driver.
type driver struct {
	resourceGroup string
	zones         *armdns.ZonesClient
	recordSets    *armdns.RecordSetsClient

	// mu serializes record mutations. Multi-value types share one Azure
	// record set per (name, type), mutated by Get then CreateOrUpdate;
	// interleaved cycles from concurrent callers would drop values.
	mu sync.Mutex
}

func (d *driver) ID() string { return "azuredns" }

func init() {
	providerdrv.Register("azuredns", func(settings map[string]string) (providerdrv.Driver, error) {
		get := func(k string) string {
			if settings == nil {
				return ""
			}
			return strings.TrimSpace(settings[k])
		}
		subscriptionID := get("AZURE_SUBSCRIPTION_ID")
		resourceGroup := get("AZURE_RESOURCE_GROUP")
		missing := make([]string, 0, 2)
		if subscriptionID == "" {
			missing = append(missing, "AZURE_SUBSCRIPTION_ID")
		}
		if resourceGroup == "" {
			missing = append(missing, "AZURE_RESOURCE_GROUP")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required Azure DNS settings: %s", strings.Join(missing, ", "))
		}

		var cred azcore.TokenCredential
		var err error
		switch authMethod := get("AZURE_AUTH_METHOD"); authMethod {
		case "client_secret":
			tenantID := get("AZURE_TENANT_ID")
			clientID := get("AZURE_CLIENT_ID")
			clientSecret := get("AZURE_CLIENT_SECRET")
			if tenantID == "" || clientID == "" || clientSecret == "" {
				return nil, fmt.Errorf("client_secret auth requires AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_CLIENT_SECRET")
			}
			cred, err = azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		case "azure_cli":
			cred, err = azidentity.NewAzureCLICredential(nil)
		case "", "default":
			cred, err = azidentity.NewDefaultAzureCredential(nil)
		default:
			return nil, fmt.Errorf("unsupported AZURE_AUTH_METHOD: %s", authMethod)
		}
		if err != nil {
			return nil, fmt.Errorf("create Azure credential: %w", err)
		}

		zones, err := armdns.NewZonesClient(subscriptionID, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("create Azure DNS zones client: %w", err)
		}
		recordSets, err := armdns.NewRecordSetsClient(subscriptionID, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("create Azure DNS record sets client: %w", err)
		}
		return &driver{resourceGroup: resourceGroup, zones: zones, recordSets: recordSets}, nil
	})
}

// wrapErr maps Azure SDK errors into the provider error taxonomy.
func wrapErr(err error) error {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		if respErr.StatusCode == 404 {
			return fmt.Errorf("azuredns: %w", model.ErrZoneNotFound)
		}
		return &model.ProviderError{Provider: "azuredns", Code: respErr.ErrorCode, Message: respErr.Error(), Err: err}
	}
	return &model.ProviderError{Provider: "azuredns", Message: err.Error(), Err: err}
}

func zoneName(zone string) string {
	return strings.ToLower(strings.TrimSuffix(zone, "."))
}

func relativeName(rec model.Record) string {
	if rec.Name == "" {
		return "@"
	}
	return rec.Name
}

func armType(t model.RecordType) (armdns.RecordType, bool) {
	switch t {
	case model.RecordTypeA:
		return armdns.RecordTypeA, true
	case model.RecordTypeAAAA:
		return armdns.RecordTypeAAAA, true
	case model.RecordTypeCNAME:
		return armdns.RecordTypeCNAME, true
	case model.RecordTypeNS:
		return armdns.RecordTypeNS, true
	case model.RecordTypeTXT:
		return armdns.RecordTypeTXT, true
	case model.RecordTypeMX:
		return armdns.RecordTypeMX, true
	}
	return "", false
}

func (d *driver) ListRecords(ctx context.Context, zone string) (model.RecordSet, error) {
	var raw []model.Record
	pager := d.recordSets.NewListByDNSZonePager(d.resourceGroup, zoneName(zone), nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, wrapErr(err)
		}
		for _, rs := range page.Value {
			raw = append(raw, flatten(rs)...)
		}
	}
	return model.NormalizeRecords(raw, zone)
}

// flatten converts one Azure record set into per-value model records.
func flatten(rs *armdns.RecordSet) []model.Record {
	if rs == nil || rs.Properties == nil || rs.Name == nil || rs.Type == nil {
		return nil
	}
	name := *rs.Name
	var ttl uint32
	if rs.Properties.TTL != nil {
		ttl = uint32(*rs.Properties.TTL)
	}
	var out []model.Record
	add := func(t model.RecordType, value string) {
		if value != "" {
			out = append(out, model.Record{Name: name, Type: t, Value: value, TTL: ttl})
		}
	}
	for _, r := range rs.Properties.ARecords {
		if r != nil && r.IPv4Address != nil {
			add(model.RecordTypeA, *r.IPv4Address)
		}
	}
	for _, r := range rs.Properties.AaaaRecords {
		if r != nil && r.IPv6Address != nil {
			add(model.RecordTypeAAAA, *r.IPv6Address)
		}
	}
	if r := rs.Properties.CnameRecord; r != nil && r.Cname != nil {
		add(model.RecordTypeCNAME, *r.Cname)
	}
	for _, r := range rs.Properties.NsRecords {
		if r != nil && r.Nsdname != nil {
			add(model.RecordTypeNS, *r.Nsdname)
		}
	}
	for _, r := range rs.Properties.TxtRecords {
		if r != nil {
			var parts []string
			for _, v := range r.Value {
				if v != nil {
					parts = append(parts, *v)
				}
			}
			add(model.RecordTypeTXT, strings.Join(parts, ""))
		}
	}
	for _, r := range rs.Properties.MxRecords {
		if r != nil && r.Exchange != nil {
			add(model.RecordTypeMX, *r.Exchange)
		}
	}
	return out
}

// upsert reads the existing record set for (name, type), mutates its
// values through mutate, and writes it back.
func (d *driver) upsert(ctx context.Context, zone string, rec model.Record, mutate func(props *armdns.RecordSetProperties)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	at, ok := armType(rec.Type)
	if !ok {
		return &model.ValidationError{Msg: fmt.Sprintf("unsupported record type for Azure DNS: %s", rec.Type)}
	}
	props := &armdns.RecordSetProperties{}
	get, err := d.recordSets.Get(ctx, d.resourceGroup, zoneName(zone), relativeName(rec), at, nil)
	if err == nil && get.Properties != nil {
		props = get.Properties
	} else if err != nil {
		var respErr *azcore.ResponseError
		if !errors.As(err, &respErr) || respErr.StatusCode != 404 {
			return wrapErr(err)
		}
	}
	ttl := int64(rec.TTL)
	if ttl == 0 {
		ttl = defaultRecordTTL
	}
	props.TTL = to.Ptr(ttl)
	mutate(props)
	_, err = d.recordSets.CreateOrUpdate(ctx, d.resourceGroup, zoneName(zone), relativeName(rec), at,
		armdns.RecordSet{Properties: props}, nil)
	if err != nil {
		return wrapErr(err)
	}
	return nil
}

func setValue(props *armdns.RecordSetProperties, rec model.Record, add bool) {
	switch rec.Type {
	case model.RecordTypeA:
		kept := props.ARecords[:0]
		for _, r := range props.ARecords {
			if r != nil && r.IPv4Address != nil && *r.IPv4Address != rec.Value {
				kept = append(kept, r)
			}
		}
		props.ARecords = kept
		if add {
			props.ARecords = append(props.ARecords, &armdns.ARecord{IPv4Address: to.Ptr(rec.Value)})
		}
	case model.RecordTypeAAAA:
		kept := props.AaaaRecords[:0]
		for _, r := range props.AaaaRecords {
			if r != nil && r.IPv6Address != nil && *r.IPv6Address != rec.Value {
				kept = append(kept, r)
			}
		}
		props.AaaaRecords = kept
		if add {
			props.AaaaRecords = append(props.AaaaRecords, &armdns.AaaaRecord{IPv6Address: to.Ptr(rec.Value)})
		}
	case model.RecordTypeCNAME:
		if add {
			props.CnameRecord = &armdns.CnameRecord{Cname: to.Ptr(rec.Value)}
		} else {
			props.CnameRecord = nil
		}
	case model.RecordTypeNS:
		kept := props.NsRecords[:0]
		for _, r := range props.NsRecords {
			if r != nil && r.Nsdname != nil && !strings.EqualFold(strings.TrimSuffix(*r.Nsdname, "."), strings.TrimSuffix(rec.Value, ".")) {
				kept = append(kept, r)
			}
		}
		props.NsRecords = kept
		if add {
			props.NsRecords = append(props.NsRecords, &armdns.NsRecord{Nsdname: to.Ptr(rec.Value)})
		}
	case model.RecordTypeTXT:
		kept := props.TxtRecords[:0]
		for _, r := range props.TxtRecords {
			if r == nil {
				continue
			}
			var parts []string
			for _, v := range r.Value {
				if v != nil {
					parts = append(parts, *v)
				}
			}
			if strings.Join(parts, "") != rec.Value {
				kept = append(kept, r)
			}
		}
		props.TxtRecords = kept
		if add {
			props.TxtRecords = append(props.TxtRecords, &armdns.TxtRecord{Value: []*string{to.Ptr(rec.Value)}})
		}
	case model.RecordTypeMX:
		kept := props.MxRecords[:0]
		for _, r := range props.MxRecords {
			if r != nil && r.Exchange != nil && !strings.EqualFold(strings.TrimSuffix(*r.Exchange, "."), strings.TrimSuffix(rec.Value, ".")) {
				kept = append(kept, r)
			}
		}
		props.MxRecords = kept
		if add {
			props.MxRecords = append(props.MxRecords, &armdns.MxRecord{Exchange: to.Ptr(rec.Value), Preference: to.Ptr(int32(10))})
		}
	}
}

func (d *driver) CreateRecord(ctx context.Context, zone string, rec model.Record) error {
	return d.upsert(ctx, zone, rec, func(props *armdns.RecordSetProperties) { setValue(props, rec, true) })
}

func (d *driver) UpdateRecord(ctx context.Context, zone string, rec model.Record) error {
	// Single-value types replace the whole record set value.
	return d.upsert(ctx, zone, rec, func(props *armdns.RecordSetProperties) { setValue(props, rec, true) })
}

func (d *driver) DeleteRecord(ctx context.Context, zone string, rec model.Record) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	at, ok := armType(rec.Type)
	if !ok {
		return &model.ValidationError{Msg: fmt.Sprintf("unsupported record type for Azure DNS: %s", rec.Type)}
	}
	get, err := d.recordSets.Get(ctx, d.resourceGroup, zoneName(zone), relativeName(rec), at, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == 404 {
			return nil // already gone
		}
		return wrapErr(err)
	}
	props := get.Properties
	if props == nil {
		return nil
	}
	setValue(props, rec, false)
	if empty(props) {
		if _, err := d.recordSets.Delete(ctx, d.resourceGroup, zoneName(zone), relativeName(rec), at, nil); err != nil {
			return wrapErr(err)
		}
		return nil
	}
	_, err = d.recordSets.CreateOrUpdate(ctx, d.resourceGroup, zoneName(zone), relativeName(rec), at,
		armdns.RecordSet{Properties: props}, nil)
	if err != nil {
		return wrapErr(err)
	}
	return nil
}

func empty(props *armdns.RecordSetProperties) bool {
	return len(props.ARecords) == 0 && len(props.AaaaRecords) == 0 && props.CnameRecord == nil &&
		len(props.NsRecords) == 0 && len(props.TxtRecords) == 0 && len(props.MxRecords) == 0
}

func (d *driver) Nameservers(ctx context.Context, domain string) ([]string, error) {
	zone, err := d.zones.Get(ctx, d.resourceGroup, zoneName(domain), nil)
	if err != nil {
		return nil, wrapErr(err)
	}
	var out []string
	if zone.Properties != nil {
		for _, ns := range zone.Properties.NameServers {
			if ns != nil {
				out = append(out, strings.ToLower(strings.TrimSuffix(*ns, ".")))
			}
		}
	}
	return out, nil
}

// SetNameservers is a registrar operation; Azure DNS assigns zone
// nameservers itself.
func (d *driver) SetNameservers(ctx context.Context, domain string, nameservers []string) error {
	return fmt.Errorf("azuredns: set nameservers: %w", model.ErrNotSupported)
}

// CreateZone creates the zone and returns its assigned nameservers.
func (d *driver) CreateZone(ctx context.Context, domain string) ([]string, error) {
	resp, err := d.zones.CreateOrUpdate(ctx, d.resourceGroup, zoneName(domain),
		armdns.Zone{Location: to.Ptr("global")}, nil)
	if err != nil {
		return nil, wrapErr(err)
	}
	var out []string
	if resp.Properties != nil {
		for _, ns := range resp.Properties.NameServers {
			if ns != nil {
				out = append(out, strings.ToLower(strings.TrimSuffix(*ns, ".")))
			}
		}
	}
	return out, nil
}

var _ model.ZoneCreator = (*driver)(nil)
