package cloudflare

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	providerdrv "github.com/northroot-labs/dnsops/adapters/drivers/provider"
	"github.com/northroot-labs/dnsops/domain/model"
)

// fakeAPI is a minimal Cloudflare v4 API good enough for the driver:
// one zone, an in-memory record table, envelope responses.
type fakeAPI struct {
	mu      sync.Mutex
	zoneID  string
	zone    string
	ns      []string
	records []apiRecord
	nextID  int
	auth    string
}

func (f *fakeAPI) envelope(w http.ResponseWriter, result any) {
	data, _ := json.Marshal(result)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "errors": []any{}, "result": json.RawMessage(data)})
}

func (f *fakeAPI) fail(w http.ResponseWriter, status, code int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"errors":  []map[string]any{{"code": code, "message": msg}},
	})
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Header.Get("Authorization") != "Bearer "+f.auth {
			f.fail(w, http.StatusForbidden, 9109, "Invalid access token")
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/zones":
			if r.URL.Query().Get("name") == f.zone {
				f.envelope(w, []apiZone{{ID: f.zoneID, Name: f.zone, NameServers: f.ns}})
				return
			}
			f.envelope(w, []apiZone{})
		case r.Method == http.MethodPost && r.URL.Path == "/zones":
			var payload struct {
				Name string `json:"name"`
			}
			json.NewDecoder(r.Body).Decode(&payload)
			f.zone = payload.Name
			f.envelope(w, apiZone{ID: f.zoneID, Name: f.zone, NameServers: f.ns})
		case r.Method == http.MethodGet && r.URL.Path == "/zones/"+f.zoneID+"/dns_records":
			f.envelope(w, f.records)
		case r.Method == http.MethodPost && r.URL.Path == "/zones/"+f.zoneID+"/dns_records":
			var rec apiRecord
			json.NewDecoder(r.Body).Decode(&rec)
			f.nextID++
			rec.ID = fmt.Sprintf("rec%d", f.nextID)
			f.records = append(f.records, rec)
			f.envelope(w, rec)
		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/zones/"+f.zoneID+"/dns_records/"):
			id := strings.TrimPrefix(r.URL.Path, "/zones/"+f.zoneID+"/dns_records/")
			var rec apiRecord
			json.NewDecoder(r.Body).Decode(&rec)
			for i := range f.records {
				if f.records[i].ID == id {
					rec.ID = id
					f.records[i] = rec
					f.envelope(w, rec)
					return
				}
			}
			f.fail(w, http.StatusNotFound, 81044, "Record not found")
		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/zones/"+f.zoneID+"/dns_records/"):
			id := strings.TrimPrefix(r.URL.Path, "/zones/"+f.zoneID+"/dns_records/")
			for i := range f.records {
				if f.records[i].ID == id {
					f.records = append(f.records[:i], f.records[i+1:]...)
					f.envelope(w, map[string]string{"id": id})
					return
				}
			}
			f.fail(w, http.StatusNotFound, 81044, "Record not found")
		default:
			f.fail(w, http.StatusNotFound, 7003, "Could not route to "+r.URL.Path)
		}
	})
}

func testDriver(t *testing.T, api *fakeAPI) (providerdrv.Driver, func()) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	factory, ok := providerdrv.GetDriverFactory("cloudflare")
	if !ok {
		t.Fatalf("cloudflare driver not registered")
	}
	drv, err := factory(map[string]string{
		"CLOUDFLARE_API_TOKEN":  api.auth,
		"CLOUDFLARE_ACCOUNT_ID": "acct1",
		"CLOUDFLARE_API_BASE":   srv.URL,
	})
	if err != nil {
		t.Fatalf("factory returned error: %v", err)
	}
	return drv, srv.Close
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		zoneID: "zone1",
		zone:   "example.com",
		ns:     []string{"dee.ns.cloudflare.com", "kim.ns.cloudflare.com"},
		auth:   "test-token",
		records: []apiRecord{
			{ID: "rec1", Type: "A", Name: "example.com", Content: "162.255.119.15", TTL: 1800},
			{ID: "rec2", Type: "CNAME", Name: "www.example.com", Content: "parkingpage.example.net", TTL: 1},
		},
		nextID: 2,
	}
}

func TestFactory_RequiresToken(t *testing.T) {
	factory, ok := providerdrv.GetDriverFactory("cloudflare")
	if !ok {
		t.Fatalf("cloudflare driver not registered")
	}
	if _, err := factory(map[string]string{}); err == nil {
		t.Errorf("factory should require CLOUDFLARE_API_TOKEN")
	}
}

func TestListRecords(t *testing.T) {
	drv, done := testDriver(t, newFakeAPI())
	defer done()

	recs, err := drv.ListRecords(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	want := model.RecordSet{
		{Name: "@", Type: model.RecordTypeA, Value: "162.255.119.15", TTL: 1800},
		{Name: "www", Type: model.RecordTypeCNAME, Value: "parkingpage.example.net"},
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(recs), len(want), recs)
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestCreateUpdateDeleteRecord(t *testing.T) {
	api := newFakeAPI()
	drv, done := testDriver(t, api)
	defer done()
	ctx := context.Background()

	if err := drv.CreateRecord(ctx, "example.com", model.Record{Name: "@", Type: model.RecordTypeA, Value: "185.199.108.153"}); err != nil {
		t.Fatalf("CreateRecord returned error: %v", err)
	}
	if err := drv.UpdateRecord(ctx, "example.com", model.Record{Name: "www", Type: model.RecordTypeCNAME, Value: "example.github.io"}); err != nil {
		t.Fatalf("UpdateRecord returned error: %v", err)
	}
	if err := drv.DeleteRecord(ctx, "example.com", model.Record{Name: "@", Type: model.RecordTypeA, Value: "162.255.119.15"}); err != nil {
		t.Fatalf("DeleteRecord returned error: %v", err)
	}

	recs, err := drv.ListRecords(ctx, "example.com")
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	want := model.RecordSet{
		{Name: "@", Type: model.RecordTypeA, Value: "185.199.108.153"},
		{Name: "www", Type: model.RecordTypeCNAME, Value: "example.github.io"},
	}
	if len(recs) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(recs), len(want), recs)
	}
	for i := range want {
		if recs[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, recs[i], want[i])
		}
	}
}

func TestDeleteRecord_MatchesByValue(t *testing.T) {
	api := newFakeAPI()
	api.records = append(api.records, apiRecord{ID: "rec3", Type: "A", Name: "example.com", Content: "185.199.108.153"})
	drv, done := testDriver(t, api)
	defer done()

	// With two apex A records only the named value may go.
	if err := drv.DeleteRecord(context.Background(), "example.com", model.Record{Name: "@", Type: model.RecordTypeA, Value: "162.255.119.15"}); err != nil {
		t.Fatalf("DeleteRecord returned error: %v", err)
	}
	recs, err := drv.ListRecords(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("ListRecords returned error: %v", err)
	}
	for _, r := range recs {
		if r.Value == "162.255.119.15" {
			t.Errorf("deleted value still present")
		}
	}
	found := false
	for _, r := range recs {
		if r.Value == "185.199.108.153" {
			found = true
		}
	}
	if !found {
		t.Errorf("sibling A record was deleted too")
	}
}

func TestNameservers(t *testing.T) {
	api := newFakeAPI()
	drv, done := testDriver(t, api)
	defer done()

	ns, err := drv.Nameservers(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Nameservers returned error: %v", err)
	}
	if len(ns) != 2 || ns[0] != "dee.ns.cloudflare.com" {
		t.Errorf("Nameservers = %v", ns)
	}
}

func TestZoneNotFound(t *testing.T) {
	drv, done := testDriver(t, newFakeAPI())
	defer done()

	_, err := drv.ListRecords(context.Background(), "other.example")
	if !errors.Is(err, model.ErrZoneNotFound) {
		t.Errorf("error = %v, want ErrZoneNotFound", err)
	}
}

func TestAuthFailureIsProviderError(t *testing.T) {
	api := newFakeAPI()
	api.auth = "other-token"
	srv := httptest.NewServer(api.handler())
	defer srv.Close()

	factory, _ := providerdrv.GetDriverFactory("cloudflare")
	drv, err := factory(map[string]string{
		"CLOUDFLARE_API_TOKEN": "wrong",
		"CLOUDFLARE_API_BASE":  srv.URL,
	})
	if err != nil {
		t.Fatalf("factory returned error: %v", err)
	}
	_, err = drv.ListRecords(context.Background(), "example.com")
	var pe *model.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ProviderError", err)
	}
	if pe.Provider != "cloudflare" {
		t.Errorf("Provider = %s, want cloudflare", pe.Provider)
	}
}

func TestSetNameserversUnsupported(t *testing.T) {
	drv, done := testDriver(t, newFakeAPI())
	defer done()

	err := drv.SetNameservers(context.Background(), "example.com", []string{"ns1.host.invalid"})
	if !errors.Is(err, model.ErrNotSupported) {
		t.Errorf("error = %v, want ErrNotSupported", err)
	}
}
