// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/civiclens/civiclens/pkg/types"
)

func testHTTPCfg() types.HTTPConfig {
	return types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "civiclens-test/0.1"}
}

func testSource(id string, kind types.RecordKind, endpoint string) types.Source {
	return types.Source{
		ID:                id,
		Name:              id,
		Kind:              kind,
		Endpoint:          endpoint,
		Format:            types.FormatJSON,
		Credibility:       75,
		Bias:              types.BiasCenter,
		RequestsPerMinute: 6000,
	}
}

func TestPoliticianAdapter_SkipsNamelessEntries(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"members": [
			{"name": "Ada Okafor", "party": "Green", "jurisdiction": "North", "level": "national"},
			{"party": "Blue"},
			{"name": "  ", "party": "Red"},
			{"name": "Ben Ruiz", "constituency": "South"}
		]}`)
	}))
	defer ts.Close()

	a, err := New(testSource("roster", types.KindPolitician, ts.URL), testHTTPCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, stats, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if stats.Fetched != 2 || stats.Skipped != 2 {
		t.Errorf("stats = %+v, want 2 fetched 2 skipped", stats)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	p := records[1].(types.Politician)
	if p.Jurisdiction != "South" {
		t.Errorf("constituency fallback: jurisdiction = %q, want South", p.Jurisdiction)
	}
	if p.Level != "national" {
		t.Errorf("default level = %q, want national", p.Level)
	}
	if got := records[0].NaturalKey(); got != "ada okafor|north|national" {
		t.Errorf("natural key = %q", got)
	}
}

func TestBillAdapter_Paginates(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"bills": [{"number": "HB-101", "session": "2026", "title": "Roads Act"}], "has_more": true}`)
		case "2":
			fmt.Fprint(w, `{"bills": [{"number": "HB-102", "session": "2026"}, {"session": "2026"}], "has_more": false}`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer ts.Close()

	a, err := New(testSource("bills", types.KindBill, ts.URL), testHTTPCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, stats, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if stats.Fetched != 2 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 2 fetched 1 skipped", stats)
	}
	if got := records[0].NaturalKey(); got != "hb-101|2026" {
		t.Errorf("natural key = %q", got)
	}
}

func TestLegalActAdapter_ParsesXML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<acts>
  <act><number>17</number><year>2026</year><title>Data Protection Act</title><adopted>2026-03-01</adopted></act>
  <act><number></number><year>2026</year><title>No number</title></act>
</acts>`)
	}))
	defer ts.Close()

	src := testSource("gazette", types.KindLegalAct, ts.URL)
	src.Format = types.FormatXML
	a, err := New(src, testHTTPCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, stats, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if stats.Fetched != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 fetched 1 skipped", stats)
	}
	act := records[0].(types.LegalAct)
	if act.NaturalKey() != "17|2026" {
		t.Errorf("natural key = %q", act.NaturalKey())
	}
	if act.AdoptedAt.IsZero() {
		t.Error("adopted date not parsed")
	}
}

func TestProcurementAdapter_ValueFormats(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"contracts": [
			{"contract_number": "C-1", "value": 125000.50, "currency": "EUR"},
			{"contract_number": "C-2", "value": "98,500", "currency": "EUR"},
			{"contract_number": "C-3", "value": "n/a"}
		], "has_more": false}`)
	}))
	defer ts.Close()

	a, err := New(testSource("tenders", types.KindProcurement, ts.URL), testHTTPCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, stats, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if stats.Fetched != 3 {
		t.Fatalf("fetched = %d, want 3", stats.Fetched)
	}
	want := []float64{125000.50, 98500, 0}
	for i, w := range want {
		if got := records[i].(types.ProcurementContract).Value; got != w {
			t.Errorf("contract %d value = %v, want %v", i, got, w)
		}
	}
}

func TestNewsAdapter_ParsesRSSAndStripsHTML(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel>
  <title>Wire</title>
  <item>
    <title>Council approves budget</title>
    <link>https://wire.example/budget</link>
    <description>&lt;p&gt;The council &lt;b&gt;approved&lt;/b&gt; the budget.&lt;/p&gt;</description>
    <pubDate>Mon, 02 Mar 2026 10:00:00 GMT</pubDate>
  </item>
  <item><title>No link</title></item>
</channel></rss>`)
	}))
	defer ts.Close()

	src := testSource("wire", types.KindArticle, ts.URL)
	src.Format = types.FormatRSS
	src.Bias = types.BiasLeft
	src.Credibility = 60
	a, err := New(src, testHTTPCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records, stats, err := a.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if stats.Fetched != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 fetched 1 skipped", stats)
	}

	art := records[0].(types.Article)
	if art.NaturalKey() != "https://wire.example/budget" {
		t.Errorf("natural key = %q", art.NaturalKey())
	}
	if art.Summary != "The council approved the budget." {
		t.Errorf("summary = %q, HTML not stripped", art.Summary)
	}
	if art.Credibility != 60 || art.Bias != types.BiasLeft {
		t.Errorf("source metadata not stamped: cred=%d bias=%s", art.Credibility, art.Bias)
	}
	if art.Published.IsZero() {
		t.Error("published date not parsed")
	}
}

func TestAdapter_NonOKSurfacesAsSingleError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	a, err := New(testSource("roster", types.KindPolitician, ts.URL), testHTTPCfg())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, _, err := a.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for HTTP 403")
	}
}

func TestNewRegistry_RejectsDuplicateIDs(t *testing.T) {
	srcs := []types.Source{
		testSource("a", types.KindPolitician, "http://example.invalid/a"),
		testSource("a", types.KindBill, "http://example.invalid/b"),
	}
	if _, err := NewRegistry(srcs, testHTTPCfg()); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestRegistry_AllSortedByID(t *testing.T) {
	srcs := []types.Source{
		testSource("zeta", types.KindPolitician, "http://example.invalid/z"),
		testSource("alpha", types.KindBill, "http://example.invalid/a"),
	}
	r, err := NewRegistry(srcs, testHTTPCfg())
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	all := r.All()
	if len(all) != 2 || all[0].Source().ID != "alpha" || all[1].Source().ID != "zeta" {
		t.Errorf("All() not sorted by id: %v, %v", all[0].Source().ID, all[1].Source().ID)
	}
	if _, ok := r.Get("alpha"); !ok {
		t.Error("Get(alpha) not found")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) unexpectedly found")
	}
}
