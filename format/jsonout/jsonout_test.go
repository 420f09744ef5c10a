package jsonout

import (
	"bytes"
	"testing"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
	"github.com/lehigh-university-libraries/authorship/mapping"
)

func sampleRecord() *hub.Record {
	rec := hub.NewRecord("jats")
	rec.ID = "10.1234/abc"
	rec.Title = "H<sub>2</sub>O &amp; ice"
	rec.Keywords = []hub.Keyword{{System: "author", String: "water"}}
	rec.PubDates = []hub.PubDate{{Type: "epub", Year: 2024, Month: 3, Raw: "Mar 2024"}}
	rec.License = hub.NewLicense("", "https://creativecommons.org/licenses/by/4.0/", "")
	rec.Names = []hub.Name{
		hub.ParsedName{Given: "John", Surname: "Smith", NameRaw: "Smith, John"},
		hub.Collaboration{Collab: "Planck Collaboration", NameRaw: "The Planck collaboration"},
	}
	rec.Contributors.Authors = []hub.Contributor{{
		Surname:        "García",
		Given:          "Ana",
		Correspondence: true,
		Affiliations:   []string{"Lehigh University"},
		AffiliationIDs: [][]hub.ExtraID{{{Type: "ror", Value: "https://ror.org/012345"}}},
		ORCID:          "0000-0002-1825-0097",
	}}
	rec.SetExtra("volume", "12")
	return rec
}

func readBack(t *testing.T, data []byte) []*structpb.Value {
	t.Helper()
	var list structpb.ListValue
	if err := protojson.Unmarshal(data, &list); err != nil {
		t.Fatalf("output is not a JSON array: %v\n%s", err, data)
	}
	return list.Values
}

func TestSerialize(t *testing.T) {
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*hub.Record{sampleRecord()}, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	values := readBack(t, buf.Bytes())
	if len(values) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(values))
	}
	rec := values[0].GetStructValue().AsMap()

	if rec["title"] != "H<sub>2</sub>O &amp; ice" {
		t.Errorf("title: got %v", rec["title"])
	}
	if rec["pub_date"] != "2024-03" {
		t.Errorf("pub_date: got %v", rec["pub_date"])
	}
	if _, ok := rec["abstract"]; ok {
		t.Error("empty abstract should be omitted")
	}

	license := rec["license"].(map[string]any)
	if license["type"] != "CC BY 4.0" || license["open_access"] != true {
		t.Errorf("license: got %v", license)
	}

	names := rec["names"].([]any)
	if len(names) != 2 {
		t.Fatalf("Expected 2 names, got %d", len(names))
	}
	if smith := names[0].(map[string]any); smith["inverted"] != "Smith, John" || smith["middle"] != "" {
		t.Errorf("name 0: got %v", smith)
	}
	if collab := names[1].(map[string]any); collab["collab"] != "Planck Collaboration" {
		t.Errorf("name 1: got %v", collab)
	}

	authors := rec["authors"].([]any)
	ana := authors[0].(map[string]any)
	if ana["correspondence"] != true || ana["orcid"] != "0000-0002-1825-0097" {
		t.Errorf("author 0: got %v", ana)
	}
	ids := ana["affiliation_ids"].([]any)[0].([]any)
	if ids[0].(map[string]any)["type"] != "ror" {
		t.Errorf("affiliation ids: got %v", ids)
	}

	if extra := rec["extra"].(map[string]any); extra["volume"] != "12" {
		t.Errorf("extra: got %v", extra)
	}
}

func TestSerializeIncludeEmpty(t *testing.T) {
	profile, err := mapping.LoadProfileFromString("name: full\noptions:\n  include_empty: true\n")
	if err != nil {
		t.Fatalf("LoadProfileFromString: %v", err)
	}
	opts := format.NewSerializeOptions()
	opts.Profile = profile

	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, []*hub.Record{hub.NewRecord("dublincore")}, opts); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	rec := readBack(t, buf.Bytes())[0].GetStructValue().AsMap()
	for _, key := range []string{"abstract", "comments", "authors", "license"} {
		if _, ok := rec[key]; !ok {
			t.Errorf("%s missing with include_empty", key)
		}
	}
}

func TestSerializeEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (&Format{}).Serialize(&buf, nil, nil); err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}
	if got := readBack(t, buf.Bytes()); len(got) != 0 {
		t.Errorf("Expected empty array, got %v", got)
	}
}
