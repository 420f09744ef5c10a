package format

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/lehigh-university-libraries/authorship/hub"
)

type fakeFormat struct {
	name   string
	exts   []string
	marker string
}

func (f *fakeFormat) Name() string         { return f.name }
func (f *fakeFormat) Description() string  { return f.name }
func (f *fakeFormat) Extensions() []string { return f.exts }
func (f *fakeFormat) CanParse(peek []byte) bool {
	return f.marker != "" && bytes.Contains(peek, []byte(f.marker))
}
func (f *fakeFormat) Parse(io.Reader, *ParseOptions) ([]*hub.Record, error) {
	return nil, nil
}

type fakeSerializer struct{ fakeFormat }

func (f *fakeSerializer) Serialize(io.Writer, []*hub.Record, *SerializeOptions) error {
	return nil
}

type writeOnly struct{ name string }

func (f *writeOnly) Name() string         { return f.name }
func (f *writeOnly) Description() string  { return f.name }
func (f *writeOnly) Extensions() []string { return []string{"xml"} }
func (f *writeOnly) CanParse([]byte) bool { return true }
func (f *writeOnly) Serialize(io.Writer, []*hub.Record, *SerializeOptions) error {
	return nil
}

func newTestRegistry() *Registry {
	r := NewRegistry()
	r.Register(&fakeFormat{name: "jats", exts: []string{"xml", "nxml"}, marker: "<article"})
	r.Register(&fakeFormat{name: "dublincore", exts: []string{"xml", "dc"}, marker: "purl.org/dc"})
	r.Register(&writeOnly{name: "json"})
	return r
}

func TestRegistryList(t *testing.T) {
	r := newTestRegistry()

	if got, want := r.List(), []string{"dublincore", "jats", "json"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}
	if got, want := r.Parsers(), []string{"dublincore", "jats"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Parsers() = %v, want %v", got, want)
	}
	if got, want := r.Serializers(), []string{"json"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Serializers() = %v, want %v", got, want)
	}
}

func TestRegistryLookups(t *testing.T) {
	r := newTestRegistry()

	if _, err := r.GetParser("JATS"); err != nil {
		t.Errorf("GetParser is case-insensitive: %v", err)
	}
	if _, err := r.GetParser("json"); err == nil {
		t.Error("json has no parser")
	}
	if _, err := r.GetSerializer("jats"); err == nil {
		t.Error("jats has no serializer")
	}
	if _, err := r.GetParser("marc"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestDetectFormat(t *testing.T) {
	r := newTestRegistry()

	tests := []struct {
		name     string
		filename string
		peek     string
		want     string
		wantErr  bool
	}{
		{"unique extension", "paper.nxml", "", "jats", false},
		{"shared extension by content", "record.xml", `<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">`, "dublincore", false},
		{"shared extension jats", "paper.xml", `<?xml version="1.0"?><article>`, "jats", false},
		{"content only", "stdin", "  <article>", "jats", false},
		{"nothing matches", "notes.txt", "plain text", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := r.DetectFormat(tt.filename, []byte(tt.peek))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %s", f.Name())
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectFormat: %v", err)
			}
			if f.Name() != tt.want {
				t.Errorf("got %s, want %s", f.Name(), tt.want)
			}
		})
	}
}

func TestSerializeOptionsSeparator(t *testing.T) {
	var none *SerializeOptions
	if got := none.Separator(); got != "|" {
		t.Errorf("nil options: %q", got)
	}
	opts := NewSerializeOptions()
	opts.MultiValueSeparator = ";"
	if got := opts.Separator(); got != ";" {
		t.Errorf("explicit separator: %q", got)
	}
}

func TestToolkitDefaults(t *testing.T) {
	var opts *ParseOptions
	tk, err := opts.Toolkit()
	if err != nil {
		t.Fatalf("Toolkit: %v", err)
	}
	if tk.Tables == nil || tk.Names == nil || tk.Resolver == nil || tk.Converter == nil {
		t.Fatal("toolkit has nil components")
	}
	if got := tk.Detag(nil, "title"); got != "" {
		t.Errorf("Detag(nil) = %q", got)
	}
}
