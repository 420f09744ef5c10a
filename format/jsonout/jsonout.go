// Package jsonout writes records as JSON through structpb, so the output
// has the same shape protobuf consumers of the records see.
package jsonout

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lehigh-university-libraries/authorship/format"
	"github.com/lehigh-university-libraries/authorship/hub"
)

// Format implements the JSON output format.
type Format struct{}

var (
	_ format.Format     = (*Format)(nil)
	_ format.Serializer = (*Format)(nil)
)

// Name returns the format identifier.
func (f *Format) Name() string {
	return "json"
}

// Description returns a human-readable format description.
func (f *Format) Description() string {
	return "JSON array of records with resolved contributors"
}

// Extensions returns file extensions associated with this format.
func (f *Format) Extensions() []string {
	return []string{"json"}
}

// CanParse always returns false: JSON is an output format only.
func (f *Format) CanParse(peek []byte) bool {
	return false
}

// Serialize writes records as a JSON array.
func (f *Format) Serialize(w io.Writer, records []*hub.Record, opts *format.SerializeOptions) error {
	includeEmpty := opts != nil && opts.Profile != nil && opts.Profile.Options.IncludeEmpty
	pretty := opts == nil || opts.Pretty

	list := &structpb.ListValue{}
	for i, rec := range records {
		s, err := structpb.NewStruct(RecordMap(rec, includeEmpty))
		if err != nil {
			return fmt.Errorf("converting record %d: %w", i, err)
		}
		list.Values = append(list.Values, structpb.NewStructValue(s))
	}
	return Write(w, list, pretty)
}

// Write marshals m with protojson and ends the output with a newline.
func Write(w io.Writer, m proto.Message, pretty bool) error {
	opts := protojson.MarshalOptions{}
	if pretty {
		opts.Multiline = true
		opts.Indent = "  "
	}
	data, err := opts.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

func init() {
	format.Register(&Format{})
}
