package encoding

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/pthm/mailpreview"
)

// IndexVersion is bumped when the index layout changes incompatibly.
const IndexVersion = 1

// ErrUnknownFormat is returned for formats other than JSON and Msgpack.
var ErrUnknownFormat = errors.New("encoding: unknown index format")

// Format selects the wire format of an index.
type Format string

const (
	JSON    Format = "json"
	Msgpack Format = "msgpack"
)

// ParseFormat maps a format name or file extension ("json", ".msgpack")
// to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.TrimPrefix(strings.ToLower(s), ".")) {
	case JSON:
		return JSON, nil
	case Msgpack, "mpk":
		return Msgpack, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == Msgpack {
		return "application/vnd.msgpack"
	}
	return "application/json"
}

// Index is the serializable listing of a snapshot: groups and previews with
// their metadata, but no artifacts.
type Index struct {
	Version  int     `json:"version" msgpack:"version"`
	Sort     string  `json:"sort" msgpack:"sort"`
	Groups   []Group `json:"groups" msgpack:"groups"`
	Previews []Entry `json:"previews" msgpack:"previews"`
}

// Group is a group in an Index.
type Group struct {
	Path  string `json:"path" msgpack:"path"`
	Title string `json:"title" msgpack:"title"`
}

// Entry is a preview in an Index.
type Entry struct {
	Path        string   `json:"path" msgpack:"path"`
	Group       string   `json:"group,omitempty" msgpack:"group,omitempty"`
	Title       string   `json:"title" msgpack:"title"`
	Description string   `json:"description,omitempty" msgpack:"description,omitempty"`
	Tags        []Tag    `json:"tags" msgpack:"tags"`
	Options     []Option `json:"options,omitempty" msgpack:"options,omitempty"`
}

// Tag is a preview tag in an Index.
type Tag struct {
	Key   string `json:"key" msgpack:"key"`
	Value string `json:"value" msgpack:"value"`
}

// Option is a preview option in an Index. Values that are not strings,
// numbers or booleans are written in their fmt %v form.
type Option struct {
	Key   string `json:"key" msgpack:"key"`
	Value any    `json:"value" msgpack:"value"`
}

// NewIndex builds an index from a snapshot, listing previews in the
// snapshot's sort order.
func NewIndex(snap mailpreview.Snapshot) Index {
	idx := Index{
		Version:  IndexVersion,
		Sort:     sortName(snap.Sort),
		Groups:   make([]Group, 0, len(snap.Groups)),
		Previews: make([]Entry, 0, len(snap.Previews)),
	}
	for _, g := range snap.Groups {
		idx.Groups = append(idx.Groups, Group{Path: g.Path, Title: g.Title})
	}
	for _, p := range snap.Sorted() {
		e := Entry{
			Path:  p.Path,
			Group: p.Group,
			Title: p.Title(),
			Tags:  make([]Tag, 0),
		}
		if p.Metadata != nil {
			e.Description = p.Metadata.Description
			for _, t := range p.Metadata.Tags {
				e.Tags = append(e.Tags, Tag{Key: t.Key, Value: t.Value})
			}
		}
		for _, o := range p.Options {
			e.Options = append(e.Options, Option{Key: o.Key, Value: scalar(o.Value)})
		}
		idx.Previews = append(idx.Previews, e)
	}
	return idx
}

func sortName(s mailpreview.Sort) string {
	switch {
	case s.IsAlpha():
		return "alpha"
	case s.IsNone():
		return "none"
	default:
		return "custom"
	}
}

func scalar(v any) any {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v
	}
	return fmt.Sprint(v)
}

// Encoder writes and reads indexes in one format.
type Encoder struct {
	format Format
}

// NewEncoder creates an encoder for the given format.
func NewEncoder(format Format) (*Encoder, error) {
	if format != JSON && format != Msgpack {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &Encoder{format: format}, nil
}

// Format returns the encoder's format.
func (e *Encoder) Format() Format {
	return e.format
}

// Encode writes idx to w.
func (e *Encoder) Encode(w io.Writer, idx Index) error {
	if e.format == Msgpack {
		return msgpack.NewEncoder(w).Encode(idx)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(idx)
}

// Decode reads an index from r.
func (e *Encoder) Decode(r io.Reader) (Index, error) {
	var idx Index
	var err error
	if e.format == Msgpack {
		err = msgpack.NewDecoder(r).Decode(&idx)
	} else {
		err = json.NewDecoder(r).Decode(&idx)
	}
	if err != nil {
		return Index{}, fmt.Errorf("encoding: decoding %s index: %w", e.format, err)
	}
	if idx.Version != IndexVersion {
		return Index{}, fmt.Errorf("encoding: unsupported index version %d", idx.Version)
	}
	return idx, nil
}
