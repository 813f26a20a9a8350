package mailpreview

import (
	"fmt"
	"sort"
)

// Details describes a preview for listing and detail pages.
type Details struct {
	Title       string
	Description string // markdown
	Tags        Tags
}

// Tag is a single key/value label on a preview.
type Tag struct {
	Key   string
	Value string
}

// Tags is an ordered list of tags.
type Tags []Tag

// Get returns the value of the first tag with the given key.
func (t Tags) Get(key string) (string, bool) {
	for _, tag := range t {
		if tag.Key == key {
			return tag.Value, true
		}
	}
	return "", false
}

// detailsKeys are the only keys accepted in map-shaped details.
var detailsKeys = map[string]bool{
	"title":       true,
	"description": true,
	"tags":        true,
}

// DecodeDetails converts a mapping into Details.
//
// Accepted inputs are Details, *Details, map[string]any and
// map[string]string. Map keys other than title, description and tags are
// rejected with ErrValidation, as is any non-mapping value. Tags may be an
// ordered list of single-entry maps or [key, value] pairs, or a map (which
// is read in sorted key order).
//
// DecodeDetails does not check the title; ResolveMetadata does.
func DecodeDetails(v any) (Details, error) {
	switch d := v.(type) {
	case Details:
		return d, nil
	case *Details:
		if d == nil {
			return Details{}, validationErrorf("details are nil")
		}
		return *d, nil
	case map[string]string:
		m := make(map[string]any, len(d))
		for k, val := range d {
			m[k] = val
		}
		return decodeDetailsMap(m)
	case map[string]any:
		return decodeDetailsMap(d)
	default:
		return Details{}, validationErrorf("details must be a mapping, got %T", v)
	}
}

func decodeDetailsMap(m map[string]any) (Details, error) {
	keys := sortedKeys(m)
	for _, k := range keys {
		if !detailsKeys[k] {
			return Details{}, validationErrorf("unrecognized details key %q (allowed: title, description, tags)", k)
		}
	}

	var d Details
	var err error
	if d.Title, err = stringField(m, "title"); err != nil {
		return Details{}, err
	}
	if d.Description, err = stringField(m, "description"); err != nil {
		return Details{}, err
	}
	if raw, ok := m["tags"]; ok && raw != nil {
		if d.Tags, err = decodeTags(raw); err != nil {
			return Details{}, err
		}
	}
	return d, nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", validationErrorf("details %s must be a string, got %T", key, raw)
	}
	return s, nil
}

func decodeTags(raw any) (Tags, error) {
	switch t := raw.(type) {
	case Tags:
		return t, nil
	case []Tag:
		return Tags(t), nil
	case map[string]string:
		tags := make(Tags, 0, len(t))
		for _, k := range sortedKeys(t) {
			tags = append(tags, Tag{Key: k, Value: t[k]})
		}
		return tags, nil
	case map[string]any:
		tags := make(Tags, 0, len(t))
		for _, k := range sortedKeys(t) {
			tags = append(tags, Tag{Key: k, Value: fmt.Sprint(t[k])})
		}
		return tags, nil
	case []any:
		tags := make(Tags, 0, len(t))
		for i, item := range t {
			tag, err := decodeTag(item)
			if err != nil {
				return nil, fmt.Errorf("tag %d: %w", i, err)
			}
			tags = append(tags, tag)
		}
		return tags, nil
	default:
		return nil, validationErrorf("details tags must be a list or mapping, got %T", raw)
	}
}

func decodeTag(item any) (Tag, error) {
	switch t := item.(type) {
	case Tag:
		return t, nil
	case map[string]any:
		if len(t) != 1 {
			return Tag{}, validationErrorf("tag must have exactly one key, got %d", len(t))
		}
		for k, v := range t {
			return Tag{Key: k, Value: fmt.Sprint(v)}, nil
		}
	case map[string]string:
		if len(t) != 1 {
			return Tag{}, validationErrorf("tag must have exactly one key, got %d", len(t))
		}
		for k, v := range t {
			return Tag{Key: k, Value: v}, nil
		}
	case []any:
		if len(t) != 2 {
			return Tag{}, validationErrorf("tag pair must have two elements, got %d", len(t))
		}
		k, ok := t[0].(string)
		if !ok {
			return Tag{}, validationErrorf("tag key must be a string, got %T", t[0])
		}
		return Tag{Key: k, Value: fmt.Sprint(t[1])}, nil
	}
	return Tag{}, validationErrorf("unsupported tag %T", item)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
