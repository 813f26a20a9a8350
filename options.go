package mailpreview

// Option is a single key/value configuration entry passed to a preview.
type Option struct {
	Key   string
	Value any
}

// Opt is shorthand for Option{Key: key, Value: value}.
func Opt(key string, value any) Option {
	return Option{Key: key, Value: value}
}

// Options is an ordered list of configuration entries.
//
// Duplicate keys are allowed and later entries win. Group options come
// first and preview options after them, so a preview overrides any key it
// sets again.
type Options []Option

// Get returns the value of the last entry with the given key.
func (o Options) Get(key string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Map flattens the options into a map. Later entries overwrite earlier ones.
func (o Options) Map() map[string]any {
	m := make(map[string]any, len(o))
	for _, opt := range o {
		m[opt.Key] = opt.Value
	}
	return m
}

// MergeOptions returns group followed by local in a new slice.
// Neither input is modified.
func MergeOptions(group, local Options) Options {
	merged := make(Options, 0, len(group)+len(local))
	merged = append(merged, group...)
	merged = append(merged, local...)
	return merged
}
