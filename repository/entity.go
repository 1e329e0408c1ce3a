package repository

// Entity is a domain value that can export itself as a map.
type Entity interface {
	// ToMap returns the fields of the entity keyed by name.
	// Nested entities may be returned as is; ToMap flattens them.
	ToMap() map[string]any
}

// ToMap exports e and replaces every nested Entity value with its own export.
//
// Slices of entities are exported element by element.
func ToMap(e Entity) map[string]any {
	if e == nil {
		return nil
	}

	fields := e.ToMap()
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = export(v)
	}

	return out
}

func export(v any) any {
	switch val := v.(type) {
	case Entity:
		return ToMap(val)
	case []Entity:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = ToMap(item)
		}
		return items
	default:
		return v
	}
}
