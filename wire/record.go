package wire

// KV is one caller-supplied field assignment. Caller lists are
// unordered and carry unique keys; keys a target schema does not
// declare are ignored.
type KV struct {
	Key   string
	Value any
}

// UnsetValue is the sentinel stored for schema fields that were neither
// supplied by the caller nor covered by a default. It is distinct from
// every empty value.
type UnsetValue struct{}

// Unset is the canonical unset sentinel.
var Unset UnsetValue

func (UnsetValue) String() string {
	return "unset"
}

// IsSet reports whether v is a real value rather than the unset sentinel.
func IsSet(v any) bool {
	_, unset := v.(UnsetValue)
	return !unset
}

// Record is a fixed-schema protocol record: one positional value per
// schema field, in schema-declared order. Records are immutable value
// types; all accessors copy.
type Record struct {
	schema Schema
	values []any
}

// BuildRecord assembles the record for schemaName from a key/value list.
// Fields covered by the schema's default table and absent from the list
// are filled with their defaults; an explicit caller value always wins,
// even when it equals the default. Fields with neither a value nor a
// default resolve to Unset. Building a record from its own KV projection
// yields the same record.
func BuildRecord(schemaName string, kvs []KV) (Record, error) {
	schema, err := LookupSchema(schemaName)
	if err != nil {
		return Record{}, err
	}
	return buildFromSchema(schema, kvs), nil
}

// BuildProperties assembles a basic.properties record. The property
// schema carries no defaults, so absent fields resolve to Unset.
func BuildProperties(kvs []KV) Record {
	schema, _ := LookupSchema(PropertiesSchema)
	return buildFromSchema(schema, kvs)
}

func buildFromSchema(schema Schema, kvs []KV) Record {
	merged := make(map[string]any, len(kvs)+len(schema.Defaults))
	for _, kv := range kvs {
		if _, exists := merged[kv.Key]; !exists {
			merged[kv.Key] = kv.Value
		}
	}
	for name, def := range schema.Defaults {
		if _, exists := merged[name]; !exists {
			merged[name] = def
		}
	}
	values := make([]any, len(schema.Fields))
	for i, name := range schema.Fields {
		if v, exists := merged[name]; exists {
			values[i] = v
		} else {
			values[i] = Unset
		}
	}
	return Record{schema: schema, values: values}
}

// DecodeProperties returns the key/value view of a record: the schema's
// field names zipped with the positional values, in schema order. The
// view always has one entry per schema field.
func DecodeProperties(rec Record) []KV {
	return rec.KV()
}

// SchemaName returns the name of the schema the record was built for.
func (r Record) SchemaName() string {
	return r.schema.Name
}

// Fields returns the schema field names in wire order.
func (r Record) Fields() []string {
	fields := make([]string, len(r.schema.Fields))
	copy(fields, r.schema.Fields)
	return fields
}

// Values returns the positional field values in wire order.
func (r Record) Values() []any {
	values := make([]any, len(r.values))
	copy(values, r.values)
	return values
}

// Len returns the number of schema fields.
func (r Record) Len() int {
	return len(r.values)
}

// Get returns the value of the named field. The second result is false
// when the schema does not declare the field at all; an Unset value
// still reports true.
func (r Record) Get(name string) (any, bool) {
	for i, field := range r.schema.Fields {
		if field == name {
			return r.values[i], true
		}
	}
	return nil, false
}

// IsSet reports whether the named field carries a real value.
func (r Record) IsSet(name string) bool {
	v, exists := r.Get(name)
	return exists && IsSet(v)
}

// KV returns the record as a key/value list in schema order, including
// Unset entries.
func (r Record) KV() []KV {
	kvs := make([]KV, len(r.values))
	for i, field := range r.schema.Fields {
		kvs[i] = KV{Key: field, Value: r.values[i]}
	}
	return kvs
}
