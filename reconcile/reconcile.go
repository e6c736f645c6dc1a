package reconcile

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the expected shape of a document field.
type Kind string

const (
	KindString    Kind = "string"
	KindBool      Kind = "bool"
	KindNumber    Kind = "number"
	KindArray     Kind = "array"
	KindObject    Kind = "object"
	KindTimestamp Kind = "timestamp"
)

// Field declares one expected top-level field of a user document.
type Field struct {
	Name string
	Kind Kind

	// Nullable fields keep an explicit null as a legitimate value
	// (event timestamps such as verifiedAt are null until the event).
	// A null in a non-nullable field counts as missing.
	Nullable bool

	Default     interface{}
	DefaultFunc func(docID string) interface{}

	// SubKeys lists required members of an object field. Missing sub-keys
	// are merged in without touching the ones already present.
	SubKeys []SubKey

	// Members lists required elements of an array field, matched by their
	// "name" key. Missing members are synthesized and appended; existing
	// elements are never rewritten.
	Members []Member
}

// SubKey is one required key inside an object field.
type SubKey struct {
	Name     string
	Nullable bool
	Default  interface{}
}

// Member is one required element of an array field.
type Member struct {
	Name string
	Make func(docID string) map[string]interface{}
}

// Lift moves a legacy field into its canonical home and deletes the legacy
// copy. When the canonical location already holds data the legacy value is
// dropped rather than duplicated.
type Lift struct {
	From    string
	ToField string
	ToKey   string // empty for scalar-to-scalar lifts
}

// Spec is the full declarative field specification for one document type.
type Spec struct {
	Fields []Field
	Lifts  []Lift
}

// Mismatch reports a field present with the wrong shape.
type Mismatch struct {
	Field    string
	Expected Kind
	Actual   string
}

// Result is the computed patch description. Applying Patch and Deletes to the
// input document and reconciling again yields an empty Result.
type Result struct {
	MissingFields  []string
	TypeMismatches []Mismatch
	Patch          map[string]interface{}
	Deletes        []string
	FieldsCreated  int
}

// Empty reports whether the document already conforms.
func (r *Result) Empty() bool {
	return len(r.Patch) == 0 && len(r.Deletes) == 0
}

// Reconcile computes the minimal patch bringing doc into conformance with
// spec. A nil doc reports every field missing; the caller decides whether
// that means "create" or "error". Reconcile never mutates doc and is
// deterministic for a given (docID, doc) pair.
func Reconcile(docID string, doc map[string]interface{}, spec Spec) Result {
	res := Result{Patch: map[string]interface{}{}}

	fields := map[string]Field{}
	for _, f := range spec.Fields {
		fields[f.Name] = f
	}

	// Lifted values waiting to land inside an object field.
	lifted := map[string]map[string]interface{}{}

	for _, l := range spec.Lifts {
		raw, ok := lookup(doc, l.From)
		if !ok {
			continue
		}
		res.Deletes = append(res.Deletes, l.From)
		if raw == nil || !liftable(fields[l.ToField], l.ToKey, raw) {
			// A malformed legacy value is dropped with its field; the
			// canonical default lands in the same pass.
			continue
		}
		if l.ToKey == "" {
			if !occupied(lookup(doc, l.ToField)) {
				res.Patch[l.ToField] = raw
			}
			continue
		}
		target, _ := asMap(lookupRaw(doc, l.ToField))
		if !occupied(target[l.ToKey], target[l.ToKey] != nil) {
			if lifted[l.ToField] == nil {
				lifted[l.ToField] = map[string]interface{}{}
			}
			lifted[l.ToField][l.ToKey] = raw
		}
	}

	for _, f := range spec.Fields {
		raw, present := lookup(doc, f.Name)

		if !present || (raw == nil && !f.Nullable) {
			res.MissingFields = append(res.MissingFields, f.Name)
			res.FieldsCreated++
			if _, patched := res.Patch[f.Name]; !patched {
				res.Patch[f.Name] = defaultFor(docID, f, lifted[f.Name])
			}
			continue
		}
		if raw == nil {
			continue // nullable, null is fine
		}

		actual := kindOf(raw)
		if !kindMatches(f.Kind, actual) {
			res.TypeMismatches = append(res.TypeMismatches, Mismatch{
				Field:    f.Name,
				Expected: f.Kind,
				Actual:   actual,
			})
			res.Patch[f.Name] = defaultFor(docID, f, lifted[f.Name])
			continue
		}

		switch f.Kind {
		case KindArray:
			if len(f.Members) > 0 {
				if patched, created, ok := completeMembers(docID, raw, f.Members); ok {
					res.Patch[f.Name] = patched
					res.FieldsCreated += created
				}
			}
		case KindObject:
			if patched, created, ok := mergeSubKeys(raw, f.SubKeys, lifted[f.Name]); ok {
				res.Patch[f.Name] = patched
				res.FieldsCreated += created
			}
		}
	}

	enforceBillingVisibility(doc, &res)
	return res
}

// enforceBillingVisibility forces billing.billingVisible to false whenever
// the document is not KYC verified. This is the drift the one-off scripts in
// the original tooling existed to re-fix.
func enforceBillingVisibility(doc map[string]interface{}, res *Result) {
	status, _ := effective(doc, res, "kycStatus").(string)
	if status == "verified" {
		return
	}
	billing, ok := asMap(effective(doc, res, "billing"))
	if !ok {
		return
	}
	visible, _ := billing["billingVisible"].(bool)
	if !visible {
		return
	}
	fixed := copyMap(billing)
	fixed["billingVisible"] = false
	res.Patch["billing"] = fixed
}

func effective(doc map[string]interface{}, res *Result, name string) interface{} {
	if v, ok := res.Patch[name]; ok {
		return v
	}
	v, _ := lookup(doc, name)
	return v
}

func defaultFor(docID string, f Field, liftedKeys map[string]interface{}) interface{} {
	if f.DefaultFunc != nil {
		return f.DefaultFunc(docID)
	}
	switch f.Kind {
	case KindArray:
		out := []interface{}{}
		for _, m := range f.Members {
			out = append(out, m.Make(docID))
		}
		return out
	case KindObject:
		out := map[string]interface{}{}
		for _, sk := range f.SubKeys {
			if v, ok := liftedKeys[sk.Name]; ok {
				out[sk.Name] = v
				continue
			}
			out[sk.Name] = sk.Default
		}
		return out
	}
	return f.Default
}

// completeMembers appends the required members absent from arr, preserving
// every existing element untouched. Matching is by the "name" key so a
// re-run never re-appends a member that is already there.
func completeMembers(docID string, arr interface{}, members []Member) ([]interface{}, int, bool) {
	elems, ok := asSlice(arr)
	if !ok {
		return nil, 0, false
	}
	have := map[string]bool{}
	for _, e := range elems {
		if m, ok := asMap(e); ok {
			if name, ok := m["name"].(string); ok {
				have[name] = true
			}
		}
	}
	out := make([]interface{}, len(elems))
	copy(out, elems)
	created := 0
	for _, m := range members {
		if have[m.Name] {
			continue
		}
		out = append(out, m.Make(docID))
		created++
	}
	if created == 0 {
		return nil, 0, false
	}
	return out, created, true
}

func mergeSubKeys(obj interface{}, subKeys []SubKey, liftedKeys map[string]interface{}) (map[string]interface{}, int, bool) {
	m, ok := asMap(obj)
	if !ok {
		return nil, 0, false
	}
	merged := copyMap(m)
	created := 0
	for _, sk := range subKeys {
		cur, present := merged[sk.Name]
		if present && (cur != nil || sk.Nullable) {
			// Lifted legacy data still wins over an empty placeholder.
			if s, isStr := cur.(string); isStr && s == "" {
				if v, ok := liftedKeys[sk.Name]; ok {
					merged[sk.Name] = v
					created++
				}
			}
			continue
		}
		if v, ok := liftedKeys[sk.Name]; ok {
			merged[sk.Name] = v
		} else {
			merged[sk.Name] = sk.Default
		}
		created++
	}
	if created == 0 {
		return nil, 0, false
	}
	return merged, created, true
}

// liftable reports whether a legacy value has the shape its canonical home
// expects: the target field's Kind for scalar lifts, the sub-key default's
// shape for lifts into an object.
func liftable(target Field, toKey string, raw interface{}) bool {
	if toKey == "" {
		return kindMatches(target.Kind, kindOf(raw))
	}
	for _, sk := range target.SubKeys {
		if sk.Name == toKey {
			if sk.Default == nil {
				return true
			}
			return kindOf(sk.Default) == kindOf(raw)
		}
	}
	return true
}

func lookup(doc map[string]interface{}, name string) (interface{}, bool) {
	if doc == nil {
		return nil, false
	}
	v, ok := doc[name]
	return v, ok
}

func lookupRaw(doc map[string]interface{}, name string) interface{} {
	v, _ := lookup(doc, name)
	return v
}

func occupied(v interface{}, present bool) bool {
	if !present || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}

func kindOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int32, int64, float32, float64:
		return "number"
	case []interface{}, primitive.A:
		return "array"
	case map[string]interface{}, primitive.M:
		return "object"
	case time.Time, primitive.DateTime:
		return "timestamp"
	default:
		return "unknown"
	}
}

func kindMatches(expected Kind, actual string) bool {
	return string(expected) == actual
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case primitive.M:
		return m, true
	default:
		return nil, false
	}
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case primitive.A:
		return s, true
	default:
		return nil, false
	}
}

func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
