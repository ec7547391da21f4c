package sto

import "fmt"

// Presence marks whether a template field must appear.
type Presence int8

const (
	Required Presence = iota
	Optional
)

// TemplateField is one row of an inner-object template.
type TemplateField struct {
	ID       FieldID
	Presence Presence
}

// Template describes the permitted shape of an inner object.
type Template struct {
	Name   string
	Fields []TemplateField
}

// innerFormats registers the template for each inner-object field.
var innerFormats = map[FieldID]*Template{
	FieldSignerEntry: {
		Name: "SignerEntry",
		Fields: []TemplateField{
			{FieldAccount, Required},
			{FieldSignerWeight, Required},
		},
	},
	FieldSigner: {
		Name: "Signer",
		Fields: []TemplateField{
			{FieldAccount, Required},
			{FieldSigningPubKey, Required},
			{FieldTxnSignature, Required},
		},
	},
	FieldHookSet: {
		Name: "HookSet",
		Fields: []TemplateField{
			{FieldHookSetOperation, Required},
			{FieldHookSequence, Optional},
			{FieldHookOn, Optional},
			{FieldHookReorder, Optional},
			{FieldFlags, Optional},
			{FieldHookNamespace, Optional},
			{FieldHookHash, Optional},
			{FieldHookParameters, Optional},
			{FieldHookDefinition, Optional},
		},
	},
	FieldHookDefinition: {
		Name: "HookDefinition",
		Fields: []TemplateField{
			{FieldHookOn, Required},
			{FieldHookNamespace, Required},
			{FieldHookParameters, Required},
			{FieldHookApiVersion, Required},
			{FieldCreateCode, Required},
		},
	},
	FieldHookParameter: {
		Name: "HookParameter",
		Fields: []TemplateField{
			{FieldHookParameterName, Required},
			{FieldHookParameterValue, Required},
		},
	},
}

// arrayEntryIDs maps array fields to the single inner-object field
// their entries must carry.
var arrayEntryIDs = map[FieldID]FieldID{
	FieldSigners:        FieldSigner,
	FieldSignerEntries:  FieldSignerEntry,
	FieldHookParameters: FieldHookParameter,
}

// InnerTemplate returns the registered template for an inner-object
// field id.
func InnerTemplate(id FieldID) (*Template, bool) {
	t, ok := innerFormats[id]
	return t, ok
}

// Validate checks obj against the template: every required field
// present, no field outside the template.
func (t *Template) Validate(obj *Object) error {
	allowed := make(map[FieldID]bool, len(t.Fields))
	for _, tf := range t.Fields {
		allowed[tf.ID] = true
		if tf.Presence == Required && !obj.Has(tf.ID) {
			return fmt.Errorf("%s: missing required field %s", t.Name, tf.ID)
		}
	}
	for _, f := range obj.Fields() {
		if !allowed[f.ID] {
			return fmt.Errorf("%s: field %s not permitted", t.Name, f.ID)
		}
	}
	return nil
}

// ValidateInner recursively checks every templated inner object and
// array entry reachable from obj.
func ValidateInner(obj *Object) error {
	for _, f := range obj.Fields() {
		switch f.ID.Type() {
		case TypeObject:
			if f.Obj == nil {
				continue
			}
			if t, ok := innerFormats[f.ID]; ok {
				if err := t.Validate(f.Obj); err != nil {
					return err
				}
			}
			if err := ValidateInner(f.Obj); err != nil {
				return err
			}
		case TypeArray:
			want, known := arrayEntryIDs[f.ID]
			for _, e := range f.Arr {
				if known && e.ID != want {
					return fmt.Errorf("%s: entry must be %s, got %s", f.ID, want, e.ID)
				}
				if e.Obj == nil {
					continue
				}
				if t, ok := innerFormats[e.ID]; ok {
					if err := t.Validate(e.Obj); err != nil {
						return err
					}
				}
				if err := ValidateInner(e.Obj); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// VerifyBlob reports whether data parses as a serialised object whose
// templated inner objects all match their registered shapes. This backs
// the util_verify_sto host call.
func VerifyBlob(data []byte) bool {
	obj, err := Decode(data)
	if err != nil {
		return false
	}
	return ValidateInner(obj) == nil
}
