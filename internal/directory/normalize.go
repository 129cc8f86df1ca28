package directory

import (
	"fmt"

	"github.com/unkn0wn-root/pickterm/internal/jsonapi"
)

// Result is the output of Normalize. Records keeps document order: data
// first, then included.
type Result struct {
	Records     []Record
	Secondary   []jsonapi.Resource
	Diagnostics []Diagnostic
}

// Normalize merges primary resources from data and included, drops repeated
// ids of the same type (first occurrence wins) and joins the linked
// secondary resource's email onto every primary record. Per-record problems
// are reported as diagnostics, never as errors. The document is not
// modified.
func Normalize(doc *jsonapi.Document, schema Schema) Result {
	schema = schema.WithDefaults()
	res := Result{Records: []Record{}}
	if doc == nil {
		return res
	}

	primary := mergeUnique(doc, schema.PrimaryType, &res.Diagnostics)
	secondary := mergeUnique(doc, schema.SecondaryType, &res.Diagnostics)
	res.Secondary = secondary

	byID := make(map[string]jsonapi.Resource, len(secondary))
	for _, item := range secondary {
		byID[item.ID] = item
	}

	res.Records = make([]Record, 0, len(primary))
	for _, item := range primary {
		rec := newRecord(item)
		rec.LinkedID = item.LinkedID(schema.Link)
		rec.Email = MissingEmail

		linked, ok := byID[rec.LinkedID]
		if ok && rec.LinkedID != "" {
			if email := linked.StringAttr(schema.EmailAttribute); email != "" {
				rec.Email = email
			} else {
				ok = false
			}
		}
		if !ok || rec.LinkedID == "" {
			res.Diagnostics = append(res.Diagnostics, unresolved(item, rec.LinkedID, schema))
		}
		rec.Attributes["email"] = rec.Email
		res.Records = append(res.Records, rec)
	}
	return res
}

func mergeUnique(doc *jsonapi.Document, typ string, diags *[]Diagnostic) []jsonapi.Resource {
	seen := make(map[string]struct{})
	var out []jsonapi.Resource
	add := func(item jsonapi.Resource) {
		if item.Type != typ {
			return
		}
		if _, dup := seen[item.ID]; dup {
			*diags = append(*diags, Diagnostic{
				Kind:    DiagnosticDuplicate,
				ID:      item.ID,
				Type:    item.Type,
				Message: fmt.Sprintf("found duplicate id (%s) entry of same type (%s), skipping item", item.ID, item.Type),
			})
			return
		}
		seen[item.ID] = struct{}{}
		out = append(out, item)
	}
	for _, item := range doc.Data {
		add(item)
	}
	for _, item := range doc.Included {
		add(item)
	}
	return out
}

func newRecord(item jsonapi.Resource) Record {
	attrs := make(map[string]any, len(item.Attributes)+1)
	for k, v := range item.Attributes {
		attrs[k] = v
	}
	return Record{
		ID:         item.ID,
		Type:       item.Type,
		FirstName:  item.StringAttr("firstName"),
		LastName:   item.StringAttr("lastName"),
		Name:       item.StringAttr("name"),
		Attributes: attrs,
	}
}

func unresolved(item jsonapi.Resource, linkedID string, schema Schema) Diagnostic {
	msg := fmt.Sprintf("%s %s has no %s relationship, email set to %s", item.Type, item.ID, schema.Link, MissingEmail)
	if linkedID != "" {
		msg = fmt.Sprintf("%s %s links to unknown or email-less %s %s, email set to %s",
			item.Type, item.ID, schema.SecondaryType, linkedID, MissingEmail)
	}
	return Diagnostic{Kind: DiagnosticUnresolved, ID: item.ID, Type: item.Type, Message: msg}
}

// Count returns how many diagnostics of the given kind are present.
func (r Result) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}
