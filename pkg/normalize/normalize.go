// Package normalize maps one raw category row into the canonical
// ContentItem. Each category has its own projection: books and fatwa use
// fixed field lists with derived title/description, the remaining
// categories pass fields through with per-field handling.
//
// The normalizer never fails on bad data. Corrupt text is sanitized,
// unparsable attachment payloads become an empty list, and missing
// timestamps fall back through add_date, created_at and pub_date to the
// current time. Only an unrecognized category is an error.
package normalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
	"github.com/KhaledTDev/islamhouse/pkg/storage"
)

// DescriptionShortLimit caps the length of the derived
// description_short field.
const DescriptionShortLimit = 200

// bookFields is the fixed projection list for the books category.
var bookFields = []string{
	"id", "name", "author", "open_file", "pages", "files", "parts",
	"researcher_supervisor", "publisher", "publication_country", "city",
	"main_category", "sub_category", "topics", "download_link",
	"alternative_link", "section_books_count", "parts_count", "size_bytes",
	"format",
}

// fatwaFields is the fixed projection list for the fatwa category.
var fatwaFields = []string{"id", "title", "question", "answer", "audio"}

var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// Normalize converts one raw row of the given category into a ContentItem.
func Normalize(raw storage.RawRecord, d catalog.Descriptor) (catalog.ContentItem, error) {
	item := catalog.ContentItem{
		Type:  d.Name,
		ID:    asString(raw["id"]),
		Extra: make(map[string]any),
	}

	switch d.Projection {
	case catalog.ProjectBooks:
		projectFixed(raw, bookFields, &item)
		item.Title = extraString(item, "name")
		item.Description = extraString(item, "topics")
		item.PreparedBy = extraString(item, "author")
	case catalog.ProjectFatwa:
		projectFixed(raw, fatwaFields, &item)
		item.Title = extraString(item, "title")
		item.Description = extraString(item, "answer")
	case catalog.ProjectGeneric:
		projectGeneric(raw, &item)
	default:
		return catalog.ContentItem{}, fmt.Errorf("no projection registered for category %q", d.Name)
	}

	if item.Description != "" {
		item.DescriptionShort = truncate(item.Description, DescriptionShortLimit)
	}
	item.AddDate = resolveAddDate(raw)

	if len(item.Extra) == 0 {
		item.Extra = nil
	}
	return item, nil
}

// projectFixed keeps only the listed fields. Everything lands sanitized
// in Extra; the caller derives title/description from there.
func projectFixed(raw storage.RawRecord, fields []string, item *catalog.ContentItem) {
	for _, field := range fields {
		if v, ok := raw[field]; ok {
			item.Extra[field] = cleanValue(v)
		}
	}
	delete(item.Extra, "id")
}

// projectGeneric passes every column through with per-field handling:
// the well-known text fields feed the canonical item, attachments are
// parsed as structured data, the rest is sanitized into Extra.
func projectGeneric(raw storage.RawRecord, item *catalog.ContentItem) {
	for key, value := range raw {
		switch key {
		case "id":
			// already captured
		case "title":
			item.Title = Clean(asString(value))
		case "description":
			item.Description = Clean(asString(value))
		case "prepared_by":
			item.PreparedBy = Clean(asString(value))
		case "localized_name", "translators", "add_date", "pub_date":
			item.Extra[key] = Clean(asString(value))
		case "attachments":
			item.Attachments = parseAttachments(asString(value))
		default:
			item.Extra[key] = cleanValue(value)
		}
	}
}

// parseAttachments decodes the JSON attachment payload. Anything
// unparsable degrades to an empty list rather than failing the record.
func parseAttachments(payload string) []catalog.Attachment {
	if payload == "" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.UseNumber()

	var entries []map[string]any
	if err := dec.Decode(&entries); err != nil {
		return []catalog.Attachment{}
	}

	attachments := make([]catalog.Attachment, 0, len(entries))
	for _, entry := range entries {
		attachments = append(attachments, catalog.Attachment{
			URL:       Clean(asString(entry["url"])),
			Extension: Clean(asString(entry["extension"])),
			Size:      Clean(asString(entry["size"])),
		})
	}
	return attachments
}

// resolveAddDate picks the item timestamp by priority: explicit add_date,
// then created_at, then pub_date, then the current time. A field that is
// present but unparseable resolves to the epoch so the federated sort
// stays total and deterministic.
func resolveAddDate(raw storage.RawRecord) time.Time {
	for _, field := range []string{"add_date", "created_at", "pub_date"} {
		v, ok := raw[field]
		if !ok {
			continue
		}
		s := Clean(asString(v))
		if s == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
		return time.Unix(0, 0).UTC()
	}
	return time.Now()
}

func cleanValue(v any) any {
	if s, ok := v.(string); ok {
		return Clean(s)
	}
	return v
}

func extraString(item catalog.ContentItem, key string) string {
	if s, ok := item.Extra[key].(string); ok {
		return s
	}
	return asString(item.Extra[key])
}

// asString renders any scalar column value as a string. Nil becomes "".
func asString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case json.Number:
		return value.String()
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}
