package blogservice

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/sushihentaime/quillpost/internal/common"
)

// blogValues are the typed values of a BlogFields. Nil means the field was
// absent, null or of the wrong type.
type blogValues struct {
	title   *string
	slug    *string
	excerpt *string
	content *string
	tags    *[]string
	image   *string
}

// decode type checks every field and records a violation on v for each one
// holding the wrong JSON type.
func (f BlogFields) decode(v *common.Validator) blogValues {
	return blogValues{
		title:   decodeString(v, f.Title, "title"),
		slug:    decodeString(v, f.Slug, "slug"),
		excerpt: decodeString(v, f.Excerpt, "excerpt"),
		content: decodeString(v, f.Content, "content"),
		tags:    decodeTags(v, f.Tags),
		image:   decodeString(v, f.Image, "image"),
	}
}

func isNull(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

func decodeString(v *common.Validator, raw json.RawMessage, field string) *string {
	if isNull(raw) {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		v.AddError(field, "must be a string")
		return nil
	}

	return &s
}

// decodeTags returns the trimmed tags. Blank tags are kept.
func decodeTags(v *common.Validator, raw json.RawMessage) *[]string {
	if isNull(raw) {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		v.AddError("tags", "must be an array of strings")
		return nil
	}

	tags := make([]string, 0, len(items))
	for _, item := range items {
		var tag string
		if isNull(item) || json.Unmarshal(item, &tag) != nil {
			v.AddError("tags", "must only contain strings")
			return nil
		}
		tags = append(tags, strings.TrimSpace(tag))
	}

	return &tags
}

func validateRequired(v *common.Validator, value, field string) {
	v.Check(value != "", field, "must be provided")
}
