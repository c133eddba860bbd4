package service

import (
	"encoding/json"
	"fmt"

	"modion/internal/errors"
	"modion/internal/model"
)

// ArticlePayload is a create or update request after normalization.
// A nil field was not supplied.
type ArticlePayload struct {
	ID              *string
	Title           *string
	Category        *string
	ReadingTime     *string
	MetaDescription *string
	Status          *string
	Featured        *bool
	Tags            *[]string
	Sections        *[]model.ArticleSection
}

// NormalizeArticle turns loosely typed request fields into an ArticlePayload.
// Fields may come from a multipart form, where tags and sections arrive as
// JSON-encoded strings and featured as "true"/"false", or from a JSON body.
// Empty strings count as not supplied.
func NormalizeArticle(fields map[string]any) (ArticlePayload, error) {
	var p ArticlePayload
	var err error

	stringFields := []struct {
		key string
		dst **string
	}{
		{"id", &p.ID},
		{"title", &p.Title},
		{"category", &p.Category},
		{"reading_time", &p.ReadingTime},
		{"meta_description", &p.MetaDescription},
		{"status", &p.Status},
	}
	for _, f := range stringFields {
		if *f.dst, err = stringField(fields, f.key); err != nil {
			return ArticlePayload{}, err
		}
	}

	if p.Featured, err = boolField(fields, "featured"); err != nil {
		return ArticlePayload{}, err
	}

	if raw, ok := present(fields, "tags"); ok {
		var tags []string
		if err := decodeLoose(raw, &tags); err != nil {
			return ArticlePayload{}, errors.ErrInvalidTags
		}
		p.Tags = &tags
	}

	if raw, ok := present(fields, "sections"); ok {
		var sections []model.ArticleSection
		if err := decodeLoose(raw, &sections); err != nil {
			return ArticlePayload{}, errors.ErrInvalidSections
		}
		p.Sections = &sections
	}

	return p, nil
}

func present(fields map[string]any, key string) (any, bool) {
	v, ok := fields[key]
	if !ok || v == nil {
		return nil, false
	}
	if s, isString := v.(string); isString && s == "" {
		return nil, false
	}
	return v, true
}

func stringField(fields map[string]any, key string) (*string, error) {
	v, ok := present(fields, key)
	if !ok {
		return nil, nil
	}
	s, isString := v.(string)
	if !isString {
		return nil, &errors.ValidationError{Err: fmt.Errorf("%s must be a string", key)}
	}
	return &s, nil
}

// boolField accepts a JSON boolean or a form string, where only "true" is true.
func boolField(fields map[string]any, key string) (*bool, error) {
	v, ok := present(fields, key)
	if !ok {
		return nil, nil
	}
	switch b := v.(type) {
	case bool:
		return &b, nil
	case string:
		t := b == "true"
		return &t, nil
	default:
		return nil, &errors.ValidationError{Err: fmt.Errorf("%s must be a boolean", key)}
	}
}

// decodeLoose decodes a JSON string, or re-encodes an already decoded value.
func decodeLoose(raw any, dst any) error {
	var data []byte
	if s, ok := raw.(string); ok {
		data = []byte(s)
	} else {
		var err error
		if data, err = json.Marshal(raw); err != nil {
			return err
		}
	}
	return json.Unmarshal(data, dst)
}
