package openrouter

import (
	"encoding/json"
	"fmt"
)

// UserContent is either plain text or a list of content parts. It encodes as
// a JSON string when Parts is empty.
type UserContent struct {
	Text  string
	Parts []ContentPart
}

func Text(s string) UserContent { return UserContent{Text: s} }

func Parts(parts ...ContentPart) UserContent { return UserContent{Parts: parts} }

func (c UserContent) MarshalJSON() ([]byte, error) {
	if len(c.Parts) > 0 {
		return json.Marshal(c.Parts)
	}
	return json.Marshal(c.Text)
}

func (c *UserContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = UserContent{Text: text}
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("content is neither a string nor a part list: %w", err)
	}
	*c = UserContent{Parts: parts}
	return nil
}

type ContentPartType string

const (
	PartText     ContentPartType = "text"
	PartImageURL ContentPartType = "image_url"
)

// ContentPart is one element of multimodal user content.
type ContentPart struct {
	Type     ContentPartType `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *ImageURL       `json:"image_url,omitempty"`
}

// MarshalJSON encodes each part in its own shape: text parts always carry
// "text", even when empty, and image parts carry only "image_url".
func (p ContentPart) MarshalJSON() ([]byte, error) {
	switch p.Type {
	case PartText:
		return json.Marshal(struct {
			Type ContentPartType `json:"type"`
			Text string          `json:"text"`
		}{p.Type, p.Text})
	case PartImageURL:
		return json.Marshal(struct {
			Type     ContentPartType `json:"type"`
			ImageURL *ImageURL       `json:"image_url"`
		}{p.Type, p.ImageURL})
	default:
		type plain ContentPart
		return json.Marshal(plain(p))
	}
}

type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart references an image by URL or data URI. detail may be empty.
func ImagePart(url, detail string) ContentPart {
	return ContentPart{Type: PartImageURL, ImageURL: &ImageURL{URL: url, Detail: detail}}
}
