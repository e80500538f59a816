package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"

	"tryon-gateway/internal/domain/valueobjects"
)

// ShapeKind names the layout of choices[0].message an image was found in.
type ShapeKind string

const (
	ShapeNone         ShapeKind = "none"
	ShapeInlineParts  ShapeKind = "inline_parts"
	ShapeContentArray ShapeKind = "content_array"
	ShapeRawString    ShapeKind = "raw_string"
)

// A bare string is treated as base64 image data only above this length.
const bareBase64MinLength = 1000

var (
	embeddedDataURLPattern  = regexp.MustCompile(`data:image/[^;]+;base64,[A-Za-z0-9+/=]+`)
	embeddedImageURLPattern = regexp.MustCompile(`(?i)https?://[^\s"']+\.(jpg|jpeg|png|gif|webp)`)
	bareBase64Pattern       = regexp.MustCompile(`^[A-Za-z0-9+/=\s]+$`)
)

// Extraction is the outcome of searching an upstream body for a generated image.
type Extraction struct {
	Image       valueobjects.ImageRef
	TextContent *string
	Shape       ShapeKind
}

func (e Extraction) Found() bool {
	return !e.Image.IsEmpty()
}

// NormalizeResponse finds the generated image in a 2xx chat-completion body.
// Known layouts are tried in a fixed order and the first one yielding an image wins.
// An error is returned only when the body is not JSON at all.
func NormalizeResponse(body []byte) (Extraction, error) {
	if !gjson.ValidBytes(body) {
		return Extraction{Shape: ShapeNone}, fmt.Errorf("upstream body is not valid JSON")
	}

	message := gjson.GetBytes(body, "choices.0.message")
	return matchShapes(detectShapes(message)), nil
}

type shapeMatch struct {
	image valueobjects.ImageRef
	text  *string
}

// messageShape is one known variant of the provider message.
type messageShape interface {
	kind() ShapeKind
	extract() shapeMatch
}

// inlinePartsShape: message.content_parts[] holding inline_data{mime_type,data}.
type inlinePartsShape struct {
	parts []gjson.Result
}

// contentArrayShape: message.content is a list of typed segments.
type contentArrayShape struct {
	segments []gjson.Result
}

// rawStringShape: message.content is a single non-empty string.
type rawStringShape struct {
	content string
}

// detectShapes lists every variant present in the message, in match order.
// content_parts is always tried before content.
func detectShapes(message gjson.Result) []messageShape {
	var shapes []messageShape

	if parts := message.Get("content_parts"); parts.IsArray() {
		shapes = append(shapes, inlinePartsShape{parts: parts.Array()})
	}

	content := message.Get("content")
	switch {
	case content.IsArray():
		shapes = append(shapes, contentArrayShape{segments: content.Array()})
	case content.Type == gjson.String && content.Str != "":
		shapes = append(shapes, rawStringShape{content: content.Str})
	}

	return shapes
}

func matchShapes(shapes []messageShape) Extraction {
	out := Extraction{Shape: ShapeNone}
	for _, shape := range shapes {
		m := shape.extract()
		if m.text != nil {
			out.TextContent = m.text
		}
		if !m.image.IsEmpty() {
			out.Image = m.image
			out.Shape = shape.kind()
			return out
		}
	}
	return out
}

func (inlinePartsShape) kind() ShapeKind { return ShapeInlineParts }

// First part with inline data wins.
func (s inlinePartsShape) extract() shapeMatch {
	for _, part := range s.parts {
		if ref := inlineDataURL(part); !ref.IsEmpty() {
			return shapeMatch{image: ref}
		}
	}
	return shapeMatch{}
}

func (contentArrayShape) kind() ShapeKind { return ShapeContentArray }

// Every segment is visited: later image segments overwrite earlier ones and the
// last text segment becomes the text content.
func (s contentArrayShape) extract() shapeMatch {
	var m shapeMatch
	for _, segment := range s.segments {
		segmentType := segment.Get("type").String()
		switch {
		case segmentType == "image_url" && segmentImageURL(segment) != "":
			m.image = valueobjects.ImageRef(segmentImageURL(segment))
		case segmentType == "text":
			m.text = optionalString(segment.Get("text"))
		case segmentType == "image" && nonEmptyString(segment.Get("data")):
			m.image = valueobjects.NewDataURL(valueobjects.DefaultImageMimeType, segment.Get("data").Str)
		default:
			if ref := inlineDataURL(segment); !ref.IsEmpty() {
				m.image = ref
			}
		}
	}
	return m
}

func (rawStringShape) kind() ShapeKind { return ShapeRawString }

func (s rawStringShape) extract() shapeMatch {
	text := s.content
	m := shapeMatch{text: &text}

	if found := embeddedDataURLPattern.FindString(s.content); found != "" {
		m.image = valueobjects.ImageRef(found)
	} else if found := embeddedImageURLPattern.FindString(s.content); found != "" {
		m.image = valueobjects.ImageRef(found)
	} else if len(s.content) > bareBase64MinLength && bareBase64Pattern.MatchString(s.content) {
		payload := strings.Join(strings.Fields(s.content), "")
		m.image = valueobjects.NewDataURL(valueobjects.DefaultImageMimeType, payload)
	}

	return m
}

// inlineDataURL reads inline_data (or Gemini's camelCase inlineData) into a data URL.
func inlineDataURL(part gjson.Result) valueobjects.ImageRef {
	for _, key := range [...]struct{ inline, mime string }{
		{inline: "inline_data", mime: "mime_type"},
		{inline: "inlineData", mime: "mimeType"},
	} {
		inline := part.Get(key.inline)
		if !nonEmptyString(inline.Get("data")) {
			continue
		}
		return valueobjects.NewDataURL(inline.Get(key.mime).String(), inline.Get("data").Str)
	}
	return ""
}

// segmentImageURL accepts both {"image_url":{"url":"..."}} and {"image_url":"..."}.
func segmentImageURL(segment gjson.Result) string {
	imageURL := segment.Get("image_url")
	if nonEmptyString(imageURL) {
		return imageURL.Str
	}
	if url := imageURL.Get("url"); nonEmptyString(url) {
		return url.Str
	}
	return ""
}

func nonEmptyString(r gjson.Result) bool {
	return r.Type == gjson.String && r.Str != ""
}

func optionalString(r gjson.Result) *string {
	if r.Type != gjson.String {
		return nil
	}
	s := r.Str
	return &s
}
