package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/nevishq/genforge/internal/domain"
	"github.com/nevishq/genforge/internal/validation"
)

// Templates are compiled in rather than loaded from disk so composition
// cannot pick up environment-dependent variations.
var (
	textTemplate  = template.Must(template.New("text").Parse(textTemplateSrc))
	imageTemplate = template.Must(template.New("image").Parse(imageTemplateSrc))
)

const textTemplateSrc = `You are writing social media content for {{.BusinessName}}, a {{.BusinessLabel}}{{if .Location}} in {{.Location}}{{end}}.
{{- if .Audience}}
Target audience: {{.Audience}}.
{{- end}}
{{- if .Voice}}
Brand voice: {{.Voice}}. Every sentence must sound like this voice.
{{- end}}

Topic: {{.Topic}}.
{{- if .CallToAction}}
Call to action: {{.CallToAction}}.
{{- end}}

Style directives:
{{- range .Directives}}
- {{.}}
{{- end}}

Respond with a single JSON object, no prose around it, with exactly these fields:
  "headline": at most {{.HeadlineMaxWords}} words, suitable for rendering onto an image
  "subheadline": at most {{.SubheadlineMaxWords}} words, supporting the headline
  "caption": the post body
  "image_text": the exact short text to display on the creative
  "hashtags": an array of hashtag strings without the # prefix

Use only real, correctly spelled words. Never invent words or letter
sequences that look like words.`

const imageTemplateSrc = `Create a {{.AspectRatio}} social media image for {{.BusinessName}}, a {{.BusinessLabel}}{{if .Location}} in {{.Location}}{{end}}, posted on {{.PlatformLabel}}.

Scene: {{.Topic}}.
{{- if .Directives}}

Style directives:
{{- range .Directives}}
- {{.}}
{{- end}}
{{- end}}
{{- if .ColorsOn}}

Use the brand palette: primary {{.Primary}}{{if .Secondary}}, secondary {{.Secondary}}{{end}}{{if .Accent}}, accent {{.Accent}}{{end}}.
{{- end}}
{{- if .ImageText}}

The image must display exactly this text, spelled letter for letter: "{{.ImageText}}"
Render it large, high contrast, and fully readable against its background.
Do not add any other text, do not alter the wording, and do not replace any
word with an invented one.
{{- else}}

Do not render any text on the image.
{{- end}}
{{- if .Contact}}

Include this contact line, small, near the bottom edge: {{.Contact}}
{{- end}}
{{- if .HasLogo}}

Reserve clear space for the brand logo in one corner.
{{- end}}`

type textPromptData struct {
	BusinessName        string
	BusinessLabel       string
	Location            string
	Audience            string
	Voice               string
	Topic               string
	CallToAction        string
	Directives          []string
	HeadlineMaxWords    int
	SubheadlineMaxWords int
}

type imagePromptData struct {
	BusinessName  string
	BusinessLabel string
	Location      string
	PlatformLabel string
	AspectRatio   string
	Topic         string
	Directives    []string
	ColorsOn      bool
	Primary       string
	Secondary     string
	Accent        string
	ImageText     string
	Contact       string
	HasLogo       bool
}

// ComposeText builds the prompt for the text bundle of a generation:
// headline, sub-headline, caption, image text, and hashtags in one JSON
// response. The platform may be empty for a text-only generation, which
// drops the platform-specific directives.
//
// Directive order is fixed (tier, then business type, then platform) so
// identical inputs always produce byte-identical prompts.
func ComposeText(
	brand domain.BrandContext,
	tier domain.ModelTier,
	platform domain.Platform,
	content domain.ContentSpec,
) (string, error) {
	if err := brand.Validate(); err != nil {
		return "", fmt.Errorf("invalid brand context: %w", err)
	}
	if err := content.Validate(); err != nil {
		return "", fmt.Errorf("invalid content spec: %w", err)
	}

	directives := make([]string, 0, 8)
	directives = append(directives, tier.PromptDirectives...)
	directives = append(directives, businessDirectives(brand.BusinessType)...)
	directives = append(directives, platformDirectives(platform)...)

	data := textPromptData{
		BusinessName:        brand.BusinessName,
		BusinessLabel:       businessLabel(brand.BusinessType),
		Location:            brand.Location,
		Audience:            brand.TargetAudience,
		Topic:               content.Topic,
		CallToAction:        content.CallToAction,
		Directives:          directives,
		HeadlineMaxWords:    validation.HeadlineMaxWords,
		SubheadlineMaxWords: validation.SubheadlineMaxWords,
	}

	if brand.Consistency.Voice && brand.Voice != "" {
		data.Voice = brand.Voice
	}

	var buf bytes.Buffer
	if err := textTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute text prompt template: %w", err)
	}

	return buf.String(), nil
}

// ComposeImage builds the prompt for one platform variant's creative.
// The imageText argument is the literal string the creative must carry,
// already validated by the caller; empty means a text-free image.
func ComposeImage(
	brand domain.BrandContext,
	tier domain.ModelTier,
	variant domain.PlatformVariant,
	content domain.ContentSpec,
	imageText string,
) (string, error) {
	if err := brand.Validate(); err != nil {
		return "", fmt.Errorf("invalid brand context: %w", err)
	}
	if err := variant.Validate(); err != nil {
		return "", fmt.Errorf("invalid platform variant: %w", err)
	}
	if content.Topic == "" {
		return "", fmt.Errorf("invalid content spec: %w", domain.ErrEmptyTopic)
	}

	directives := make([]string, 0, 8)
	directives = append(directives, tier.PromptDirectives...)
	directives = append(directives, businessDirectives(brand.BusinessType)...)

	data := imagePromptData{
		BusinessName:  brand.BusinessName,
		BusinessLabel: businessLabel(brand.BusinessType),
		Location:      brand.Location,
		PlatformLabel: platformLabel(variant.Platform),
		AspectRatio:   string(variant.AspectRatio),
		Topic:         content.Topic,
		Directives:    directives,
		ImageText:     imageText,
		HasLogo:       tier.SupportsLogo && brand.LogoRef != "",
	}

	if brand.Consistency.Colors && brand.Colors.Primary != "" {
		data.ColorsOn = true
		data.Primary = brand.Colors.Primary
		data.Secondary = brand.Colors.Secondary
		data.Accent = brand.Colors.Accent
	}

	if brand.Consistency.Contact {
		data.Contact = contactLine(brand.Contact)
	}

	var buf bytes.Buffer
	if err := imageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute image prompt template: %w", err)
	}

	return buf.String(), nil
}

// contactLine joins the populated contact fields in a fixed order.
func contactLine(c domain.ContactInfo) string {
	parts := make([]string, 0, 3)
	if c.Phone != "" {
		parts = append(parts, c.Phone)
	}
	if c.Email != "" {
		parts = append(parts, c.Email)
	}
	if c.Website != "" {
		parts = append(parts, c.Website)
	}
	return strings.Join(parts, " | ")
}
