package tools

import (
	"fmt"
	"net/http"

	"github.com/bobmcallan/toolgate/internal/config"
)

// ImageRequest is the body sent to the image model.
type ImageRequest struct {
	Prompt string `json:"prompt"`
	Steps  int    `json:"steps"`
}

// GenerateImage renders a prompt with the flux-1-schnell model and returns
// the JPEG bytes.
func GenerateImage(cfg config.ImageConfig) Descriptor {
	return Descriptor{
		Name:        "generate_image",
		Description: "Generate an image with the flux-1-schnell model. Works best with 8 steps.",
		Params: []ParamSpec{
			{Name: "prompt", Type: TypeString, Required: true, Description: "English description of the image to generate", RequiredMessage: "prompt is required"},
			{
				Name:         "steps",
				Type:         TypeNumber,
				Integer:      true,
				Required:     true,
				Min:          Bound(4),
				Max:          Bound(8),
				Description:  "Number of diffusion steps, between 4 and 8 inclusive",
				RangeMessage: "Steps must be between 4 and 8, inclusive.",
			},
		},
		Service:  "Workers AI image API",
		Upstream: "image",
		Method:   http.MethodPost,
		Endpoint: func(a Args) (string, error) {
			if cfg.AccountID == "" {
				return "", fmt.Errorf("account id is not configured")
			}
			return cfg.RunURL(), nil
		},
		Body: func(a Args) interface{} {
			return ImageRequest{Prompt: a.String("prompt"), Steps: a.Int("steps")}
		},
		Auth:          AuthRequired,
		FallbackToken: cfg.APIToken,
		MissingToken:  "API token is required for the image backend",
		Shape:         ShapeImage,
	}
}
