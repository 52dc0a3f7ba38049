package generation_form

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"visionary/entities"
	"visionary/log"
	"visionary/utils"
)

// BuildRequest assembles the request from the current form state.
func (c *Controller) BuildRequest() *entities.GenerationRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buildRequest()
}

func (c *Controller) buildRequest() *entities.GenerationRequest {
	req := &entities.GenerationRequest{
		Prompt:    c.prompt,
		Model:     c.selectedModel,
		Width:     c.width,
		Height:    c.height,
		Steps:     c.steps,
		CFGScale:  c.cfgScale,
		Seed:      c.seed,
		BatchSize: c.batchSize,
	}
	if c.showNegative {
		req.NegativePrompt = c.negativePrompt
	}
	if len(c.selectedLoras) > 0 {
		req.Loras = lo.Map(c.selectedLoras, func(l entities.LoraSelection, _ int) entities.LoraSelection {
			return entities.LoraSelection{Name: l.Name, Strength: l.Strength}
		})
	}
	return req
}

// Generate submits the form. Only one submission is in flight at a time: a
// second call returns ErrInFlight and leaves the state alone. Each
// submission carries a sequence number and a response that is not for the
// latest one is dropped with ErrStale.
func (c *Controller) Generate(ctx context.Context) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("generate")

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return ErrInFlight
	}
	if strings.TrimSpace(c.prompt) == "" {
		c.state = StateError
		c.image = ""
		c.generateError = EmptyPromptMessage
		c.mu.Unlock()
		return ErrEmptyPrompt
	}
	c.inFlight = true
	c.sequence++
	sequence := c.sequence
	c.state = StateGenerating
	c.generateError = ""
	req := c.buildRequest()
	c.mu.Unlock()

	log = log.With("sequence", sequence)
	log.Info("submitting generation", "model", req.Model, "loras", len(req.Loras), "width", req.Width, "height", req.Height, "steps", req.Steps)

	response, err := c.api.Generate(ctx, req)

	c.mu.Lock()
	if latest := c.sequence; sequence != latest {
		c.mu.Unlock()
		log.Warn("discarding stale generation response", "latest", latest)
		return ErrStale
	}
	c.inFlight = false

	switch {
	case err != nil:
		c.fail(GenerateErrorMessage)
		c.mu.Unlock()
		log.Error("generation failed", "error", err)
		return fmt.Errorf("error generating image: %w", err)
	case response == nil || len(response.Images) == 0:
		c.fail(NoImagesMessage)
		c.mu.Unlock()
		log.Error("generation returned no images")
		return ErrNoImages
	}

	image := utils.DataURL(response.Images[0])
	c.image = image
	c.state = StateGenerated
	c.mu.Unlock()

	log.Info("generation finished", "images", len(response.Images), "bytes", utils.DecodedLen(image))
	c.record(ctx, req, image)

	return nil
}

// fail moves to the error state and clears the displayed image. Callers hold mu.
func (c *Controller) fail(message string) {
	c.state = StateError
	c.image = ""
	c.generateError = message
}

func (c *Controller) record(ctx context.Context, req *entities.GenerationRequest, image string) {
	if c.recorder == nil {
		return
	}
	log := log.FromContextOrDiscard(ctx).WithGroup("history")

	generation := entities.NewGeneration(req)
	generation.Session = c.session
	generation.ImageBytes = utils.DecodedLen(image)
	if width, height, err := utils.GetBase64ImageSize(image); err == nil {
		generation.ImageWidth, generation.ImageHeight = width, height
	} else {
		log.Warn("could not read image size", "error", err)
	}

	if _, err := c.recorder.Create(ctx, generation); err != nil {
		log.Error("failed to record generation", "error", err)
	}
}
