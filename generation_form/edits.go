package generation_form

import (
	"math/rand/v2"

	"github.com/samber/lo"

	"visionary/api/generation_api"
)

// SelectModel selects one of the loaded models. Unknown names are ignored.
func (c *Controller) SelectModel(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !lo.ContainsBy(c.models, func(m generation_api.Model) bool { return m.ModelName == name }) {
		return false
	}
	c.touch()
	c.selectedModel = name
	return true
}

func (c *Controller) SetPrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.prompt = prompt
}

func (c *Controller) SetNegativePrompt(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.negativePrompt = prompt
}

// ToggleNegative shows or hides the negative prompt. A hidden negative
// prompt keeps its text but is not sent.
func (c *Controller) ToggleNegative() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.showNegative = !c.showNegative
	return c.showNegative
}

// The numeric setters follow UpdateStrength: unparsable input is dropped.
// Width, height and steps are always sent and must be at least 1; a batch
// size of 0 is left off the request.

func (c *Controller) SetWidth(raw string) bool {
	return c.setInt(&c.width, raw, 1)
}

func (c *Controller) SetHeight(raw string) bool {
	return c.setInt(&c.height, raw, 1)
}

func (c *Controller) SetSteps(raw string) bool {
	return c.setInt(&c.steps, raw, 1)
}

func (c *Controller) SetBatchSize(raw string) bool {
	return c.setInt(&c.batchSize, raw, 0)
}

func (c *Controller) SetCFGScale(raw string) bool {
	f, ok := parseFloat(raw)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.cfgScale = f
	return true
}

func (c *Controller) SetSeed(raw string) bool {
	i, ok := parseInt(raw)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.seed = int64(i)
	return true
}

func (c *Controller) setInt(field *int, raw string, least int) bool {
	i, ok := parseInt(raw)
	if !ok || i < least {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	*field = i
	return true
}

// RandomizeSeed draws a seed in [0, 100000). It is a convenience for the
// form, not a source of randomness for anything else.
func (c *Controller) RandomizeSeed() int64 {
	seed := rand.Int64N(seedRange)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.seed = seed
	return seed
}

// Reset restores the defaults and drops the selections, keeping the
// inventory. A generation still in flight is superseded: its response will
// be discarded when it arrives.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyDefaults()
	c.sequence++
	c.inFlight = false
	c.state = StateReady
	if len(c.models) > 0 {
		c.selectedModel = c.models[0].ModelName
	}
}
