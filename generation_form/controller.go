package generation_form

import (
	"context"
	"errors"
	"sync"

	"visionary/api/generation_api"
	"visionary/entities"
)

type State int

const (
	StateIdle State = iota
	StateLoadingInventory
	StateReady
	StateGenerating
	StateGenerated
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoadingInventory:
		return "loading-inventory"
	case StateReady:
		return "ready"
	case StateGenerating:
		return "generating"
	case StateGenerated:
		return "generated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	ErrInFlight    = errors.New("a generation is already in progress")
	ErrStale       = errors.New("response belongs to a superseded submission")
	ErrNoImages    = errors.New("no images returned")
	ErrEmptyPrompt = errors.New("prompt is required")
)

// Messages shown in the form. Details go to the log.
const (
	InventoryErrorMessage = "Failed to load models and LoRAs."
	GenerateErrorMessage  = "Failed to generate image."
	NoImagesMessage       = "No images were returned."
	EmptyPromptMessage    = "Prompt is required."
)

// Recorder keeps finished generations. Optional.
type Recorder interface {
	Create(ctx context.Context, generation *entities.ImageGeneration) (*entities.ImageGeneration, error)
}

type Config struct {
	API      generation_api.GenerationAPI
	Recorder Recorder
	Defaults *Defaults
	// Session tags recorded generations so each browser only lists its own.
	Session string
}

// Controller owns the state of one generation form. It is safe for
// concurrent use; the web surface shares one per browser session.
type Controller struct {
	api      generation_api.GenerationAPI
	recorder Recorder
	defaults Defaults
	session  string

	mu sync.Mutex

	state          State
	models         generation_api.Models
	loras          generation_api.Loras
	inventoryError string

	selectedModel string
	selectedLoras []entities.LoraSelection

	prompt         string
	negativePrompt string
	showNegative   bool
	width          int
	height         int
	steps          int
	cfgScale       float64
	batchSize      int
	seed           int64

	image         string
	generateError string

	inFlight bool
	sequence uint64
}

func New(cfg Config) (*Controller, error) {
	if cfg.API == nil {
		return nil, errors.New("missing generation API")
	}

	defaults := DefaultSettings()
	if cfg.Defaults != nil {
		defaults = fillInDefaults(*cfg.Defaults)
	}

	c := &Controller{
		api:      cfg.API,
		recorder: cfg.Recorder,
		defaults: defaults,
		session:  cfg.Session,
		state:    StateIdle,
	}
	c.applyDefaults()

	return c, nil
}

func (c *Controller) applyDefaults() {
	c.selectedModel = ""
	c.selectedLoras = nil
	c.prompt = ""
	c.negativePrompt = ""
	c.showNegative = c.defaults.ShowNegative
	c.width = c.defaults.Width
	c.height = c.defaults.Height
	c.steps = c.defaults.Steps
	c.cfgScale = c.defaults.CFGScale
	c.batchSize = c.defaults.BatchSize
	c.seed = c.defaults.Seed
	c.image = ""
	c.generateError = ""
}

// touch moves a finished submission back to ready. Callers hold mu.
func (c *Controller) touch() {
	if c.state == StateGenerated || c.state == StateError {
		c.state = StateReady
		c.generateError = ""
	}
}

func (c *Controller) Session() string {
	return c.session
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a generation is in flight. Presentation layers use
// it to disable their trigger; Generate checks the same flag itself.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}
