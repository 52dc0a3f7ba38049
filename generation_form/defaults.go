package generation_form

const (
	initializedWidth     = 1024
	initializedHeight    = 1024
	initializedSteps     = 30
	initializedCFGScale  = 7
	initializedBatchSize = 1

	defaultStrength = 1.0
	seedRange       = 100000
)

type Defaults struct {
	Width        int
	Height       int
	Steps        int
	CFGScale     float64
	BatchSize    int
	Seed         int64
	ShowNegative bool
}

func DefaultSettings() Defaults {
	return Defaults{
		Width:        initializedWidth,
		Height:       initializedHeight,
		Steps:        initializedSteps,
		CFGScale:     initializedCFGScale,
		BatchSize:    initializedBatchSize,
		ShowNegative: true,
	}
}

// fillInDefaults replaces the required numeric fields left at zero.
// CFGScale, BatchSize and Seed may legitimately be zero.
func fillInDefaults(settings Defaults) Defaults {
	if settings.Width == 0 {
		settings.Width = initializedWidth
	}

	if settings.Height == 0 {
		settings.Height = initializedHeight
	}

	if settings.Steps == 0 {
		settings.Steps = initializedSteps
	}

	return settings
}
