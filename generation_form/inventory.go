package generation_form

import (
	"context"

	"golang.org/x/sync/errgroup"

	"visionary/api/generation_api"
	"visionary/log"
)

// LoadInventory fetches models and LoRAs concurrently and seeds the selected
// model with the first one served. A failure of either request leaves both
// inventories empty and sets a single message on the form. There is no retry.
func (c *Controller) LoadInventory(ctx context.Context) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("inventory")

	c.mu.Lock()
	c.state = StateLoadingInventory
	c.inventoryError = ""
	c.mu.Unlock()

	var (
		models generation_api.Models
		loras  generation_api.Loras
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		models, err = c.api.Models(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		loras, err = c.api.Loras(groupCtx)
		return err
	})
	err := group.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateReady

	if err != nil {
		log.Error("failed to load inventory", "error", err)
		c.models = nil
		c.loras = nil
		c.selectedModel = ""
		c.selectedLoras = nil
		c.inventoryError = InventoryErrorMessage
		return err
	}

	c.models = models
	c.loras = loras
	if c.selectedModel == "" && len(models) > 0 {
		c.selectedModel = models[0].ModelName
	}
	log.Info("loaded inventory", "models", len(models), "loras", len(loras), "selected", c.selectedModel)

	return nil
}
