package comparer

import (
	"inventory-comparer/core/database"
	"inventory-comparer/core/reconcile"
	"inventory-comparer/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Comparer feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, recorder *database.Recorder, defaultRuleSet reconcile.RuleSet) *Feature {
	svc := NewService(client, bucket, logger, recorder)
	h := NewHandler(svc, defaultRuleSet)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "comparer"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
