package service

import (
	"context"
	"strings"

	"phonestore/internal/model"
	"phonestore/internal/utils"

	"go.uber.org/zap"
)

// IntentResolver turns a raw chat message into an intent plus normalized
// entities, degrading gracefully when the classifier is unavailable.
type IntentResolver struct {
	classifier Classifier
	log        *zap.Logger
}

// NewIntentResolver creates a new intent resolver
func NewIntentResolver(classifier Classifier, log *zap.Logger) *IntentResolver {
	return &IntentResolver{classifier: classifier, log: log}
}

// Resolve classifies the message. Degraded is set when the classifier call
// fails or its response carries no intents field at all; an empty intents
// list is still a successful classification with Intent left "".
func (r *IntentResolver) Resolve(ctx context.Context, message string) *model.Resolution {
	msg := strings.ToLower(strings.TrimSpace(message))

	if r.classifier == nil {
		return &model.Resolution{Degraded: true}
	}

	resp, err := r.classifier.Classify(ctx, msg)
	if err != nil || resp == nil || resp.Intents == nil {
		if err != nil {
			r.log.Warn("classifier call failed", zap.Error(err))
		}
		return &model.Resolution{Degraded: true}
	}

	res := &model.Resolution{}
	if len(resp.Intents) > 0 {
		res.Intent = resp.Intents[0].Name
	}

	res.Entities.ProductNames = resp.EntityValues(EntityProductName)
	res.Entities.ProductName = r.primaryProductName(msg, res.Entities.ProductNames)
	res.Entities.PriceRange = resp.FirstEntity(EntityPriceRange)
	res.Entities.Feature = resp.FirstEntity(EntityFeature)
	res.Entities.Color = resp.FirstEntity(EntityColor)

	if brand := resp.FirstEntity(EntityBrand); brand != "" {
		res.Entities.Brand = utils.NormalizeBrand(brand)
	} else {
		res.Entities.Brand = utils.ExtractBrand(msg)
	}

	return res
}

// primaryProductName keeps the classifier's extraction only when it actually
// appears in the message; otherwise the whole message serves as the name.
func (r *IntentResolver) primaryProductName(msg string, names []string) string {
	if len(names) > 0 {
		name := names[0]
		if name != "" && strings.Contains(msg, strings.ToLower(name)) {
			return name
		}
	}
	return msg
}
