package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClassifier struct {
	resp *ClassifierResponse
	err  error
}

func (f *fakeClassifier) Classify(ctx context.Context, message string) (*ClassifierResponse, error) {
	return f.resp, f.err
}

func TestResolveDegradedOnClassifierError(t *testing.T) {
	r := NewIntentResolver(&fakeClassifier{err: errors.New("boom")}, zap.NewNop())

	res := r.Resolve(context.Background(), "iPhone 14 giá bao nhiêu")
	assert.True(t, res.Degraded)
	assert.Empty(t, res.Intent)
}

func TestResolveDegradedOnMissingIntentsField(t *testing.T) {
	// Intents nil means the upstream payload had no intents field at all.
	r := NewIntentResolver(&fakeClassifier{resp: &ClassifierResponse{}}, zap.NewNop())

	res := r.Resolve(context.Background(), "xin chào")
	assert.True(t, res.Degraded)
}

func TestResolveEmptyIntentsIsNotDegraded(t *testing.T) {
	resp := &ClassifierResponse{
		Intents:  []ClassifierIntent{},
		Entities: map[string][]ClassifierEntity{},
	}
	r := NewIntentResolver(&fakeClassifier{resp: resp}, zap.NewNop())

	res := r.Resolve(context.Background(), "có samsung không")
	require.False(t, res.Degraded)
	assert.Empty(t, res.Intent)
	// Brand falls back to the vocabulary scan.
	assert.Equal(t, "Samsung", res.Entities.Brand)
}

func TestResolveKeepsExtractedNameWhenPresentInMessage(t *testing.T) {
	resp := &ClassifierResponse{
		Intents: []ClassifierIntent{{Name: "hoi_gia", Confidence: 0.97}},
		Entities: map[string][]ClassifierEntity{
			EntityProductName: {{Value: "iphone 14"}},
		},
	}
	r := NewIntentResolver(&fakeClassifier{resp: resp}, zap.NewNop())

	res := r.Resolve(context.Background(), "iPhone 14 giá bao nhiêu")
	require.False(t, res.Degraded)
	assert.Equal(t, "hoi_gia", res.Intent)
	assert.Equal(t, "iphone 14", res.Entities.ProductName)
	assert.Equal(t, "Apple", res.Entities.Brand)
}

func TestResolveFallsBackToMessageWhenNameNotInMessage(t *testing.T) {
	resp := &ClassifierResponse{
		Intents: []ClassifierIntent{{Name: "thong_tin_san_pham"}},
		Entities: map[string][]ClassifierEntity{
			EntityProductName: {{Value: "galaxy z fold"}},
		},
	}
	r := NewIntentResolver(&fakeClassifier{resp: resp}, zap.NewNop())

	res := r.Resolve(context.Background(), "thông tin về con điện thoại gập")
	assert.Equal(t, "thông tin về con điện thoại gập", res.Entities.ProductName)
}

func TestResolveNormalizesBrandEntity(t *testing.T) {
	resp := &ClassifierResponse{
		Intents: []ClassifierIntent{{Name: "hoi_mau_san_pham"}},
		Entities: map[string][]ClassifierEntity{
			EntityBrand: {{Value: "iphone"}},
		},
	}
	r := NewIntentResolver(&fakeClassifier{resp: resp}, zap.NewNop())

	res := r.Resolve(context.Background(), "shop có bán iphone không")
	assert.Equal(t, "Apple", res.Entities.Brand)
}
