package service

import (
	"context"
	"errors"
	"testing"

	"phonestore/internal/model"
	"phonestore/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalog struct {
	getByName   func(name string) (*model.Product, error)
	findByBrand func(brand, feature, color string) ([]model.Product, error)
	findByPrice func(minPrice, maxPrice int64) ([]model.Product, error)
	suggest     func(brand, excludeName string) ([]model.Product, error)

	priceCalls int
}

func (f *fakeCatalog) GetProductByName(ctx context.Context, name string) (*model.Product, error) {
	if f.getByName == nil {
		return nil, nil
	}
	return f.getByName(name)
}

func (f *fakeCatalog) FindByPriceRange(ctx context.Context, minPrice, maxPrice int64) ([]model.Product, error) {
	f.priceCalls++
	if f.findByPrice == nil {
		return nil, nil
	}
	return f.findByPrice(minPrice, maxPrice)
}

func (f *fakeCatalog) FindByBrand(ctx context.Context, brand, feature, color string) ([]model.Product, error) {
	if f.findByBrand == nil {
		return nil, nil
	}
	return f.findByBrand(brand, feature, color)
}

func (f *fakeCatalog) SuggestSimilar(ctx context.Context, brand, excludeName string) ([]model.Product, error) {
	if f.suggest == nil {
		return nil, nil
	}
	return f.suggest(brand, excludeName)
}

func testProduct(name, brand string, price int64) *model.Product {
	img := "phone.jpg"
	return &model.Product{ProductID: 1, Name: name, Brand: brand, Price: price, ImageURL: &img}
}

func newTestController(classifier Classifier, catalog Catalog) *DialogueController {
	log := zap.NewNop()
	resolver := NewIntentResolver(classifier, log)
	composer := NewResponseComposer(&fakeGenerator{}, log)
	ranker := NewRanker(0.6, 0.4)
	return NewDialogueController(resolver, catalog, composer, ranker, log)
}

func classified(intent string, entities map[string][]ClassifierEntity) *fakeClassifier {
	resp := &ClassifierResponse{Intents: []ClassifierIntent{}, Entities: entities}
	if intent != "" {
		resp.Intents = append(resp.Intents, ClassifierIntent{Name: intent, Confidence: 0.95})
	}
	return &fakeClassifier{resp: resp}
}

func TestBrandOnlyMessageArmsProductChoice(t *testing.T) {
	catalog := &fakeCatalog{
		findByBrand: func(brand, feature, color string) ([]model.Product, error) {
			require.Equal(t, "Samsung", brand)
			return []model.Product{*testProduct("Galaxy S23", "Samsung", 20_000_000), *testProduct("Galaxy A54", "Samsung", 8_000_000)}, nil
		},
	}
	d := newTestController(classified("", nil), catalog)

	snap := &session.Context{}
	reply, commit := d.HandleMessage(context.Background(), snap, "có samsung không")

	require.True(t, commit)
	assert.Equal(t, session.StateAwaitingProductChoice, snap.State)
	assert.Equal(t, "Samsung", snap.LastBrand)
	assert.Nil(t, snap.LastProduct)
	assert.Len(t, reply.Products, 2)
	require.Len(t, snap.History, 1)
	assert.Equal(t, "", snap.History[0].Intent)
}

func TestProductChoiceResolvesDetailAndClearsState(t *testing.T) {
	product := testProduct("Galaxy S23", "Samsung", 20_000_000)
	catalog := &fakeCatalog{
		getByName: func(name string) (*model.Product, error) {
			assert.Equal(t, "galaxy s23", name)
			return product, nil
		},
	}
	// A classifier error proves the choice path never consults the resolver.
	d := newTestController(&fakeClassifier{err: errors.New("unreachable")}, catalog)

	snap := &session.Context{State: session.StateAwaitingProductChoice, LastBrand: "Samsung"}
	reply, commit := d.HandleMessage(context.Background(), snap, "Galaxy S23")

	require.True(t, commit)
	assert.Equal(t, session.StateIdle, snap.State)
	assert.Same(t, product, snap.LastProduct)
	assert.Equal(t, "Samsung", snap.LastBrand)
	assert.True(t, reply.ShowButtons)
	assert.Equal(t, "/images/phone.jpg", reply.ImageURL)
}

func TestProductChoiceExitsSilentlyForUnrelatedMessage(t *testing.T) {
	apple := testProduct("iPhone 14", "Apple", 22_000_000)
	catalog := &fakeCatalog{
		getByName: func(name string) (*model.Product, error) {
			if name == "iphone 14 giá bao nhiêu" {
				return nil, nil
			}
			return apple, nil
		},
	}
	d := newTestController(classified("hoi_gia", map[string][]ClassifierEntity{
		EntityProductName: {{Value: "iphone 14"}},
	}), catalog)

	snap := &session.Context{State: session.StateAwaitingProductChoice, LastBrand: "Samsung"}
	_, commit := d.HandleMessage(context.Background(), snap, "iPhone 14 giá bao nhiêu")

	require.True(t, commit)
	assert.Equal(t, session.StateIdle, snap.State)
	// The message was interpreted normally after the silent exit.
	assert.Same(t, apple, snap.LastProduct)
	assert.Equal(t, "Apple", snap.LastBrand)
	assert.Equal(t, "hoi_gia", snap.LastIntent)
}

func TestDegradedResolutionLeavesContextUntouched(t *testing.T) {
	d := newTestController(&fakeClassifier{err: errors.New("wit down")}, &fakeCatalog{})

	snap := &session.Context{LastBrand: "Samsung"}
	reply, commit := d.HandleMessage(context.Background(), snap, "xin chào")

	assert.False(t, commit)
	assert.NotEmpty(t, reply.Text)
	assert.Equal(t, "Samsung", snap.LastBrand)
	assert.Empty(t, snap.History)
}

func TestPriceSearchParsesRangeFromMessage(t *testing.T) {
	catalog := &fakeCatalog{
		findByPrice: func(minPrice, maxPrice int64) ([]model.Product, error) {
			assert.Equal(t, int64(5_000_000), minPrice)
			assert.Equal(t, int64(15_000_000), maxPrice)
			return []model.Product{*testProduct("Redmi Note 12", "Xiaomi", 6_000_000)}, nil
		},
	}
	d := newTestController(classified("tim_kiem_theo_gia", nil), catalog)

	snap := &session.Context{}
	reply, commit := d.HandleMessage(context.Background(), snap, "có điện thoại nào từ 5 đến 15 triệu không")

	require.True(t, commit)
	assert.Len(t, reply.Products, 1)
	assert.Len(t, snap.History, 1)
}

func TestPriceSearchInvalidRangeSkipsCatalog(t *testing.T) {
	catalog := &fakeCatalog{}
	d := newTestController(classified("tim_kiem_theo_gia", nil), catalog)

	snap := &session.Context{}
	_, commit := d.HandleMessage(context.Background(), snap, "từ 15 đến 5 triệu")

	require.True(t, commit)
	assert.Zero(t, catalog.priceCalls)
	assert.Empty(t, snap.History)
}

func TestPriceSearchUnparsedAsksForClarification(t *testing.T) {
	catalog := &fakeCatalog{}
	d := newTestController(classified("tim_kiem_theo_gia", nil), catalog)

	snap := &session.Context{}
	reply, commit := d.HandleMessage(context.Background(), snap, "có điện thoại nào giá mềm không")

	require.True(t, commit)
	assert.Zero(t, catalog.priceCalls)
	assert.NotEmpty(t, reply.Text)
	assert.Empty(t, snap.History)
}

func TestConsultationFlowFillsAnswersInOrder(t *testing.T) {
	product := testProduct("iPhone 14", "Apple", 22_000_000)
	catalog := &fakeCatalog{
		getByName: func(name string) (*model.Product, error) { return product, nil },
	}
	d := newTestController(classified("tu_van_san_pham", map[string][]ClassifierEntity{
		EntityProductName: {{Value: "iphone 14"}},
	}), catalog)

	snap := &session.Context{}
	_, commit := d.HandleMessage(context.Background(), snap, "tư vấn iphone 14")
	require.True(t, commit)
	assert.Equal(t, session.StateConsultPurpose, snap.State)
	assert.Same(t, product, snap.LastProduct)

	_, commit = d.HandleMessage(context.Background(), snap, "chụp ảnh")
	require.True(t, commit)
	assert.Equal(t, session.StateConsultBudget, snap.State)
	assert.Equal(t, "chụp ảnh", snap.Consultation.Purpose)

	_, commit = d.HandleMessage(context.Background(), snap, "20 triệu")
	require.True(t, commit)
	assert.Equal(t, session.StateConsultFeature, snap.State)
	assert.Equal(t, "20 triệu", snap.Consultation.Budget)

	_, commit = d.HandleMessage(context.Background(), snap, "camera")
	require.True(t, commit)
	assert.Equal(t, session.StateConsultColor, snap.State)
	assert.Equal(t, "camera", snap.Consultation.Feature)

	reply, commit := d.HandleMessage(context.Background(), snap, "màu đen")
	require.True(t, commit)
	assert.Equal(t, session.StateIdle, snap.State)
	assert.Equal(t, session.Consultation{}, snap.Consultation)
	assert.True(t, reply.ShowButtons)
	assert.Len(t, snap.History, 5)
}

func TestProductInfoMissSuggestsSimilar(t *testing.T) {
	catalog := &fakeCatalog{
		getByName: func(name string) (*model.Product, error) { return nil, nil },
		suggest: func(brand, excludeName string) ([]model.Product, error) {
			assert.Equal(t, "Apple", brand)
			return []model.Product{*testProduct("iPhone 13", "Apple", 18_000_000)}, nil
		},
	}
	d := newTestController(classified("thong_tin_san_pham", map[string][]ClassifierEntity{
		EntityProductName: {{Value: "iphone 99"}},
	}), catalog)

	snap := &session.Context{}
	reply, commit := d.HandleMessage(context.Background(), snap, "thông tin iphone 99")

	require.True(t, commit)
	assert.Len(t, reply.Products, 1)
	// A miss is not a successful exchange: nothing is remembered.
	assert.Nil(t, snap.LastProduct)
	assert.Empty(t, snap.History)
}

func TestCompareNeedsTwoNames(t *testing.T) {
	d := newTestController(classified("so_sanh_san_pham", map[string][]ClassifierEntity{
		EntityProductName: {{Value: "iphone 14"}},
	}), &fakeCatalog{})

	snap := &session.Context{}
	reply, commit := d.HandleMessage(context.Background(), snap, "so sánh iphone 14")

	require.True(t, commit)
	assert.NotEmpty(t, reply.Text)
	assert.Empty(t, snap.History)
}

func TestCompareClearsProductAnchor(t *testing.T) {
	catalog := &fakeCatalog{
		getByName: func(name string) (*model.Product, error) {
			return testProduct(name, "Apple", 20_000_000), nil
		},
	}
	d := newTestController(classified("so_sanh_san_pham", map[string][]ClassifierEntity{
		EntityProductName: {{Value: "iphone 14"}, {Value: "galaxy s23"}},
	}), catalog)

	snap := &session.Context{LastProduct: testProduct("Old", "Oppo", 1), LastBrand: "Oppo"}
	_, commit := d.HandleMessage(context.Background(), snap, "so sánh iphone 14 và galaxy s23")

	require.True(t, commit)
	assert.Nil(t, snap.LastProduct)
	assert.Empty(t, snap.LastBrand)
	assert.Len(t, snap.History, 1)
}

func TestUnknownIntentAnswersFromContextAndForgets(t *testing.T) {
	d := newTestController(classified("chao_hoi", nil), &fakeCatalog{})

	snap := &session.Context{LastProduct: testProduct("iPhone 14", "Apple", 22_000_000), LastBrand: "Apple"}
	_, commit := d.HandleMessage(context.Background(), snap, "cảm ơn nhé")

	require.True(t, commit)
	assert.Nil(t, snap.LastProduct)
	assert.Empty(t, snap.LastBrand)
	assert.Equal(t, "chao_hoi", snap.LastIntent)
	assert.Len(t, snap.History, 1)
}

func TestPanicInBranchYieldsApologyWithoutCommit(t *testing.T) {
	catalog := &fakeCatalog{
		getByName: func(name string) (*model.Product, error) { panic("db connection lost") },
	}
	d := newTestController(classified("thong_tin_san_pham", map[string][]ClassifierEntity{
		EntityProductName: {{Value: "iphone 14"}},
	}), catalog)

	snap := &session.Context{}
	reply, commit := d.HandleMessage(context.Background(), snap, "thông tin iphone 14")

	assert.False(t, commit)
	assert.NotEmpty(t, reply.Text)
}

func TestAttributeIntentLooksUpByWholeMessage(t *testing.T) {
	product := testProduct("iPhone 14", "Apple", 22_000_000)
	catalog := &fakeCatalog{
		getByName: func(name string) (*model.Product, error) {
			// No usable extraction: the whole message is the lookup key.
			assert.Equal(t, "iphone 14 giá bao nhiêu", name)
			return product, nil
		},
	}
	resp := &ClassifierResponse{
		Intents:  []ClassifierIntent{{Name: "hoi_gia"}},
		Entities: map[string][]ClassifierEntity{},
	}
	d := newTestController(&fakeClassifier{resp: resp}, catalog)

	snap := &session.Context{}
	reply, commit := d.HandleMessage(context.Background(), snap, "iPhone 14 giá bao nhiêu")

	require.True(t, commit)
	assert.True(t, reply.ShowButtons)
	assert.Same(t, product, snap.LastProduct)
	assert.Equal(t, "Apple", snap.LastBrand)
}
