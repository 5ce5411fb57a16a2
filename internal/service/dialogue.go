package service

import (
	"context"
	"strings"

	"phonestore/internal/model"
	"phonestore/internal/session"
	"phonestore/internal/utils"

	"go.uber.org/zap"
)

// DialogueController drives one conversation turn: it consults the session
// snapshot, resolves the intent, dispatches to the matching branch and
// composes the reply. It mutates only the snapshot it is handed; the caller
// commits the snapshot when the turn succeeds.
type DialogueController struct {
	resolver *IntentResolver
	catalog  Catalog
	composer *ResponseComposer
	ranker   *Ranker
	embedder Embedder
	similar  SimilarityCatalog
	log      *zap.Logger
	handlers map[string]intentHandler
}

// turn carries the per-message working set through the branch handlers.
type turn struct {
	ctx     *session.Context
	message string
	res     *model.Resolution
}

// intentHandler handles one intent branch. The second return value reports
// whether the branch completed a successful exchange; clarifications and
// lookup misses return false so the turn leaves no trace in the history.
type intentHandler func(ctx context.Context, t *turn) (*model.ChatReply, bool)

// NewDialogueController wires the dispatch table.
func NewDialogueController(resolver *IntentResolver, catalog Catalog, composer *ResponseComposer, ranker *Ranker, log *zap.Logger) *DialogueController {
	d := &DialogueController{
		resolver: resolver,
		catalog:  catalog,
		composer: composer,
		ranker:   ranker,
		log:      log,
	}
	d.handlers = map[string]intentHandler{
		model.IntentSearchByPrice: d.handlePriceSearch,
		model.IntentProductInfo:   d.handleProductInfo,
		model.IntentConsult:       d.handleConsultStart,
		model.IntentPromotions:    d.handlePromotions,
		model.IntentWarranty:      d.handleWarranty,
		model.IntentSearchByBrand: d.handleBrandSearch,
		model.IntentPrice:         d.handlePrice,
		model.IntentColors:        d.handleColors,
		model.IntentInstallment:   d.handleInstallment,
		model.IntentCompare:       d.handleCompare,
		model.IntentBrandColor:    d.handleBrandColor,
		model.IntentBrandModels:   d.handleBrandModels,
		model.IntentStockStatus:   d.handleStockStatus,
	}
	return d
}

// WithSimilarity enables embedding-based similar-product suggestions.
func (d *DialogueController) WithSimilarity(embedder Embedder, similar SimilarityCatalog) *DialogueController {
	d.embedder = embedder
	d.similar = similar
	return d
}

// HandleMessage processes one chat message against the session snapshot and
// returns the reply plus whether the snapshot should be committed. A panic
// anywhere in the turn is converted into an apology with no commit.
func (d *DialogueController) HandleMessage(ctx context.Context, snap *session.Context, message string) (reply *model.ChatReply, commit bool) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("dialogue turn panicked", zap.Any("panic", r))
			reply = &model.ChatReply{Text: d.composer.Compose(ctx, promptTurnError(message))}
			commit = false
		}
	}()

	msg := strings.ToLower(strings.TrimSpace(message))

	if snap.State == session.StateAwaitingProductChoice {
		if r, handled := d.handleProductChoice(ctx, snap, msg); handled {
			return r, true
		}
		// The message does not reference the listed brand: exit the state
		// silently and interpret the message normally.
		snap.State = session.StateIdle
	}

	if snap.State >= session.StateConsultPurpose && snap.State <= session.StateConsultColor {
		return d.continueConsultation(ctx, snap, msg), true
	}

	res := d.resolver.Resolve(ctx, msg)
	if res.Degraded {
		// Classifier unavailable: apologize without touching the context.
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptUnrecognized(msg))}, false
	}

	t := &turn{ctx: snap, message: msg, res: res}

	var recorded bool
	if res.Intent == "" && res.Entities.Brand != "" {
		reply, recorded = d.listBrand(ctx, t, res.Entities.Brand, promptBrandList, promptBrandEmpty)
	} else {
		handler, ok := d.handlers[res.Intent]
		if !ok {
			handler = d.handleDefault
		}
		reply, recorded = handler(ctx, t)
	}

	if recorded {
		snap.LastIntent = res.Intent
		snap.AppendTurn(session.Turn{
			Intent:      res.Intent,
			ProductName: res.Entities.ProductName,
			Brand:       res.Entities.Brand,
			Message:     msg,
			Reply:       reply.Text,
		})
	}
	return reply, true
}

// handleProductChoice interprets the message as a pick from the brand
// listing shown on the previous turn. It reports handled=false when the
// message neither names the listed brand nor resolves to one of its
// products, in which case the caller falls back to normal processing.
func (d *DialogueController) handleProductChoice(ctx context.Context, snap *session.Context, msg string) (*model.ChatReply, bool) {
	brandMentioned := snap.LastBrand != "" && strings.Contains(msg, strings.ToLower(snap.LastBrand))

	product := d.lookupProduct(ctx, msg)
	if product != nil && (brandMentioned || strings.EqualFold(product.Brand, snap.LastBrand)) {
		snap.State = session.StateIdle
		snap.LastProduct = product
		snap.LastBrand = product.Brand
		reply := &model.ChatReply{
			Text:        d.composer.Compose(ctx, promptChosenProductDetail(msg, mustJSON(productFacts(product)))),
			ImageURL:    productImageURL(product),
			ShowButtons: true,
		}
		snap.AppendTurn(session.Turn{ProductName: product.Name, Brand: product.Brand, Message: msg, Reply: reply.Text})
		return reply, true
	}

	if brandMentioned {
		snap.State = session.StateIdle
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptChoiceNotFound(msg))}, true
	}
	return nil, false
}

// listBrand shows a brand's products and arms the product-choice state.
func (d *DialogueController) listBrand(ctx context.Context, t *turn, brand string, listPrompt func(string, string, string) string, emptyPrompt func(string, string) string) (*model.ChatReply, bool) {
	products, err := d.catalog.FindByBrand(ctx, brand, "", "")
	if err != nil {
		d.log.Warn("brand lookup failed", zap.String("brand", brand), zap.Error(err))
		return &model.ChatReply{Text: d.composer.Compose(ctx, emptyPrompt(t.message, brand))}, false
	}
	if len(products) == 0 {
		t.ctx.LastBrand = ""
		return &model.ChatReply{Text: d.composer.Compose(ctx, emptyPrompt(t.message, brand))}, false
	}

	products = d.ranker.Rank(products, 0, 0)
	reply := &model.ChatReply{
		Text:     d.composer.Compose(ctx, listPrompt(t.message, brand, mustJSON(listFacts(products)))),
		Products: productCards(products),
	}
	t.ctx.LastBrand = brand
	t.ctx.LastProduct = nil
	t.ctx.State = session.StateAwaitingProductChoice
	return reply, true
}

func (d *DialogueController) handlePriceSearch(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	var pr *utils.PriceRange
	if t.res.Entities.PriceRange != "" {
		pr = utils.ParseEntityPriceRange(t.res.Entities.PriceRange)
	}
	if pr == nil {
		pr = utils.ParsePriceRange(t.message)
	}
	if pr == nil {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptPriceClarify(t.message))}, false
	}
	if !pr.Valid() {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptPriceInvalid(t.message))}, false
	}

	products, err := d.catalog.FindByPriceRange(ctx, pr.Min, pr.Max)
	if err != nil {
		d.log.Warn("price range lookup failed", zap.Error(err))
		products = nil
	}
	minStr, maxStr := utils.FormatPriceVND(pr.Min), utils.FormatPriceVND(pr.Max)
	if len(products) == 0 {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptPriceEmpty(t.message, minStr, maxStr))}, false
	}

	products = d.ranker.Rank(products, pr.Min, pr.Max)
	return &model.ChatReply{
		Text:     d.composer.Compose(ctx, promptPriceList(t.message, minStr, maxStr, mustJSON(listFacts(products)))),
		Products: productCards(products),
	}, true
}

func (d *DialogueController) handleProductInfo(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	name := d.targetProductName(t)
	if name == "" {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptNeedProductForInfo(t.message))}, false
	}

	product := d.lookupProduct(ctx, name)
	if product == nil {
		return d.suggestInstead(ctx, t, name), false
	}

	t.ctx.LastProduct = product
	t.ctx.LastBrand = product.Brand
	return &model.ChatReply{
		Text:        d.composer.Compose(ctx, promptProductDetail(t.message, mustJSON(productFacts(product)))),
		ImageURL:    productImageURL(product),
		ShowButtons: true,
	}, true
}

// suggestInstead offers similar products when a detail lookup misses. The
// embedding path is preferred when configured; otherwise same-brand
// suggestions anchored on the resolved or remembered brand.
func (d *DialogueController) suggestInstead(ctx context.Context, t *turn, name string) *model.ChatReply {
	similar := d.suggestByEmbedding(ctx, name)
	if len(similar) == 0 {
		brand := t.res.Entities.Brand
		if brand == "" {
			brand = t.ctx.LastBrand
		}
		if brand == "" {
			brand = "Apple"
		}
		var err error
		similar, err = d.catalog.SuggestSimilar(ctx, brand, name)
		if err != nil {
			d.log.Warn("similar product lookup failed", zap.Error(err))
			similar = nil
		}
	}

	if len(similar) > 0 {
		return &model.ChatReply{
			Text:     d.composer.Compose(ctx, promptSimilarProducts(t.message, name, mustJSON(listFacts(similar)))),
			Products: productCards(similar),
		}
	}
	return &model.ChatReply{Text: d.composer.Compose(ctx, promptNotFoundNoSimilar(t.message, name))}
}

func (d *DialogueController) suggestByEmbedding(ctx context.Context, query string) []model.Product {
	if d.embedder == nil || d.similar == nil || !d.embedder.IsEnabled() {
		return nil
	}
	embeddings, err := d.embedder.EmbedTexts(ctx, []string{query})
	if err != nil || len(embeddings) == 0 {
		if err != nil {
			d.log.Warn("query embedding failed", zap.Error(err))
		}
		return nil
	}
	products, err := d.similar.SuggestByEmbedding(ctx, embeddings[0], 0, 3)
	if err != nil {
		d.log.Warn("embedding suggestion failed", zap.Error(err))
		return nil
	}
	return products
}

// handleConsultStart anchors the consultation on a product and asks the
// first question. Answers arrive on later turns and are routed by state.
func (d *DialogueController) handleConsultStart(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	name := d.targetProductName(t)
	if name == "" {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptConsultNeedProduct(t.message))}, false
	}

	product := d.lookupProduct(ctx, name)
	if product == nil && t.ctx.LastProduct != nil {
		product = t.ctx.LastProduct
	}
	if product == nil {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptConsultNotFound(t.message, name))}, false
	}

	t.ctx.Consultation.Reset()
	t.ctx.State = session.StateConsultPurpose
	t.ctx.LastProduct = product
	t.ctx.LastBrand = product.Brand
	return &model.ChatReply{
		Text:     d.composer.Compose(ctx, promptConsultAskPurpose(t.message, mustJSON(productFacts(product)))),
		ImageURL: productImageURL(product),
	}, true
}

// continueConsultation files the answer for the question asked last turn
// and either asks the next question or closes with a recommendation.
func (d *DialogueController) continueConsultation(ctx context.Context, snap *session.Context, msg string) *model.ChatReply {
	product := snap.LastProduct
	if product == nil {
		// Anchor lost; abandon the flow rather than guess.
		snap.State = session.StateIdle
		snap.Consultation.Reset()
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptConsultNeedProduct(msg))}
	}

	facts := mustJSON(productFacts(product))
	var reply *model.ChatReply

	switch snap.State {
	case session.StateConsultPurpose:
		snap.Consultation.Purpose = msg
		snap.State = session.StateConsultBudget
		reply = &model.ChatReply{Text: d.composer.Compose(ctx, promptConsultAskBudget(msg, facts))}
	case session.StateConsultBudget:
		snap.Consultation.Budget = msg
		snap.State = session.StateConsultFeature
		reply = &model.ChatReply{Text: d.composer.Compose(ctx, promptConsultAskFeature(msg, facts))}
	case session.StateConsultFeature:
		snap.Consultation.Feature = msg
		snap.State = session.StateConsultColor
		reply = &model.ChatReply{Text: d.composer.Compose(ctx, promptConsultAskColor(msg, facts))}
	default: // StateConsultColor
		snap.Consultation.Color = msg
		reply = &model.ChatReply{
			Text:        d.composer.Compose(ctx, promptConsultSummary(msg, facts, mustJSON(snap.Consultation))),
			ImageURL:    productImageURL(product),
			ShowButtons: true,
		}
		snap.Consultation.Reset()
		snap.State = session.StateIdle
	}

	snap.LastIntent = model.IntentConsult
	snap.AppendTurn(session.Turn{
		Intent:      model.IntentConsult,
		ProductName: product.Name,
		Brand:       product.Brand,
		Message:     msg,
		Reply:       reply.Text,
	})
	return reply
}

func (d *DialogueController) handlePromotions(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	return d.answerAboutProduct(ctx, t, promotionFacts, "khuyến mãi", "có muốn đặt mua không", `iPhone 14 có khuyến mãi gì không?`)
}

func (d *DialogueController) handleWarranty(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	return d.answerAboutProduct(ctx, t, warrantyFacts, "bảo hành", "có muốn biết thêm thông tin không", `Bảo hành của Galaxy S23 bao lâu?`)
}

func (d *DialogueController) handlePrice(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	return d.answerAboutProduct(ctx, t, priceFacts, "giá", "có muốn biết thêm thông tin không", `iPhone 14 giá bao nhiêu?`)
}

func (d *DialogueController) handleColors(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	return d.answerAboutProduct(ctx, t, colorFacts, "màu sắc", "có muốn biết thêm thông tin không", `iPhone 14 có màu gì?`)
}

func (d *DialogueController) handleInstallment(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	return d.answerAboutProduct(ctx, t, installmentFacts, "trả góp", "có muốn biết thêm hoặc đặt mua không", `iPhone 14 có trả góp không?`)
}

// answerAboutProduct is the shared skeleton of the single-product attribute
// branches: resolve the target, fetch it, answer about one aspect.
func (d *DialogueController) answerAboutProduct(ctx context.Context, t *turn, facts func(*model.Product) map[string]interface{}, aspect, followUp, example string) (*model.ChatReply, bool) {
	name := d.targetProductName(t)
	if name == "" {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptNeedProduct(t.message, example))}, false
	}

	product := d.lookupProduct(ctx, name)
	if product == nil {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptProductNotFound(t.message, name))}, false
	}

	t.ctx.LastProduct = product
	t.ctx.LastBrand = product.Brand
	return &model.ChatReply{
		Text:        d.composer.Compose(ctx, promptProductAspect(t.message, mustJSON(facts(product)), aspect, followUp)),
		ImageURL:    productImageURL(product),
		ShowButtons: true,
	}, true
}

func (d *DialogueController) handleBrandSearch(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	brand := t.res.Entities.Brand
	if brand == "" {
		brand = t.ctx.LastBrand
	}
	if brand == "" {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptNeedBrand(t.message, `Có sản phẩm nào của Samsung không?`))}, false
	}
	return d.listBrand(ctx, t, brand, promptBrandList, promptBrandEmpty)
}

func (d *DialogueController) handleBrandModels(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	brand := t.res.Entities.Brand
	if brand == "" {
		brand = utils.ExtractBrand(t.message)
	}
	if brand == "" {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptNeedBrand(t.message, `Shop có bán iPhone không?`))}, false
	}
	reply, recorded := d.listBrand(ctx, t, brand, promptBrandModelsList, promptBrandModelsEmpty)
	if recorded && len(reply.Products) > 0 {
		reply.ImageURL = reply.Products[0].ImageURL
		reply.ShowButtons = true
	}
	return reply, recorded
}

func (d *DialogueController) handleBrandColor(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	brand := t.res.Entities.Brand
	if brand == "" {
		brand = t.ctx.LastBrand
	}
	color := t.res.Entities.Color
	if brand == "" || color == "" {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptBrandColorClarify(t.message))}, false
	}

	products, err := d.catalog.FindByBrand(ctx, brand, "", color)
	if err != nil {
		d.log.Warn("brand color lookup failed", zap.Error(err))
		products = nil
	}
	if len(products) == 0 {
		t.ctx.LastBrand = ""
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptBrandColorEmpty(t.message, brand, color))}, false
	}

	products = d.ranker.Rank(products, 0, 0)
	t.ctx.LastBrand = brand
	t.ctx.LastProduct = nil
	return &model.ChatReply{
		Text:     d.composer.Compose(ctx, promptBrandColorList(t.message, brand, color, mustJSON(listFacts(products)))),
		Products: productCards(products),
	}, true
}

func (d *DialogueController) handleCompare(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	names := t.res.Entities.ProductNames
	if len(names) < 2 {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptCompareNeedTwo(t.message))}, false
	}

	first := d.lookupProduct(ctx, names[0])
	second := d.lookupProduct(ctx, names[1])
	if first == nil || second == nil {
		return &model.ChatReply{Text: d.composer.Compose(ctx, promptCompareMissing(t.message, names[0], names[1]))}, false
	}

	facts := mustJSON(map[string]interface{}{
		"product1": compareFacts(first),
		"product2": compareFacts(second),
	})
	t.ctx.LastProduct = nil
	t.ctx.LastBrand = ""
	return &model.ChatReply{Text: d.composer.Compose(ctx, promptCompare(t.message, facts))}, true
}

func (d *DialogueController) handleStockStatus(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	return &model.ChatReply{Text: d.composer.Compose(ctx, promptStockStatus(t.message))}, true
}

// handleDefault answers from the remembered context and forgets the product
// anchor so stale references do not leak into later turns.
func (d *DialogueController) handleDefault(ctx context.Context, t *turn) (*model.ChatReply, bool) {
	lastProduct := "không có sản phẩm"
	if t.ctx.LastProduct != nil {
		lastProduct = t.ctx.LastProduct.Name
	}
	lastBrand := t.ctx.LastBrand
	if lastBrand == "" {
		lastBrand = "không có thương hiệu"
	}
	lastIntent := t.ctx.LastIntent
	if lastIntent == "" {
		lastIntent = "không có intent"
	}

	summary := mustJSON(map[string]interface{}{
		"lastProduct":  lastProduct,
		"lastBrand":    lastBrand,
		"lastIntent":   lastIntent,
		"history":      t.ctx.RecentTurns(3),
		"consultation": t.ctx.Consultation,
	})
	reply := &model.ChatReply{Text: d.composer.Compose(ctx, promptDefault(t.message, summary))}
	t.ctx.LastProduct = nil
	t.ctx.LastBrand = ""
	return reply, true
}

// targetProductName prefers the resolved product name and falls back to the
// last referenced product.
func (d *DialogueController) targetProductName(t *turn) string {
	if t.res.Entities.ProductName != "" {
		return t.res.Entities.ProductName
	}
	if t.ctx.LastProduct != nil {
		return t.ctx.LastProduct.Name
	}
	return ""
}

// lookupProduct fetches by name, treating catalog errors as a miss.
func (d *DialogueController) lookupProduct(ctx context.Context, name string) *model.Product {
	product, err := d.catalog.GetProductByName(ctx, name)
	if err != nil {
		d.log.Warn("product lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	return product
}

func productImageURL(p *model.Product) string {
	if p.ImageURL != nil && *p.ImageURL != "" {
		return "/images/" + *p.ImageURL
	}
	return ""
}

func productCards(products []model.Product) []model.ProductCard {
	cards := make([]model.ProductCard, 0, len(products))
	for i := range products {
		p := &products[i]
		imageURL := "/images/default.jpg"
		if p.ImageURL != nil && *p.ImageURL != "" {
			imageURL = "/images/" + *p.ImageURL
		}
		cards = append(cards, model.ProductCard{
			Name:     p.Name,
			Brand:    p.Brand,
			Price:    utils.FormatPriceVND(p.Price),
			ImageURL: imageURL,
		})
	}
	return cards
}
