package model

// Intent names as produced by the external classifier. The Vietnamese names
// are part of the trained classifier app and are kept verbatim.
const (
	IntentSearchByPrice = "tim_kiem_theo_gia"
	IntentProductInfo   = "thong_tin_san_pham"
	IntentConsult       = "tu_van_san_pham"
	IntentPromotions    = "hoi_khuyen_mai"
	IntentWarranty      = "hoi_bao_hanh"
	IntentSearchByBrand = "tim_kiem_theo_thuong_hieu"
	IntentPrice         = "hoi_gia"
	IntentColors        = "hoi_mau_sac"
	IntentInstallment   = "hoi_tra_gop"
	IntentCompare       = "so_sanh_san_pham"
	IntentBrandColor    = "tim_kiem_thuong_hieu_mau"
	IntentBrandModels   = "hoi_mau_san_pham"
	IntentStockStatus   = "hoi_tinh_trang_hang"
)

// Entities holds the typed values extracted from one utterance.
type Entities struct {
	// ProductName is the effective primary product reference: the first
	// classifier extraction when it actually occurs in the message, the raw
	// message otherwise.
	ProductName string
	// ProductNames are the raw classifier extractions, in order. Product
	// comparison needs the first two.
	ProductNames []string
	PriceRange   string
	Feature      string
	Color        string
	Brand        string
}

// Resolution is the normalized (intent, entities) outcome of intent
// resolution. Intent is empty when classification succeeded but no intent
// was recognized; Degraded is true when the classifier itself was
// unavailable and the caller must take the generic fallback path.
type Resolution struct {
	Degraded bool
	Intent   string
	Entities Entities
}
