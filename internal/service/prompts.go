package service

import (
	"encoding/json"
	"fmt"

	"phonestore/internal/model"
	"phonestore/internal/utils"
)

// All reply text is generated from Vietnamese instructions that inline the
// database facts as JSON, so the generator never invents product data.

const promptPreamble = "Bạn là chatbot của một cửa hàng điện thoại."

func mustJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// productFacts is the full fact sheet for detail and consultation prompts.
func productFacts(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":            p.Name,
		"brand":           p.Brand,
		"description":     stringOr(p.Description, "Chưa có mô tả"),
		"price":           utils.FormatPriceVND(p.Price),
		"colors":          stringOr(p.Colors, "Không có thông tin"),
		"storage":         stringOr(p.Storage, "Không có thông tin"),
		"release_date":    releaseDateFact(p),
		"warranty_period": warrantyFact(p),
		"promotion_names": stringOr(p.PromotionNames, ""),
		"features":        stringOr(p.Features, ""),
	}
}

func promotionFacts(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":            p.Name,
		"promotion_names": stringOr(p.PromotionNames, "Không có khuyến mãi"),
	}
}

func warrantyFacts(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":            p.Name,
		"warranty_period": warrantyFact(p),
	}
}

func priceFacts(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":  p.Name,
		"price": utils.FormatPriceVND(p.Price),
	}
}

func colorFacts(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":   p.Name,
		"colors": stringOr(p.Colors, "Không có thông tin"),
	}
}

func installmentFacts(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":    p.Name,
		"price":   utils.FormatPriceVND(p.Price),
		"tra_gop": "Hỗ trợ trả góp 0% lãi suất trong 6 tháng",
	}
}

func compareFacts(p *model.Product) map[string]interface{} {
	return map[string]interface{}{
		"name":     p.Name,
		"price":    utils.FormatPriceVND(p.Price),
		"colors":   stringOr(p.Colors, "Không có thông tin"),
		"storage":  stringOr(p.Storage, "Không có thông tin"),
		"features": stringOr(p.Features, "Không có thông tin"),
	}
}

func stringOr(s *string, fallback string) string {
	if s != nil && *s != "" {
		return *s
	}
	return fallback
}

func releaseDateFact(p *model.Product) string {
	if p.ReleaseDate == nil {
		return "Không có thông tin"
	}
	return p.ReleaseDate.Format("2006-01-02")
}

func warrantyFact(p *model.Product) string {
	if p.WarrantyPeriod == nil || *p.WarrantyPeriod == 0 {
		return "Không có"
	}
	return fmt.Sprintf("%d tháng", *p.WarrantyPeriod)
}

// listFacts is the compact card form used in listing prompts.
func listFacts(products []model.Product) []map[string]interface{} {
	list := make([]map[string]interface{}, 0, len(products))
	for i := range products {
		p := &products[i]
		list = append(list, map[string]interface{}{
			"name":      p.Name,
			"brand":     p.Brand,
			"price":     utils.FormatPriceVND(p.Price),
			"image_url": stringOr(p.ImageURL, ""),
		})
	}
	return list
}

func promptProductDetail(message string, facts string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên thông tin sản phẩm từ cơ sở dữ liệu: %s, hãy trả lời tự nhiên, cung cấp đầy đủ thông tin và hỏi xem người dùng có muốn đặt mua không.`, promptPreamble, message, facts)
}

func promptChosenProductDetail(message string, facts string) string {
	return fmt.Sprintf(`%s Người dùng hỏi về sản phẩm "%s". Dựa trên thông tin sản phẩm từ cơ sở dữ liệu: %s, hãy trả lời tự nhiên và cung cấp đầy đủ thông tin, đồng thời hỏi xem người dùng có muốn đặt mua không.`, promptPreamble, message, facts)
}

func promptChoiceNotFound(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi về sản phẩm "%s", nhưng không tìm thấy trong cơ sở dữ liệu. Hãy trả lời tự nhiên, giải thích rằng không tìm thấy và gợi ý người dùng thử lại.`, promptPreamble, message)
}

func promptUnrecognized(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s", nhưng hệ thống không thể nhận diện ý định. Hãy trả lời tự nhiên, xin lỗi và gợi ý người dùng thử lại hoặc cung cấp thêm thông tin.`, promptPreamble, message)
}

func promptBrandList(message, brand string, list string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên dữ liệu từ cơ sở dữ liệu, cửa hàng có các sản phẩm của thương hiệu %s: %s. Hãy trả lời tự nhiên, liệt kê sản phẩm dưới dạng danh sách và hỏi xem người dùng có muốn chọn mẫu nào không.`, promptPreamble, message, brand, list)
}

func promptBrandEmpty(message, brand string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm nào của thương hiệu %s trong cơ sở dữ liệu. Hãy trả lời tự nhiên, thông báo không có sản phẩm và gợi ý hỏi về thương hiệu khác.`, promptPreamble, message, brand)
}

func promptBrandModelsList(message, brand string, list string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên dữ liệu từ cơ sở dữ liệu, đây là các sản phẩm của %s: %s. Hãy trả lời tự nhiên, liệt kê sản phẩm dưới dạng văn bản và hỏi xem người dùng có muốn chọn mẫu nào không.`, promptPreamble, message, brand, list)
}

func promptBrandModelsEmpty(message, brand string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm nào của %s trong cơ sở dữ liệu. Hãy trả lời tự nhiên, thông báo không có sản phẩm và gợi ý hỏi về thương hiệu khác.`, promptPreamble, message, brand)
}

func promptNeedBrand(message, example string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s", nhưng không xác định được thương hiệu. Hãy trả lời tự nhiên, yêu cầu người dùng chỉ rõ thương hiệu, ví dụ: "%s"`, promptPreamble, message, example)
}

func promptPriceClarify(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không thể hiểu rõ khoảng giá từ câu hỏi. Hãy trả lời tự nhiên, xin lỗi và gợi ý người dùng cung cấp thêm thông tin về ngân sách, ví dụ: "Có điện thoại nào dưới 10 triệu không?"`, promptPreamble, message)
}

func promptPriceInvalid(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Khoảng giá không hợp lệ. Hãy trả lời tự nhiên, thông báo lỗi và yêu cầu kiểm tra lại.`, promptPreamble, message)
}

func promptPriceList(message, minPrice, maxPrice string, list string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên dữ liệu từ cơ sở dữ liệu, đây là các sản phẩm trong khoảng giá từ %s đến %s: %s. Hãy trả lời tự nhiên, liệt kê sản phẩm và hỏi xem người dùng có muốn chọn mẫu nào không.`, promptPreamble, message, minPrice, maxPrice, list)
}

func promptPriceEmpty(message, minPrice, maxPrice string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm nào trong khoảng giá từ %s đến %s. Hãy trả lời tự nhiên, thông báo không có sản phẩm và gợi ý xem các dòng khác.`, promptPreamble, message, minPrice, maxPrice)
}

func promptNeedProduct(message, example string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s", nhưng không chỉ rõ sản phẩm nào. Hãy trả lời tự nhiên, yêu cầu người dùng chỉ rõ sản phẩm, ví dụ: "%s"`, promptPreamble, message, example)
}

func promptNeedProductForInfo(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s", nhưng không xác định được sản phẩm nào. Hãy trả lời tự nhiên, yêu cầu người dùng chỉ rõ sản phẩm, ví dụ: "Thông tin iPhone 14".`, promptPreamble, message)
}

func promptSimilarProducts(message, name string, list string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm "%s", nhưng có các sản phẩm tương tự: %s. Hãy trả lời tự nhiên, thông báo không tìm thấy và liệt kê sản phẩm tương tự.`, promptPreamble, message, name, list)
}

func promptNotFoundNoSimilar(message, name string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm "%s" trong cơ sở dữ liệu và cũng không có sản phẩm tương tự. Hãy trả lời tự nhiên, thông báo không tìm thấy và gợi ý tìm sản phẩm khác.`, promptPreamble, message, name)
}

func promptProductNotFound(message, name string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm "%s" trong cơ sở dữ liệu. Hãy trả lời tự nhiên, thông báo không tìm thấy và gợi ý hỏi về sản phẩm khác.`, promptPreamble, message, name)
}

func promptConsultNeedProduct(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s", nhưng không chỉ rõ sản phẩm nào để tư vấn. Hãy trả lời tự nhiên, yêu cầu người dùng cung cấp tên sản phẩm, ví dụ: "Tư vấn iPhone 14".`, promptPreamble, message)
}

func promptConsultNotFound(message, name string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm "%s" trong cơ sở dữ liệu. Hãy trả lời tự nhiên, thông báo không tìm thấy và gợi ý tư vấn sản phẩm khác.`, promptPreamble, message, name)
}

func promptConsultAskPurpose(message, facts string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên thông tin sản phẩm: %s, hãy trả lời tự nhiên, chào hỏi và hỏi người dùng về mục đích sử dụng điện thoại (ví dụ: chụp ảnh, chơi game, xem phim, làm việc).`, promptPreamble, message, facts)
}

func promptConsultAskBudget(message, facts string) string {
	return fmt.Sprintf(`%s Người dùng trả lời mục đích sử dụng: "%s". Dựa trên sản phẩm: %s, hãy trả lời tự nhiên, cảm ơn và hỏi về ngân sách của họ (ví dụ: 10 triệu, 20 triệu).`, promptPreamble, message, facts)
}

func promptConsultAskFeature(message, facts string) string {
	return fmt.Sprintf(`%s Người dùng trả lời ngân sách: "%s". Dựa trên sản phẩm: %s, hãy trả lời tự nhiên, cảm ơn và hỏi về tính năng họ quan tâm (ví dụ: camera, hiệu năng, pin).`, promptPreamble, message, facts)
}

func promptConsultAskColor(message, facts string) string {
	return fmt.Sprintf(`%s Người dùng trả lời tính năng quan tâm: "%s". Dựa trên sản phẩm: %s, hãy trả lời tự nhiên, cảm ơn và hỏi về màu sắc họ thích (ví dụ: đen, trắng, xanh).`, promptPreamble, message, facts)
}

func promptConsultSummary(message, facts, consultation string) string {
	return fmt.Sprintf(`%s Người dùng trả lời màu sắc: "%s". Dựa trên thông tin sản phẩm: %s và thông tin tư vấn: %s, hãy trả lời tự nhiên, tóm tắt nhu cầu của họ và gợi ý sản phẩm phù hợp, sau đó hỏi xem họ có muốn xem chi tiết không.`, promptPreamble, message, facts, consultation)
}

func promptProductAspect(message, facts, aspect, followUp string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên thông tin sản phẩm từ cơ sở dữ liệu: %s, hãy trả lời tự nhiên về %s và hỏi xem người dùng %s.`, promptPreamble, message, facts, aspect, followUp)
}

func promptCompare(message string, facts string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên thông tin từ cơ sở dữ liệu: %s, hãy trả lời tự nhiên, so sánh hai sản phẩm và hỏi xem người dùng có muốn xem chi tiết không.`, promptPreamble, message, facts)
}

func promptCompareMissing(message, name1, name2 string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy một trong hai sản phẩm "%s" hoặc "%s" trong cơ sở dữ liệu. Hãy trả lời tự nhiên, thông báo lỗi và gợi ý thử lại.`, promptPreamble, message, name1, name2)
}

func promptCompareNeedTwo(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s", nhưng không cung cấp đủ tên hai sản phẩm để so sánh. Hãy trả lời tự nhiên, yêu cầu người dùng chỉ rõ hai sản phẩm, ví dụ: "So sánh iPhone 14 và Galaxy S23".`, promptPreamble, message)
}

func promptBrandColorList(message, brand, color string, list string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Dựa trên dữ liệu từ cơ sở dữ liệu, đây là các sản phẩm của %s màu %s: %s. Hãy trả lời tự nhiên, liệt kê sản phẩm và hỏi xem người dùng có muốn xem chi tiết không.`, promptPreamble, message, brand, color, list)
}

func promptBrandColorEmpty(message, brand, color string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không tìm thấy sản phẩm nào của %s màu %s trong cơ sở dữ liệu. Hãy trả lời tự nhiên, thông báo không có sản phẩm và gợi ý xem màu khác.`, promptPreamble, message, brand, color)
}

func promptBrandColorClarify(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s", nhưng không đủ thông tin về thương hiệu hoặc màu sắc. Hãy trả lời tự nhiên, yêu cầu người dùng chỉ rõ thương hiệu và màu, ví dụ: "Có sản phẩm Samsung màu đen không?"`, promptPreamble, message)
}

func promptStockStatus(message string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Hãy trả lời tự nhiên rằng tất cả sản phẩm đều chính hãng, mới 100%% và còn nguyên bảo hành, sau đó hỏi xem người dùng có muốn xem chi tiết sản phẩm nào không.`, promptPreamble, message)
}

func promptDefault(message string, contextSummary string) string {
	return fmt.Sprintf(`%s Người dùng hỏi: "%s". Không nhận diện được ý định cụ thể. Dựa trên ngữ cảnh: %s, hãy trả lời tự nhiên và phù hợp.`, promptPreamble, message, contextSummary)
}

func promptTurnError(message string) string {
	return fmt.Sprintf(`%s Đã xảy ra lỗi khi xử lý câu hỏi: "%s". Hãy trả lời tự nhiên, xin lỗi và gợi ý thử lại sau.`, promptPreamble, message)
}
