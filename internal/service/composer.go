package service

import (
	"context"

	"go.uber.org/zap"
)

// FallbackReply is the generic apology used whenever reply generation fails.
const FallbackReply = "Xin lỗi, tôi không thể trả lời ngay bây giờ. Bạn có thể hỏi lại hoặc cung cấp thêm thông tin không?"

// ResponseComposer turns a prompt instruction into user-facing text. It
// absorbs generator failures so callers never see an error, only the
// fallback apology.
type ResponseComposer struct {
	generator TextGenerator
	log       *zap.Logger
}

// NewResponseComposer creates a new response composer
func NewResponseComposer(generator TextGenerator, log *zap.Logger) *ResponseComposer {
	return &ResponseComposer{generator: generator, log: log}
}

// Compose generates reply text for the instruction, falling back to the
// apology string when the generator is missing or errors.
func (c *ResponseComposer) Compose(ctx context.Context, instruction string) string {
	if c.generator == nil {
		return FallbackReply
	}
	text, err := c.generator.GenerateText(ctx, instruction)
	if err != nil {
		c.log.Warn("reply generation failed", zap.Error(err))
		return FallbackReply
	}
	if text == "" {
		return FallbackReply
	}
	return text
}
