package content

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/synapse-kb/synapse/internal/domain"
)

const classifyMaxTokens = 10

// Classifier assigns a content type to captured items that arrive without
// one. URL patterns are checked first; the LLM is consulted only when they
// give no answer, and keyword heuristics cover the rate-limited case.
type Classifier struct {
	chat    ChatCompleter
	limiter RateLimiter
	logger  *zap.Logger
}

// NewClassifier creates a classifier. chat may be nil, in which case only
// URL patterns and keyword heuristics apply.
func NewClassifier(chat ChatCompleter, limiter RateLimiter, logger *zap.Logger) *Classifier {
	return &Classifier{chat: chat, limiter: limiter, logger: logger}
}

// Classify returns the content type for the given capture. It always
// produces a valid type; every failure path lands on the article default.
func (c *Classifier) Classify(ctx context.Context, title, body, sourceURL string) domain.ContentType {
	if ct, ok := classifyByURL(title, sourceURL); ok {
		return ct
	}

	if c.chat == nil {
		return classifyByKeywords(body)
	}
	if c.limiter != nil {
		if ok, wait := c.limiter.Allow(); !ok {
			c.logger.Debug("classification rate limited, using keyword heuristics",
				zap.Duration("retry_after", wait))
			return classifyByKeywords(body)
		}
	}

	raw, err := c.chat.Complete(ctx, "classify", classifyPrompt(title, body, sourceURL), classifyMaxTokens)
	if err != nil {
		c.logger.Warn("classification LLM call failed, using default", zap.Error(err))
		return domain.TypeArticle
	}

	ct, err := domain.ParseContentType(raw)
	if err != nil {
		c.logger.Warn("classification response not a known type, using default",
			zap.String("response", strings.TrimSpace(raw)))
		return domain.TypeArticle
	}
	return ct
}

// classifyByURL is the fast path over well-known URL shapes.
func classifyByURL(title, sourceURL string) (domain.ContentType, bool) {
	u := strings.ToLower(sourceURL)
	switch {
	case u == "":
		return "", false
	case strings.Contains(u, "youtube.com"), strings.Contains(u, "youtu.be"):
		return domain.TypeVideo, true
	case strings.Contains(u, "amazon.com"), strings.Contains(u, "ebay.com"), strings.Contains(u, "shop"):
		return domain.TypeProduct, true
	case strings.Contains(u, "github.com") && strings.Contains(u, "/issues/"):
		return domain.TypeTodo, true
	case strings.Contains(u, "goodreads.com"), strings.Contains(strings.ToLower(title), "book"):
		return domain.TypeBook, true
	default:
		return "", false
	}
}

// classifyByKeywords is the offline fallback when the LLM is unavailable.
func classifyByKeywords(body string) domain.ContentType {
	lower := strings.ToLower(body)
	switch {
	case strings.Contains(lower, "price") || strings.Contains(body, "$"):
		return domain.TypeProduct
	case len(body) < 200 && strings.ContainsAny(body, "\"“”"):
		return domain.TypeQuote
	case strings.Contains(lower, "todo") || strings.Contains(lower, "task"):
		return domain.TypeTodo
	default:
		return domain.TypeArticle
	}
}

func classifyPrompt(title, body, sourceURL string) string {
	return `Classify this content into ONE of these categories:
- article (blog post, news, documentation)
- product (e-commerce item, something for sale)
- video (video content)
- todo (task, checklist item)
- note (personal note, memo)
- book (book reference, review)
- quote (notable quote, saying)

Title: ` + head(title, 100) + `
URL: ` + sourceURL + `
Content preview: ` + head(body, 200) + `

Respond with just the category name.`
}

func head(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}
