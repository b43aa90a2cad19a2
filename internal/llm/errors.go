package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	custom_errors "archgen/internal/errors"
)

// ClassifyError maps a provider error onto the application's upstream kinds:
// 429 or a rate-limit message is RateLimited, 402 or a quota/credit message
// is QuotaExhausted, and everything else is a generic Upstream error.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *custom_errors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	status, code := statusAndCode(err)
	lower := strings.ToLower(err.Error() + " " + code)

	switch {
	case status == http.StatusTooManyRequests && !isQuotaMessage(lower):
		return custom_errors.RateLimited(err)
	case status == http.StatusPaymentRequired || isQuotaMessage(lower):
		return custom_errors.QuotaExhausted(err)
	case status == 0 && (strings.Contains(lower, "rate_limit") || strings.Contains(lower, "rate limit")):
		return custom_errors.RateLimited(err)
	case errors.Is(err, context.DeadlineExceeded):
		return custom_errors.Upstream("AI request timed out", http.StatusGatewayTimeout, err)
	}

	if status == 0 {
		return custom_errors.Upstream("AI gateway error", 0, err)
	}
	return custom_errors.Upstream(fmt.Sprintf("AI gateway error: %d", status), status, err)
}

// OpenAI reports an exhausted balance as 429 insufficient_quota; gateways
// and Anthropic phrase it differently.
func isQuotaMessage(lower string) bool {
	return strings.Contains(lower, "insufficient_quota") ||
		strings.Contains(lower, "credit balance") ||
		strings.Contains(lower, "payment required")
}

func statusAndCode(err error) (int, string) {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := ""
		if s, ok := apiErr.Code.(string); ok {
			code = s
		}
		return apiErr.HTTPStatusCode, code + " " + apiErr.Type
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode, ""
	}

	msg := err.Error()
	for _, s := range []int{http.StatusPaymentRequired, http.StatusTooManyRequests} {
		if strings.Contains(msg, fmt.Sprintf("%d", s)) {
			return s, ""
		}
	}
	return 0, ""
}
