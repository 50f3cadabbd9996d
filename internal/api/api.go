package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL matches the backend's development address.
	DefaultBaseURL = "http://localhost:8000/api"

	defaultHTTPTimeout = 3 * time.Minute
	maxErrorBodyBytes  = 4 << 10
)

// Provider selects which backend credential and model path summarizes a video.
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

// DefaultProvider is used when nothing else was chosen.
const DefaultProvider = ProviderGemini

// Providers lists the supported providers in display order.
var Providers = []Provider{ProviderGemini, ProviderOpenAI}

// ParseProvider normalizes user input into a supported Provider.
func ParseProvider(value string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(value))) {
	case ProviderGemini:
		return ProviderGemini, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	default:
		return "", errors.Errorf("unknown provider %q (want gemini or openai)", value)
	}
}

// Label returns a human readable provider name.
func (p Provider) Label() string {
	switch p {
	case ProviderGemini:
		return "Gemini (Google)"
	case ProviderOpenAI:
		return "OpenAI (GPT)"
	default:
		return string(p)
	}
}

// Next cycles through Providers.
func (p Provider) Next() Provider {
	for i, candidate := range Providers {
		if candidate == p {
			return Providers[(i+1)%len(Providers)]
		}
	}
	return DefaultProvider
}

// Config is the wire shape of the remote configuration resource.
type Config struct {
	GeminiAPIKey string `json:"gemini_api_key"`
	OpenAIAPIKey string `json:"openai_api_key"`
}

// SummarizeRequest is the wire shape of a summarization submission.
type SummarizeRequest struct {
	URL              string   `json:"url"`
	Provider         Provider `json:"provider"`
	PromptSupplement string   `json:"prompt_supplement"`
}

// Options describes how to build a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	// SummarizePerMinute caps /summarize submissions; zero disables the limit.
	SummarizePerMinute int
	SummarizeBurst     int
	Logger             logrus.FieldLogger
}

// Client talks to the summarization backend.
type Client struct {
	base    string
	client  *http.Client
	limiter *rate.Limiter
	log     logrus.FieldLogger
}

// New builds a Client from opts, filling in defaults.
func New(opts Options) *Client {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		base:    base,
		client:  pickHTTPClient(opts.HTTPClient),
		limiter: newLimiter(opts.SummarizePerMinute, opts.SummarizeBurst),
		log:     logger.WithField("component", "api"),
	}
}

// BaseURL reports the normalized endpoint root.
func (c *Client) BaseURL() string {
	return c.base
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Summaries routinely take longer than a minute; callers bound each call with a context.
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func newLimiter(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}
