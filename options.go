package mhtml2html

import "log/slog"

type config struct {
	provider       DOMProvider
	convertIframes bool
	strict         bool
	log            *slog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		provider: ParseDOM,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Option configures Parse and Convert.
type Option func(*config)

// WithDOMProvider injects the capability used to parse HTML into a mutable
// element tree (default: the x/net/html-backed ParseDOM).
func WithDOMProvider(p DOMProvider) Option {
	return func(c *config) {
		c.provider = p
	}
}

// WithConvertIframes enables recursive inlining of cid: iframes into
// data: URIs (default: false, cid: URLs are left in place).
func WithConvertIframes(convert bool) Option {
	return func(c *config) {
		c.convertIframes = convert
	}
}

// WithStrict makes the parser reject archives that lenient mode would
// repair: parts missing required headers are errors instead of being
// dropped, and the first part must be the HTML index.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithLogger sets the logger used for non-fatal skip paths (default:
// slog.Default).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}
