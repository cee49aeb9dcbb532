package shader

// CacheBuilderOption is a functional option applied to a cache during construction via NewCache.
type CacheBuilderOption func(*cache)

// WithTemplates replaces the embedded templates with the given source.
//
// Parameters:
//   - src: the template source
//
// Returns:
//   - CacheBuilderOption: a function that applies the template option to a cache
func WithTemplates(src TemplateSource) CacheBuilderOption {
	return func(c *cache) {
		if src != nil {
			c.templates = src
		}
	}
}
