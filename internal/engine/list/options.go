package list

// config holds construction-time settings.
type config struct {
	source string
	labels []string
}

func defaultConfig() config {
	return config{source: "sectionlist"}
}

// Option configures a List at construction.
type Option func(*config)

// WithSource sets the source name stamped into event metadata.
func WithSource(source string) Option {
	return func(c *config) {
		c.source = source
	}
}

// WithSections creates the list with one labeled section per argument.
func WithSections(labels ...string) Option {
	return func(c *config) {
		c.labels = append(c.labels, labels...)
	}
}

// WithSectionCount creates the list with n unlabeled sections.
func WithSectionCount(n int) Option {
	return func(c *config) {
		c.labels = make([]string, n)
	}
}
