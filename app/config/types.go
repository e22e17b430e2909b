package config

// Config is one per-source configuration file. Built-in sources accept
// override files carrying just settings; a file with a URL declares an
// additional RSS/Atom source.
type Config struct {
	Name     string   // Derived from filename (without .yml extension)
	Title    string   `yaml:"title"`
	URL      string   `yaml:"url"`
	Type     string   `yaml:"type"` // hottest or realtime
	Settings Settings `yaml:"settings"`
}

type Settings struct {
	Disabled bool `yaml:"disabled"`
	TTL      int  `yaml:"ttl"` // seconds; 0 keeps the source's default
	MaxItems int  `yaml:"max_items"`
}
