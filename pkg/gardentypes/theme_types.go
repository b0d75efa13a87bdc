package gardentypes

// ThemeConfig represents a theme configuration loaded from YAML.
type ThemeConfig struct {
	// Name is the theme identifier ("light", "dark", "plain")
	Name string `yaml:"name" json:"name"`

	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// GlamourStyle names the glamour standard style used for Markdown rendering.
	GlamourStyle string `yaml:"glamour_style,omitempty" json:"glamour_style,omitempty"`

	Styles ThemeStyles `yaml:"styles" json:"styles"`
}

// ThemeStyles defines the styling configuration for the semantic elements GreenThumb prints.
type ThemeStyles struct {
	Success   StyleConfig `yaml:"success" json:"success"`
	Error     StyleConfig `yaml:"error" json:"error"`
	Warning   StyleConfig `yaml:"warning" json:"warning"`
	Info      StyleConfig `yaml:"info" json:"info"`
	Highlight StyleConfig `yaml:"highlight" json:"highlight"`
	Bold      StyleConfig `yaml:"bold" json:"bold"`
	Muted     StyleConfig `yaml:"muted" json:"muted"`

	// User and Assistant style the speaker labels in the assistant chat.
	User      StyleConfig `yaml:"user" json:"user"`
	Assistant StyleConfig `yaml:"assistant" json:"assistant"`
}

// StyleConfig defines the visual styling for a semantic element.
type StyleConfig struct {
	// Foreground color - hex color, ANSI number, or an adaptive {light, dark} object
	Foreground interface{} `yaml:"foreground,omitempty" json:"foreground,omitempty"`

	Background interface{} `yaml:"background,omitempty" json:"background,omitempty"`

	Bold      *bool `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic    *bool `yaml:"italic,omitempty" json:"italic,omitempty"`
	Underline *bool `yaml:"underline,omitempty" json:"underline,omitempty"`
}

// ThemeFile represents a complete theme file loaded from YAML.
type ThemeFile struct {
	ThemeConfig `yaml:",inline" json:",inline"`
}
