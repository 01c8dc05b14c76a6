package render

// ============================================================
// Configuration
// ============================================================

// Config is the style and layout of one render pass. It is passed into
// every Render call; nothing here is process-wide.
type Config struct {
	PanelWidth  float64 `yaml:"panel_width" json:"panelWidth"`
	PanelHeight float64 `yaml:"panel_height" json:"panelHeight"`
	Margin      float64 `yaml:"margin" json:"margin"`
	Gap         float64 `yaml:"gap" json:"gap"`
	MaxColumns  int     `yaml:"max_columns" json:"maxColumns"`
	Padding     float64 `yaml:"padding" json:"padding"`

	StrokeWidth     float64 `yaml:"stroke_width" json:"strokeWidth"`
	FontSize        float64 `yaml:"font_size" json:"fontSize"`
	FontFamily      string  `yaml:"font_family" json:"fontFamily"`
	AngleMarkRadius float64 `yaml:"angle_mark_radius" json:"angleMarkRadius"`
	Precision       int     `yaml:"precision" json:"precision"`

	Fill       string `yaml:"fill" json:"fill"`
	Stroke     string `yaml:"stroke" json:"stroke"`
	Accent     string `yaml:"accent" json:"accent"`
	TextColor  string `yaml:"text_color" json:"textColor"`
	ErrorColor string `yaml:"error_color" json:"errorColor"`
	ErrorFill  string `yaml:"error_fill" json:"errorFill"`
}

func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills zero fields and clamps the grid to two columns.
func (c *Config) ApplyDefaults() {
	if c.PanelWidth <= 0 {
		c.PanelWidth = 360
	}
	if c.PanelHeight <= 0 {
		c.PanelHeight = 300
	}
	if c.Margin <= 0 {
		c.Margin = 40
	}
	if c.Gap <= 0 {
		c.Gap = 24
	}
	if c.MaxColumns <= 0 || c.MaxColumns > 2 {
		c.MaxColumns = 2
	}
	if c.Padding <= 0 {
		c.Padding = 8
	}
	if c.StrokeWidth <= 0 {
		c.StrokeWidth = 2
	}
	if c.FontSize <= 0 {
		c.FontSize = 14
	}
	if c.FontFamily == "" {
		c.FontFamily = "sans-serif"
	}
	if c.AngleMarkRadius <= 0 {
		c.AngleMarkRadius = 18
	}
	if c.Precision <= 0 {
		c.Precision = 1
	}
	if c.Fill == "" {
		c.Fill = "#e8f0fe"
	}
	if c.Stroke == "" {
		c.Stroke = "#1a237e"
	}
	if c.Accent == "" {
		c.Accent = "#c2185b"
	}
	if c.TextColor == "" {
		c.TextColor = "#212121"
	}
	if c.ErrorColor == "" {
		c.ErrorColor = "#d93025"
	}
	if c.ErrorFill == "" {
		c.ErrorFill = "#fdecea"
	}
}
