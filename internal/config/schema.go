package config

// Field describes one persisted option the way an editor settings view
// renders it.
type Field struct {
	Key         string `json:"key" yaml:"key"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Type        string `json:"type" yaml:"type"`
	Default     any    `json:"default" yaml:"default"`
	Order       int    `json:"order" yaml:"order"`
}

// Schema returns the option schema, sorted by Order.
func Schema() []Field {
	d := Defaults()
	return []Field{
		{
			Key:         KeyPathToSass,
			Title:       "Path to Sass",
			Description: "Specify a custom path to the `sass` binary",
			Type:        "string",
			Default:     d.PathToSass,
			Order:       0,
		},
		{
			Key:         KeyCustomSassArguments,
			Title:       "Custom Sass Arguments",
			Description: "Specify your preferred arguments for Sass, supports replacement placeholders",
			Type:        "string",
			Default:     d.CustomSassArguments,
			Order:       1,
		},
		{
			Key:         KeyCustomScssArguments,
			Title:       "Custom SCSS Arguments",
			Description: "Specify your preferred arguments for SCSS, supports replacement placeholders",
			Type:        "string",
			Default:     d.CustomScssArguments,
			Order:       2,
		},
		{
			Key:         KeyManageDependencies,
			Title:       "Manage Dependencies",
			Description: "When enabled, third-party dependencies will be installed automatically",
			Type:        "boolean",
			Default:     d.ManageDependencies,
			Order:       3,
		},
		{
			Key:         KeyAlwaysEligible,
			Title:       "Always Eligible",
			Description: "The build provider will be available in your project, even when not eligible",
			Type:        "boolean",
			Default:     d.AlwaysEligible,
			Order:       4,
		},
		{
			Key:         KeyDebug,
			Title:       "Debug",
			Description: "Log eligibility probe failures",
			Type:        "boolean",
			Default:     d.Debug,
			Order:       5,
		},
	}
}
