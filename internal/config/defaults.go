package config

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options.
func GetDefaultConfigTemplate() string {
	return `# relog configuration
# Project config: .relog.yml  User config: ~/.config/relog/config.yml
# Environment overrides use the RELOG_ prefix with __ for nesting,
# e.g. RELOG_TICKETS__URL_TEMPLATE.

document: CHANGES.relog               # Default document when no path argument is given
repo_url: ""                          # Repository URL for version comparison links

tags:
  recognized: []                      # Replace the built-in tag set entirely
  extra: []                           # Extend the built-in tag set

tickets:
  url_template: ""                    # e.g. https://tracker.example.com/issues/{ticket}

refs:
  url_template: ""                    # e.g. https://docs.example.com/changelog/{ref}

render:
  width: 0                            # Terminal output width (0 = auto-detect)
  plain: false                        # Disable colors in terminal output
`
}

// GetDefaults returns the default configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"document": "CHANGES.relog",
		"repo_url": "",
		"tags": map[string]interface{}{
			"recognized": []string{},
			"extra":      []string{},
		},
		"tickets": map[string]interface{}{
			"url_template": "",
		},
		"refs": map[string]interface{}{
			"url_template": "",
		},
		"render": map[string]interface{}{
			"width": 0,
			"plain": false,
		},
	}
}
