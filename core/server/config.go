package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// DefaultRuleSet selects the rule preset used when a request does
	// not choose one (standard, ogf).
	DefaultRuleSet string `mapstructure:"default_rule_set" default:"standard"`
	// MaxUploadMB caps the total multipart upload size per request.
	MaxUploadMB int `mapstructure:"max_upload_mb" default:"50"`
}

const (
	RuleSetStandard = "standard"
	RuleSetOGF      = "ogf"
)

// IsValidRuleSet checks if the configured default rule set is valid.
func (c Config) IsValidRuleSet() bool {
	switch c.DefaultRuleSet {
	case RuleSetStandard, RuleSetOGF:
		return true
	default:
		return false
	}
}
