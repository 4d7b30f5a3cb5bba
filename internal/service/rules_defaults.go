package service

import (
	"time"

	"github.com/campushq/campus-trust/internal/domain/model"
)

// DefaultRules returns the rule set registered at bootstrap. Deployments
// replace or extend these through the engine's Register API.
func DefaultRules() []model.AlertRule {
	return []model.AlertRule{
		{
			ID:          "brute_force_detection",
			Name:        "Repeated failed logins",
			EventTypes:  []string{model.EventTypeLoginFailed},
			MinSeverity: model.SeverityMedium,
			FrequencyLimit: &model.FrequencyLimit{
				Window: 5 * time.Minute,
				Count:  5,
			},
			Enabled: true,
		},
		{
			ID:          "critical_event",
			Name:        "Any critical-severity event",
			MinSeverity: model.SeverityCritical,
			Enabled:     true,
		},
		{
			ID:         "api_key_abuse",
			Name:       "Repeated API key rejections",
			EventTypes: []string{model.EventTypeAPIKeyRejected},
			FrequencyLimit: &model.FrequencyLimit{
				Window: 10 * time.Minute,
				Count:  10,
			},
			Enabled: true,
		},
	}
}
