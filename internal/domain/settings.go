package domain

// NotificationSettings toggles the outbound channels for ticket events.
type NotificationSettings struct {
	EmailEnabled bool `json:"email_enabled"`
	SMSEnabled   bool `json:"sms_enabled"`
	SlackEnabled bool `json:"slack_enabled"`
}

// Settings holds the administrator-tunable help desk behavior persisted next to tickets.
type Settings struct {
	AutoAssign           bool                 `json:"auto_assign"`
	EscalationEnabled    bool                 `json:"escalation_enabled"`
	BusinessHoursOnly    bool                 `json:"business_hours_only"`
	DefaultPriority      TicketPriority       `json:"default_priority"`
	MaxResponseTime      int                  `json:"max_response_time"`
	NotificationSettings NotificationSettings `json:"notification_settings"`
}

// DefaultSettings returns the settings a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		AutoAssign:        true,
		EscalationEnabled: true,
		BusinessHoursOnly: false,
		DefaultPriority:   TicketPriorityMedium,
		MaxResponseTime:   24,
		NotificationSettings: NotificationSettings{
			EmailEnabled: true,
			SMSEnabled:   false,
			SlackEnabled: true,
		},
	}
}
