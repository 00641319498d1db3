package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"storage": map[string]interface{}{
			"backend":     BackendSQLite,
			"sqlite_path": "~/.daily-reminders/reminders.db",
			"redis": map[string]interface{}{
				"addr":     "",
				"password": "",
				"db":       0,
				"prefix":   "reminders:",
			},
		},
		"notifications": map[string]interface{}{
			"channels": []string{ChannelTelegram, ChannelConsole},
			"telegram": map[string]interface{}{
				"bot_token":       "",
				"chat_id":         "",
				"rate_per_second": 1.0,
			},
		},
		"scheduler": map[string]interface{}{
			"resync":   "@every 15m",
			"rollover": "@midnight",
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"seed_presets":   true,
		},
		"metrics": map[string]interface{}{
			"enabled": false,
			"addr":    "127.0.0.1:9464",
		},
		"log": map[string]interface{}{
			"level": "info",
			"file":  "~/.daily-reminders/reminders.log",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.daily-reminders/config.yaml"
}
