package main

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/fr0stylo/ticketsync/internal/app/domain"
)

type fileConfig struct {
	Organizers []organizerEntry `mapstructure:"organizers" validate:"dive"`
	Identities []identityEntry  `mapstructure:"identities" validate:"dive"`
}

type organizerEntry struct {
	ID       string       `mapstructure:"id" validate:"required"`
	BaseURL  string       `mapstructure:"base_url" validate:"required,url"`
	APIToken string       `mapstructure:"api_token" validate:"required"`
	Disabled bool         `mapstructure:"disabled"`
	Events   []eventEntry `mapstructure:"events" validate:"dive"`
}

type eventEntry struct {
	EventID        string   `mapstructure:"event_id" validate:"required"`
	ConfigID       string   `mapstructure:"config_id"`
	ActiveItems    []string `mapstructure:"active_items" validate:"min=1,dive,required"`
	SuperuserItems []string `mapstructure:"superuser_items" validate:"dive,required"`
}

type identityEntry struct {
	Email      string `mapstructure:"email" validate:"required,email"`
	Commitment string `mapstructure:"commitment" validate:"required"`
}

var validate = validator.New()

func loadConfig(path string) (fileConfig, error) {
	if strings.TrimSpace(path) == "" {
		return fileConfig{}, fmt.Errorf("config path is required")
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return fileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg fileConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return fileConfig{}, fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]struct{}, len(cfg.Organizers))
	for _, org := range cfg.Organizers {
		if _, dup := seen[org.ID]; dup {
			return fileConfig{}, fmt.Errorf("duplicate organizer id %q", org.ID)
		}
		seen[org.ID] = struct{}{}
	}
	return cfg, nil
}

func (o organizerEntry) toDomain() domain.OrganizerConfig {
	cfg := domain.OrganizerConfig{
		OrganizerID: strings.TrimSpace(o.ID),
		BaseURL:     strings.TrimRight(strings.TrimSpace(o.BaseURL), "/"),
		APIToken:    strings.TrimSpace(o.APIToken),
	}
	for _, event := range o.Events {
		configID := strings.TrimSpace(event.ConfigID)
		if configID == "" {
			configID = cfg.OrganizerID + ":" + strings.TrimSpace(event.EventID)
		}
		cfg.Events = append(cfg.Events, domain.EventConfig{
			EventID:          strings.TrimSpace(event.EventID),
			EventConfigID:    configID,
			ActiveItemIDs:    domain.NewIDSet(event.ActiveItems...),
			SuperuserItemIDs: domain.NewIDSet(event.SuperuserItems...),
		})
	}
	return cfg
}
