package config

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed dashboard/cards.yaml
var dashboardFiles embed.FS

// Dashboard is the landing screen content.
type Dashboard struct {
	Title    string          `yaml:"title" json:"title"`
	Subtitle string          `yaml:"subtitle" json:"subtitle"`
	Cards    []DashboardCard `yaml:"cards" json:"cards"`
}

// DashboardCard is one destination on the landing screen.
type DashboardCard struct {
	ID          string `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Action      string `yaml:"action" json:"action"`
	Href        string `yaml:"href" json:"href"`
	External    bool   `yaml:"external" json:"external"` // href is relative to the WordPress base URL
}

// LoadDashboard reads the embedded card catalog and resolves external links
// against wordPressURL.
func LoadDashboard(wordPressURL string) (*Dashboard, error) {
	data, err := dashboardFiles.ReadFile("dashboard/cards.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard cards: %w", err)
	}

	var dash Dashboard
	if err := yaml.Unmarshal(data, &dash); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard cards: %w", err)
	}

	for i := range dash.Cards {
		if dash.Cards[i].External {
			dash.Cards[i].Href = wordPressURL + dash.Cards[i].Href
		}
	}
	return &dash, nil
}
