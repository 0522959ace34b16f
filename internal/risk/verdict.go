package risk

import (
	"strings"

	"github.com/songzhibin97/momentumscan/internal/models"
)

// Assess turns a risk list into a verdict. Any entry at dangerLevel makes the token unsafe;
// an empty list is safe.
func Assess(address string, risks []models.RiskEntry, dangerLevel string) *models.SecurityVerdict {
	if dangerLevel == "" {
		dangerLevel = DefaultDangerLevel
	}

	verdict := &models.SecurityVerdict{
		Address: address,
		Safe:    true,
		Dangers: make([]models.RiskEntry, 0),
	}

	for _, r := range risks {
		if strings.EqualFold(r.Level, dangerLevel) {
			verdict.Safe = false
			verdict.Dangers = append(verdict.Dangers, r)
		}
	}

	return verdict
}

// DangerNames lists the names of the entries that made a verdict unsafe.
func DangerNames(v *models.SecurityVerdict) []string {
	names := make([]string, 0, len(v.Dangers))
	for _, d := range v.Dangers {
		names = append(names, d.Name)
	}
	return names
}
