// Package silo pkg/silo/status.go

package silo

import "github.com/Aboubacarelhacen/silo/pkg/models"

// LevelStatus classifies a silo fill level in percent. Exactly 40 is
// Low, exactly 20 is Low; only readings strictly above 40 are Normal.
func LevelStatus(percent float64) models.StatusLevel {
	switch {
	case percent > 40:
		return models.StatusNormal
	case percent >= 20:
		return models.StatusLow
	default:
		return models.StatusCritical
	}
}

// TemperatureStatus classifies a machine temperature in celsius.
// Exactly 40 and exactly 80 are both Normal.
func TemperatureStatus(celsius float64) models.StatusLevel {
	switch {
	case celsius < 40:
		return models.StatusCool
	case celsius <= 80:
		return models.StatusNormal
	default:
		return models.StatusHigh
	}
}
