// Package api pkg/api/types.go

package api

import (
	"time"

	"github.com/Aboubacarelhacen/silo/pkg/models"
)

const defaultHistoryCount = 200

type errorResponse struct {
	Message string `json:"message"`
}

type currentLevelResponse struct {
	LevelPercent float64            `json:"levelPercent"`
	Status       models.StatusLevel `json:"status"`
}

type levelHistoryEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	LevelPercent float64   `json:"levelPercent"`
}

type currentTemperatureResponse struct {
	TemperatureC float64            `json:"temperatureC"`
	Status       models.StatusLevel `json:"status"`
}

type temperatureHistoryEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperatureC"`
}

type deviceActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type deviceStatusResponse struct {
	Connected bool   `json:"connected"`
	Message   string `json:"message"`
	LastError string `json:"lastError,omitempty"`
	Endpoint  string `json:"endpoint"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type validateResponse struct {
	UserID          string      `json:"userId"`
	Username        string      `json:"username"`
	Role            models.Role `json:"role"`
	FullName        string      `json:"fullName"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

type createUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	FullName *string `json:"fullName"`
	Password *string `json:"password"`
	IsActive *bool   `json:"isActive"`
}

// wsEvent is one live-channel message: the topic as the event type plus
// the measurement payload.
type wsEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
