package models

import "time"

type HealthCheck struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}
