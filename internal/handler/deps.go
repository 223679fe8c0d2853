package handler

import (
	"izmetro/internal/app/presence"
	"izmetro/internal/app/station"
	"izmetro/internal/configs"
)

// AppDeps bundles what the HTTP handlers need.
type AppDeps struct {
	Registry *presence.Registry
	Catalog  *station.Catalog
	Config   *configs.AppConfig
}
