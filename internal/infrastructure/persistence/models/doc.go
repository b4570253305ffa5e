// Package models holds the GORM persistence models. Each model converts to
// and from its domain entity with ToDomain and <Name>ModelFromDomain; the
// domain packages never see GORM tags.
package models
