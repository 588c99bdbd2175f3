// Package models contains the GORM persistence models of the PropDesk tables.
//
// Domain entities carry no ORM tags; every model here owns its table mapping
// and converts to and from its domain entity with ToDomain / FromDomain.
//
//   - base.go: shared columns (id, timestamps, version, office_id)
//   - property.go: owners, buildings, units
//   - leasing.go: tenants, contracts, payables
package models
