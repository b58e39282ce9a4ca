// Package models contains the GORM persistence models that map to database
// tables. They are kept separate from the domain entities so the domain layer
// stays free of ORM tags; every model carries ToDomain/FromDomain mappers and
// the repositories only ever touch the model types.
//
// The package holds the three marketplace tables: ConnectionModel (one row
// per authorized shop, encrypted token columns), RemoteOrderModel and
// RemoteProductModel (the local mirror of synced platform data, keyed by
// shop id plus the platform's stable identifier).
package models
