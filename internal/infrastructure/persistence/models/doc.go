// Package models contains GORM persistence models that map to database tables.
// These models are separate from domain entities so the domain layer stays free
// of ORM concerns.
//
// Structure:
//   - base.go: shared columns (BaseModel, AggregateModel)
//   - catalog.go: categories, products, product views, variants and price tiers
//   - trade.go: orders, order items and design elements
//   - identity.go: users
//
// Every model converts with ToDomain and a <Name>ModelFromDomain constructor.
package models
