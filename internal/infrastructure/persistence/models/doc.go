// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel and AggregateModel
//   - catalog.go: products
//   - customer.go: customers keyed by canonical phone
//   - sales.go: orders, carts and cart items
//   - pricing.go: coupons (progressive tiers as jsonb) and gifts
package models
