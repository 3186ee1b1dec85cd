// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Key Principles:
// 1. Domain entities are free of GORM tags and infrastructure concerns
// 2. Persistence models contain all GORM annotations and table mappings
// 3. ToDomain / FromDomain convert between domain entities and persistence models
// 4. Repositories use persistence models for database operations
//
// Structure:
// - base.go: Base persistence models (BaseModel, TenantAggregateModel) and All()
// - portfolio.go: portfolios, members, invitations
// - property.go: properties with their financial figures
// - document.go: documents and extraction results
// - record.go: communications, decisions, registry items
// - learning.go: glossary reading progress
// - forge.go: tickets, agent executions, token budgets, runner keys
//
// The SQL migrations under migrations/ are the source of truth for production
// schemas; the tags here must stay compatible with them.
package models
