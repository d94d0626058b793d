// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer pure and free
// from ORM concerns.
//
// Structure:
//   - base.go: BaseModel shared by entity tables
//   - json.go: jsonb column helper
//   - identity.go: users
//   - registration.go: business registrations, tasks and their templates, activities and files
//   - cliente.go: clients and their yearly income tax records
//   - contratacao.go: employee hiring requests
//   - dasmei.go: DAS-MEI automation tables
package models
