// Package store defines the persistence interfaces the services
// depend on, together with the sentinel errors all implementations
// share. Concrete implementations live in platform packages (see
// internal/platform/postgres).
package store
