// Package domain contains the core entities of the application:
// learning items, per-user review schedules, user profiles, and
// activity log records. Domain types carry their own validation and
// know nothing about persistence or transport.
package domain
