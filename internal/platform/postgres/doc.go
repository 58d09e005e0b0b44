// Package postgres implements the store interfaces on PostgreSQL,
// accessed through the pgx stdlib driver. All schedule and streak
// writes are single atomic statements (upserts and row-locked
// updates) so concurrent submissions for the same user or item
// serialize instead of losing updates.
package postgres
