// Package domain defines the data model for the giving.space ledger: unique
// assets, fundraising campaigns, milestones, and the participation and
// donation records that tie callers to campaigns. Types here are plain data
// plus validation; all state transitions live in the engine package.
package domain
