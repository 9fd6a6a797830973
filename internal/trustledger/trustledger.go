// Package trustledger implements a tamper-evident hash chain over moderation
// decisions.
//
// The chain begins with a well-known genesis entry whose Hash equals GenesisHash
// (64 hex zeros). Every subsequent entry records the SHA-256 of its predecessor,
// so rewriting or deleting an audited decision is detectable via Verify even
// though the moderation_actions table itself is plain rows.
//
// Two implementations of the Ledger interface are provided:
//   - MemoryLedger: in-process, for tests and the memory store driver.
//   - PostgresLedger: durable; appends join the caller's transaction.
package trustledger
