// Package identity implements the identity reconciliation engine.
//
// The engine ingests identity fragments observed from heterogeneous chat
// events (message authorship, membership changes, forward provenance,
// mentions, shared contacts, participant listings) and folds them into a
// single deduplicated directory of participants. Fragments for a subject
// merge under a fill-missing rule: the first non-empty value observed for a
// field wins and is never overwritten, while the bot/deleted flags OR
// together. After ingestion, records that still lack a handle and names can
// be resolved through an external Resolver, one lookup per bare record.
//
// A Directory is owned by a single run. It starts empty, is mutated by one
// ingesting goroutine, and is safe to snapshot at any point: records are
// never half-merged, so a run aborted mid-ingestion still yields a
// consistent partial result.
package identity
