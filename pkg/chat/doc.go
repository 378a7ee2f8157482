// Package chat models the event categories the reconciliation engine
// understands and extracts identity fragments from them.
//
// Events form a closed set of variants (messages, membership changes,
// participant listing entries). Each variant knows which fragments it
// yields, so the engine never branches on untyped string tags and
// unrecognized event shapes simply produce nothing. The package also
// defines the source ports (EventSource, ParticipantSource) that concrete
// adapters such as the dump reader implement.
package chat
