package domain

import "time"

// TimeField is a tri-state patch value for a nullable timestamp column:
// zero value leaves the column alone, Valid with a time sets it, Valid with
// nil clears it.
type TimeField struct {
	Valid bool
	Time  *time.Time
}

// StringField is a tri-state patch value for a nullable text column.
type StringField struct {
	Valid bool
	Str   *string
}

// IntField patches a non-null integer column when Valid.
type IntField struct {
	Valid bool
	Int   int
}

// SetTime returns a patch value that sets the column to t.
func SetTime(t time.Time) TimeField {
	return TimeField{Valid: true, Time: &t}
}

// ClearTime returns a patch value that nulls the column.
func ClearTime() TimeField {
	return TimeField{Valid: true}
}

// SetString returns a patch value that sets the column to s.
func SetString(s string) StringField {
	return StringField{Valid: true, Str: &s}
}

// ClearString returns a patch value that nulls the column.
func ClearString() StringField {
	return StringField{Valid: true}
}

// SetInt returns a patch value that sets the column to n.
func SetInt(n int) IntField {
	return IntField{Valid: true, Int: n}
}

// StatePatch is a partial update to a source's DiscoveryState with merge
// semantics: only Valid fields touch their columns, everything else keeps its
// stored value. Pausing is not expressed here; it goes through the store's
// dedicated Pause operation.
type StatePatch struct {
	LastSuccessfulMethod          StringField
	RSSMissingSince               TimeField
	RSSLastFailedAt               TimeField
	RSSConsecutiveFailures        IntField
	NoEffectiveMethodsConsecutive IntField
}

// IsZero reports whether the patch changes nothing.
func (p StatePatch) IsZero() bool {
	return !p.LastSuccessfulMethod.Valid &&
		!p.RSSMissingSince.Valid &&
		!p.RSSLastFailedAt.Valid &&
		!p.RSSConsecutiveFailures.Valid &&
		!p.NoEffectiveMethodsConsecutive.Valid
}

// Merge overlays other onto p and returns the combination. Fields set in
// other win, matching the last-event-wins semantics of the state blob.
func (p StatePatch) Merge(other StatePatch) StatePatch {
	out := p
	if other.LastSuccessfulMethod.Valid {
		out.LastSuccessfulMethod = other.LastSuccessfulMethod
	}
	if other.RSSMissingSince.Valid {
		out.RSSMissingSince = other.RSSMissingSince
	}
	if other.RSSLastFailedAt.Valid {
		out.RSSLastFailedAt = other.RSSLastFailedAt
	}
	if other.RSSConsecutiveFailures.Valid {
		out.RSSConsecutiveFailures = other.RSSConsecutiveFailures
	}
	if other.NoEffectiveMethodsConsecutive.Valid {
		out.NoEffectiveMethodsConsecutive = other.NoEffectiveMethodsConsecutive
	}
	return out
}

// ApplyTo mutates state in place with the patch's valid fields. Used to keep
// an in-memory copy current between the strategy phase and the state machine
// without a round trip to storage.
func (p StatePatch) ApplyTo(state *DiscoveryState) {
	if p.LastSuccessfulMethod.Valid {
		state.LastSuccessfulMethod = p.LastSuccessfulMethod.Str
	}
	if p.RSSMissingSince.Valid {
		state.RSSMissingSince = p.RSSMissingSince.Time
	}
	if p.RSSLastFailedAt.Valid {
		state.RSSLastFailedAt = p.RSSLastFailedAt.Time
	}
	if p.RSSConsecutiveFailures.Valid {
		state.RSSConsecutiveFailures = p.RSSConsecutiveFailures.Int
	}
	if p.NoEffectiveMethodsConsecutive.Valid {
		state.NoEffectiveMethodsConsecutive = p.NoEffectiveMethodsConsecutive.Int
	}
}
