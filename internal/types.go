package internal

import "time"

// DateLayout is the canonical stored date format. Dates live in SQLite as
// ISO text so lexicographic comparison in SQL matches chronological order.
const DateLayout = "2006-01-02"

// Action is the three-way outcome of reconciling one incoming record
// against the catalog.
type Action string

const (
	ActionCreate    Action = "CREATE"
	ActionOverwrite Action = "OVERWRITE"
	ActionDiscard   Action = "DISCARD"
)

// EditOutcome reports what an interactive upsert did.
type EditOutcome string

const (
	EditCreated EditOutcome = "CREATED"
	EditUpdated EditOutcome = "UPDATED"
)

// ItemRecord is a catalog entry. ID is zero until the store assigns one.
// Name is the natural key: two records with equal names are the same
// logical item regardless of ID.
type ItemRecord struct {
	ID         int
	Name       string
	Quantity   int
	PriceCents int64
	UpdatedAt  time.Time
}

// FeedRow is one raw row of the import feed, fields still untyped text.
type FeedRow struct {
	LineNo    int
	Name      string
	Quantity  string
	Price     string
	UpdatedAt string
}

// ExportRow is an identity-less snapshot row. The struct is its own dedup
// key: two stored records that agree on all four fields collapse into one.
type ExportRow struct {
	Name       string
	Quantity   int
	PriceCents int64
	UpdatedAt  string
}

type SkippedRow struct {
	LineNo int
	Reason string
}

type ImportSummary struct {
	Created     int
	Overwritten int
	Discarded   int
	Skipped     []SkippedRow
}

type FeedFileRow struct {
	ID        int
	Path      string
	Hash      string
	Status    string
	CreatedAt string
	UpdatedAt string
}
