package db

type Table string

// tables.
const (
	tableMain Table = "prompts"
)

// columnSortOrder is the column added by the second migration.
const columnSortOrder = "sort_order"

// main table, first version. sort_order is added by a later migration so
// files created before it existed open unchanged.
const tableMainSchema = `
	CREATE TABLE IF NOT EXISTS prompts (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		title       TEXT NOT NULL,
		content     TEXT NOT NULL,
		tags        TEXT NOT NULL,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		last_used   TEXT
	);`

const columnSortOrderDef = "INTEGER DEFAULT 0"

// promptColumns is the projection shared by every read.
const promptColumns = `id, title, content, tags, created_at, updated_at, last_used, sort_order`

// promptOrder is the ordering shared by list and search.
const promptOrder = `
	ORDER BY
		sort_order ASC,
		last_used DESC NULLS LAST,
		created_at DESC,
		id DESC`
