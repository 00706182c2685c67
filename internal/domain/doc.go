// Package domain models city average-temperature data scraped from
// Wikipedia's "List of cities by average temperature" page.
//
// # Data Source
//
// The page groups cities into six continental tables, in fixed order:
// Africa, Asia, Europe, North America, Oceania, South America. Each
// data row carries at least 14 cells: country, city, then twelve
// monthly mean temperatures (Jan through Dec) in °C, optionally
// followed by a yearly mean. The scrape command fetches the page,
// parses every wikitable-classed table, and loads the cleaned rows
// into SQLite.
//
// # Cell Conventions
//
// Raw cells need normalization before parsing:
//
//	Footnote markers:  "12.3[4]"        → "12.3"
//	°F conversions:    "12.3 (54.1)"    → "12.3"
//	Unicode minus:     "−5.0" (U+2212)  → "-5.0"
//
// Missing values:
//
//	"", "—", "-", and "N/A" are the page's missing-value sentinels.
//	A missing month stays missing end to end: it is stored as NULL,
//	exported as JSON null, and excluded from interpolation for that
//	month rather than treated as zero.
//
// Yearly average:
//
//	Taken from the Year column when present. When the column is absent
//	or unparseable, it falls back to the arithmetic mean of whichever
//	monthly values the row does have. See [YearlyFromMonths].
//
// # ID Generation
//
// Record IDs are deterministic SHA-256 hashes of continent|country|city,
// lowercased. Re-scraping produces the same ID for the same city, which
// keeps database upserts and Kafka message keys stable across runs. See
// [RecordID].
package domain
