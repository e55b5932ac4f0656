// Package reference loads the curated compound catalogues (NPAtlas and MIBiG)
// and collapses them to one row per normalized identifier key.
//
// A catalogue lists one row per compound occurrence, so a single structure can
// appear many times (one row per producing organism or gene cluster). Joining
// such a table directly would duplicate feature rows; Aggregate folds every
// occurrence of a key into a single row whose metadata fields are pipe-joined
// lists. Missing values are rendered as "nan" inside those lists so the Nth
// segment of every field describes the same source row.
package reference
