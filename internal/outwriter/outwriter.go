// Package outwriter renders scores, comparisons, frameworks and assessments as
// text tables, JSON, CSV, Parquet or HTML.
package outwriter
