// Package calculators implements the money tools published under /tools:
// compound interest projections, the residential electricity tariff, and
// VAT splits. All functions are pure and safe for concurrent use.
package calculators
