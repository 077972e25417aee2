// Package billing contains the financial document domain: the Document
// aggregate with its line items, the totals calculator, series-scoped
// number sequences, and the per-series status machines.
package billing
