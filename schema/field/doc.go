// Package field describes the abstract field types understood by the strata
// generators and how each of them maps to a Go type and a storage column.
//
// Schema files name types the way the declarative schema format does:
//
//	fields:
//	  - name: id
//	    type: Long      // Go: int64,           SQL: BIGINT
//	  - name: email
//	    type: String    // Go: string,          SQL: VARCHAR(255)
//	  - name: price
//	    type: BigDecimal // Go: decimal.Decimal, SQL: DECIMAL(19,2)
//
// # Unknown Types
//
// A type name outside the closed table never fails to parse. It is treated
// as text, both in Go and in storage, and flagged via [TypeInfo.Fallback] so
// callers may warn about it.
package field
