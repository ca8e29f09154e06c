// Package models defines the core domain models for How Much Ah.
//
// # Models
//
//   - Session: one bill-splitting run (party + receipts)
//   - Person: a party member, identified by name within a session
//   - Receipt: a single bill with line items, payer, and charges
//   - LineItem: a parsed or manually entered purchase line
//   - User: a registered account that owns sessions
//
// # Design Principles
//
//  1. Party members are name strings, not accounts. A dining party
//     types names once; only the session owner needs a login.
//  2. Receipts own their LineItems exclusively. People are shared by
//     name across every receipt's assignments and payer fields.
//  3. Derived values (net positions, transfers) are never stored here;
//     the calculator package recomputes them on demand.
//  4. IDs are plumbing. Parsing deduplication and all equality checks
//     are keyed on content, never on identifiers.
package models
