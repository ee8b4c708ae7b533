// Package transaction contains the Transaction aggregate: one concrete
// submission attempt against a customs authority endpoint. Transactions are
// append-only audit records: once an attempt reaches a terminal state it is
// never mutated again, and a retry is a new Transaction referencing its
// parent. Regulators may ask "what exactly was sent and when"; this aggregate
// is the answer.
package transaction
