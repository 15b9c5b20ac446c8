package classify

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cashflow/internal/matching"
	"github.com/MrJamesThe3rd/cashflow/internal/transaction"
)

const (
	DefaultTransferWindow = 48 * time.Hour
	DefaultRefundWindow   = 60 * 24 * time.Hour

	// pairSimilarity is the description or merchant similarity needed for two
	// legs to pair without a pairing category.
	pairSimilarity = 0.6

	// refundSimilarity is the description similarity needed between a refund
	// and the purchase it reverses.
	refundSimilarity = 0.4
)

type Options struct {
	TransferWindow time.Duration
	RefundWindow   time.Duration
}

// Classifier flags transfers and refunds. It keeps no state between calls
// and never mutates its input.
type Classifier struct {
	rules          *Rules
	transferWindow time.Duration
	refundWindow   time.Duration
}

func New(rules *Rules, opts Options) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}

	if opts.TransferWindow <= 0 {
		opts.TransferWindow = DefaultTransferWindow
	}

	if opts.RefundWindow <= 0 {
		opts.RefundWindow = DefaultRefundWindow
	}

	return &Classifier{
		rules:          rules,
		transferWindow: opts.TransferWindow,
		refundWindow:   opts.RefundWindow,
	}
}

func (c *Classifier) Rules() *Rules {
	return c.rules
}

// Pair links the outgoing and incoming legs of a transfer between accounts.
type Pair struct {
	Outflow uuid.UUID
	Inflow  uuid.UUID
}

// PairTransfers finds outflow/inflow pairs of equal amount on different
// accounts within the transfer window. Each outflow takes the earliest later
// inflow that matches, ties going to input order. An inflow is not consumed
// and may close several outflows.
func (c *Classifier) PairTransfers(txns []transaction.Transaction) []Pair {
	var pairs []Pair

	for _, p := range c.pairIndices(txns) {
		pairs = append(pairs, Pair{Outflow: txns[p[0]].ID, Inflow: txns[p[1]].ID})
	}

	return pairs
}

// TransferIDs flattens pairs into the set of ids taking part in a transfer.
func TransferIDs(pairs []Pair) map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(pairs)*2)
	for _, p := range pairs {
		ids[p.Outflow] = struct{}{}
		ids[p.Inflow] = struct{}{}
	}

	return ids
}

func (c *Classifier) pairIndices(txns []transaction.Transaction) [][2]int {
	order := sortedBy(txns, transaction.Transaction.Timestamp)

	var pairs [][2]int

	for i, ai := range order {
		a := txns[ai]
		if !a.IsOutflow() {
			continue
		}

		at := a.Timestamp()

		for _, bi := range order[i+1:] {
			b := txns[bi]
			if b.Timestamp().Sub(at) > c.transferWindow {
				break
			}

			if !c.legsMatch(a, b) {
				continue
			}

			pairs = append(pairs, [2]int{ai, bi})

			break
		}
	}

	return pairs
}

func (c *Classifier) legsMatch(out, in transaction.Transaction) bool {
	if !in.IsInflow() || out.Amount != in.Amount || out.Account == in.Account {
		return false
	}

	return matching.Similarity(out.Description, in.Description) >= pairSimilarity ||
		matching.Similarity(out.Merchant, in.Merchant) >= pairSimilarity ||
		c.rules.IsPairingCategory(out.Category) ||
		c.rules.IsPairingCategory(in.Category)
}

// MarkTransfers returns a copy of txns whose transfer flag is set for paired
// legs and for rows carrying transfer vocabulary.
func (c *Classifier) MarkTransfers(txns []transaction.Transaction) []transaction.Transaction {
	out := transaction.Clone(txns)

	paired := make([]bool, len(out))
	for _, p := range c.pairIndices(out) {
		paired[p[0]] = true
		paired[p[1]] = true
	}

	for i := range out {
		out[i].Flags.Transfer = paired[i] || c.rules.LooksLikeTransfer(out[i].Description, out[i].Category)
	}

	return out
}

// MarkRefunds returns a copy of txns where inflows with refund vocabulary are
// flagged when a similar outflow precedes them within the refund window.
// Inflows already flagged as transfers are never refunds.
func (c *Classifier) MarkRefunds(txns []transaction.Transaction) []transaction.Transaction {
	out := transaction.Clone(txns)
	order := sortedBy(out, func(t transaction.Transaction) time.Time { return t.Date })

	for pos, idx := range order {
		tx := out[idx]
		if !tx.IsInflow() || tx.Flags.Transfer || !c.rules.LooksLikeRefund(tx.Description) {
			continue
		}

		earliest := tx.Date.Add(-c.refundWindow)

		for k := pos - 1; k >= 0; k-- {
			prev := out[order[k]]
			if prev.Date.Before(earliest) {
				break
			}

			if prev.IsOutflow() && matching.Similarity(tx.Description, prev.Description) >= refundSimilarity {
				out[idx].Flags.Refund = true
				break
			}
		}
	}

	return out
}

// Classify applies MarkTransfers then MarkRefunds.
func (c *Classifier) Classify(txns []transaction.Transaction) []transaction.Transaction {
	return c.MarkRefunds(c.MarkTransfers(txns))
}

// Count tallies the flags set on txns.
func Count(txns []transaction.Transaction) (transfers, refunds int) {
	for _, tx := range txns {
		if tx.Flags.Transfer {
			transfers++
		}

		if tx.Flags.Refund {
			refunds++
		}
	}

	return transfers, refunds
}

// sortedBy returns the indices of txns ordered by key, stable on input order.
func sortedBy(txns []transaction.Transaction, key func(transaction.Transaction) time.Time) []int {
	order := make([]int, len(txns))
	for i := range order {
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return key(txns[order[i]]).Before(key(txns[order[j]]))
	})

	return order
}
