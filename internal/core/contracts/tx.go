package contracts

import "context"

// TxRunner scopes fn to one storage transaction carried through the
// context. Repositories pick the transaction up transparently.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
