package dedup

import (
	"fmt"

	"github.com/RC170373/bookie-melissa-sub001/internal/entities"
)

// Store is the record-store surface the executor mutates. The store owns
// the schema; the executor only sees this interface.
type Store interface {
	FindUserBooksByBook(bookID uint) ([]entities.UserBook, error)
	UpdateUserBook(id uint, patch entities.UserBookPatch) error
	ReassignUserBook(userBookID, newBookID uint) error
	DeleteUserBook(id uint) error
	DeleteBook(id uint) error
}

// TxStore additionally runs a function against a transaction-scoped Store.
type TxStore interface {
	Store
	Transaction(fn func(tx Store) error) error
}

// ExecuteResult summarizes what one merge group execution changed.
type ExecuteResult struct {
	DonorsDeleted int
	Reassigned    int
	FieldMerged   int
}

// Executor applies merge plans against the record store.
type Executor struct {
	store TxStore
}

func NewExecutor(store TxStore) *Executor {
	return &Executor{store: store}
}

// Execute merges every donor of the plan into the keeper inside a single
// transaction, so a crash can never leave a donor deleted with its reading
// records orphaned. Donors are processed strictly in plan order; the
// keeper's reading-record set is re-read before each donor because a
// previous donor in the same group may have added to it.
func (e *Executor) Execute(plan Plan) (ExecuteResult, error) {
	var result ExecuteResult

	err := e.store.Transaction(func(tx Store) error {
		for _, donor := range plan.Donors {
			keeperRecords, err := tx.FindUserBooksByBook(plan.Keeper.ID)
			if err != nil {
				return fmt.Errorf("read keeper %d records: %w", plan.Keeper.ID, err)
			}
			keeperByUser := make(map[uint]entities.UserBook, len(keeperRecords))
			for _, record := range keeperRecords {
				keeperByUser[record.UserID] = record
			}

			donorRecords, err := tx.FindUserBooksByBook(donor.ID)
			if err != nil {
				return fmt.Errorf("read donor %d records: %w", donor.ID, err)
			}

			for _, donorRecord := range donorRecords {
				keeperRecord, conflict := keeperByUser[donorRecord.UserID]
				if conflict {
					// The user already tracks the keeper; a reassign would
					// violate (user_id, book_id) uniqueness. Fold the donor
					// record into the keeper's instead.
					patch := MergeUserBooks(&keeperRecord, &donorRecord)
					if !patch.IsEmpty() {
						if err := tx.UpdateUserBook(keeperRecord.ID, patch); err != nil {
							return fmt.Errorf("update user book %d: %w", keeperRecord.ID, err)
						}
					}
					if err := tx.DeleteUserBook(donorRecord.ID); err != nil {
						return fmt.Errorf("delete user book %d: %w", donorRecord.ID, err)
					}
					result.FieldMerged++
					continue
				}

				if err := tx.ReassignUserBook(donorRecord.ID, plan.Keeper.ID); err != nil {
					return fmt.Errorf("reassign user book %d: %w", donorRecord.ID, err)
				}
				result.Reassigned++
			}

			if err := tx.DeleteBook(donor.ID); err != nil {
				return fmt.Errorf("delete donor book %d: %w", donor.ID, err)
			}
			result.DonorsDeleted++
		}
		return nil
	})
	if err != nil {
		return ExecuteResult{}, err
	}
	return result, nil
}
