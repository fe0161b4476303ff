package payload

import (
	"fmt"

	"github.com/xssnick/tonutils-go/tvm/cell"
)

// Hard limits of a single cell.
const (
	MaxCellBits = 1023
	MaxCellRefs = 4
)

// Branch is the arm of an (Either X ^X) field that a payload is stored in.
type Branch int

const (
	BranchInline Branch = iota
	BranchReference
)

func (b Branch) String() string {
	switch b {
	case BranchInline:
		return "inline"
	case BranchReference:
		return "reference"
	}
	return fmt.Sprintf("Branch(%d)", int(b))
}

// ChooseInlineOrReference decides where a payload goes given what is already
// used in the enclosing cell. The selector bit written in front of the payload
// is added here, existingBits is the body without it.
func ChooseInlineOrReference(existingBits uint, existingRefs int, payload *cell.Cell) Branch {
	if payload == nil {
		return BranchInline
	}

	if existingBits+1+uint(payload.BitsSize()) > MaxCellBits ||
		existingRefs+int(payload.RefsNum()) > MaxCellRefs {
		return BranchReference
	}
	return BranchInline
}

// StoreEither appends the selector bit and the payload to b, inlining the
// payload when it fits and storing it as a reference otherwise.
// A nil payload is stored as an empty inline cell.
func StoreEither(b *cell.Builder, payload *cell.Cell) (Branch, error) {
	if payload == nil {
		payload = cell.BeginCell().EndCell()
	}

	branch := ChooseInlineOrReference(b.BitsUsed(), b.RefsUsed(), payload)
	switch branch {
	case BranchReference:
		if err := b.StoreBoolBit(true); err != nil {
			return branch, fmt.Errorf("failed to store either bit: %w", err)
		}
		if err := b.StoreRef(payload); err != nil {
			return branch, fmt.Errorf("failed to store payload ref: %w", err)
		}
	default:
		if err := b.StoreBoolBit(false); err != nil {
			return branch, fmt.Errorf("failed to store either bit: %w", err)
		}
		if err := b.StoreBuilder(payload.ToBuilder()); err != nil {
			return branch, fmt.Errorf("failed to inline payload: %w", err)
		}
	}
	return branch, nil
}

// LoadEither reads a field written by StoreEither and returns the payload
// as a standalone cell.
func LoadEither(s *cell.Slice) (*cell.Cell, Branch, error) {
	isRef, err := s.LoadBoolBit()
	if err != nil {
		return nil, BranchInline, fmt.Errorf("failed to load either bit: %w", err)
	}

	if isRef {
		c, err := s.LoadRefCell()
		if err != nil {
			return nil, BranchReference, fmt.Errorf("failed to load payload ref: %w", err)
		}
		return c, BranchReference, nil
	}

	c, err := s.ToCell()
	if err != nil {
		return nil, BranchInline, fmt.Errorf("failed to read inline payload: %w", err)
	}
	return c, BranchInline, nil
}
