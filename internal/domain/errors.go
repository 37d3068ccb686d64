package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidOrder reports an order that is not a usable product mapping
	// or has no entries.
	ErrInvalidOrder = errors.New("invalid order format")

	// ErrNoRecognizedProducts reports an order where no item resolved to a
	// center. Returned wrapped in *UnrecognizedProductsError.
	ErrNoRecognizedProducts = errors.New("no valid products found in order")

	// ErrEmptyRouteSet reports an optimizer call with no centers to visit.
	ErrEmptyRouteSet = errors.New("no centers to route")

	// ErrTooManyCenters reports an optimizer call above the enumeration limit.
	ErrTooManyCenters = errors.New("too many centers for exhaustive routing")

	// ErrUnknownLeg reports a distance lookup the catalog cannot answer.
	ErrUnknownLeg = errors.New("unknown route leg")

	// ErrUnknownCostPolicy reports an unsupported cost accumulation policy name.
	ErrUnknownCostPolicy = errors.New("unknown cost policy")
)

// UnrecognizedProductsError carries the products that were dropped when an
// order resolved to nothing.
type UnrecognizedProductsError struct {
	Products []string
}

func (e *UnrecognizedProductsError) Error() string {
	if len(e.Products) == 0 {
		return ErrNoRecognizedProducts.Error()
	}
	return fmt.Sprintf("%s: skipped %s", ErrNoRecognizedProducts, strings.Join(e.Products, ", "))
}

func (e *UnrecognizedProductsError) Is(target error) bool {
	return target == ErrNoRecognizedProducts
}
