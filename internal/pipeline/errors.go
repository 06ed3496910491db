package pipeline

import (
	"fmt"

	"github.com/KeremDpdo/research-publication-dashboard/pkg/contracts/domain"
)

// TypeConversionError reports a publication count cell that is not numeric
type TypeConversionError struct {
	Column string
	Year   domain.Year
	Row    int
	Value  string
	Err    error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("column %q in %s row %d: cannot convert %q to an integer", e.Column, e.Year, e.Row, e.Value)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}
