package health

import (
	"errors"
	"testing"
)

func TestErrors_Distinct(t *testing.T) {
	errs := []error{ErrCheckTimeout, ErrCheckerNotFound, ErrBacklog}
	for i, a := range errs {
		for j, b := range errs {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}
