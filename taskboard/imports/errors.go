package imports

import "errors"

var (
	errEmptyInput  = errors.New("input is empty")
	errNotAnObject = errors.New("element is not an object")
)
