package match

import "fmt"

// InputError marks a request that never reaches the pipeline: an
// undecodable document or an invalid result count.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "invalid input: " + e.Reason
}

// CatalogueError marks a failed or empty catalogue load. The pipeline
// aborts before vectorization when it occurs.
type CatalogueError struct {
	Err error
}

func (e *CatalogueError) Error() string {
	return fmt.Sprintf("catalogue unavailable: %v", e.Err)
}

func (e *CatalogueError) Unwrap() error {
	return e.Err
}
