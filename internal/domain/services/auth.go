package services

import "context"

// ResourceAuthorizer checks if the caller in ctx may perform an operation.
// Authentication is a precondition; this only gates by dashboard surface.
type ResourceAuthorizer interface {
	// CanRead checks the caller may browse content.
	CanRead(ctx context.Context) error

	// CanMutate checks the caller may create, rename or delete content.
	CanMutate(ctx context.Context) error
}
