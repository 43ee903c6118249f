// Package repository implements the MySQL persistence layer.  Business
// sentinel errors (room/booking not found, conflicts, forbidden) live in
// the booking package and are returned from here unchanged so that
// handlers and the booking core see one error vocabulary.  This file only
// defines sentinels for failures that never cross the booking core.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the normalized email
// already has an account.  Handlers translate it into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")
