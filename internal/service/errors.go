// Package service holds the booking core: collision-free reservations,
// the three-stage stay search, and the stay and account workflows that
// feed them.
package service

import (
	"errors"
	"fmt"

	"github.com/iliyamo/stay-booking/internal/model"
	"github.com/iliyamo/stay-booking/internal/repository"
)

// ErrNotFound is the common parent of the not-found errors below.
var ErrNotFound = errors.New("not found")

var (
	ErrReservationNotFound = fmt.Errorf("reservation %w", ErrNotFound)
	ErrStayNotFound        = fmt.Errorf("stay %w", ErrNotFound)
)

// ErrCollision means at least one requested night is already reserved.
var ErrCollision = errors.New("requested dates collide with an existing reservation")

// ErrTransient wraps store failures the caller may retry from
// validated input: serialization aborts, deadlocks, lost connections.
var ErrTransient = errors.New("temporary store failure, retry the request")

// ErrInvalidRange is model.ErrInvalidRange, re-exported for handlers.
var ErrInvalidRange = model.ErrInvalidRange

var (
	ErrInvalidDistance     = errors.New("invalid distance")
	ErrStayHasReservations = errors.New("stay has upcoming reservations")
	ErrInvalidStay         = errors.New("invalid stay")
	ErrGeoCoding           = errors.New("geocoding failed")
	ErrInvalidAddress      = errors.New("address could not be resolved exactly")
	ErrImageUpload         = errors.New("image upload failed")
	ErrUnsupportedImage    = errors.New("unsupported or oversized image")
	ErrUserExists          = errors.New("username already taken")
	ErrBadCredentials      = errors.New("invalid credentials")
	ErrInvalidUser         = errors.New("invalid username, password or role")
)

// storeErr maps repository failures to service errors.  notFound is
// returned for repository.ErrNotFound; nil leaves it unchanged.
func storeErr(err, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, repository.ErrNotFound):
		return notFound
	case errors.Is(err, repository.ErrTransient):
		return fmt.Errorf("%w: %w", ErrTransient, err)
	}
	return err
}
