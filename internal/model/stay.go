package model

// Stay is a listing owned by exactly one host.  Images are attached
// before the first save; after that a stay is only ever deleted.
//
// Fields:
//  ID          – primary key, assigned by the store.
//  Name        – display name.
//  Description – free text shown to guests.
//  Address     – postal address; geocoded into the geo index.
//  GuestNumber – maximum number of guests (capacity, >= 1).
//  Host        – username of the owning host.
//  Images      – public URLs of the stay's pictures.
type Stay struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Address     string      `json:"address"`
	GuestNumber int         `json:"guest_number"`
	Host        string      `json:"host"`
	Images      []StayImage `json:"images"`
}

// StayImage is one picture of a stay.  The URL is the row key.
type StayImage struct {
	URL    string `json:"url"`
	StayID uint64 `json:"-"`
}

// NewStay builds an unsaved stay with the required fields set.
func NewStay(name, description, address string, guestNumber int, host string) *Stay {
	return &Stay{
		Name:        name,
		Description: description,
		Address:     address,
		GuestNumber: guestNumber,
		Host:        host,
		Images:      []StayImage{},
	}
}

// AttachImages adds image URLs to a stay that has not been saved yet.
func (s *Stay) AttachImages(urls ...string) {
	for _, u := range urls {
		s.Images = append(s.Images, StayImage{URL: u, StayID: s.ID})
	}
}
