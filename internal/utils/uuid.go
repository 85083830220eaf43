package utils

import "github.com/google/uuid"

// UUIDGenerator issues vault IDs. IDs are UUIDv7, so sorting stored vaults
// by ID follows creation order.
type UUIDGenerator struct {
	newV7 func() (uuid.UUID, error)
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{newV7: uuid.NewV7}
}

// Generate returns a UUIDv7, or a random UUIDv4 when the time source fails.
func (g *UUIDGenerator) Generate() string {
	id, err := g.newV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
