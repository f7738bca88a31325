package orders

import (
	"fmt"

	"github.com/speps/go-hashids/v2"
)

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// ReferenceGenerator turns order ids into short public references such as
// "AS-7KQ2M9". The same salt always yields the same reference for an id.
type ReferenceGenerator struct {
	h *hashids.HashID
}

func NewReferenceGenerator(salt string) (*ReferenceGenerator, error) {
	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 6
	hd.Alphabet = referenceAlphabet

	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("order reference generator: %w", err)
	}
	return &ReferenceGenerator{h: h}, nil
}

func (g *ReferenceGenerator) Generate(id int64) (string, error) {
	enc, err := g.h.EncodeInt64([]int64{id})
	if err != nil {
		return "", fmt.Errorf("encode order reference: %w", err)
	}
	return "AS-" + enc, nil
}
