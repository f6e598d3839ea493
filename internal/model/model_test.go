package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeSpecs(t *testing.T) {
	specs := DecodeSpecs([]byte(`{"Display":"AMOLED","Battery":"40h"}`))
	assert.Equal(t, SpecMap{"Display": "AMOLED", "Battery": "40h"}, specs)
}

func TestDecodeSpecs_Tolerant(t *testing.T) {
	// NULL columns, empty strings, and malformed JSON all decode to an
	// empty map so listings never fail on one bad row.
	assert.Equal(t, SpecMap{}, DecodeSpecs(nil))
	assert.Equal(t, SpecMap{}, DecodeSpecs([]byte("")))
	assert.Equal(t, SpecMap{}, DecodeSpecs([]byte("{broken")))
	assert.Equal(t, SpecMap{}, DecodeSpecs([]byte("null")))
	assert.Equal(t, SpecMap{}, DecodeSpecs([]byte(`["not","a","map"]`)))
}

func TestDecodeOffers(t *testing.T) {
	offers := DecodeOffers([]byte(`["10% off","Free shipping"]`))
	assert.Equal(t, StringList{"10% off", "Free shipping"}, offers)
}

func TestDecodeOffers_Tolerant(t *testing.T) {
	assert.Equal(t, StringList{}, DecodeOffers(nil))
	assert.Equal(t, StringList{}, DecodeOffers([]byte("")))
	assert.Equal(t, StringList{}, DecodeOffers([]byte("[broken")))
	assert.Equal(t, StringList{}, DecodeOffers([]byte("null")))
	assert.Equal(t, StringList{}, DecodeOffers([]byte(`{"not":"a list"}`)))
}
