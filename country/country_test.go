package country_test

import (
	"testing"

	"github.com/purplemusic/channels/country"
	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "United States of America", country.Name("US"))
	assert.Equal(t, "United States of America", country.Name("us"))
	assert.Equal(t, "Serbia", country.Name("RS"))

	// unknown codes pass through
	assert.Equal(t, "XX", country.Name("XX"))

	assert.Equal(t, "", country.Name(""))
}
