package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDefaultsCategoryAndComponent(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("test error")
	ee := New(err).Build()

	require.Equal(t, "test error", ee.Err.Error())
	assert.NotEmpty(t, ee.GetComponent())
}

func TestBuildHonorsExplicitComponentAndCategory(t *testing.T) {
	t.Parallel()

	ee := Newf("window index %d out of range", 99).
		Component("qrst").
		Category(CategoryInvalidParameter).
		Context("index", 99).
		Build()

	assert.Equal(t, "qrst", ee.GetComponent())
	assert.Equal(t, CategoryInvalidParameter, ee.Category)
	assert.Equal(t, 99, ee.GetContext()["index"])
}

func TestInvalidParameterError(t *testing.T) {
	t.Parallel()

	ee := InvalidParameterError("N must be >= 8")

	assert.Equal(t, "qrst", ee.GetComponent())
	assert.Equal(t, CategoryInvalidParameter, ee.Category)
	assert.True(t, IsCategory(ee, CategoryInvalidParameter))
}

func TestDetectCategoryHeuristics(t *testing.T) {
	t.Parallel()

	cases := []struct {
		msg      string
		expected ErrorCategory
	}{
		{"compressed stream truncated mid-record", CategoryTruncatedRecord},
		{"octave 17 out of range", CategoryUnknownOctaveOrChannel},
		{"invalid parameter: numOctaves must be in [1,15]", CategoryInvalidParameter},
		{"failed to open wav file", CategoryFileIO},
		{"listen tcp: address already in use", CategoryNetwork},
	}

	for _, tc := range cases {
		ee := New(fmt.Errorf("%s", tc.msg)).Build()
		assert.Equal(t, tc.expected, ee.Category, "message: %s", tc.msg)
	}
}

func TestFileErrorContext(t *testing.T) {
	t.Parallel()

	ee := FileError(fmt.Errorf("short read"), "/tmp/in.raw", 2048)

	assert.Equal(t, CategoryFileIO, ee.Category)
	assert.Equal(t, "absolute-path", ee.GetContext()["file_type"])
	assert.Equal(t, "raw", ee.GetContext()["file_extension"])
	assert.Equal(t, "small", ee.GetContext()["file_size_category"])
}

func TestIsCategoryAndUnwrap(t *testing.T) {
	t.Parallel()

	base := fmt.Errorf("boom")
	ee := New(base).Category(CategoryResynthesis).Build()

	assert.True(t, IsCategory(ee, CategoryResynthesis))
	assert.False(t, IsCategory(ee, CategoryAudioIO))
	assert.Equal(t, base, Unwrap(ee))
}
