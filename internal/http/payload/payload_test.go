package payload_test

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/expensely/internal/http/payload"
)

func decode(body string) (payload.Object, error) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	return payload.Decode(httptest.NewRecorder(), req)
}

func TestDecode_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"Empty":       "",
		"Malformed":   "{amount:",
		"EmptyObject": "{}",
		"Array":       `[{"amount": 1}]`,
		"Scalar":      `"hello"`,
		"Null":        "null",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decode(body)
			assert.ErrorIs(t, err, payload.ErrJSONRequired)
		})
	}
}

func TestObject_Fields(t *testing.T) {
	obj, err := decode(`{"a": 12.5, "b": " 7 ", "c": "x", "d": null, "e": true, "f": "NaN"}`)
	require.NoError(t, err)

	f, ok := obj.Float("a")
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	f, ok = obj.Float("b")
	assert.True(t, ok)
	assert.Equal(t, 7.0, f)

	_, ok = obj.Float("c")
	assert.False(t, ok)

	_, ok = obj.Float("e")
	assert.False(t, ok)

	f, ok = obj.Float("f")
	assert.True(t, ok)
	assert.True(t, math.IsNaN(f))

	assert.False(t, obj.Has("d"))
	assert.False(t, obj.Has("missing"))
	assert.True(t, obj.Has("e"))

	s, ok := obj.String("c")
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	_, ok = obj.String("a")
	assert.False(t, ok)

	_, ok = obj.String("d")
	assert.False(t, ok)
}
