package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	assert.Equal(t, 42, Int(int64(42)))
	assert.Equal(t, 42, Int(42))
	assert.Equal(t, 3, Int(3.9))
	assert.Equal(t, 7, Int(" 7 "))
	assert.Equal(t, 0, Int("seven"))
	assert.Equal(t, 0, Int(true))
}

func TestFloat(t *testing.T) {
	assert.Equal(t, 0.8, Float(0.8))
	assert.Equal(t, 1.0, Float(int64(1)))
	assert.Equal(t, 0.75, Float("0.75"))
	assert.Equal(t, 0.0, Float("high"))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true))
	assert.True(t, Bool("true"))
	assert.True(t, Bool("1"))
	assert.False(t, Bool("no"))
	assert.False(t, Bool(1))
}

func TestString(t *testing.T) {
	assert.Equal(t, "x", String("x"))
	assert.Equal(t, "5", String(int64(5)))
	assert.Equal(t, "true", String(true))
	assert.Equal(t, "", String([]string{"a"}))
}

func TestStringSlice(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, StringSlice([]any{"a", 1, "b"}))
	assert.Equal(t, []string{"a", "b"}, StringSlice([]string{"a", "b"}))
	assert.Equal(t, []string{"ops@example.com", "dev@example.com"}, StringSlice("ops@example.com, dev@example.com,"))
	assert.Nil(t, StringSlice(42))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "0.8", Format(0.8))
	assert.Equal(t, "a,b", Format([]any{"a", "b"}))
	assert.Equal(t, "", Format(nil))
}
