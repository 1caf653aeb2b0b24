package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "5511987654321", CleanPhone("5511987654321@c.us"))
	assert.Equal(t, "5511987654321", CleanPhone("+55 (11) 98765-4321"))
}

func TestPhoneCandidatesNinthDigit(t *testing.T) {
	// com nono dígito: também procura a forma sem ele
	c := PhoneCandidates("5511987654321@c.us")
	assert.Contains(t, c, "5511987654321")
	assert.Contains(t, c, "+5511987654321")
	assert.Contains(t, c, "551187654321")
	assert.Contains(t, c, "+551187654321")

	// sem nono dígito: também procura a forma com ele
	c = PhoneCandidates("551187654321")
	assert.Contains(t, c, "551187654321")
	assert.Contains(t, c, "5511987654321")
	assert.Contains(t, c, "+5511987654321")
}

func TestPhoneCandidatesForeignNumber(t *testing.T) {
	c := PhoneCandidates("14155552671")
	assert.Equal(t, []string{"14155552671", "+14155552671"}, c)
}
