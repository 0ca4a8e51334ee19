package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestService_EmptyAllowlistAdmitsEveryone(t *testing.T) {
	svc := New(nil, 0)
	assert.True(t, svc.IsAllowed(1))
	assert.True(t, svc.IsAllowed(999))
	assert.False(t, svc.IsAdmin(0))
}

func TestService_Allowlist(t *testing.T) {
	svc := New([]int64{10, 20}, 99)
	assert.True(t, svc.IsAllowed(10))
	assert.True(t, svc.IsAllowed(20))
	assert.True(t, svc.IsAllowed(99), "admin is always allowed")
	assert.False(t, svc.IsAllowed(30))

	assert.True(t, svc.IsAdmin(99))
	assert.False(t, svc.IsAdmin(10))
}

func TestService_Nil(t *testing.T) {
	var svc *Service
	assert.True(t, svc.IsAllowed(5))
	assert.False(t, svc.IsAdmin(5))
}
