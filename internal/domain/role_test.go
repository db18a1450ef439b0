package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("admin"))
	assert.True(t, ValidRole("manager"))
	assert.True(t, ValidRole("employee"))
	assert.False(t, ValidRole("Admin"))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("superuser"))
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, "/dashboard/admin/", LandingPath(RoleAdmin))
	assert.Equal(t, "/dashboard/manager/", LandingPath(RoleManager))
	assert.Equal(t, "/dashboard/employee/", LandingPath(RoleEmployee))
	assert.Equal(t, "/auth/login", LandingPath(Role("ghost")))
}
