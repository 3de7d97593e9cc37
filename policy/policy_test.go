package policy_test

import (
	"testing"

	"sumula-system/policy"

	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		name     string
		snap     policy.Snapshot
		resource string
		action   string
		want     bool
	}{
		{
			name: "event admin is always allowed",
			snap: policy.Snapshot{
				UserEmail:       "admin@evento.com",
				EventAdminEmail: "admin@evento.com",
			},
			resource: policy.ResourceSumula,
			action:   policy.ActionDelete,
			want:     true,
		},
		{
			name: "matching grant allows",
			snap: policy.Snapshot{
				UserEmail:       "monitor@evento.com",
				EventAdminEmail: "admin@evento.com",
				Grants: []policy.Grant{
					{Resource: policy.ResourceSumula, Action: policy.ActionChange},
				},
			},
			resource: policy.ResourceSumula,
			action:   policy.ActionChange,
			want:     true,
		},
		{
			name: "grant on another resource does not leak",
			snap: policy.Snapshot{
				UserEmail:       "monitor@evento.com",
				EventAdminEmail: "admin@evento.com",
				Grants: []policy.Grant{
					{Resource: policy.ResourcePlayer, Action: policy.ActionChange},
				},
			},
			resource: policy.ResourceSumula,
			action:   policy.ActionChange,
			want:     false,
		},
		{
			name: "grant on another action does not leak",
			snap: policy.Snapshot{
				UserEmail:       "monitor@evento.com",
				EventAdminEmail: "admin@evento.com",
				Grants: []policy.Grant{
					{Resource: policy.ResourceSumula, Action: policy.ActionView},
				},
			},
			resource: policy.ResourceSumula,
			action:   policy.ActionChange,
			want:     false,
		},
		{
			name: "no grants denies",
			snap: policy.Snapshot{
				UserEmail:       "monitor@evento.com",
				EventAdminEmail: "admin@evento.com",
			},
			resource: policy.ResourceSumula,
			action:   policy.ActionView,
			want:     false,
		},
		{
			name: "empty user email never matches admin",
			snap: policy.Snapshot{
				UserEmail:       "",
				EventAdminEmail: "",
			},
			resource: policy.ResourceSumula,
			action:   policy.ActionView,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allows(tt.snap, tt.resource, tt.action))
		})
	}
}

func TestCanEditSumula(t *testing.T) {
	admin := policy.Snapshot{UserEmail: "admin@evento.com", EventAdminEmail: "admin@evento.com"}
	monitor := policy.Snapshot{UserEmail: "monitor@evento.com", EventAdminEmail: "admin@evento.com"}

	tests := []struct {
		name   string
		snap   policy.Snapshot
		active bool
		staff  *policy.StaffInfo
		want   bool
	}{
		{
			name:   "open sumula editable by any staff",
			snap:   monitor,
			active: true,
			staff:  &policy.StaffInfo{IsManager: false},
			want:   true,
		},
		{
			name:   "closed sumula blocked for plain monitor",
			snap:   monitor,
			active: false,
			staff:  &policy.StaffInfo{IsManager: false},
			want:   false,
		},
		{
			name:   "closed sumula editable by manager",
			snap:   monitor,
			active: false,
			staff:  &policy.StaffInfo{IsManager: true},
			want:   true,
		},
		{
			name:   "closed sumula editable by admin without staff record",
			snap:   admin,
			active: false,
			staff:  nil,
			want:   true,
		},
		{
			name:   "missing staff record treated as non-manager",
			snap:   monitor,
			active: false,
			staff:  nil,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.CanEditSumula(tt.snap, tt.active, tt.staff))
		})
	}
}
