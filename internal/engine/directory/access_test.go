package directory

import (
	"testing"

	"reviewback/internal/platform/models"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name   string
		actor  Actor
		target *models.User
		want   bool
	}{
		{
			name:   "same tenant customer",
			actor:  Actor{ID: "usr_a", CompanyID: "cmp_1", IsAdmin: true},
			target: &models.User{ID: "usr_b", CompanyID: "cmp_1"},
			want:   true,
		},
		{
			name:   "cross tenant customer",
			actor:  Actor{ID: "usr_a", CompanyID: "cmp_1", IsAdmin: true},
			target: &models.User{ID: "usr_b", CompanyID: "cmp_2"},
			want:   false,
		},
		{
			name:   "admin target is off limits",
			actor:  Actor{ID: "usr_a", CompanyID: "cmp_1", IsAdmin: true},
			target: &models.User{ID: "usr_b", CompanyID: "cmp_1", IsAdmin: true},
			want:   false,
		},
		{
			name:   "super admin target is off limits",
			actor:  Actor{ID: "usr_a", CompanyID: "cmp_1", IsSuperAdmin: true},
			target: &models.User{ID: "usr_b", CompanyID: "cmp_1", IsSuperAdmin: true},
			want:   false,
		},
		{
			name:   "customer acting on self",
			actor:  Actor{ID: "usr_b", CompanyID: "cmp_1"},
			target: &models.User{ID: "usr_b", CompanyID: "cmp_1"},
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccess(tt.actor, tt.target); got != tt.want {
				t.Errorf("CanAccess() = %v, want %v", got, tt.want)
			}
		})
	}
}
