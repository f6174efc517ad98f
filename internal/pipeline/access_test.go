package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type health struct{}
type speed struct{}

func TestAccess_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		a, b Access
		want bool
	}{
		{"empty", NewAccess(), NewAccess(), false},
		{"shared reads", NewAccess(ReadsResource[health]()), NewAccess(ReadsResource[health]()), false},
		{"read vs write", NewAccess(ReadsResource[health]()), NewAccess(WritesResource[health]()), true},
		{"write vs read", NewAccess(WritesComponent[speed]()), NewAccess(ReadsComponent[speed]()), true},
		{"write vs write", NewAccess(WritesComponent[speed]()), NewAccess(WritesComponent[speed]()), true},
		{"different types", NewAccess(WritesResource[health]()), NewAccess(WritesResource[speed]()), false},
		{"resource vs component namespace", NewAccess(WritesResource[health]()), NewAccess(WritesComponent[health]()), false},
		{"exclusive", NewAccess(Exclusive()), NewAccess(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Conflicts(tt.b))
			assert.Equal(t, tt.want, tt.b.Conflicts(tt.a), "conflicts must be symmetric")
		})
	}
}
